package testutil_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kbukum/restkit/component"
	"github.com/kbukum/restkit/httpclient"
	"github.com/kbukum/restkit/testutil"
)

func request() *httpclient.PreparedRequest {
	return &httpclient.PreparedRequest{Method: "GET", URL: "https://example.com/x"}
}

func TestFakeTransport_PlaysScriptThenRepeatsLast(t *testing.T) {
	ft := testutil.NewFakeTransport(
		testutil.Fail(testutil.ErrConnectionReset),
		testutil.Respond(200, `{"ok":true}`),
	)
	ctx := context.Background()

	if _, err := ft.RoundTrip(ctx, request()); !errors.Is(err, testutil.ErrConnectionReset) {
		t.Fatalf("first call error = %v, want connection reset", err)
	}
	for i := 0; i < 2; i++ {
		resp, err := ft.RoundTrip(ctx, request())
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i+2, err)
		}
		if resp.StatusCode != 200 || string(resp.Body) != `{"ok":true}` {
			t.Errorf("call %d: got %d %s", i+2, resp.StatusCode, resp.Body)
		}
	}
	if ft.Calls() != 3 {
		t.Errorf("Calls() = %d, want 3", ft.Calls())
	}
}

func TestFakeTransport_EmptyScript(t *testing.T) {
	ft := testutil.NewFakeTransport()
	if _, err := ft.RoundTrip(context.Background(), request()); err == nil {
		t.Fatal("expected error from empty script")
	}
}

func TestFakeTransport_Lifecycle(t *testing.T) {
	ft := testutil.NewFakeTransport(testutil.Respond(204, ""), testutil.Respond(500, ""))

	if h := ft.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("health before start = %s", h.Status)
	}
	testutil.T(t).Setup(ft)
	if h := ft.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("health after start = %s", h.Status)
	}

	ctx := context.Background()
	_, _ = ft.RoundTrip(ctx, request())
	snap := testutil.T(t).Snapshot(ft)
	_, _ = ft.RoundTrip(ctx, request())

	testutil.T(t).Restore(ft, snap)
	if ft.Calls() != 1 {
		t.Errorf("Calls() after restore = %d, want 1", ft.Calls())
	}
	resp, _ := ft.RoundTrip(ctx, request())
	if resp.StatusCode != 500 {
		t.Errorf("status after restore = %d, want 500", resp.StatusCode)
	}

	testutil.T(t).Reset(ft)
	if ft.Calls() != 0 {
		t.Errorf("Calls() after reset = %d", ft.Calls())
	}
	resp, _ = ft.RoundTrip(ctx, request())
	if resp.StatusCode != 204 {
		t.Errorf("status after reset = %d, want 204", resp.StatusCode)
	}
}

func TestFakeTransport_RestoreRejectsForeignSnapshot(t *testing.T) {
	ft := testutil.NewFakeTransport()
	if err := ft.Restore(context.Background(), "nope"); err == nil {
		t.Error("expected error for foreign snapshot")
	}
}

func TestSetup_ReturnsCleanup(t *testing.T) {
	ft := testutil.NewFakeTransport()
	cleanup, err := testutil.Setup(ft)
	if err != nil {
		t.Fatalf("Setup() failed: %v", err)
	}
	if err := cleanup(); err != nil {
		t.Fatalf("cleanup() failed: %v", err)
	}
	if h := ft.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("health after cleanup = %s", h.Status)
	}
}

func TestRecordingObserver(t *testing.T) {
	var hooked int
	obs := &testutil.RecordingObserver{OnObserve: func(httpclient.Envelope[[]byte]) { hooked++ }}
	obs.Observe(context.Background(), httpclient.Envelope[[]byte]{StatusCode: 200})
	obs.Observe(context.Background(), httpclient.Envelope[[]byte]{StatusCode: 503})

	got := obs.Envelopes()
	if len(got) != 2 || got[0].StatusCode != 200 || got[1].StatusCode != 503 {
		t.Errorf("unexpected envelopes: %+v", got)
	}
	if hooked != 2 {
		t.Errorf("hook ran %d times, want 2", hooked)
	}
}

func TestConnectivity(t *testing.T) {
	c := testutil.Offline()
	if c.Connected() {
		t.Error("Offline() should report disconnected")
	}
	c.Set(true)
	if !c.Connected() {
		t.Error("Set(true) should report connected")
	}
	if !testutil.Online().Connected() {
		t.Error("Online() should report connected")
	}
}
