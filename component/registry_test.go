package component

import (
	"context"
	"errors"
	"testing"

	"github.com/kbukum/restkit/logger"
)

type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	order    *[]string
}

func (m *mockComponent) Name() string { return m.name }

func (m *mockComponent) Start(context.Context) error {
	if m.order != nil {
		*m.order = append(*m.order, "start:"+m.name)
	}
	return m.startErr
}

func (m *mockComponent) Stop(context.Context) error {
	if m.order != nil {
		*m.order = append(*m.order, "stop:"+m.name)
	}
	return m.stopErr
}

func (m *mockComponent) Health(context.Context) Health {
	return Health{Name: m.name, Status: StatusHealthy}
}

func TestRegistry_StartStopOrder(t *testing.T) {
	var order []string
	r := NewRegistry(logger.Nop())
	for _, name := range []string{"session", "client"} {
		if err := r.Register(&mockComponent{name: name, order: &order}); err != nil {
			t.Fatalf("Register(%s): %v", name, err)
		}
	}

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll: %v", err)
	}

	want := []string{"start:session", "start:client", "stop:client", "stop:session"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestRegistry_DuplicateName(t *testing.T) {
	r := NewRegistry(logger.Nop())
	_ = r.Register(&mockComponent{name: "session"})
	if err := r.Register(&mockComponent{name: "session"}); err == nil {
		t.Error("expected duplicate registration error")
	}
}

func TestRegistry_StartFailureStopsOnlyStarted(t *testing.T) {
	var order []string
	r := NewRegistry(logger.Nop())
	_ = r.Register(&mockComponent{name: "a", order: &order})
	_ = r.Register(&mockComponent{name: "b", order: &order, startErr: errors.New("boom")})

	if err := r.StartAll(context.Background()); err == nil {
		t.Fatal("expected start error")
	}
	order = nil
	_ = r.StopAll(context.Background())
	if len(order) != 1 || order[0] != "stop:a" {
		t.Errorf("stop order = %v", order)
	}
}

func TestRegistry_StopErrorsJoined(t *testing.T) {
	r := NewRegistry(logger.Nop())
	stopErr := errors.New("close failed")
	_ = r.Register(&mockComponent{name: "a", stopErr: stopErr})
	_ = r.StartAll(context.Background())

	if err := r.StopAll(context.Background()); !errors.Is(err, stopErr) {
		t.Errorf("expected joined stop error, got %v", err)
	}
}

func TestRegistry_HealthAndGet(t *testing.T) {
	r := NewRegistry(logger.Nop())
	_ = r.Register(&mockComponent{name: "a"})

	if r.Get("a") == nil || r.Get("missing") != nil {
		t.Error("unexpected Get result")
	}
	h := r.HealthAll(context.Background())
	if len(h) != 1 || h[0].Status != StatusHealthy {
		t.Errorf("health = %v", h)
	}
}
