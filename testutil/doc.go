// Package testutil provides fakes for testing code built on httpclient.
//
// FakeTransport plays a script of responses and transport errors and
// records every request; RecordingObserver collects the envelopes the
// client reports; Connectivity is a switchable reachability check.
//
//	transport := testutil.NewFakeTransport(
//	    testutil.Fail(testutil.ErrConnectionReset),
//	    testutil.Respond(200, `{"id":1}`),
//	)
//	testutil.T(t).Setup(transport)
//	client, _ := httpclient.New(cfg, httpclient.WithTransport(transport))
//
// The lifecycle helpers (Setup, T(t).Setup, Reset, Snapshot, Restore)
// work with any TestComponent.
package testutil
