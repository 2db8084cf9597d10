package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kbukum/restkit/component"
	"github.com/kbukum/restkit/httpclient"
)

// Step is one scripted answer of a FakeTransport: either a response or a
// transport error.
type Step struct {
	Status  int
	Headers map[string]string
	Body    []byte
	Err     error
}

// Respond scripts a response.
func Respond(status int, body string) Step {
	return Step{Status: status, Body: []byte(body)}
}

// Fail scripts a transport failure.
func Fail(err error) Step {
	return Step{Err: err}
}

// ErrConnectionReset is a stand-in for a dropped connection.
var ErrConnectionReset = errors.New("connection reset by peer")

// FakeTransport answers requests from a script, in order. Once the script
// is exhausted the last step repeats. It records every request it sees.
type FakeTransport struct {
	mu       sync.Mutex
	script   []Step
	next     int
	requests []*httpclient.PreparedRequest
	started  bool
}

var _ httpclient.Transport = (*FakeTransport)(nil)
var _ TestComponent = (*FakeTransport)(nil)

// NewFakeTransport creates a transport that plays steps.
func NewFakeTransport(steps ...Step) *FakeTransport {
	return &FakeTransport{script: steps}
}

func (f *FakeTransport) RoundTrip(ctx context.Context, req *httpclient.PreparedRequest) (*httpclient.RawResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	if len(f.script) == 0 {
		f.mu.Unlock()
		return nil, fmt.Errorf("testutil: no scripted response for %s %s", req.Method, req.URL)
	}
	step := f.script[f.next]
	if f.next < len(f.script)-1 {
		f.next++
	}
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if step.Err != nil {
		return nil, step.Err
	}
	return &httpclient.RawResponse{
		StatusCode: step.Status,
		Headers:    step.Headers,
		Body:       step.Body,
	}, nil
}

// Calls returns how many requests reached the transport.
func (f *FakeTransport) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// Requests returns the recorded requests in arrival order.
func (f *FakeTransport) Requests() []*httpclient.PreparedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*httpclient.PreparedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *FakeTransport) Name() string { return "fake-transport" }

func (f *FakeTransport) Start(context.Context) error {
	f.mu.Lock()
	f.started = true
	f.mu.Unlock()
	return nil
}

func (f *FakeTransport) Stop(context.Context) error {
	f.mu.Lock()
	f.started = false
	f.mu.Unlock()
	return nil
}

func (f *FakeTransport) Health(context.Context) component.Health {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := component.Health{Name: f.Name(), Status: component.StatusHealthy}
	if !f.started {
		h.Status = component.StatusUnhealthy
	}
	return h
}

// Reset rewinds the script and forgets recorded requests.
func (f *FakeTransport) Reset(context.Context) error {
	f.mu.Lock()
	f.next = 0
	f.requests = nil
	f.mu.Unlock()
	return nil
}

type transportSnapshot struct {
	next     int
	requests []*httpclient.PreparedRequest
}

func (f *FakeTransport) Snapshot(context.Context) (interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reqs := make([]*httpclient.PreparedRequest, len(f.requests))
	copy(reqs, f.requests)
	return transportSnapshot{next: f.next, requests: reqs}, nil
}

func (f *FakeTransport) Restore(_ context.Context, snapshot interface{}) error {
	s, ok := snapshot.(transportSnapshot)
	if !ok {
		return fmt.Errorf("testutil: unexpected snapshot type %T", snapshot)
	}
	f.mu.Lock()
	f.next = s.next
	f.requests = s.requests
	f.mu.Unlock()
	return nil
}
