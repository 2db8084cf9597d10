package testutil

import (
	"context"
	"sync"

	"github.com/kbukum/restkit/httpclient"
)

// RecordingObserver keeps every envelope it is given.
type RecordingObserver struct {
	mu        sync.Mutex
	envelopes []httpclient.Envelope[[]byte]
	// OnObserve, when set, runs after the envelope is recorded.
	OnObserve func(httpclient.Envelope[[]byte])
}

var _ httpclient.Observer = (*RecordingObserver)(nil)

func (r *RecordingObserver) Observe(_ context.Context, env httpclient.Envelope[[]byte]) {
	r.mu.Lock()
	r.envelopes = append(r.envelopes, env)
	hook := r.OnObserve
	r.mu.Unlock()
	if hook != nil {
		hook(env)
	}
}

// Envelopes returns the observed envelopes in order.
func (r *RecordingObserver) Envelopes() []httpclient.Envelope[[]byte] {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]httpclient.Envelope[[]byte], len(r.envelopes))
	copy(out, r.envelopes)
	return out
}

// Connectivity is a switchable connectivity check.
type Connectivity struct {
	mu sync.RWMutex
	up bool
}

var _ httpclient.Connectivity = (*Connectivity)(nil)

// Online returns a check that reports connected until Set(false).
func Online() *Connectivity { return &Connectivity{up: true} }

// Offline returns a check that reports disconnected until Set(true).
func Offline() *Connectivity { return &Connectivity{} }

func (c *Connectivity) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.up
}

// Set changes the reported state.
func (c *Connectivity) Set(up bool) {
	c.mu.Lock()
	c.up = up
	c.mu.Unlock()
}
