package httpclient

import (
	"context"
	"sync/atomic"
)

// ErrAlreadySubscribed is returned by a second Publisher.Subscribe.
var ErrAlreadySubscribed = &Error{Kind: KindReason, Reason: "already subscribed"}

// Do executes ep and decodes the body into T.
func Do[T any](ctx context.Context, c *Client, ep Endpoint) (T, error) {
	return execute[T](ctx, c, ep).Result.Get()
}

// DoEnvelope executes ep and returns the request, raw response and result
// together.
func DoEnvelope[T any](ctx context.Context, c *Client, ep Endpoint) Envelope[T] {
	return execute[T](ctx, c, ep)
}

// Go executes ep in the background and calls completion exactly once
// through the client's Dispatcher.
func Go[T any](ctx context.Context, c *Client, ep Endpoint, completion func(Result[T])) {
	go func() {
		res := execute[T](ctx, c, ep).Result
		if completion == nil {
			return
		}
		c.dispatcher.Dispatch(func() { completion(res) })
	}()
}

// Publisher is a cold, single-subscription stream of one result. Nothing
// is sent until Subscribe.
type Publisher[T any] struct {
	client     *Client
	endpoint   Endpoint
	subscribed atomic.Bool
}

// Stream returns a publisher for ep.
func Stream[T any](c *Client, ep Endpoint) *Publisher[T] {
	return &Publisher[T]{client: c, endpoint: ep}
}

// Subscribe starts the call. The channel yields exactly one result and is
// then closed.
func (p *Publisher[T]) Subscribe(ctx context.Context) (<-chan Result[T], error) {
	if !p.subscribed.CompareAndSwap(false, true) {
		return nil, ErrAlreadySubscribed
	}
	ch := make(chan Result[T], 1)
	go func() {
		res := execute[T](ctx, p.client, p.endpoint).Result
		p.client.dispatcher.Dispatch(func() {
			ch <- res
			close(ch)
		})
	}()
	return ch, nil
}
