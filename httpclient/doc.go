// Package httpclient executes declaratively described REST endpoints.
//
// An Endpoint is plain data: scheme, host, path, ordered query items, a
// method (optionally a multipart upload) and a closed set of headers. The
// Client turns it into a PreparedRequest, sends it through a Transport,
// classifies the status code, decodes the body into the caller's type and
// reports every attempt to an Observer. Every failure surfaces as an *Error
// of one of five kinds: invalid URL, unknown, unauthorized, network, or a
// free-text reason.
//
// # Calling conventions
//
// The same pipeline is exposed three ways:
//
//	user, err := httpclient.Do[User](ctx, client, ep)
//
//	httpclient.Go(ctx, client, ep, func(r httpclient.Result[User]) { ... })
//
//	ch, err := httpclient.Stream[User](client, ep).Subscribe(ctx)
//
// Callbacks and stream values are delivered through the client's
// Dispatcher, after the attempt has been handed to the Observer.
//
// # Retry
//
// A network failure is retried once, immediately. Unauthorized, client and
// server error statuses and decode failures are never retried.
package httpclient
