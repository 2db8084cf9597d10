package httpclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/restkit/logger"
	"github.com/kbukum/restkit/observability"
	"github.com/kbukum/restkit/resilience"
)

// Client executes endpoints. It is safe for concurrent use.
type Client struct {
	cfg          Config
	transport    Transport
	session      *Session
	connectivity Connectivity
	observer     Observer
	observerSet  bool
	decoder      Decoder
	dispatcher   Dispatcher
	log          *logger.Logger

	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	tracer         trace.Tracer
	metrics        *observability.ClientMetrics
}

// Option configures a Client.
type Option func(*Client)

// WithTransport replaces the default Session.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithConnectivity sets the reachability check consulted before each call.
func WithConnectivity(conn Connectivity) Option {
	return func(c *Client) { c.connectivity = conn }
}

// WithObserver replaces the default LogObserver. Pass nil to observe nothing.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
		c.observerSet = true
	}
}

// WithDecoder replaces JSONDecoder.
func WithDecoder(d Decoder) Option {
	return func(c *Client) { c.decoder = d }
}

// WithDispatcher sets where Go callbacks and Stream values are delivered.
func WithDispatcher(d Dispatcher) Option {
	return func(c *Client) { c.dispatcher = d }
}

// WithLogger sets the client logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithTracerProvider sets the provider for call spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) { c.tracerProvider = tp }
}

// WithMeterProvider sets the provider for call metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *Client) { c.meterProvider = mp }
}

// New creates a client. Without WithTransport it opens a Session that
// Close releases.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:          cfg,
		connectivity: AlwaysConnected,
		decoder:      JSONDecoder{},
		dispatcher:   DirectDispatcher,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.log == nil {
		c.log = logger.Get(cfg.Name)
	}
	if c.transport == nil {
		s, err := NewSession(cfg.session())
		if err != nil {
			return nil, err
		}
		c.transport = s
		c.session = s
	}
	if !c.observerSet && cfg.LoggingEnabled() {
		c.observer = NewLogObserver(c.log)
	}
	if c.connectivity == nil {
		c.connectivity = AlwaysConnected
	}
	if c.decoder == nil {
		c.decoder = JSONDecoder{}
	}
	if c.dispatcher == nil {
		c.dispatcher = DirectDispatcher
	}

	c.tracer = observability.Tracer(c.tracerProvider)
	metrics, err := observability.NewClientMetrics(c.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("httpclient: metrics: %w", err)
	}
	c.metrics = metrics

	c.log.Debug("client created", logger.Fields(
		"default_host", cfg.DefaultHost,
		"timeout", cfg.Timeout.String(),
		"retry_idempotent_only", cfg.RetryIdempotentOnly,
	))
	return c, nil
}

// Config returns the effective configuration.
func (c *Client) Config() Config { return c.cfg }

// Connected reports the connectivity check.
func (c *Client) Connected() bool { return c.connectivity.Connected() }

// Close releases the session opened by New. A transport passed with
// WithTransport is left to its owner.
func (c *Client) Close() error {
	if c.session != nil {
		c.session.Close()
	}
	return nil
}

// resolve fills defaults from the config into ep.
func (c *Client) resolve(ep Endpoint) Endpoint {
	if ep.Host == "" {
		ep.Host = c.cfg.DefaultHost
	}
	if ep.Scheme == "" {
		ep.Scheme = c.cfg.DefaultScheme
	}
	if len(c.cfg.DefaultHeaders) > 0 {
		for field, value := range c.cfg.DefaultHeaders {
			if _, ok := ep.Headers[field]; !ok {
				ep = ep.WithHeader(field, value)
			}
		}
	}
	return ep
}

// execute runs the whole pipeline once: connectivity, build, round trip
// with a single network retry, classify, decode. Every failure leaves as
// an *Error inside the envelope.
func execute[T any](ctx context.Context, c *Client, ep Endpoint) Envelope[T] {
	start := time.Now()
	ep = c.resolve(ep)
	verb := ep.Method.Verb()

	ctx, span := c.tracer.Start(ctx, "restkit.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.request.method", verb)),
	)
	defer span.End()

	env := Envelope[T]{}
	finish := func(err error) Envelope[T] {
		env.Duration = time.Since(start)
		if err != nil {
			e := ToError(err)
			env.Result = Fail[T](e)
			span.RecordError(e)
			span.SetStatus(codes.Error, e.Error())
		}
		c.metrics.RecordCall(ctx, verb, outcome(env.Result.err), env.Duration)
		return env
	}

	if !c.connectivity.Connected() {
		return finish(NewReasonError(ReasonNoConnectivity))
	}

	req, err := Build(ep)
	if err != nil {
		return finish(err)
	}
	env.Request = req
	span.SetAttributes(
		attribute.String("url.full", req.URL),
		attribute.String("restkit.request_id", req.ID),
	)

	raw, attempts, err := c.roundTrip(ctx, req, start)
	env.Attempt = attempts
	if err != nil {
		return finish(err)
	}

	category := Classify(raw.StatusCode)
	env.StatusCode = raw.StatusCode
	env.Headers = raw.Headers
	env.Data = raw.Body
	span.SetAttributes(
		attribute.Int("http.response.status_code", raw.StatusCode),
		attribute.String("restkit.category", category.String()),
	)
	if fail := category.failure(); fail != nil {
		return finish(fail)
	}

	var v T
	if err := c.decoder.Decode(raw.Body, &v); err != nil {
		return finish(decodeFailure(err))
	}
	env.Result = Ok(v)
	span.SetStatus(codes.Ok, "")
	return finish(nil)
}

// roundTrip sends req through the transport, repeating it once after a
// network failure. Each attempt is observed before it is interpreted.
func (c *Client) roundTrip(ctx context.Context, req *PreparedRequest, start time.Time) (*RawResponse, int, error) {
	attempts := 0
	policy := resilience.Once(func(err error) bool {
		return IsNetwork(err) && c.cfg.retryable(req.Method)
	})
	policy.OnRetry = func(attempt int, err error, _ time.Duration) {
		c.log.Debug("retrying request", logger.Fields(
			logger.FieldRequestID, req.ID,
			logger.FieldMethod, req.Method,
			logger.FieldAttempt, attempt,
			logger.FieldError, err.Error(),
		))
		c.metrics.RecordRetry(ctx, req.Method)
	}

	raw, err := resilience.Retry(ctx, policy, func(attempt int) (*RawResponse, error) {
		attempts = attempt
		raw, err := c.transport.RoundTrip(ctx, req)
		switch {
		case err != nil:
			err = NewNetworkError(err)
		case raw == nil:
			err = NewReasonError(ReasonInvalidResponse)
		}

		obs := Envelope[[]byte]{Request: req, Attempt: attempt, Duration: time.Since(start)}
		if err != nil {
			obs.Result = Fail[[]byte](err)
		} else {
			obs.StatusCode = raw.StatusCode
			obs.Headers = raw.Headers
			obs.Data = raw.Body
			obs.Result = Ok(raw.Body)
		}
		c.observe(ctx, obs)
		return raw, err
	})
	return raw, attempts, err
}

// observe hands env to the observer. A panicking observer is logged and
// otherwise ignored.
func (c *Client) observe(ctx context.Context, env Envelope[[]byte]) {
	if c.observer == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.log.Warn("observer panicked", logger.Fields(
				"panic", fmt.Sprint(r),
				logger.FieldRequestID, env.Request.ID,
			))
		}
	}()
	c.observer.Observe(ctx, env)
}

// outcome is the low-cardinality metric label for a call result.
func outcome(err *Error) string {
	if err == nil {
		return "success"
	}
	if err.Kind != KindReason {
		return err.Kind.String()
	}
	switch {
	case err.Reason == ReasonServerError:
		return "server_error"
	case err.Reason == ReasonNoConnectivity:
		return "no_connectivity"
	case strings.HasPrefix(err.Reason, "decode: "):
		return "decode"
	default:
		return "error"
	}
}
