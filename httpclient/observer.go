package httpclient

import (
	"context"
	"net/url"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/kbukum/restkit/logger"
)

// Observer receives one envelope per transport attempt, before the client
// interprets the response. The envelope's Result holds the raw body on a
// response and the network error on a transport failure.
type Observer interface {
	Observe(ctx context.Context, env Envelope[[]byte])
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, env Envelope[[]byte])

func (f ObserverFunc) Observe(ctx context.Context, env Envelope[[]byte]) { f(ctx, env) }

var loggingEnabled atomic.Bool

func init() { loggingEnabled.Store(true) }

// SetEnabled turns request logging on or off for every LogObserver.
func SetEnabled(enabled bool) { loggingEnabled.Store(enabled) }

// IsLoggingEnabled reports the SetEnabled switch.
func IsLoggingEnabled() bool { return loggingEnabled.Load() }

// LogObserver writes each attempt as one structured log record.
type LogObserver struct {
	log *logger.Logger
}

// NewLogObserver creates an observer logging through log.
func NewLogObserver(log *logger.Logger) *LogObserver {
	if log == nil {
		log = logger.Get("httpclient")
	}
	return &LogObserver{log: log}
}

func (o *LogObserver) Observe(_ context.Context, env Envelope[[]byte]) {
	if !IsLoggingEnabled() {
		return
	}

	status, hasStatus := env.Status()
	ok := hasStatus && status >= 200 && status < 300 && env.Err() == nil
	level := zerolog.ErrorLevel
	if ok {
		level = zerolog.InfoLevel
	}
	if !o.log.Enabled(level) {
		return
	}

	fields := map[string]interface{}{
		logger.FieldAttempt: env.Attempt,
	}
	msg := "request"
	if req := env.Request; req != nil {
		fields[logger.FieldRequestID] = req.ID
		fields[logger.FieldMethod] = req.Method
		fields[logger.FieldURL] = displayURL(req.URL)
		msg = req.Method + " " + displayURL(req.URL)
		if len(req.Header) > 0 {
			headers := make(map[string]string, len(req.Header))
			for k := range req.Header {
				headers[k] = redactHeader(req.Header.Get(k))
			}
			fields["headers"] = headers
		}
		if len(req.Body) > 0 && utf8.Valid(req.Body) {
			fields["request_body"] = string(req.Body)
		}
	}

	if hasStatus {
		fields[logger.FieldStatus] = status
		fields["ok"] = status >= 200 && status < 300
	}
	if len(env.Data) > 0 && utf8.Valid(env.Data) {
		fields["payload"] = compactPayload(env.Data)
	}
	if err := env.Err(); err != nil {
		fields[logger.FieldError] = err.Error()
	}
	if env.Duration > 0 {
		fields = logger.MergeWithDuration(fields, env.Duration)
	}

	if ok {
		o.log.Info(msg, fields)
		return
	}
	o.log.Error(msg, fields)
}

// displayURL percent-decodes u and drops a trailing "?".
func displayURL(u string) string {
	if decoded, err := url.PathUnescape(u); err == nil {
		u = decoded
	}
	return strings.TrimSuffix(u, "?")
}

// redactHeader keeps the first 15 characters of a bearer credential.
func redactHeader(value string) string {
	if !strings.HasPrefix(value, "Bearer") {
		return value
	}
	if len(value) > 15 {
		value = value[:15]
	}
	return value + "..."
}

func compactPayload(data []byte) string {
	if gjson.ValidBytes(data) {
		return gjson.GetBytes(data, "@ugly").Raw
	}
	return string(data)
}
