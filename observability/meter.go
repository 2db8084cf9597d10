package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/restkit/logger"
	"github.com/kbukum/restkit/version"
)

// MeterConfig configures the OTLP metric exporter.
type MeterConfig struct {
	ServiceName    string        `yaml:"service_name" mapstructure:"service_name"`
	ServiceVersion string        `yaml:"service_version" mapstructure:"service_version"`
	Environment    string        `yaml:"environment" mapstructure:"environment"`
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure       bool          `yaml:"insecure" mapstructure:"insecure"`
	Interval       time.Duration `yaml:"interval" mapstructure:"interval"`
}

// DefaultMeterConfig returns development defaults.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.Short(),
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter creates an OTLP/HTTP meter provider and installs it globally.
// The caller must Shutdown it on exit.
func InitMeter(ctx context.Context, cfg MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Get("observability").Info("meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))
	return mp, nil
}

// ClientMetrics holds the instruments recorded per client call.
type ClientMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
	retries  metric.Int64Counter
}

// NewClientMetrics creates the client instruments on mp, or on the global
// provider when mp is nil.
func NewClientMetrics(mp metric.MeterProvider) (*ClientMetrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(InstrumentationName)

	requests, err := meter.Int64Counter("restkit.requests",
		metric.WithDescription("Completed client calls by method and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating restkit.requests counter: %w", err)
	}
	duration, err := meter.Float64Histogram("restkit.request.duration",
		metric.WithDescription("Duration of client calls"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating restkit.request.duration histogram: %w", err)
	}
	retries, err := meter.Int64Counter("restkit.retries",
		metric.WithDescription("Transport attempts repeated after a network failure"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating restkit.retries counter: %w", err)
	}

	return &ClientMetrics{requests: requests, duration: duration, retries: retries}, nil
}

// RecordCall records one finished call. outcome is a short label such as
// "success", "unauthorized" or "network".
func (m *ClientMetrics) RecordCall(ctx context.Context, method, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("outcome", outcome),
	))
	m.duration.Record(ctx, float64(d)/float64(time.Millisecond), metric.WithAttributes(
		attribute.String("method", method),
	))
}

// RecordRetry records one repeated transport attempt.
func (m *ClientMetrics) RecordRetry(ctx context.Context, method string) {
	if m == nil {
		return
	}
	m.retries.Add(ctx, 1, metric.WithAttributes(attribute.String("method", method)))
}
