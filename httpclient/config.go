package httpclient

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kbukum/restkit/config"
	"github.com/kbukum/restkit/validation"
)

const (
	defaultTimeout             = 60 * time.Second
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultIdleConnTimeout     = 90 * time.Second
)

// Config configures a Client.
type Config struct {
	// Name identifies the client in logs and as a component. Defaults to "http".
	Name string `yaml:"name" mapstructure:"name"`

	// DefaultHost fills Endpoint.Host when an endpoint leaves it empty.
	DefaultHost string `yaml:"default_host" mapstructure:"default_host" validate:"omitempty,nocrlf"`

	// DefaultScheme fills Endpoint.Scheme. Defaults to https.
	DefaultScheme Scheme `yaml:"default_scheme" mapstructure:"default_scheme" validate:"omitempty,oneof=http https"`

	// Timeout bounds one attempt. Defaults to 60s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`

	MaxIdleConns        int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns" validate:"gte=0"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host" mapstructure:"max_idle_conns_per_host" validate:"gte=0"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout" mapstructure:"idle_conn_timeout" validate:"gte=0"`
	DisableHTTP2        bool          `yaml:"disable_http2" mapstructure:"disable_http2"`

	// DefaultHeaders are applied to every endpoint that does not set the
	// same field itself.
	DefaultHeaders map[HeaderField]string `yaml:"default_headers" mapstructure:"default_headers" validate:"dive,keys,oneof=Content-Type Accept Authorization,endkeys,nocrlf"`

	// RetryIdempotentOnly limits the automatic network retry to GET, PUT
	// and DELETE.
	RetryIdempotentOnly bool `yaml:"retry_idempotent_only" mapstructure:"retry_idempotent_only"`

	// Logging enables the default LogObserver. Defaults to true.
	Logging *bool `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "http"
	}
	if c.DefaultScheme == "" {
		c.DefaultScheme = SchemeHTTPS
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = defaultMaxIdleConns
	}
	if c.MaxIdleConnsPerHost == 0 {
		c.MaxIdleConnsPerHost = defaultMaxIdleConnsPerHost
	}
	if c.IdleConnTimeout == 0 {
		c.IdleConnTimeout = defaultIdleConnTimeout
	}
	if c.Logging == nil {
		enabled := true
		c.Logging = &enabled
	}
	// viper lower-cases map keys.
	if len(c.DefaultHeaders) > 0 {
		headers := make(map[HeaderField]string, len(c.DefaultHeaders))
		for k, v := range c.DefaultHeaders {
			headers[HeaderField(http.CanonicalHeaderKey(string(k)))] = v
		}
		c.DefaultHeaders = headers
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("httpclient: invalid config: %w", err)
	}
	if c.DefaultHost != "" {
		if err := validation.Var("default_host", c.DefaultHost, "hostname_port|hostname_rfc1123|ip"); err != nil {
			return fmt.Errorf("httpclient: invalid config: %w", err)
		}
	}
	return nil
}

// LoggingEnabled reports whether the default LogObserver is installed.
func (c *Config) LoggingEnabled() bool {
	return c.Logging == nil || *c.Logging
}

func (c *Config) session() SessionConfig {
	return SessionConfig{
		Timeout:             c.Timeout,
		MaxIdleConns:        c.MaxIdleConns,
		MaxIdleConnsPerHost: c.MaxIdleConnsPerHost,
		IdleConnTimeout:     c.IdleConnTimeout,
		DisableHTTP2:        c.DisableHTTP2,
	}
}

// LoadConfig reads the "http" section of the service configuration, then
// applies defaults and validates it.
//
//	http:
//	  default_host: api.example.com
//	  timeout: 30s
func LoadConfig(serviceName string, opts ...config.Option) (Config, error) {
	var file struct {
		HTTP Config `mapstructure:"http"`
	}
	if err := config.Load(serviceName, &file, opts...); err != nil {
		return Config{}, err
	}
	cfg := file.HTTP
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// retryable reports whether a network failure of method may be retried.
func (c *Config) retryable(method string) bool {
	if !c.RetryIdempotentOnly {
		return true
	}
	switch method {
	case http.MethodGet, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}
