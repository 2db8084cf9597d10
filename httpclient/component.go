package httpclient

import (
	"context"
	"fmt"

	"github.com/kbukum/restkit/component"
)

// Component wraps a Client with lifecycle management.
type Component struct {
	client *Client
	config Config
	opts   []Option
}

var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a client component. The client is created in Start.
func NewComponent(cfg Config, opts ...Option) *Component {
	return &Component{config: cfg, opts: opts}
}

func (c *Component) Name() string {
	name := c.config.Name
	if name == "" {
		name = "http"
	}
	return name
}

// Start creates the client.
func (c *Component) Start(_ context.Context) error {
	client, err := New(c.config, c.opts...)
	if err != nil {
		return err
	}
	c.client = client
	return nil
}

// Stop closes the client.
func (c *Component) Stop(_ context.Context) error {
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// Health is unhealthy before Start and degraded while the connectivity
// check fails.
func (c *Component) Health(_ context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case c.client == nil:
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	case !c.client.Connected():
		h.Status = component.StatusDegraded
		h.Message = ReasonNoConnectivity
	}
	return h
}

func (c *Component) Describe() component.Description {
	host := c.config.DefaultHost
	if host == "" {
		host = "(per endpoint)"
	}
	return component.Description{
		Name:    c.Name(),
		Type:    "http-client",
		Details: fmt.Sprintf("host=%s", host),
	}
}

// Client returns the client. Must be called after Start.
func (c *Component) Client() *Client {
	return c.client
}
