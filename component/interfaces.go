package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed resource.
type Component interface {
	// Name returns the unique registration name.
	Name() string
	// Start acquires the component's resources.
	Start(ctx context.Context) error
	// Stop releases them.
	Stop(ctx context.Context) error
	// Health reports the current status.
	Health(ctx context.Context) Health
}

// Description is a one-line summary a component may report about itself.
type Description struct {
	Name    string
	Type    string
	Details string
}

// Describable is optionally implemented by components.
type Describable interface {
	Describe() Description
}
