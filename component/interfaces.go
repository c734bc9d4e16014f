package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health represents the health check result for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed part of the application: a data source,
// the decision engine, the process engine.
type Component interface {
	// Name returns the unique name of this component.
	Name() string

	// Start initializes and starts the component.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the component.
	Stop(ctx context.Context) error

	// Health returns the current health status of the component.
	Health(ctx context.Context) Health
}

// Description holds summary information displayed by the bootstrap summary.
type Description struct {
	Name    string // Display name, e.g. "DMN Engine"
	Type    string // Category, e.g. "engine", "datasource"
	Details string // Free-form details, e.g. "3 resources, deployment SpringBootAutoDeployment"
}

// Describable is optionally implemented by components to provide
// summary information for the bootstrap display.
type Describable interface {
	Describe() Description
}
