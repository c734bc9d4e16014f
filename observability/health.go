package observability

import "github.com/kbukum/dmnkit/component"

// HealthStatus represents the health state of a component or service.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDown     HealthStatus = "down"
	HealthStatusDegraded HealthStatus = "degraded"
)

// Health describes the health of an individual component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// ServiceHealth describes the overall health of a service and its components.
type ServiceHealth struct {
	Service    string       `json:"service"`
	Status     HealthStatus `json:"status"`
	Version    string       `json:"version,omitempty"`
	Components []Health     `json:"components,omitempty"`
}

// NewServiceHealth creates a ServiceHealth with status up.
func NewServiceHealth(service, version string) *ServiceHealth {
	return &ServiceHealth{
		Service: service,
		Status:  HealthStatusUp,
		Version: version,
	}
}

// FromComponents aggregates component health into a ServiceHealth.
func FromComponents(service, version string, results []component.Health) *ServiceHealth {
	sh := NewServiceHealth(service, version)
	for _, h := range results {
		sh.AddComponent(Health{Name: h.Name, Status: statusOf(h.Status), Message: h.Message})
	}
	return sh
}

// AddComponent adds a component health result and degrades overall status if needed.
func (sh *ServiceHealth) AddComponent(ch Health) {
	sh.Components = append(sh.Components, ch)

	switch ch.Status {
	case HealthStatusDown:
		sh.Status = HealthStatusDown
	case HealthStatusDegraded:
		if sh.Status != HealthStatusDown {
			sh.Status = HealthStatusDegraded
		}
	}
}

func statusOf(s component.HealthStatus) HealthStatus {
	switch s {
	case component.StatusHealthy:
		return HealthStatusUp
	case component.StatusDegraded:
		return HealthStatusDegraded
	default:
		return HealthStatusDown
	}
}
