package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kbukum/dmnkit/autoconfigure"
	"github.com/kbukum/dmnkit/component"
	"github.com/kbukum/dmnkit/di"
	"github.com/kbukum/dmnkit/logger"
)

// ComponentStatus holds the tracked status of a component during bootstrap.
type ComponentStatus struct {
	Name    string
	Status  string
	Healthy bool
}

// InfrastructureInfo holds detailed infrastructure component information.
type InfrastructureInfo struct {
	Name    string
	Type    string // e.g. "datasource", "engine"
	Status  string
	Details string
	Healthy bool
}

// Summary tracks and displays the application bootstrap process.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	components      []ComponentStatus
	infrastructure  []InfrastructureInfo
	report          *autoconfigure.Report
	out             io.Writer
}

// NewSummary creates a new bootstrap summary tracker writing to stdout.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{
		serviceName:    serviceName,
		version:        version,
		components:     make([]ComponentStatus, 0),
		infrastructure: make([]InfrastructureInfo, 0),
		out:            os.Stdout,
	}
}

// SetOutput redirects the summary.
func (s *Summary) SetOutput(w io.Writer) {
	s.out = w
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// SetReport records the auto-configuration report.
func (s *Summary) SetReport(r *autoconfigure.Report) {
	s.report = r
}

// TrackComponent adds a component's bootstrap status to the summary.
func (s *Summary) TrackComponent(name, status string, healthy bool) {
	s.components = append(s.components, ComponentStatus{
		Name:    name,
		Status:  status,
		Healthy: healthy,
	})
}

// TrackInfrastructure adds an infrastructure component with detailed metadata.
func (s *Summary) TrackInfrastructure(name, componentType, status, details string, healthy bool) {
	s.infrastructure = append(s.infrastructure, InfrastructureInfo{
		Name:    name,
		Type:    componentType,
		Status:  status,
		Details: details,
		Healthy: healthy,
	})
}

// collect tracks describable components from the registry that were not
// tracked by hand.
func (s *Summary) collect(registry *component.Registry) {
	if registry == nil {
		return
	}
	tracked := make(map[string]bool, len(s.infrastructure))
	for _, inf := range s.infrastructure {
		tracked[inf.Name] = true
	}
	for _, c := range registry.All() {
		d, ok := c.(component.Describable)
		if !ok {
			continue
		}
		desc := d.Describe()
		if tracked[desc.Name] {
			continue
		}
		h := c.Health(context.Background())
		s.TrackInfrastructure(desc.Name, desc.Type, "active", desc.Details, h.Status == component.StatusHealthy)
		tracked[desc.Name] = true
	}
}

// DisplaySummary prints the bootstrap summary including live health from the
// registry and the beans registered in the container.
func (s *Summary) DisplaySummary(registry *component.Registry, container di.Container, log *logger.Logger) {
	s.collect(registry)
	w := s.out

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "🚀 %s v%s started in %.2fs\n\n",
		s.serviceName, s.version, s.startupDuration.Seconds())

	// Auto-configuration report
	if s.report != nil && len(s.report.Entries) > 0 {
		fmt.Fprintf(w, "🧩 Auto-configuration\n")
		for i, e := range s.report.Entries {
			icon := "✅"
			if !e.Matched {
				icon = "⏸️"
			}
			if e.Err != nil {
				icon = "❌"
			}
			fmt.Fprintf(w, "   %s %s %s: %s\n", treePrefix(i, len(s.report.Entries)), icon, e.Name, e.Message)
		}
		fmt.Fprintf(w, "\n")
	}

	// Infrastructure
	if len(s.infrastructure) > 0 {
		fmt.Fprintf(w, "📊 Infrastructure\n")
		for i, inf := range s.infrastructure {
			icon := statusIcon(inf.Status, inf.Healthy)
			fmt.Fprintf(w, "   %s %s %s [%s]: %s\n", treePrefix(i, len(s.infrastructure)), icon, inf.Name, inf.Type, inf.Details)
		}
		fmt.Fprintf(w, "\n")
	}

	// Components
	if len(s.components) > 0 {
		fmt.Fprintf(w, "📦 Components\n")
		healthy := 0
		for i, c := range s.components {
			icon := statusIcon(c.Status, c.Healthy)
			fmt.Fprintf(w, "   %s %s %s (%s)\n", treePrefix(i, len(s.components)), icon, c.Name, c.Status)
			if c.Healthy {
				healthy++
			}
		}
		fmt.Fprintf(w, "\n")

		total := len(s.components)
		if healthy == total {
			fmt.Fprintf(w, "✅ All components healthy (%d/%d)\n", healthy, total)
		} else {
			fmt.Fprintf(w, "⚠️  Some components have issues (%d/%d healthy)\n", healthy, total)
		}
	}

	if len(s.infrastructure) == 0 && len(s.components) == 0 {
		fmt.Fprintf(w, "   └── No components registered\n")
	}

	// Beans
	if container != nil {
		regs := container.Registrations()
		if len(regs) > 0 {
			fmt.Fprintf(w, "\n🫘 Beans (%d)\n", len(regs))
			for i, r := range regs {
				state := r.Mode.String()
				if r.Mode == di.Lazy && !r.Initialized {
					state = "lazy, not constructed"
				}
				fmt.Fprintf(w, "   %s %s (%s)\n", treePrefix(i, len(regs)), r.Key, state)
			}
		}
	}

	// Live health check
	if registry != nil {
		healthResults := registry.HealthAll(context.Background())
		if len(healthResults) > 0 {
			fmt.Fprintf(w, "\n🏥 Health Check\n")
			for i, h := range healthResults {
				icon := healthStatusIcon(h.Status)
				msg := ""
				if h.Message != "" {
					msg = fmt.Sprintf(" (%s)", h.Message)
				}
				fmt.Fprintf(w, "   %s %s %s: %s%s\n", treePrefix(i, len(healthResults)), icon, h.Name, strings.ToLower(string(h.Status)), msg)
			}
		}
	}

	fmt.Fprintf(w, "\n")

	if log != nil {
		log.Debug("Startup summary displayed", map[string]interface{}{
			logger.FieldDuration: s.startupDuration.Milliseconds(),
		})
	}
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func statusIcon(status string, healthy bool) string {
	if !healthy {
		return "❌"
	}
	switch status {
	case "active", "initialized", "connected", "healthy":
		return "✅"
	case "lazy":
		return "⚡"
	case "inactive", "disabled":
		return "⏸️"
	case "error", "failed":
		return "❌"
	default:
		return "⚠️"
	}
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
