package dmn

import (
	"github.com/kbukum/dmnkit/engine"
	"github.com/kbukum/dmnkit/resource"
)

// EngineConfigurationKey is the key the decision engine configuration is
// registered under inside a process engine configuration.
const EngineConfigurationKey = "cfg.dmnEngine"

// ConfiguratorPriority orders the decision engine configurator among a
// process engine's configurators. Lower runs first.
const ConfiguratorPriority = 200000

// EngineConfiguration is the mutable configuration a decision engine is
// built from.
type EngineConfiguration struct {
	engine.Configuration

	// DeploymentResources are deployed when the engine starts. Nil means
	// no auto-deployment.
	DeploymentResources []resource.Resource
	// DeploymentName is set together with DeploymentResources.
	DeploymentName string

	HistoryEnabled bool
	EnableSafeXML  bool
	StrictMode     bool
}

// NewEngineConfiguration returns a configuration with engine defaults.
func NewEngineConfiguration() *EngineConfiguration {
	cfg := &EngineConfiguration{
		EnableSafeXML: true,
		StrictMode:    true,
	}
	cfg.DatabaseSchemaUpdate = engine.SchemaUpdateTrue
	return cfg
}

// HasDeploymentResources reports whether auto-deployment is configured.
func (c *EngineConfiguration) HasDeploymentResources() bool {
	return len(c.DeploymentResources) > 0
}
