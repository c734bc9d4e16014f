package bpmn

import (
	"context"

	"github.com/kbukum/dmnkit/engine"
	"github.com/kbukum/dmnkit/resource"
)

// Configurator plugs another engine into process engine initialization.
type Configurator interface {
	// Priority orders configurators; lower runs first.
	Priority() int
	// BeforeInit runs on every configurator before the process engine
	// initializes.
	BeforeInit(cfg *EngineConfiguration)
	// Configure runs on every configurator after initialization.
	Configure(cfg *EngineConfiguration) error
}

// SubEngine is an engine built and owned by the process engine.
type SubEngine interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// EngineConfiguration is the mutable configuration a process engine is
// built from.
type EngineConfiguration struct {
	engine.Configuration

	EngineName          string
	DeploymentResources []resource.Resource
	DeploymentName      string

	// Configurators run during NewEngine.
	Configurators []Configurator
	// EngineConfigurations holds the configurations of sub-engines by key.
	EngineConfigurations map[string]engine.Configurable
	// Engines holds sub-engines by key. Started with the process engine.
	Engines map[string]SubEngine
}

// NewEngineConfiguration returns a configuration with engine defaults.
func NewEngineConfiguration() *EngineConfiguration {
	cfg := &EngineConfiguration{
		EngineName:           "default",
		EngineConfigurations: make(map[string]engine.Configurable),
		Engines:              make(map[string]SubEngine),
	}
	cfg.DatabaseSchemaUpdate = engine.SchemaUpdateTrue
	return cfg
}

// AddConfigurator appends a configurator. A nil configurator is ignored.
func (c *EngineConfiguration) AddConfigurator(cfg Configurator) *EngineConfiguration {
	if cfg != nil {
		c.Configurators = append(c.Configurators, cfg)
	}
	return c
}

// AddEngineConfiguration registers a sub-engine configuration under key.
func (c *EngineConfiguration) AddEngineConfiguration(key string, cfg engine.Configurable) {
	if c.EngineConfigurations == nil {
		c.EngineConfigurations = make(map[string]engine.Configurable)
	}
	c.EngineConfigurations[key] = cfg
}

// AddEngine registers a sub-engine under key.
func (c *EngineConfiguration) AddEngine(key string, e SubEngine) {
	if c.Engines == nil {
		c.Engines = make(map[string]SubEngine)
	}
	c.Engines[key] = e
}
