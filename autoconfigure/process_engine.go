package autoconfigure

import (
	"context"
	"database/sql"

	"github.com/kbukum/dmnkit/bpmn"
	"github.com/kbukum/dmnkit/component"
	"github.com/kbukum/dmnkit/condition"
	"github.com/kbukum/dmnkit/di"
	"github.com/kbukum/dmnkit/engine"
	"github.com/kbukum/dmnkit/errors"
	"github.com/kbukum/dmnkit/logger"
	"github.com/kbukum/dmnkit/resource"
	"github.com/kbukum/dmnkit/tx"
)

// ProcessEngine registers the process engine configuration and engine. It
// runs after the decision engine so that the decision configurer is
// registered by the time process configurers are collected.
type ProcessEngine struct {
	Properties bpmn.Properties
	Shared     engine.Properties
	Resolver   resource.Resolver
}

// NewProcessEngine returns the process engine auto-configuration.
func NewProcessEngine() *ProcessEngine {
	return &ProcessEngine{
		Properties: bpmn.DefaultProperties(),
		Shared:     engine.DefaultProperties(),
	}
}

// Name implements AutoConfiguration.
func (p *ProcessEngine) Name() string { return NameProcessEngine }

// After implements AutoConfiguration.
func (p *ProcessEngine) After() []string { return []string{NameTransaction, NameDMNEngine} }

// Before implements AutoConfiguration.
func (p *ProcessEngine) Before() []string { return nil }

// Condition implements AutoConfiguration.
func (p *ProcessEngine) Condition() condition.Condition { return condition.OnProcessEngine() }

// EngineConfiguration builds a process engine configuration: discovery,
// shared settings, then configurers in order.
func (p *ProcessEngine) EngineConfiguration(dataSource *sql.DB, txManager tx.Manager, configurers []engine.Configurer[*bpmn.EngineConfiguration]) (*bpmn.EngineConfiguration, error) {
	cfg := bpmn.NewEngineConfiguration()
	cfg.EngineName = p.Properties.Name

	resolver := p.Resolver
	if resolver == nil {
		resolver = resource.NewResolver(nil)
	}
	resources, err := resolver.Discover(p.Properties.ResourceLocation, p.Properties.ResourceSuffixes, p.Properties.DeployResources)
	if err != nil {
		if !errors.HasCode(err, errors.ErrCodeDiscoveryFailed) {
			err = errors.DiscoveryFailed(p.Properties.ResourceLocation, err)
		}
		return nil, err
	}
	if len(resources) > 0 {
		cfg.DeploymentResources = resources
		cfg.DeploymentName = p.Properties.DeploymentName
	}

	if err := engine.ConfigureTransactions(cfg, txManager); err != nil {
		return nil, err
	}
	if err := engine.ConfigureEngine(cfg, dataSource, p.Shared); err != nil {
		return nil, err
	}

	engine.Apply(cfg, configurers)
	return cfg, nil
}

// Configure registers processEngineConfiguration unless present, then builds
// the process engine and registers it as a bean and a lifecycle component.
func (p *ProcessEngine) Configure(ctx context.Context, env *Environment) error {
	log := env.log().WithComponent(NameProcessEngine)

	p.Properties = env.Config.Flowable.Process
	p.Shared = env.Config.Flowable.Properties
	if p.Resolver == nil {
		p.Resolver = resource.NewResolver(env.Fs)
	}

	cfg, ok := di.TryResolve[*bpmn.EngineConfiguration](env.Container, di.Beans.ProcessEngineConfiguration)
	if !ok {
		dataSource, txManager, err := env.collaborators()
		if err != nil {
			return err
		}
		configurers, err := di.ResolveAll[engine.Configurer[*bpmn.EngineConfiguration]](env.Container)
		if err != nil {
			return err
		}
		built, err := p.EngineConfiguration(dataSource, txManager, configurers)
		if err != nil {
			return err
		}
		cfg, _, err = di.RegisterIfAbsent(env.Container, di.Beans.ProcessEngineConfiguration, func() (*bpmn.EngineConfiguration, error) {
			return built, nil
		})
		if err != nil {
			return err
		}
		env.Metrics.RecordResources(ctx, bpmn.EngineName, len(built.DeploymentResources))
		env.Metrics.RecordConfigurers(ctx, bpmn.EngineName, len(configurers))
		log.Info("Process engine configuration registered", map[string]interface{}{
			logger.FieldResourceCount: len(built.DeploymentResources),
			logger.FieldConfigurers:   len(configurers),
			logger.FieldConfigurators: len(built.Configurators),
		})
	}

	if env.Container.Has(di.Beans.ProcessEngine) {
		return nil
	}
	built, err := bpmn.NewEngine(cfg)
	if err != nil {
		return err
	}
	e, created, err := di.RegisterIfAbsent(env.Container, di.Beans.ProcessEngine, func() (*bpmn.Engine, error) {
		return built, nil
	})
	if err != nil || !created {
		return err
	}
	env.Metrics.RecordEngineBuild(ctx, bpmn.EngineName)

	comp := component.NewFunc(e.Name(), e.Start).
		WithStop(e.Stop).
		WithHealthCheck(func(ctx context.Context) error {
			return e.Configuration().DataSource.PingContext(ctx)
		}).
		WithDescription(component.Description{
			Type:    "engine",
			Details: describe(cfg.DeploymentName, len(cfg.DeploymentResources)),
		})
	return env.Components.Register(comp)
}
