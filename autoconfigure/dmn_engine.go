package autoconfigure

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/dmnkit/bpmn"
	"github.com/kbukum/dmnkit/component"
	"github.com/kbukum/dmnkit/condition"
	"github.com/kbukum/dmnkit/di"
	"github.com/kbukum/dmnkit/dmn"
	"github.com/kbukum/dmnkit/dmn/configurator"
	"github.com/kbukum/dmnkit/engine"
	"github.com/kbukum/dmnkit/errors"
	"github.com/kbukum/dmnkit/logger"
	"github.com/kbukum/dmnkit/observability"
	"github.com/kbukum/dmnkit/resource"
	"github.com/kbukum/dmnkit/tx"
)

// State is the progress of a DMNEngine run.
type State int

const (
	StateUnstarted State = iota
	StateConditionChecked
	StateAbsent
	StateConfigured
	StateLinked
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "UNSTARTED"
	case StateConditionChecked:
		return "CONDITION_CHECKED"
	case StateAbsent:
		return "ABSENT"
	case StateConfigured:
		return "CONFIGURED"
	case StateLinked:
		return "LINKED"
	case StateReady:
		return "READY"
	default:
		return "UNKNOWN"
	}
}

// DMNEngine registers the decision engine configuration and, depending on
// whether the process engine is active, either links it into the process
// engine or registers a standalone decision engine.
type DMNEngine struct {
	// Properties and Shared are bound from the config by Configure.
	Properties dmn.Properties
	Shared     engine.Properties
	// Resolver discovers deployment resources. Configure defaults it to the
	// environment filesystem.
	Resolver resource.Resolver
	// Configurers run last, in order. Configure appends every configurer
	// bean registered in the container.
	Configurers []engine.Configurer[*dmn.EngineConfiguration]

	mu    sync.Mutex
	state State
}

// NewDMNEngine returns the decision engine auto-configuration with default
// properties.
func NewDMNEngine() *DMNEngine {
	return &DMNEngine{
		Properties: dmn.DefaultProperties(),
		Shared:     engine.DefaultProperties(),
	}
}

// Name implements AutoConfiguration.
func (d *DMNEngine) Name() string { return NameDMNEngine }

// After implements AutoConfiguration.
func (d *DMNEngine) After() []string { return []string{NameTransaction} }

// Before implements AutoConfiguration.
func (d *DMNEngine) Before() []string { return []string{NameProcessEngine} }

// Condition implements AutoConfiguration.
func (d *DMNEngine) Condition() condition.Condition {
	return condition.All(condition.OnDMNEngine(), condition.OnExpressionProperty(condition.DMNConditionKey))
}

// State returns how far the last run got.
func (d *DMNEngine) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *DMNEngine) setState(s State) {
	d.mu.Lock()
	d.state = s
	d.mu.Unlock()
}

// ConditionEvaluated records the outcome of the activation condition.
func (d *DMNEngine) ConditionEvaluated(outcome condition.Outcome) {
	if outcome.Match {
		d.setState(StateConditionChecked)
		return
	}
	d.setState(StateAbsent)
}

// EngineConfiguration builds a decision engine configuration in one pass:
// resource discovery, deployment settings, shared engine settings, scalar
// settings, then configurers. Discovery failure and missing collaborators
// return an error and no configuration.
func (d *DMNEngine) EngineConfiguration(dataSource *sql.DB, txManager tx.Manager) (*dmn.EngineConfiguration, error) {
	cfg, _, err := d.build(dataSource, txManager, d.Configurers)
	return cfg, err
}

// build is EngineConfiguration with explicit configurers. It also returns
// how many configurers ran.
func (d *DMNEngine) build(dataSource *sql.DB, txManager tx.Manager, configurers []engine.Configurer[*dmn.EngineConfiguration]) (*dmn.EngineConfiguration, int, error) {
	cfg := dmn.NewEngineConfiguration()

	resolver := d.Resolver
	if resolver == nil {
		resolver = resource.NewResolver(nil)
	}
	resources, err := resolver.Discover(d.Properties.ResourceLocation, d.Properties.ResourceSuffixes, d.Properties.DeployResources)
	if err != nil {
		if !errors.HasCode(err, errors.ErrCodeDiscoveryFailed) {
			err = errors.DiscoveryFailed(d.Properties.ResourceLocation, err)
		}
		return nil, 0, err
	}
	if len(resources) > 0 {
		cfg.DeploymentResources = resources
		cfg.DeploymentName = d.Properties.DeploymentName
	}

	if err := engine.ConfigureTransactions(cfg, txManager); err != nil {
		return nil, 0, err
	}
	if err := engine.ConfigureEngine(cfg, dataSource, d.Shared); err != nil {
		return nil, 0, err
	}

	cfg.HistoryEnabled = d.Properties.HistoryEnabled
	cfg.EnableSafeXML = d.Properties.EnableSafeXML
	cfg.StrictMode = d.Properties.StrictMode

	applied := engine.Apply(cfg, configurers)
	return cfg, applied, nil
}

// Configure registers dmnEngineConfiguration unless present, then links it
// into the process engine when that engine is active, or registers a
// standalone dmnEngine component otherwise.
func (d *DMNEngine) Configure(ctx context.Context, env *Environment) error {
	log := env.log().WithComponent(NameDMNEngine)
	if d.State() == StateUnstarted {
		d.setState(StateConditionChecked)
	}

	d.Properties = env.Config.Flowable.DMN
	d.Shared = env.Config.Flowable.Properties
	if d.Resolver == nil {
		d.Resolver = resource.NewResolver(env.Fs)
	}
	beans, err := di.ResolveAll[engine.Configurer[*dmn.EngineConfiguration]](env.Container)
	if err != nil {
		return err
	}
	configurers := append(append([]engine.Configurer[*dmn.EngineConfiguration](nil), d.Configurers...), beans...)

	cfg, err := d.configuration(ctx, env, configurers)
	if err != nil {
		return err
	}
	d.setState(StateConfigured)

	linkOutcome, err := evaluate(condition.OnProcessEngine(), env.ConditionContext())
	if err != nil {
		return err
	}
	if linkOutcome.Match {
		if err := d.link(env, cfg); err != nil {
			return err
		}
		d.setState(StateLinked)
		log.Info("Decision engine linked into process engine", map[string]interface{}{
			logger.FieldBean: di.Beans.DMNProcessConfigurer,
		})
	} else if err := d.standalone(ctx, env, cfg); err != nil {
		return err
	}

	d.setState(StateReady)
	return nil
}

// configuration returns the existing dmnEngineConfiguration bean or builds
// and registers a new one.
func (d *DMNEngine) configuration(ctx context.Context, env *Environment, configurers []engine.Configurer[*dmn.EngineConfiguration]) (*dmn.EngineConfiguration, error) {
	log := env.log().WithComponent(NameDMNEngine)

	if existing, ok := di.TryResolve[*dmn.EngineConfiguration](env.Container, di.Beans.DMNEngineConfiguration); ok {
		log.Info("Using existing decision engine configuration", map[string]interface{}{
			logger.FieldBean: di.Beans.DMNEngineConfiguration,
		})
		return existing, nil
	}

	dataSource, txManager, err := env.collaborators()
	if err != nil {
		return nil, err
	}

	_, span := observability.StartSpan(ctx, observability.SpanEngineBuild)
	built, applied, err := d.build(dataSource, txManager, configurers)
	if err != nil {
		span.RecordError(err)
		span.End()
		return nil, err
	}
	span.SetAttributes(
		attribute.String(observability.AttrEngine, dmn.EngineName),
		attribute.Int(observability.AttrResourceCount, len(built.DeploymentResources)),
		attribute.Int(observability.AttrConfigurerCount, applied),
	)
	span.End()

	cfg, created, err := di.RegisterIfAbsent(env.Container, di.Beans.DMNEngineConfiguration, func() (*dmn.EngineConfiguration, error) {
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	if created {
		env.Metrics.RecordResources(ctx, dmn.EngineName, len(built.DeploymentResources))
		env.Metrics.RecordConfigurers(ctx, dmn.EngineName, applied)
		log.Info("Decision engine configuration registered", map[string]interface{}{
			logger.FieldResourceCount: len(built.DeploymentResources),
			logger.FieldDeployment:    built.DeploymentName,
			logger.FieldConfigurers:   applied,
		})
	}
	return cfg, nil
}

// link registers the configurator and the process engine configurer that
// adds it.
func (d *DMNEngine) link(env *Environment, cfg *dmn.EngineConfiguration) error {
	link, _, err := di.RegisterIfAbsent(env.Container, di.Beans.DMNEngineConfigurator, func() (*configurator.Configurator, error) {
		return configurator.New(cfg), nil
	})
	if err != nil {
		return err
	}

	_, _, err = di.RegisterIfAbsent(env.Container, di.Beans.DMNProcessConfigurer, func() (engine.Configurer[*bpmn.EngineConfiguration], error) {
		return func(p *bpmn.EngineConfiguration) {
			p.AddConfigurator(link)
		}, nil
	})
	return err
}

// standalone builds the decision engine and registers it as a bean and a
// lifecycle component.
func (d *DMNEngine) standalone(ctx context.Context, env *Environment, cfg *dmn.EngineConfiguration) error {
	if env.Container.Has(di.Beans.DMNEngine) {
		return nil
	}
	built, err := dmn.NewEngine(cfg)
	if err != nil {
		return err
	}
	e, created, err := di.RegisterIfAbsent(env.Container, di.Beans.DMNEngine, func() (*dmn.Engine, error) {
		return built, nil
	})
	if err != nil || !created {
		return err
	}
	env.Metrics.RecordEngineBuild(ctx, dmn.EngineName)

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

func describe(deployment string, resources int) string {
	if resources == 0 {
		return "no deployment resources"
	}
	return fmt.Sprintf("%d resources, deployment %s", resources, deployment)
}
