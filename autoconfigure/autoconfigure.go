package autoconfigure

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/afero"

	"github.com/kbukum/dmnkit/bpmn"
	"github.com/kbukum/dmnkit/component"
	"github.com/kbukum/dmnkit/condition"
	"github.com/kbukum/dmnkit/di"
	"github.com/kbukum/dmnkit/dmn"
	"github.com/kbukum/dmnkit/dmn/configurator"
	"github.com/kbukum/dmnkit/errors"
	"github.com/kbukum/dmnkit/logger"
	"github.com/kbukum/dmnkit/observability"
	"github.com/kbukum/dmnkit/tx"
)

// Auto-configuration names used in After and Before declarations.
const (
	NameTransaction   = "transaction"
	NameDMNEngine     = "dmn-engine"
	NameProcessEngine = "process-engine"
)

// LoggerName is the named logger the runner and auto-configurations log
// through.
const LoggerName = "autoconfigure"

// RegisterLoggers registers base, tagged per component, under the named
// loggers of the runner and of the engines it builds. Engines pick their
// logger up when constructed, so call it before running.
func RegisterLoggers(base *logger.Logger) {
	for _, name := range []string{LoggerName, dmn.LoggerName, configurator.LoggerName, bpmn.LoggerName} {
		logger.Register(name, base.WithComponent(name))
	}
}

// AutoConfiguration contributes beans to the container when its condition
// holds.
type AutoConfiguration interface {
	Name() string
	// After lists auto-configurations that must run first. Unknown names
	// are ignored.
	After() []string
	// Before lists auto-configurations that must run later. Unknown names
	// are ignored.
	Before() []string
	// Condition gates Configure. Nil always matches.
	Condition() condition.Condition
	Configure(ctx context.Context, env *Environment) error
}

// conditionObserver is implemented by auto-configurations that track the
// outcome of their own condition.
type conditionObserver interface {
	ConditionEvaluated(outcome condition.Outcome)
}

// Environment is what auto-configurations read from and register into.
type Environment struct {
	Config     *Config
	Container  di.Container
	Components *component.Registry
	// Fs is the root deployment resources are discovered in.
	Fs      afero.Fs
	Metrics *observability.Metrics
	Logger  *logger.Logger
}

// NewEnvironment returns an environment over cfg with a fresh container and
// registry and the OS filesystem. A nil cfg means DefaultConfig.
func NewEnvironment(cfg *Config) *Environment {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Environment{
		Config:     cfg,
		Container:  di.NewContainer(),
		Components: component.NewRegistry(),
		Fs:         afero.NewOsFs(),
		Logger:     logger.Get(LoggerName),
	}
}

// ConditionContext exposes the bound properties and registered beans to
// conditions.
func (e *Environment) ConditionContext() condition.Context {
	var props condition.Properties
	if e.Config != nil {
		props = e.Config.Properties()
	}
	return condition.NewContext(props, e.Container, e.beanKeys)
}

func (e *Environment) beanKeys() []string {
	regs := e.Container.Registrations()
	keys := make([]string, len(regs))
	for i, r := range regs {
		keys[i] = r.Key
	}
	return keys
}

func (e *Environment) log() *logger.Logger {
	if e.Logger == nil {
		return logger.Get(LoggerName)
	}
	return e.Logger
}

// collaborators resolves the data source and transaction manager. Either
// missing is a MISSING_COLLABORATOR error.
func (e *Environment) collaborators() (*sql.DB, tx.Manager, error) {
	db, err := di.Resolve[*sql.DB](e.Container, di.Beans.DataSource)
	if err != nil {
		return nil, nil, missing(di.Beans.DataSource, err)
	}
	txm, err := di.Resolve[tx.Manager](e.Container, di.Beans.TransactionManager)
	if err != nil {
		return nil, nil, missing(di.Beans.TransactionManager, err)
	}
	return db, txm, nil
}

func missing(name string, err error) error {
	if errors.HasCode(err, errors.ErrCodeNotRegistered) {
		return errors.MissingCollaborator(name).WithCause(err)
	}
	return fmt.Errorf("resolve %s: %w", name, err)
}

// evaluate runs c against ctx. A nil condition matches.
func evaluate(c condition.Condition, ctx condition.Context) (condition.Outcome, error) {
	if c == nil {
		return condition.Outcome{Match: true, Message: "no condition"}, nil
	}
	return c.Evaluate(ctx)
}
