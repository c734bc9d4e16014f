package bpmn

import (
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/kbukum/dmnkit/engine"
	"github.com/kbukum/dmnkit/errors"
	"github.com/kbukum/dmnkit/logger"
)

// EngineName is the engine identifier used in logs and errors.
const EngineName = "process"

// LoggerName is the named logger the engine logs through.
const LoggerName = "process-engine"

// Engine is a built process engine.
type Engine struct {
	cfg *EngineConfiguration
	log *logger.Logger

	mu          sync.Mutex
	started     []string
	deployed    bool
	deployments []engine.Deployment
}

// NewEngine builds a process engine. Configurators are sorted by priority
// (stable for equal priorities), BeforeInit runs on all of them, the engine
// initializes, then Configure runs on all of them.
func NewEngine(cfg *EngineConfiguration) (*Engine, error) {
	if cfg == nil {
		return nil, errors.EngineBuild(EngineName, errors.MissingCollaborator("processEngineConfiguration"))
	}

	sort.SliceStable(cfg.Configurators, func(i, j int) bool {
		return cfg.Configurators[i].Priority() < cfg.Configurators[j].Priority()
	})
	for _, c := range cfg.Configurators {
		c.BeforeInit(cfg)
	}

	if cfg.DataSource == nil {
		return nil, errors.EngineBuild(EngineName, errors.MissingCollaborator("dataSource"))
	}
	if cfg.EngineConfigurations == nil {
		cfg.EngineConfigurations = make(map[string]engine.Configurable)
	}
	if cfg.Engines == nil {
		cfg.Engines = make(map[string]SubEngine)
	}

	for _, c := range cfg.Configurators {
		if err := c.Configure(cfg); err != nil {
			return nil, errors.EngineBuild(EngineName, fmt.Errorf("configurator %T: %w", c, err))
		}
	}

	log := logger.Get(LoggerName)
	log.Debug("Process engine initialized", map[string]interface{}{
		logger.FieldEngine:        cfg.EngineName,
		logger.FieldConfigurators: len(cfg.Configurators),
		"sub_engines":             engineKeys(cfg.Engines),
	})
	return &Engine{cfg: cfg, log: log}, nil
}

// Name returns the engine name.
func (e *Engine) Name() string { return LoggerName }

// Configuration returns the configuration the engine was built from.
func (e *Engine) Configuration() *EngineConfiguration { return e.cfg }

// SubEngine returns the sub-engine registered under key.
func (e *Engine) SubEngine(key string) (SubEngine, bool) {
	s, ok := e.cfg.Engines[key]
	return s, ok
}

// Start deploys process resources once, then starts sub-engines in key
// order. Starting twice is a no-op and a restart after Stop does not deploy
// again.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started != nil {
		return nil
	}

	if !e.deployed {
		d, deployed, err := engine.Deploy(ctx, &e.cfg.Configuration, e.cfg.DeploymentName, e.cfg.DeploymentResources)
		if err != nil {
			return errors.EngineBuild(EngineName, fmt.Errorf("deploy %s: %w", e.cfg.DeploymentName, err))
		}
		if deployed {
			e.deployments = append(e.deployments, d)
			e.log.Info("Process resources deployed", map[string]interface{}{
				logger.FieldDeployment:    d.Name,
				"deployment_id":           d.ID.String(),
				logger.FieldResourceCount: len(d.Resources),
			})
		}
		e.deployed = true
	}

	started := make([]string, 0, len(e.cfg.Engines))
	for _, key := range engineKeys(e.cfg.Engines) {
		if err := e.cfg.Engines[key].Start(ctx); err != nil {
			e.stopKeys(ctx, started)
			return fmt.Errorf("start sub-engine %s: %w", key, err)
		}
		started = append(started, key)
	}
	e.started = started
	return nil
}

// Stop stops sub-engines in reverse start order.
func (e *Engine) Stop(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.stopKeys(ctx, e.started)
	e.started = nil
	return err
}

func (e *Engine) stopKeys(ctx context.Context, keys []string) error {
	var errs []error
	for i := len(keys) - 1; i >= 0; i-- {
		if err := e.cfg.Engines[keys[i]].Stop(ctx); err != nil {
			e.log.Error("Failed to stop sub-engine", logger.ErrorFields(keys[i], err))
			errs = append(errs, fmt.Errorf("stop sub-engine %s: %w", keys[i], err))
		}
	}
	return stderrors.Join(errs...)
}

// Deployments returns the deployments made by this engine.
func (e *Engine) Deployments() []engine.Deployment {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]engine.Deployment(nil), e.deployments...)
}

func engineKeys(m map[string]SubEngine) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
