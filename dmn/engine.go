package dmn

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/dmnkit/engine"
	"github.com/kbukum/dmnkit/errors"
	"github.com/kbukum/dmnkit/logger"
)

// EngineName is the engine identifier used in logs and errors.
const EngineName = "dmn"

// LoggerName is the named logger the engine logs through.
const LoggerName = "dmn-engine"

// Engine is a built decision engine.
type Engine struct {
	cfg *EngineConfiguration
	log *logger.Logger

	mu          sync.RWMutex
	started     bool
	deployed    bool
	deployments []engine.Deployment
}

// NewEngine builds an engine from a finished configuration. The
// configuration must carry a data source.
func NewEngine(cfg *EngineConfiguration) (*Engine, error) {
	if cfg == nil {
		return nil, errors.EngineBuild(EngineName, errors.MissingCollaborator("dmnEngineConfiguration"))
	}
	if cfg.DataSource == nil {
		return nil, errors.EngineBuild(EngineName, errors.MissingCollaborator("dataSource"))
	}
	return &Engine{
		cfg: cfg,
		log: logger.Get(LoggerName),
	}, nil
}

// Name returns the engine name.
func (e *Engine) Name() string { return LoggerName }

// Configuration returns the configuration the engine was built from.
func (e *Engine) Configuration() *EngineConfiguration { return e.cfg }

// Start deploys the configured resources. Starting twice is a no-op and a
// restart after Stop does not deploy again.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return nil
	}

	if !e.deployed {
		d, deployed, err := engine.Deploy(ctx, &e.cfg.Configuration, e.cfg.DeploymentName, e.cfg.DeploymentResources)
		if err != nil {
			return errors.EngineBuild(EngineName, fmt.Errorf("deploy %s: %w", e.cfg.DeploymentName, err))
		}
		if deployed {
			e.deployments = append(e.deployments, d)
			e.log.Info("Decision resources deployed", map[string]interface{}{
				logger.FieldDeployment:    d.Name,
				"deployment_id":           d.ID.String(),
				logger.FieldResourceCount: len(d.Resources),
			})
		}
		e.deployed = true
	}

	e.started = true
	e.log.Debug("Decision engine started", map[string]interface{}{
		"history_enabled": e.cfg.HistoryEnabled,
		"strict_mode":     e.cfg.StrictMode,
		"safe_xml":        e.cfg.EnableSafeXML,
	})
	return nil
}

// Stop marks the engine stopped. The data source belongs to its own
// component and is not closed here.
func (e *Engine) Stop(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.started = false
	return nil
}

// Started reports whether the engine is running.
func (e *Engine) Started() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.started
}

// Deployments returns the deployments made by this engine.
func (e *Engine) Deployments() []engine.Deployment {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]engine.Deployment(nil), e.deployments...)
}
