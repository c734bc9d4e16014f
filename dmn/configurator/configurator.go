// Package configurator links the decision engine into the process engine as
// a plugin configurator.
package configurator

import (
	"github.com/kbukum/dmnkit/bpmn"
	"github.com/kbukum/dmnkit/dmn"
	"github.com/kbukum/dmnkit/errors"
	"github.com/kbukum/dmnkit/logger"
)

// LoggerName is the named logger the configurator logs through.
const LoggerName = "dmn-configurator"

// Configurator builds the decision engine inside process engine
// initialization and registers it with the process engine.
type Configurator struct {
	cfg    *dmn.EngineConfiguration
	engine *dmn.Engine
}

var _ bpmn.Configurator = (*Configurator)(nil)

// New wraps a finished decision engine configuration.
func New(cfg *dmn.EngineConfiguration) *Configurator {
	return &Configurator{cfg: cfg}
}

// Priority returns dmn.ConfiguratorPriority.
func (c *Configurator) Priority() int { return dmn.ConfiguratorPriority }

// BeforeInit does nothing.
func (c *Configurator) BeforeInit(*bpmn.EngineConfiguration) {}

// Configure inherits the process engine's data source and transaction
// manager when the decision configuration has none, builds the decision
// engine and registers both under dmn.EngineConfigurationKey.
func (c *Configurator) Configure(processCfg *bpmn.EngineConfiguration) error {
	if c.cfg == nil {
		return errors.MissingCollaborator("dmnEngineConfiguration")
	}
	if c.cfg.DataSource == nil {
		c.cfg.DataSource = processCfg.DataSource
	}
	if c.cfg.TransactionManager == nil && processCfg.TransactionManager != nil {
		c.cfg.TransactionManager = processCfg.TransactionManager
		c.cfg.TransactionsExternallyManaged = true
	}

	e, err := dmn.NewEngine(c.cfg)
	if err != nil {
		return err
	}
	c.engine = e

	processCfg.AddEngineConfiguration(dmn.EngineConfigurationKey, c.cfg)
	processCfg.AddEngine(dmn.EngineConfigurationKey, e)

	logger.Get(LoggerName).Debug("Decision engine registered with process engine", map[string]interface{}{
		logger.FieldEngine: processCfg.EngineName,
		"key":              dmn.EngineConfigurationKey,
	})
	return nil
}

// Configuration returns the wrapped decision engine configuration.
func (c *Configurator) Configuration() *dmn.EngineConfiguration { return c.cfg }

// Engine returns the decision engine built by Configure, or nil before.
func (c *Configurator) Engine() *dmn.Engine { return c.engine }
