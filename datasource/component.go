package datasource

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kbukum/dmnkit/component"
	"github.com/kbukum/dmnkit/logger"
)

// Component wraps a *sql.DB and implements component.Component for
// lifecycle management. The handle is opened eagerly by NewComponent so it
// can be handed to engines before components start.
type Component struct {
	db  *sql.DB
	cfg Config
	log *logger.Logger
}

// ensure Component satisfies component.Component
var _ component.Component = (*Component)(nil)

// NewComponent opens the data source and wraps it.
func NewComponent(ctx context.Context, cfg Config, log *logger.Logger) (*Component, error) {
	cfg.ApplyDefaults()
	db, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Component{db: db, cfg: cfg, log: log.WithComponent("datasource")}, nil
}

// DB returns the underlying handle.
func (c *Component) DB() *sql.DB { return c.db }

// Name returns the component name.
func (c *Component) Name() string { return "datasource" }

// Start verifies the connection is still alive.
func (c *Component) Start(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("datasource start: %w", err)
	}
	c.log.Debug("Data source ready", map[string]interface{}{logger.FieldDriver: c.cfg.Driver})
	return nil
}

// Stop closes the connection pool.
func (c *Component) Stop(_ context.Context) error {
	return c.db.Close()
}

// Health pings the database.
func (c *Component) Health(ctx context.Context) component.Health {
	if err := c.db.PingContext(ctx); err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("ping failed: %v", err),
		}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe returns infrastructure summary info for the bootstrap display.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Data Source",
		Type:    "datasource",
		Details: fmt.Sprintf("%s pool=%d/%d", c.cfg.Driver, c.cfg.MaxOpenConns, c.cfg.MaxIdleConns),
	}
}
