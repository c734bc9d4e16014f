package engine

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/dmnkit/resource"
)

// Deployment records one auto-deployment of resources into an engine.
type Deployment struct {
	ID         uuid.UUID
	Name       string
	Resources  []string
	DeployedAt time.Time
}

// Deploy verifies the engine's data source inside a transaction and records
// a deployment of resources under name. Deploying no resources is a no-op
// that returns a zero Deployment and false.
func Deploy(ctx context.Context, cfg *Configuration, name string, resources []resource.Resource) (Deployment, bool, error) {
	if len(resources) == 0 {
		return Deployment{}, false, nil
	}
	if err := verifyDataSource(ctx, cfg); err != nil {
		return Deployment{}, false, err
	}

	d := Deployment{
		ID:         uuid.New(),
		Name:       name,
		Resources:  resource.Names(resources),
		DeployedAt: time.Now().UTC(),
	}
	return d, true, nil
}

// verifyDataSource checks connectivity through the transaction manager when
// one is configured, otherwise with a plain ping.
func verifyDataSource(ctx context.Context, cfg *Configuration) error {
	if cfg.DataSource == nil {
		return fmt.Errorf("no data source configured")
	}
	if cfg.TransactionManager == nil {
		return cfg.DataSource.PingContext(ctx)
	}
	return cfg.TransactionManager.InTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var one int
		return tx.QueryRowContext(ctx, "SELECT 1").Scan(&one)
	})
}
