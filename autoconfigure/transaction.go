package autoconfigure

import (
	"context"
	"database/sql"

	"github.com/kbukum/dmnkit/condition"
	"github.com/kbukum/dmnkit/datasource"
	"github.com/kbukum/dmnkit/di"
	"github.com/kbukum/dmnkit/logger"
	"github.com/kbukum/dmnkit/tx"
)

// Transaction provides the data source and transaction manager beans when
// the application has not registered its own.
type Transaction struct{}

// NewTransaction returns the transaction auto-configuration.
func NewTransaction() *Transaction { return &Transaction{} }

// Name implements AutoConfiguration.
func (t *Transaction) Name() string { return NameTransaction }

// After implements AutoConfiguration.
func (t *Transaction) After() []string { return nil }

// Before implements AutoConfiguration.
func (t *Transaction) Before() []string { return []string{NameDMNEngine, NameProcessEngine} }

// Condition implements AutoConfiguration.
func (t *Transaction) Condition() condition.Condition { return nil }

// Configure opens the data source from the datasource section unless a
// dataSource bean exists, then registers a transaction manager over it
// unless one exists.
func (t *Transaction) Configure(ctx context.Context, env *Environment) error {
	log := env.log()

	if !env.Container.Has(di.Beans.DataSource) {
		comp, err := datasource.NewComponent(ctx, env.Config.DataSource, log)
		if err != nil {
			return err
		}
		if err := env.Components.Register(comp); err != nil {
			_ = comp.Stop(ctx)
			return err
		}
		if err := env.Container.RegisterSingleton(di.Beans.DataSource, comp.DB()); err != nil {
			return err
		}
		log.Info("Data source configured", map[string]interface{}{
			logger.FieldDriver: env.Config.DataSource.Driver,
		})
	}

	db, err := di.Resolve[*sql.DB](env.Container, di.Beans.DataSource)
	if err != nil {
		return missing(di.Beans.DataSource, err)
	}

	_, created, err := di.RegisterIfAbsent(env.Container, di.Beans.TransactionManager, func() (tx.Manager, error) {
		m, err := tx.NewSQLManager(db)
		if err != nil {
			return nil, err
		}
		return m, nil
	})
	if err != nil {
		return err
	}
	if created {
		log.Debug("Transaction manager registered", map[string]interface{}{logger.FieldBean: di.Beans.TransactionManager})
	}
	return nil
}
