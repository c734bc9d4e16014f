// Package tx provides the transaction manager handed to engines during
// bootstrap. Engines treat it as an opaque collaborator; SQLManager is the
// database/sql implementation registered by default.
package tx

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kbukum/dmnkit/errors"
	"github.com/kbukum/dmnkit/logger"
)

// Manager runs work inside a transaction.
type Manager interface {
	// InTransaction runs fn in a new transaction, committing when fn returns
	// nil and rolling back otherwise.
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error
}

// SQLManager implements Manager on a *sql.DB.
type SQLManager struct {
	db   *sql.DB
	opts *sql.TxOptions
}

// Option configures a SQLManager.
type Option func(*SQLManager)

// WithIsolation sets the isolation level of new transactions.
func WithIsolation(level sql.IsolationLevel) Option {
	return func(m *SQLManager) { m.txOptions().Isolation = level }
}

// WithReadOnly marks new transactions read-only.
func WithReadOnly() Option {
	return func(m *SQLManager) { m.txOptions().ReadOnly = true }
}

func (m *SQLManager) txOptions() *sql.TxOptions {
	if m.opts == nil {
		m.opts = &sql.TxOptions{}
	}
	return m.opts
}

// NewSQLManager creates a transaction manager over db.
func NewSQLManager(db *sql.DB, opts ...Option) (*SQLManager, error) {
	if db == nil {
		return nil, errors.MissingCollaborator("dataSource")
	}
	m := &SQLManager{db: db}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// DataSource returns the managed database handle.
func (m *SQLManager) DataSource() *sql.DB { return m.db }

// InTransaction implements Manager.
func (m *SQLManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) (err error) {
	tx, err := m.db.BeginTx(ctx, m.opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Warn("Transaction rollback failed", map[string]interface{}{
				logger.FieldError: rbErr.Error(),
			})
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
