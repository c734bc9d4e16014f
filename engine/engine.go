package engine

import (
	"database/sql"

	"github.com/kbukum/dmnkit/errors"
	"github.com/kbukum/dmnkit/tx"
)

// Schema update strategies.
const (
	SchemaUpdateTrue       = "true"
	SchemaUpdateFalse      = "false"
	SchemaUpdateCreateDrop = "create-drop"
	SchemaUpdateDropCreate = "drop-create"
)

// Properties are the flowable.* settings every engine shares.
type Properties struct {
	DatabaseSchemaUpdate string `mapstructure:"database_schema_update" validate:"omitempty,oneof=true false create-drop drop-create"`
	DatabaseSchema       string `mapstructure:"database_schema"`
	DatabaseCatalog      string `mapstructure:"database_catalog"`
	DatabaseTablePrefix  string `mapstructure:"database_table_prefix"`
	TablePrefixIsSchema  bool   `mapstructure:"table_prefix_is_schema"`
}

// DefaultProperties returns the shared defaults.
func DefaultProperties() Properties {
	return Properties{DatabaseSchemaUpdate: SchemaUpdateTrue}
}

// Configuration is the state common to all engine configurations.
type Configuration struct {
	DataSource                    *sql.DB
	TransactionManager            tx.Manager
	TransactionsExternallyManaged bool

	DatabaseSchemaUpdate string
	DatabaseSchema       string
	DatabaseCatalog      string
	DatabaseTablePrefix  string
	TablePrefixIsSchema  bool
}

// EngineConfig lets Configuration satisfy Configurable when embedded.
func (c *Configuration) EngineConfig() *Configuration { return c }

// Configurable is implemented by every engine configuration.
type Configurable interface {
	EngineConfig() *Configuration
}

// ConfigureTransactions installs the transaction manager. A nil manager is a
// MISSING_COLLABORATOR error.
func ConfigureTransactions(cfg Configurable, txManager tx.Manager) error {
	if txManager == nil {
		return errors.MissingCollaborator("transactionManager")
	}
	cfg.EngineConfig().TransactionManager = txManager
	return nil
}

// ConfigureEngine installs the data source and copies the shared
// properties. Transactions are marked externally managed when a transaction
// manager is already configured. A nil data source is a MISSING_COLLABORATOR
// error.
func ConfigureEngine(cfg Configurable, dataSource *sql.DB, props Properties) error {
	if dataSource == nil {
		return errors.MissingCollaborator("dataSource")
	}
	c := cfg.EngineConfig()
	c.DataSource = dataSource
	c.TransactionsExternallyManaged = c.TransactionManager != nil

	if props.DatabaseSchemaUpdate != "" {
		c.DatabaseSchemaUpdate = props.DatabaseSchemaUpdate
	}
	c.DatabaseSchema = props.DatabaseSchema
	c.DatabaseCatalog = props.DatabaseCatalog
	c.DatabaseTablePrefix = props.DatabaseTablePrefix
	c.TablePrefixIsSchema = props.TablePrefixIsSchema
	return nil
}

// Configurer customizes an engine configuration after the defaults have
// been applied.
type Configurer[T any] func(cfg T)

// Apply runs configurers in order and returns how many ran. Nil entries are
// skipped.
func Apply[T any](cfg T, configurers []Configurer[T]) int {
	applied := 0
	for _, c := range configurers {
		if c == nil {
			continue
		}
		c(cfg)
		applied++
	}
	return applied
}
