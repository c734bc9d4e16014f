package engine

import (
	"context"
	"database/sql"
	"testing"

	"github.com/kbukum/dmnkit/errors"
)

type fakeTx struct{}

func (fakeTx) InTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error {
	return fn(ctx, nil)
}

type testEngineConfig struct {
	Configuration
	Name string
}

func TestConfigureTransactions(t *testing.T) {
	cfg := &testEngineConfig{}
	if err := ConfigureTransactions(cfg, fakeTx{}); err != nil {
		t.Fatalf("ConfigureTransactions failed: %v", err)
	}
	if cfg.TransactionManager == nil {
		t.Error("expected transaction manager to be set")
	}

	err := ConfigureTransactions(&testEngineConfig{}, nil)
	if !errors.HasCode(err, errors.ErrCodeMissingCollaborator) {
		t.Errorf("expected MISSING_COLLABORATOR, got %v", err)
	}
}

func TestConfigureEngine(t *testing.T) {
	db := &sql.DB{}
	cfg := &testEngineConfig{}
	_ = ConfigureTransactions(cfg, fakeTx{})

	props := Properties{
		DatabaseSchemaUpdate: SchemaUpdateFalse,
		DatabaseSchema:       "rules",
		DatabaseCatalog:      "main",
		DatabaseTablePrefix:  "rules.",
		TablePrefixIsSchema:  true,
	}
	if err := ConfigureEngine(cfg, db, props); err != nil {
		t.Fatalf("ConfigureEngine failed: %v", err)
	}

	if cfg.DataSource != db {
		t.Error("expected data source to be passed through unchanged")
	}
	if !cfg.TransactionsExternallyManaged {
		t.Error("expected externally managed transactions with a tx manager")
	}
	if cfg.DatabaseSchemaUpdate != SchemaUpdateFalse || cfg.DatabaseSchema != "rules" ||
		cfg.DatabaseCatalog != "main" || cfg.DatabaseTablePrefix != "rules." || !cfg.TablePrefixIsSchema {
		t.Errorf("shared properties not copied: %+v", cfg.Configuration)
	}
}

func TestConfigureEngineWithoutTxManager(t *testing.T) {
	cfg := &testEngineConfig{}
	cfg.DatabaseSchemaUpdate = SchemaUpdateTrue
	if err := ConfigureEngine(cfg, &sql.DB{}, Properties{}); err != nil {
		t.Fatalf("ConfigureEngine failed: %v", err)
	}
	if cfg.TransactionsExternallyManaged {
		t.Error("expected engine-managed transactions without a tx manager")
	}
	if cfg.DatabaseSchemaUpdate != SchemaUpdateTrue {
		t.Errorf("empty schema update must keep the existing value, got %q", cfg.DatabaseSchemaUpdate)
	}
}

func TestConfigureEngineRequiresDataSource(t *testing.T) {
	err := ConfigureEngine(&testEngineConfig{}, nil, DefaultProperties())
	if !errors.HasCode(err, errors.ErrCodeMissingCollaborator) {
		t.Errorf("expected MISSING_COLLABORATOR, got %v", err)
	}
}

func TestApplyInOrder(t *testing.T) {
	cfg := &testEngineConfig{}
	configurers := []Configurer[*testEngineConfig]{
		func(c *testEngineConfig) { c.Name = "first" },
		nil,
		func(c *testEngineConfig) { c.Name = "second" },
	}
	if n := Apply(cfg, configurers); n != 2 {
		t.Errorf("expected 2 applied, got %d", n)
	}
	if cfg.Name != "second" {
		t.Errorf("expected last configurer to win, got %q", cfg.Name)
	}
}

func TestApplyEmpty(t *testing.T) {
	if n := Apply[*testEngineConfig](&testEngineConfig{}, nil); n != 0 {
		t.Errorf("expected 0, got %d", n)
	}
}

func TestDefaultProperties(t *testing.T) {
	if DefaultProperties().DatabaseSchemaUpdate != "true" {
		t.Error("expected schema update default 'true'")
	}
}
