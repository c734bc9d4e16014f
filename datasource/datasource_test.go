package datasource

import (
	"context"
	"strings"
	"testing"

	"github.com/kbukum/dmnkit/component"
	"github.com/kbukum/dmnkit/encryption"
	"github.com/kbukum/dmnkit/errors"
	"github.com/kbukum/dmnkit/logger"
	"github.com/kbukum/dmnkit/security"
)

func TestOpenInMemorySQLite(t *testing.T) {
	db, err := Open(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE t (id INTEGER)`); err != nil {
		t.Fatalf("exec failed: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO t VALUES (1)`); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&n); err != nil || n != 1 {
		t.Errorf("expected one row on the single in-memory connection, got %d, %v", n, err)
	}
}

func TestOpenSQLiteFile(t *testing.T) {
	path := t.TempDir() + "/dmn.db"
	db, err := Open(context.Background(), Config{Driver: DriverSQLite, URL: "file:" + path})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	db.Close()
}

func TestOpenInvalidConfig(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "oracle", URL: "x"})
	if !errors.HasCode(err, errors.ErrCodeInvalidProperties) {
		t.Errorf("expected INVALID_PROPERTIES, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"defaults", DefaultConfig(), ""},
		{"missing url", Config{Driver: DriverPostgres}, "url: is required"},
		{"idle above open", Config{Driver: DriverPostgres, URL: "postgres://h/db", MaxOpenConns: 2, MaxIdleConns: 5}, "max_idle_conns"},
		{"memory pool", Config{Driver: DriverSQLite, URL: "file::memory:", MaxOpenConns: 4, MaxIdleConns: 1}, "max_open_conns"},
		{"bad duration", Config{Driver: DriverSQLite, URL: "file:x.db", PingTimeout: "soon"}, "ping_timeout"},
		{"bad algorithm", Config{Driver: DriverSQLite, URL: "file:x.db", EncryptionAlgorithm: "rot13"}, "encryption_algorithm"},
		{"tls on sqlite", Config{Driver: DriverSQLite, URL: "file:x.db", TLS: security.TLSConfig{SkipVerify: true}}, "only supported for postgres"},
		{"tls half pair", Config{Driver: DriverPostgres, URL: "postgres://h/db", TLS: security.TLSConfig{CertFile: "c.pem"}}, "tls"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Driver != DriverSQLite || cfg.URL != "file::memory:" || cfg.MaxOpenConns != 1 {
		t.Errorf("unexpected defaults %+v", cfg)
	}

	pg := Config{Driver: DriverPostgres, URL: "postgres://h/db"}
	pg.ApplyDefaults()
	if pg.MaxOpenConns != 10 || pg.MaxIdleConns != 10 {
		t.Errorf("unexpected postgres pool defaults %+v", pg)
	}
}

func TestPostgresDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"url untouched without credentials", Config{Driver: DriverPostgres, URL: "postgres://h:5432/flowable"}, "postgres://h:5432/flowable"},
		{"url with credentials", Config{Driver: DriverPostgres, URL: "postgres://h:5432/flowable?sslmode=disable", Username: "dmn", Password: "p@ss"}, "postgres://dmn:p%40ss@h:5432/flowable?sslmode=disable"},
		{"key value", Config{Driver: DriverPostgres, URL: "host=h dbname=flowable", Username: "dmn", Password: "it's"}, `host=h dbname=flowable user=dmn password='it\'s'`},
		{"url with tls", Config{Driver: DriverPostgres, URL: "postgres://h:5432/flowable", TLS: security.TLSConfig{CAFile: "/ca.pem"}}, "postgres://h:5432/flowable?sslmode=verify-full&sslrootcert=%2Fca.pem"},
		{"key value with tls", Config{Driver: DriverPostgres, URL: "host=h", TLS: security.TLSConfig{SkipVerify: true}}, "host=h sslmode=require"},
		{"sqlite ignores credentials", Config{Driver: DriverSQLite, URL: "file:x.db", Username: "u", Password: "p"}, "file:x.db"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.cfg.dsn()
			if err != nil {
				t.Fatalf("dsn failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestPostgresDSNWithSealedPassword(t *testing.T) {
	enc, _ := encryption.New("ds-key", encryption.WithAlgorithm(encryption.AlgorithmChaCha20))
	sealed, _ := encryption.Seal(enc, "s3cret")

	cfg := Config{
		Driver:              DriverPostgres,
		URL:                 "postgres://h/flowable",
		Username:            "dmn",
		Password:            sealed,
		EncryptionKey:       "ds-key",
		EncryptionAlgorithm: string(encryption.AlgorithmChaCha20),
	}
	got, err := cfg.dsn()
	if err != nil {
		t.Fatalf("dsn failed: %v", err)
	}
	if got != "postgres://dmn:s3cret@h/flowable" {
		t.Errorf("unexpected dsn %q", got)
	}

	cfg.EncryptionKey = ""
	if _, err := cfg.dsn(); err == nil {
		t.Error("expected error for sealed password without key")
	}
}

func TestComponentLifecycle(t *testing.T) {
	c, err := NewComponent(context.Background(), DefaultConfig(), logger.NewNop())
	if err != nil {
		t.Fatalf("NewComponent failed: %v", err)
	}
	if c.DB() == nil || c.Name() != "datasource" {
		t.Fatalf("unexpected component %+v", c)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if h := c.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %+v", h)
	}
	if d := c.Describe(); d.Type != "datasource" || !strings.Contains(d.Details, "sqlite") {
		t.Errorf("unexpected description %+v", d)
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if h := c.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy after stop, got %+v", h)
	}
}
