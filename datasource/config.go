package datasource

import (
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/dmnkit/security"
	"github.com/kbukum/dmnkit/validation"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds data source connection configuration.
type Config struct {
	// Driver selects the database/sql driver: "sqlite" or "postgres".
	Driver string `mapstructure:"driver" validate:"required,oneof=sqlite postgres"`

	// URL is the driver connection string, e.g. "file:dmn.db" or
	// "postgres://localhost:5432/flowable?sslmode=disable".
	URL string `mapstructure:"url" validate:"required"`

	// Username and Password are merged into postgres URLs. Password may be
	// written as ENC(...).
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`

	// EncryptionKey decrypts ENC(...) passwords.
	EncryptionKey string `mapstructure:"encryption_key"`

	// EncryptionAlgorithm is aes-256-gcm (default) or chacha20-poly1305.
	EncryptionAlgorithm string `mapstructure:"encryption_algorithm" validate:"omitempty,oneof=aes-256-gcm chacha20-poly1305"`

	// TLS configures client TLS for postgres connections.
	TLS security.TLSConfig `mapstructure:"tls"`

	// MaxOpenConns sets the maximum number of open connections.
	MaxOpenConns int `mapstructure:"max_open_conns" validate:"gte=0"`

	// MaxIdleConns sets the maximum number of idle connections in the pool.
	MaxIdleConns int `mapstructure:"max_idle_conns" validate:"gte=0"`

	// ConnMaxLifetime is the maximum time a connection may be reused (e.g. "1h").
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`

	// PingTimeout bounds the connectivity check on open (e.g. "5s").
	PingTimeout string `mapstructure:"ping_timeout"`
}

// DefaultConfig returns an in-memory SQLite data source, the embedded
// default when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Driver:          DriverSQLite,
		URL:             "file::memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: "1h",
		PingTimeout:     "5s",
	}
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Driver == "" {
		c.Driver = DriverSQLite
	}
	if c.URL == "" && c.Driver == DriverSQLite {
		c.URL = "file::memory:"
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 10
		if c.inMemory() {
			c.MaxOpenConns = 1
		}
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = c.MaxOpenConns
	}
	if c.ConnMaxLifetime == "" {
		c.ConnMaxLifetime = "1h"
	}
	if c.PingTimeout == "" {
		c.PingTimeout = "5s"
	}
}

// Validate checks that required fields are present and parseable.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	v := validation.New()
	if err := c.TLS.Validate(); err != nil {
		v.AddError("tls", err.Error())
	}
	v.Custom(!c.TLS.IsEnabled() || c.Driver == DriverPostgres, "tls", "only supported for postgres")
	v.Custom(c.MaxIdleConns <= c.MaxOpenConns || c.MaxOpenConns == 0, "max_idle_conns",
		fmt.Sprintf("must be <= max_open_conns (%d)", c.MaxOpenConns))
	v.Custom(!(c.inMemory() && c.MaxOpenConns > 1), "max_open_conns",
		"must be 1 for an in-memory sqlite database")
	for field, d := range map[string]string{"conn_max_lifetime": c.ConnMaxLifetime, "ping_timeout": c.PingTimeout} {
		if d == "" {
			continue
		}
		if _, err := time.ParseDuration(d); err != nil {
			v.AddError(field, fmt.Sprintf("invalid duration %q", d))
		}
	}
	return v.Validate()
}

func (c *Config) inMemory() bool {
	return c.Driver == DriverSQLite && (c.URL == ":memory:" || c.URL == "file::memory:" || containsMemoryMode(c.URL))
}

func containsMemoryMode(url string) bool {
	return strings.Contains(url, "mode=memory")
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return fallback
}
