package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/kbukum/dmnkit/encryption"
	"github.com/kbukum/dmnkit/errors"
	"github.com/kbukum/dmnkit/logger"
)

// Open validates cfg, opens the database and verifies connectivity.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dsn, err := cfg.dsn()
	if err != nil {
		return nil, errors.DataSource(cfg.Driver, err)
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, errors.DataSource(cfg.Driver, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	if cfg.inMemory() {
		// recycling the only connection would drop the database
		db.SetConnMaxLifetime(0)
	} else {
		db.SetConnMaxLifetime(parseDuration(cfg.ConnMaxLifetime, time.Hour))
	}

	pingCtx, cancel := context.WithTimeout(ctx, parseDuration(cfg.PingTimeout, 5*time.Second))
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, errors.DataSource(cfg.Driver, err)
	}

	logger.Info("Data source opened", map[string]interface{}{
		logger.FieldDriver: cfg.Driver,
		"max_open_conns":   cfg.MaxOpenConns,
	})
	return db, nil
}

// dsn builds the driver connection string, decrypting the password if
// it is sealed and adding TLS parameters for postgres.
func (c *Config) dsn() (string, error) {
	if c.Driver != DriverPostgres {
		return c.URL, nil
	}
	tlsParams := c.TLS.PostgresParams()
	if c.Username == "" && c.Password == "" && tlsParams == nil {
		return c.URL, nil
	}

	password, err := c.revealPassword()
	if err != nil {
		return "", err
	}

	if strings.HasPrefix(c.URL, "postgres://") || strings.HasPrefix(c.URL, "postgresql://") {
		u, err := url.Parse(c.URL)
		if err != nil {
			return "", fmt.Errorf("parse postgres url: %w", err)
		}
		if c.Username != "" || password != "" {
			user := c.Username
			if user == "" && u.User != nil {
				user = u.User.Username()
			}
			if password != "" {
				u.User = url.UserPassword(user, password)
			} else {
				u.User = url.User(user)
			}
		}
		if tlsParams != nil {
			q := u.Query()
			for k, v := range tlsParams {
				q.Set(k, v)
			}
			u.RawQuery = q.Encode()
		}
		return u.String(), nil
	}

	// key=value connection string
	parts := []string{c.URL}
	if c.Username != "" {
		parts = append(parts, "user="+quoteValue(c.Username))
	}
	if password != "" {
		parts = append(parts, "password="+quoteValue(password))
	}
	for _, k := range sortedKeys(tlsParams) {
		parts = append(parts, k+"="+quoteValue(tlsParams[k]))
	}
	return strings.Join(parts, " "), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *Config) revealPassword() (string, error) {
	if !encryption.IsSealed(c.Password) {
		return c.Password, nil
	}
	var enc encryption.Encryptor
	if c.EncryptionKey != "" {
		var opts []encryption.Option
		if c.EncryptionAlgorithm != "" {
			opts = append(opts, encryption.WithAlgorithm(encryption.Algorithm(c.EncryptionAlgorithm)))
		}
		e, err := encryption.New(c.EncryptionKey, opts...)
		if err != nil {
			return "", err
		}
		enc = e
	}
	password, err := encryption.Reveal(enc, c.Password)
	if err != nil {
		return "", fmt.Errorf("decrypt password: %w", err)
	}
	return password, nil
}

// quoteValue quotes a libpq key=value value.
func quoteValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
