package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "github.com/mattn/go-sqlite3"    // registers "sqlite3"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

type Config struct {
	// DSN is either a SQLite file path or a postgres:// URL.
	DSN string
}

// DefaultDSN is ~/.mangasearch/history.db.
func DefaultDSN() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".mangasearch", "history.db")
}

func (c Config) dsn() string {
	if strings.TrimSpace(c.DSN) == "" {
		return DefaultDSN()
	}
	return strings.TrimSpace(c.DSN)
}

func (c Config) Dialect() Dialect {
	d := strings.ToLower(c.dsn())
	if strings.HasPrefix(d, "postgres://") || strings.HasPrefix(d, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

func (d Dialect) driverName() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite3"
}

func EnsureDataDir(cfg Config) error {
	if cfg.Dialect() != DialectSQLite {
		return nil
	}
	return os.MkdirAll(filepath.Dir(cfg.dsn()), 0o755)
}

// Open returns a pooled handle. Callers acquire connections per operation.
func Open(cfg Config) (*sql.DB, error) {
	if err := EnsureDataDir(cfg); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}

	dialect := cfg.Dialect()
	db, err := sql.Open(dialect.driverName(), cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}

	if dialect == DialectSQLite {
		if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("pragma journal_mode: %w", err)
		}
		if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("pragma busy_timeout: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	return db, nil
}
