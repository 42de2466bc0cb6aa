package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	// Import the pure Go SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/hrygo/recognizers/internal/profile"
	"github.com/hrygo/recognizers/store"
)

// SQLite suits a single server instance. Writes are serialized through one
// connection and the journal runs in WAL mode.
type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a database connection with the SQLite driver.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}
	if profile.DSN != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(profile.DSN), 0o755); err != nil {
			return nil, errors.Wrap(err, "failed to create database directory")
		}
	}

	db, err := sql.Open("sqlite", profile.DSN+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	return &DB{db: db, profile: profile}, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) IsInitialized(ctx context.Context) (bool, error) {
	var exists bool
	err := d.db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'recognition')").Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "failed to check if database is initialized")
	}
	return exists, nil
}
