package sqlite

import (
	"context"
	"database/sql"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/pkg/errors"

	"github.com/babynest/babynest/internal/profile"
	"github.com/babynest/babynest/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the SQLite database and applies the schema if needed.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	// Directives for the SQLite driver: enable WAL and a busy timeout so
	// concurrent request handlers do not trip over each other.
	dsn := profile.DSN + "?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", profile.DSN)
	}

	driver := &DB{db: db, profile: profile}
	if err := driver.migrate(context.Background()); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	return driver, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) IsInitialized(ctx context.Context) (bool, error) {
	var exists bool
	err := d.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'profile')",
	).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "failed to check if database is initialized")
	}
	return exists, nil
}

func (d *DB) migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, latestSchema); err != nil {
		return errors.Wrap(err, "failed to apply latest schema")
	}
	return nil
}
