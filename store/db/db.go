package db

import (
	"github.com/pkg/errors"

	"github.com/babynest/babynest/internal/profile"
	"github.com/babynest/babynest/store"
	"github.com/babynest/babynest/store/db/postgres"
	"github.com/babynest/babynest/store/db/sqlite"
)

// NewDBDriver creates new db driver based on profile.
//
// SQLite is the primary driver for a single-user personal deployment.
// PostgreSQL is supported for installations that want pgvector-backed
// document search instead of in-process similarity ranking.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver %q: only 'sqlite' and 'postgres' are supported", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
