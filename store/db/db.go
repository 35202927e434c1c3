// Package db selects the concrete store driver from the profile.
//
// SQLite backs development and single-node deployments; PostgreSQL is the
// production driver. Both implement the full store.Driver surface.
package db

import (
	"github.com/pkg/errors"

	"github.com/corrnet/corrnet/internal/profile"
	"github.com/corrnet/corrnet/store"
	"github.com/corrnet/corrnet/store/db/postgres"
	"github.com/corrnet/corrnet/store/db/sqlite"
)

// NewDBDriver creates new db driver based on profile.
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
