package store

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"

	"github.com/pkg/errors"
)

//go:embed migration
var migrationFS embed.FS

// Migrate applies the latest schema on a fresh database. Already-initialized
// databases are left untouched; incremental migrations are added alongside
// the schema files when the schema next changes.
func (s *Store) Migrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "check database initialization")
	}
	if initialized {
		slog.Debug("database already initialized", "driver", s.profile.Driver)
		return nil
	}

	buf, err := fs.ReadFile(migrationFS, "migration/"+s.profile.Driver+"/LATEST.sql")
	if err != nil {
		return errors.Wrapf(err, "read latest schema for driver %q", s.profile.Driver)
	}

	if _, err := s.driver.GetDB().ExecContext(ctx, string(buf)); err != nil {
		return errors.Wrap(err, "apply latest schema")
	}
	slog.Info("database initialized", "driver", s.profile.Driver)
	return nil
}
