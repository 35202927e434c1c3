// Package test provides store test helpers backed by a throwaway SQLite
// database per test.
package test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/corrnet/corrnet/internal/profile"
	"github.com/corrnet/corrnet/store"
	"github.com/corrnet/corrnet/store/db"
)

// NewTestingStore creates a migrated sqlite-backed store in a temp directory.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	dir := t.TempDir()
	p := &profile.Profile{
		Mode:   "dev",
		Data:   dir,
		Driver: "sqlite",
		DSN:    filepath.Join(dir, "corrnet_test.db"),
	}

	driver, err := db.NewDBDriver(p)
	if err != nil {
		t.Fatalf("failed to create db driver: %v", err)
	}

	ts := store.New(driver, p)
	if err := ts.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if err := ts.Close(); err != nil {
			t.Logf("failed to close test store: %v", err)
		}
	})
	return ts
}
