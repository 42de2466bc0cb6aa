package test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hrygo/recognizers/internal/profile"
	"github.com/hrygo/recognizers/store"
	"github.com/hrygo/recognizers/store/db"
)

// NewTestingStore opens a migrated store. It uses SQLite in a temporary
// directory unless DRIVER=postgres and POSTGRES_TEST_DSN are set.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()
	st := NewUnmigratedStore(t)
	if err := st.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return st
}

// NewUnmigratedStore opens a store without applying any schema.
func NewUnmigratedStore(t *testing.T) *store.Store {
	t.Helper()
	p := getTestingProfile(t)
	driver, err := db.NewDBDriver(p)
	if err != nil {
		t.Fatalf("failed to create db driver: %v", err)
	}
	st := store.New(driver, p)
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

func getTestingProfile(t *testing.T) *profile.Profile {
	t.Helper()
	p := &profile.Profile{
		Mode:    "dev",
		Driver:  "sqlite",
		Data:    t.TempDir(),
		Version: "test",
		History: true,
	}
	if os.Getenv("DRIVER") == "postgres" {
		dsn := os.Getenv("POSTGRES_TEST_DSN")
		if dsn == "" {
			t.Skip("POSTGRES_TEST_DSN is not set")
		}
		p.Driver = "postgres"
		p.DSN = dsn
		return p
	}
	p.DSN = filepath.Join(p.Data, "recognizers_test.db")
	return p
}
