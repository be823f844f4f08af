// Package storetest opens throwaway sqlite-backed stores for tests.
package storetest

import (
	"context"
	"path/filepath"
	"testing"

	"journalist-api/internal/store"
	"journalist-api/pkg/db"
)

func Open(t testing.TB) *store.Store {
	t.Helper()

	gdb, err := db.OpenGorm(db.Config{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "journalist.db"),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	st := store.New(gdb)
	if err := st.AutoMigrate(context.Background()); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return st
}
