// Package testhelpers provides utilities for testing PocketBase-based
// applications.
package testhelpers

import (
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sormatch/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestSorItem inserts one SOR snapshot row directly and returns it.
// Pass a nil rate for an unresolved price.
func CreateTestSorItem(t *testing.T, app *pocketbase.PocketBase, sortOrder int, code, description, unit string, rate *float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("sor_items")
	if err != nil {
		t.Fatalf("failed to find sor_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("code", code)
	record.Set("description", description)
	record.Set("unit", unit)
	record.Set("sort_order", sortOrder)
	if rate != nil {
		record.Set("rate", *rate)
		record.Set("rate_resolved", true)
	}

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test sor item: %v", err)
	}
	return record
}

// Float returns a pointer to v, for nullable rate fields in test fixtures.
func Float(v float64) *float64 {
	return &v
}
