// Package testutil provides test utilities for stockroom: migrated
// in-memory databases and request fixtures.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/stockroom/internal/model"
	"github.com/Veraticus/stockroom/internal/storage"
)

// TestDB is a migrated in-memory database.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// Option seeds a TestDB during setup.
type Option func(context.Context, *TestDB) error

// WithRequests seeds requests.
func WithRequests(requests ...model.Request) Option {
	return func(ctx context.Context, db *TestDB) error {
		return db.Storage.SaveRequests(ctx, requests)
	}
}

// WithItems seeds items. Their canonical categories are filled in.
func WithItems(items ...model.Item) Option {
	return func(ctx context.Context, db *TestDB) error {
		for i := range items {
			if err := db.Storage.SaveItem(ctx, &items[i]); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithCategories creates extra categories with empty descriptions.
func WithCategories(names ...string) Option {
	return func(ctx context.Context, db *TestDB) error {
		for _, name := range names {
			if _, err := db.Storage.CreateCategory(ctx, name, ""); err != nil {
				return err
			}
		}
		return nil
	}
}

// SetupTestDB creates a new in-memory test database, applies opts in order
// and closes the database when the test ends.
//
// Example:
//
//	db := testutil.SetupTestDB(t,
//		testutil.WithRequests(
//			testutil.NewRequest("r-1").Item("Pens", 10).Build(),
//		),
//	)
func SetupTestDB(t *testing.T, opts ...Option) *TestDB {
	t.Helper()

	// Create in-memory SQLite storage
	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Register cleanup
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	db := &TestDB{Storage: store, t: t}
	for _, opt := range opts {
		if err := opt(ctx, db); err != nil {
			t.Fatalf("failed to seed test database: %v", err)
		}
	}
	return db
}

// MustGetRequest returns the stored request or fails the test.
func (db *TestDB) MustGetRequest(id string) model.Request {
	db.t.Helper()
	req, err := db.Storage.GetRequest(context.Background(), id)
	if err != nil {
		db.t.Fatalf("failed to get request %q: %v", id, err)
	}
	return *req
}
