package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/stockroom/internal/model"
)

// ExpectedSchemaVersion is the PRAGMA user_version a fully migrated
// database reports.
const ExpectedSchemaVersion = 4

// Migration moves the schema to Version. Statements run first, in order,
// then Seed when set; both share the migration's transaction.
type Migration struct {
	Seed        func(context.Context, *sql.Tx) error
	Description string
	Statements  []string
	Version     int
}

// defaultCategoryDescriptions seeds one category per canonical code.
var defaultCategoryDescriptions = map[model.CanonicalCategory]string{
	model.CategoryElectronics:       "Devices, gadgets and other hardware",
	model.CategoryOfficeSupplies:    "Stationery and office consumables",
	model.CategoryCleaningMaterials: "Cleaning products and equipment",
	model.CategoryFurniture:         "Desks, chairs, tables and furnishings",
	model.CategorySoftware:          "Programs, applications and licenses",
	model.CategoryOther:             "Anything that fits no other category",
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Categories and items",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS categories (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT UNIQUE NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				canonical TEXT NOT NULL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				is_active BOOLEAN DEFAULT 1
			)`,
			`CREATE INDEX idx_categories_active ON categories(is_active)`,
			`CREATE TABLE IF NOT EXISTS items (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				category_label TEXT NOT NULL DEFAULT '',
				category TEXT NOT NULL,
				quantity INTEGER NOT NULL DEFAULT 0,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE INDEX idx_items_category ON items(category)`,
		},
	},
	{
		Version:     2,
		Description: "Requests",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS requests (
				id TEXT PRIMARY KEY,
				item_name TEXT NOT NULL,
				quantity INTEGER NOT NULL,
				priority TEXT NOT NULL,
				status TEXT NOT NULL,
				requester_name TEXT NOT NULL DEFAULT '',
				notes TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL
			)`,
			`CREATE INDEX idx_requests_created_at ON requests(created_at)`,
			`CREATE INDEX idx_requests_status ON requests(status)`,
		},
	},
	{
		Version:     3,
		Description: "Item location",
		Statements: []string{
			`ALTER TABLE items ADD COLUMN location TEXT NOT NULL DEFAULT ''`,
		},
	},
	{
		Version:     4,
		Description: "Canonical categories",
		Seed:        seedCanonicalCategories,
	},
}

func seedCanonicalCategories(ctx context.Context, tx *sql.Tx) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO categories (name, description, canonical, created_at, is_active)
		VALUES (?, ?, ?, ?, 1)`)
	if err != nil {
		return fmt.Errorf("failed to prepare seed statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	canonical := model.CanonicalCategories()
	for _, c := range canonical {
		if _, err := stmt.ExecContext(ctx, string(c), defaultCategoryDescriptions[c], string(c), now); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", c, err)
		}
	}
	slog.Debug("Seeded canonical categories", "count", len(canonical))
	return nil
}

func (m Migration) apply(ctx context.Context, tx *sql.Tx) error {
	for i, stmt := range m.Statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("statement %d: %w", i+1, err)
		}
	}
	if m.Seed != nil {
		if err := m.Seed(ctx, tx); err != nil {
			return err
		}
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return nil
}

// Migrate applies every migration newer than the recorded schema version,
// each in its own transaction.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := s.withTx(ctx, func(tx *sql.Tx) error { return m.apply(ctx, tx) }); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}
		slog.Info("Applied migration", "version", m.Version, "description", m.Description)
	}

	final, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if final != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, final)
	}
	return nil
}

// SchemaVersion returns the schema version recorded in the database.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}
