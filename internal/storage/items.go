package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/stockroom/internal/category"
	"github.com/Veraticus/stockroom/internal/common"
	"github.com/Veraticus/stockroom/internal/model"
)

const itemColumns = `id, name, category_label, category, location, quantity, created_at, updated_at`

func scanItem(row interface{ Scan(...any) error }) (model.Item, error) {
	var item model.Item
	var canonical string
	err := row.Scan(&item.ID, &item.Name, &item.CategoryLabel, &canonical, &item.Location,
		&item.Quantity, &item.CreatedAt, &item.UpdatedAt)
	item.Category = model.CanonicalCategory(canonical)
	return item, err
}

// SaveItem inserts or updates an item. The canonical category is always
// recomputed from the stored label.
func (s *SQLiteStorage) SaveItem(ctx context.Context, item *model.Item) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateItem(item); err != nil {
		return err
	}

	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	item.Category = category.Normalize(item.CategoryLabel)

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO items (`+itemColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				category_label = excluded.category_label,
				category = excluded.category,
				location = excluded.location,
				quantity = excluded.quantity,
				updated_at = excluded.updated_at`,
			item.ID, item.Name, item.CategoryLabel, string(item.Category), item.Location,
			item.Quantity, item.CreatedAt.UTC(), item.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to save item: %w", err)
		}

		// An update keeps the original creation time.
		if err := tx.QueryRowContext(ctx, `SELECT created_at FROM items WHERE id = ?`, item.ID).Scan(&item.CreatedAt); err != nil {
			return fmt.Errorf("failed to read saved item: %w", err)
		}
		return nil
	})
}

// GetItem returns an item by ID.
func (s *SQLiteStorage) GetItem(ctx context.Context, id string) (*model.Item, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	item, err := scanItem(s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query item: %w", err)
	}
	return &item, nil
}

// ListItems returns items whose category label matches categoryFilter.
// An empty filter or category.All returns every item.
func (s *SQLiteStorage) ListItems(ctx context.Context, categoryFilter string) ([]model.Item, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM items ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		if category.Matches(categoryFilter, item.CategoryLabel) {
			items = append(items, item)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}
	return items, nil
}
