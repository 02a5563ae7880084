package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/stockroom/internal/category"
	"github.com/Veraticus/stockroom/internal/common"
	"github.com/Veraticus/stockroom/internal/model"
)

const categoryColumns = `id, name, description, canonical, created_at, is_active`

func scanCategory(row interface{ Scan(...any) error }) (model.Category, error) {
	var cat model.Category
	var canonical string
	err := row.Scan(&cat.ID, &cat.Name, &cat.Description, &canonical, &cat.CreatedAt, &cat.IsActive)
	cat.Canonical = model.CanonicalCategory(canonical)
	return cat, err
}

// GetCategories returns all active categories.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE is_active = 1
		ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// GetCategoryByName returns an active category by its exact name.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE name = ? AND is_active = 1`

	cat, err := scanCategory(s.db.QueryRowContext(ctx, query, strings.TrimSpace(name)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %q: %w", name, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return &cat, nil
}

// CreateCategory creates a new category, or reactivates a deleted one with
// the same name. The canonical code is derived from the name.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, name, description string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)

	existingQuery := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE name = ?`

	existing, err := scanCategory(s.db.QueryRowContext(ctx, existingQuery, name))
	if err == nil {
		if !existing.IsActive {
			updateQuery := `UPDATE categories SET is_active = 1, description = ? WHERE id = ?`
			if _, err := s.db.ExecContext(ctx, updateQuery, description, existing.ID); err != nil {
				return nil, fmt.Errorf("failed to reactivate category: %w", err)
			}
			existing.IsActive = true
			existing.Description = description
			slog.Info("reactivated existing category", "name", name)
			return &existing, nil
		}
		return nil, fmt.Errorf("category %q: %w", name, common.ErrDuplicateEntry)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check existing category: %w", err)
	}

	insertQuery := `
		INSERT INTO categories (name, description, canonical, created_at, is_active)
		VALUES (?, ?, ?, ?, 1)`

	canonical := category.Normalize(name)
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, insertQuery, name, description, string(canonical), now)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get category ID: %w", err)
	}

	slog.Info("created new category", "name", name, "id", id, "canonical", canonical)
	return &model.Category{
		ID:          int(id),
		Name:        name,
		Description: description,
		Canonical:   canonical,
		CreatedAt:   now,
		IsActive:    true,
	}, nil
}

// DeleteCategory soft-deletes a category. Items keep their labels.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `UPDATE categories SET is_active = 0 WHERE id = ? AND is_active = 1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("category %d: %w", id, common.ErrNotFound)
	}

	slog.Info("deleted category", "id", id)
	return nil
}
