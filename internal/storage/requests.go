package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/stockroom/internal/common"
	"github.com/Veraticus/stockroom/internal/model"
	"github.com/Veraticus/stockroom/internal/report"
	"github.com/Veraticus/stockroom/internal/service"
)

const requestColumns = `id, item_name, quantity, priority, status, requester_name, notes, created_at`

func scanRequest(row interface{ Scan(...any) error }) (model.Request, error) {
	var req model.Request
	var priority, status string
	err := row.Scan(&req.ID, &req.ItemName, &req.Quantity, &priority, &status,
		&req.RequesterName, &req.Notes, &req.CreatedAt)
	req.Priority = model.Priority(priority)
	req.Status = model.RequestStatus(status)
	return req, err
}

// SaveRequests upserts requests in a single transaction.
func (s *SQLiteStorage) SaveRequests(ctx context.Context, requests []model.Request) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRequests(requests); err != nil {
		return err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO requests (`+requestColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				item_name = excluded.item_name,
				quantity = excluded.quantity,
				priority = excluded.priority,
				status = excluded.status,
				requester_name = excluded.requester_name,
				notes = excluded.notes,
				created_at = excluded.created_at`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, req := range requests {
			if _, err := stmt.ExecContext(ctx,
				req.ID, req.ItemName, req.Quantity, string(req.Priority), string(req.Status),
				req.RequesterName, req.Notes, req.CreatedAt.UTC(),
			); err != nil {
				return fmt.Errorf("failed to save request %s: %w", req.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Debug("saved requests", "count", len(requests))
	return nil
}

// GetRequest returns a request by ID.
func (s *SQLiteStorage) GetRequest(ctx context.Context, id string) (*model.Request, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	req, err := scanRequest(s.db.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM requests WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("request %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query request: %w", err)
	}
	return &req, nil
}

// ListRequests returns requests matching filter, oldest first.
func (s *SQLiteStorage) ListRequests(ctx context.Context, filter service.RequestFilter) ([]model.Request, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, fmt.Errorf("%w: %v to %v", ErrInvalidDateRange, *filter.From, *filter.To)
	}

	var (
		clauses []string
		args    []any
	)
	if filter.From != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, filter.From.UTC())
	}
	if filter.To != nil {
		clauses = append(clauses, "created_at < ?")
		args = append(args, filter.To.UTC())
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(filter.Status))
	}

	query := `SELECT ` + requestColumns + ` FROM requests`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY created_at, id`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	requests := []model.Request{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating requests: %w", err)
	}
	return requests, nil
}

// GetRequestsByPeriod returns every request created during the month as
// observed in loc; nil means UTC.
func (s *SQLiteStorage) GetRequestsByPeriod(ctx context.Context, period report.Period, loc *time.Location) ([]model.Request, error) {
	start, end := period.StartIn(loc), period.EndIn(loc)
	return s.ListRequests(ctx, service.RequestFilter{From: &start, To: &end})
}

// UpdateRequestStatus moves a request from status from to status to. The
// check and the write are one statement, so concurrent transitions of the
// same request cannot both succeed. It returns common.ErrNotFound when the
// request is gone and common.ErrInvalidTransition when its status is no
// longer from.
func (s *SQLiteStorage) UpdateRequestStatus(ctx context.Context, id string, from, to model.RequestStatus) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if err := validateString(string(to), "status"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE requests SET status = ? WHERE id = ? AND status = ?`, string(to), id, string(from))
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}
	return s.requireStatusChange(ctx, result, id, from)
}

// DeleteRequest removes a request whose status is still status, with the
// same errors as UpdateRequestStatus.
func (s *SQLiteStorage) DeleteRequest(ctx context.Context, id string, status model.RequestStatus) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM requests WHERE id = ? AND status = ?`, id, string(status))
	if err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	return s.requireStatusChange(ctx, result, id, status)
}

// requireStatusChange explains a conditional write that touched no row.
func (s *SQLiteStorage) requireStatusChange(ctx context.Context, result sql.Result, id string, expected model.RequestStatus) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var current string
	err = s.db.QueryRowContext(ctx, `SELECT status FROM requests WHERE id = ?`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("request %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to query request status: %w", err)
	}
	return fmt.Errorf("%w: request %s is %s, not %s", common.ErrInvalidTransition, id, current, expected)
}
