// Package storage provides the data persistence layer for stockroom.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/stockroom/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrEmptySlice       = errors.New("slice cannot be empty")
	ErrInvalidDateRange = errors.New("start date must be before end date")
	ErrInvalidItem      = errors.New("invalid item")
	ErrInvalidRequest   = errors.New("invalid request")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateItem validates a single item.
func validateItem(item *model.Item) error {
	if item == nil {
		return fmt.Errorf("%w: item", ErrNilParameter)
	}
	if strings.TrimSpace(item.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidItem)
	}
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidItem)
	}
	return nil
}

// validateRequests validates a slice of requests.
func validateRequests(requests []model.Request) error {
	if requests == nil {
		return fmt.Errorf("%w: requests", ErrNilParameter)
	}
	if len(requests) == 0 {
		return fmt.Errorf("%w: requests", ErrEmptySlice)
	}

	for i := range requests {
		if err := validateRequest(&requests[i]); err != nil {
			return fmt.Errorf("request at index %d: %w", i, err)
		}
	}
	return nil
}

// validateRequest checks the fields storage relies on. Quantity, priority
// and status are stored as given: imported data may be out of range and
// the report must still see it.
func validateRequest(req *model.Request) error {
	if req == nil {
		return fmt.Errorf("%w: request", ErrNilParameter)
	}
	if strings.TrimSpace(req.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.ItemName) == "" {
		return fmt.Errorf("%w: missing item name", ErrInvalidRequest)
	}
	if req.CreatedAt.IsZero() {
		return fmt.Errorf("%w: missing created date", ErrInvalidRequest)
	}
	return nil
}
