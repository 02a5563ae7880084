// Package service defines the interfaces shared between stockroom's components.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/stockroom/internal/model"
	"github.com/Veraticus/stockroom/internal/report"
)

// RequestFilter defines filtering options for request queries. Zero values
// disable the corresponding filter; To is exclusive.
type RequestFilter struct {
	From   *time.Time
	To     *time.Time
	Status model.RequestStatus
	Limit  int
}

// CategoryStore persists user-managed categories.
type CategoryStore interface {
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	CreateCategory(ctx context.Context, name, description string) (*model.Category, error)
	DeleteCategory(ctx context.Context, id int) error
}

// ItemStore persists inventory items.
type ItemStore interface {
	SaveItem(ctx context.Context, item *model.Item) error
	GetItem(ctx context.Context, id string) (*model.Item, error)
	ListItems(ctx context.Context, categoryFilter string) ([]model.Item, error)
}

// RequestStore persists item requests.
type RequestStore interface {
	SaveRequests(ctx context.Context, requests []model.Request) error
	GetRequest(ctx context.Context, id string) (*model.Request, error)
	ListRequests(ctx context.Context, filter RequestFilter) ([]model.Request, error)
	GetRequestsByPeriod(ctx context.Context, period report.Period, loc *time.Location) ([]model.Request, error)
	// UpdateRequestStatus and DeleteRequest apply only while the request
	// still has the given status.
	UpdateRequestStatus(ctx context.Context, id string, from, to model.RequestStatus) error
	DeleteRequest(ctx context.Context, id string, status model.RequestStatus) error
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	CategoryStore
	ItemStore
	RequestStore

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
