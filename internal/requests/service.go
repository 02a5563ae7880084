// Package requests implements the request lifecycle on top of storage.
package requests

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/stockroom/internal/common"
	"github.com/Veraticus/stockroom/internal/model"
	"github.com/Veraticus/stockroom/internal/service"
)

// NewRequest holds the user-supplied fields of a request.
type NewRequest struct {
	ItemName      string
	Priority      string
	RequesterName string
	Notes         string
	Quantity      int
}

// transitions lists the statuses each action may start from.
var transitions = map[model.RequestStatus]model.RequestStatus{
	model.StatusApproved:  model.StatusPending,
	model.StatusRejected:  model.StatusPending,
	model.StatusCompleted: model.StatusApproved,
}

// Service creates requests and moves them through their lifecycle.
type Service struct {
	store  service.RequestStore
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides request ID generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService creates a request workflow service.
func NewService(store service.RequestStore, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates and stores a new pending request.
func (s *Service) Create(ctx context.Context, in NewRequest) (*model.Request, error) {
	name := strings.TrimSpace(in.ItemName)
	if name == "" {
		return nil, fmt.Errorf("%w: item name is required", common.ErrInvalidRequest)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive, got %d", common.ErrInvalidRequest, in.Quantity)
	}

	priority := model.PriorityMedium
	if strings.TrimSpace(in.Priority) != "" {
		p, err := model.ParsePriority(in.Priority)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrInvalidRequest, err)
		}
		priority = p
	}

	req := model.Request{
		ID:            s.newID(),
		ItemName:      name,
		Quantity:      in.Quantity,
		Priority:      priority,
		Status:        model.StatusPending,
		RequesterName: strings.TrimSpace(in.RequesterName),
		Notes:         strings.TrimSpace(in.Notes),
		CreatedAt:     s.now().UTC(),
	}

	if err := s.store.SaveRequests(ctx, []model.Request{req}); err != nil {
		return nil, fmt.Errorf("failed to save request: %w", err)
	}

	s.logger.Info("created request", "id", req.ID, "item", req.ItemName, "quantity", req.Quantity, "priority", req.Priority)
	return &req, nil
}

// Approve moves a pending request to approved.
func (s *Service) Approve(ctx context.Context, id string) (*model.Request, error) {
	return s.transition(ctx, id, model.StatusApproved)
}

// Reject moves a pending request to rejected.
func (s *Service) Reject(ctx context.Context, id string) (*model.Request, error) {
	return s.transition(ctx, id, model.StatusRejected)
}

// Complete moves an approved request to completed.
func (s *Service) Complete(ctx context.Context, id string) (*model.Request, error) {
	return s.transition(ctx, id, model.StatusCompleted)
}

// Cancel removes a request that is still pending.
func (s *Service) Cancel(ctx context.Context, id string) error {
	req, err := s.store.GetRequest(ctx, id)
	if err != nil {
		return err
	}
	if req.Status != model.StatusPending {
		return fmt.Errorf("%w: cannot cancel %s request %s", common.ErrInvalidTransition, req.Status, id)
	}

	// The status may have changed since the read; the store re-checks it.
	if err := s.store.DeleteRequest(ctx, id, model.StatusPending); err != nil {
		return fmt.Errorf("failed to cancel request: %w", err)
	}

	s.logger.Info("canceled request", "id", id)
	return nil
}

// Get returns a request by ID.
func (s *Service) Get(ctx context.Context, id string) (*model.Request, error) {
	return s.store.GetRequest(ctx, id)
}

// List returns requests matching the filter.
func (s *Service) List(ctx context.Context, filter service.RequestFilter) ([]model.Request, error) {
	return s.store.ListRequests(ctx, filter)
}

func (s *Service) transition(ctx context.Context, id string, to model.RequestStatus) (*model.Request, error) {
	req, err := s.store.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if from := transitions[to]; req.Status != from {
		return nil, fmt.Errorf("%w: %s request %s cannot become %s", common.ErrInvalidTransition, req.Status, id, to)
	}

	if err := s.store.UpdateRequestStatus(ctx, id, req.Status, to); err != nil {
		return nil, fmt.Errorf("failed to update request: %w", err)
	}

	s.logger.Info("updated request status", "id", id, "from", req.Status, "to", to)
	req.Status = to
	return req, nil
}
