package requests

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/stockroom/internal/common"
	"github.com/Veraticus/stockroom/internal/model"
	"github.com/Veraticus/stockroom/internal/service"
	"github.com/Veraticus/stockroom/internal/testutil"
)

var fixedNow = time.Date(2024, time.March, 4, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service {
	t.Helper()

	store := testutil.SetupTestDB(t).Storage

	n := 0
	return NewService(store,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("req-%d", n)
		}),
	)
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		wantErr  error
		name     string
		in       NewRequest
		wantPrio model.Priority
	}{
		{
			name:     "valid",
			in:       NewRequest{ItemName: "  Stapler ", Quantity: 2, Priority: "HIGH", RequesterName: "Alice"},
			wantPrio: model.PriorityHigh,
		},
		{
			name:     "priority defaults to medium",
			in:       NewRequest{ItemName: "Pens", Quantity: 10},
			wantPrio: model.PriorityMedium,
		},
		{
			name:    "missing item name",
			in:      NewRequest{ItemName: "  ", Quantity: 1},
			wantErr: common.ErrInvalidRequest,
		},
		{
			name:    "zero quantity",
			in:      NewRequest{ItemName: "Pens", Quantity: 0},
			wantErr: common.ErrInvalidRequest,
		},
		{
			name:    "negative quantity",
			in:      NewRequest{ItemName: "Pens", Quantity: -1},
			wantErr: common.ErrInvalidRequest,
		},
		{
			name:    "bad priority",
			in:      NewRequest{ItemName: "Pens", Quantity: 1, Priority: "urgent"},
			wantErr: common.ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t)
			ctx := context.Background()

			req, err := svc.Create(ctx, tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, "req-1", req.ID)
			assert.Equal(t, model.StatusPending, req.Status)
			assert.Equal(t, tt.wantPrio, req.Priority)
			assert.Equal(t, fixedNow, req.CreatedAt)

			stored, err := svc.Get(ctx, req.ID)
			require.NoError(t, err)
			assert.Equal(t, req.ItemName, stored.ItemName)
			assert.Equal(t, req.Quantity, stored.Quantity)
		})
	}
}

func TestService_DefaultIDsAreUUIDs(t *testing.T) {
	store := testutil.SetupTestDB(t).Storage

	req, err := NewService(store).Create(context.Background(), NewRequest{ItemName: "Desk", Quantity: 1})
	require.NoError(t, err)
	assert.Len(t, req.ID, 36)
}

func TestService_Transitions(t *testing.T) {
	type step struct {
		action  string
		wantErr error
		want    model.RequestStatus
	}

	tests := []struct {
		name  string
		steps []step
	}{
		{
			name: "approve then complete",
			steps: []step{
				{action: "approve", want: model.StatusApproved},
				{action: "complete", want: model.StatusCompleted},
			},
		},
		{
			name: "reject is final",
			steps: []step{
				{action: "reject", want: model.StatusRejected},
				{action: "approve", wantErr: common.ErrInvalidTransition},
				{action: "complete", wantErr: common.ErrInvalidTransition},
				{action: "cancel", wantErr: common.ErrInvalidTransition},
			},
		},
		{
			name: "pending cannot complete",
			steps: []step{
				{action: "complete", wantErr: common.ErrInvalidTransition},
			},
		},
		{
			name: "approved cannot be approved again or canceled",
			steps: []step{
				{action: "approve", want: model.StatusApproved},
				{action: "approve", wantErr: common.ErrInvalidTransition},
				{action: "reject", wantErr: common.ErrInvalidTransition},
				{action: "cancel", wantErr: common.ErrInvalidTransition},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t)
			ctx := context.Background()

			req, err := svc.Create(ctx, NewRequest{ItemName: "Chair", Quantity: 1})
			require.NoError(t, err)

			for _, st := range tt.steps {
				var got *model.Request
				switch st.action {
				case "approve":
					got, err = svc.Approve(ctx, req.ID)
				case "reject":
					got, err = svc.Reject(ctx, req.ID)
				case "complete":
					got, err = svc.Complete(ctx, req.ID)
				case "cancel":
					err = svc.Cancel(ctx, req.ID)
				}

				if st.wantErr != nil {
					assert.ErrorIs(t, err, st.wantErr, st.action)
					continue
				}
				require.NoError(t, err, st.action)
				assert.Equal(t, st.want, got.Status)

				stored, err := svc.Get(ctx, req.ID)
				require.NoError(t, err)
				assert.Equal(t, st.want, stored.Status)
			}
		})
	}
}

func TestService_Cancel(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	req, err := svc.Create(ctx, NewRequest{ItemName: "Toner", Quantity: 3})
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, req.ID))

	_, err = svc.Get(ctx, req.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, svc.Cancel(ctx, req.ID), common.ErrNotFound)
}

// interleavingStore runs between once, right after the first GetRequest
// returns, so a second caller changes the request between read and write.
type interleavingStore struct {
	service.RequestStore
	between func()
	done    bool
}

func (s *interleavingStore) GetRequest(ctx context.Context, id string) (*model.Request, error) {
	req, err := s.RequestStore.GetRequest(ctx, id)
	if !s.done && s.between != nil {
		s.done = true
		s.between()
	}
	return req, err
}

func TestService_ConcurrentTransitions(t *testing.T) {
	type action func(svc *Service, ctx context.Context, id string) error
	approve := func(svc *Service, ctx context.Context, id string) error {
		_, err := svc.Approve(ctx, id)
		return err
	}
	reject := func(svc *Service, ctx context.Context, id string) error {
		_, err := svc.Reject(ctx, id)
		return err
	}
	cancel := func(svc *Service, ctx context.Context, id string) error {
		return svc.Cancel(ctx, id)
	}

	tests := []struct {
		first      action
		second     action
		wantErr    error
		name       string
		wantStatus model.RequestStatus
		wantGone   bool
	}{
		{
			name:       "reject lands while approve is in flight",
			first:      approve,
			second:     reject,
			wantErr:    common.ErrInvalidTransition,
			wantStatus: model.StatusRejected,
		},
		{
			name:       "approve lands while cancel is in flight",
			first:      cancel,
			second:     approve,
			wantErr:    common.ErrInvalidTransition,
			wantStatus: model.StatusApproved,
		},
		{
			name:     "cancel lands while approve is in flight",
			first:    approve,
			second:   cancel,
			wantErr:  common.ErrNotFound,
			wantGone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := testutil.SetupTestDB(t).Storage
			direct := NewService(store)

			req, err := direct.Create(ctx, NewRequest{ItemName: "Monitor", Quantity: 1})
			require.NoError(t, err)

			var secondErr error
			racing := NewService(&interleavingStore{
				RequestStore: store,
				between:      func() { secondErr = tt.second(direct, ctx, req.ID) },
			})

			err = tt.first(racing, ctx, req.ID)
			require.NoError(t, secondErr)
			assert.ErrorIs(t, err, tt.wantErr)

			stored, err := direct.Get(ctx, req.ID)
			if tt.wantGone {
				assert.ErrorIs(t, err, common.ErrNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, stored.Status)
		})
	}
}

func TestService_UnknownRequest(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Approve(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestService_List(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, NewRequest{ItemName: fmt.Sprintf("Item %d", i), Quantity: 1})
		require.NoError(t, err)
	}
	_, err := svc.Approve(ctx, "req-2")
	require.NoError(t, err)

	pending, err := svc.List(ctx, service.RequestFilter{Status: model.StatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	all, err := svc.List(ctx, service.RequestFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
