package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/stockroom/internal/model"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name:    "valid context",
			ctx:     context.Background(),
			wantErr: false,
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNilContext)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateString(t *testing.T) {
	assert.NoError(t, validateString("test", "param"))
	assert.ErrorIs(t, validateString("", "param"), ErrEmptyString)
	assert.ErrorIs(t, validateString(" \t\n", "param"), ErrEmptyString)
	assert.Contains(t, validateString("", "dbPath").Error(), "dbPath")
}

func TestValidateRequests(t *testing.T) {
	valid := model.Request{ID: "r1", ItemName: "Pens", CreatedAt: time.Now()}

	tests := []struct {
		wantErr  error
		name     string
		requests []model.Request
	}{
		{name: "valid", requests: []model.Request{valid}},
		{name: "nil slice", requests: nil, wantErr: ErrNilParameter},
		{name: "empty slice", requests: []model.Request{}, wantErr: ErrEmptySlice},
		{
			name:     "missing id",
			requests: []model.Request{valid, {ItemName: "Pens", CreatedAt: time.Now()}},
			wantErr:  ErrInvalidRequest,
		},
		{
			name:     "missing item name",
			requests: []model.Request{{ID: "r2", CreatedAt: time.Now()}},
			wantErr:  ErrInvalidRequest,
		},
		{
			name:     "missing created date",
			requests: []model.Request{{ID: "r2", ItemName: "Pens"}},
			wantErr:  ErrInvalidRequest,
		},
		{
			// out-of-range values are stored as given
			name: "negative quantity and unknown status",
			requests: []model.Request{{
				ID:        "r3",
				ItemName:  "Pens",
				Quantity:  -4,
				Status:    "archived",
				CreatedAt: time.Now(),
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRequests(tt.requests)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateItem(t *testing.T) {
	assert.NoError(t, validateItem(&model.Item{ID: "i1", Name: "Chair"}))
	assert.ErrorIs(t, validateItem(nil), ErrNilParameter)
	assert.ErrorIs(t, validateItem(&model.Item{Name: "Chair"}), ErrInvalidItem)
	assert.ErrorIs(t, validateItem(&model.Item{ID: "i1"}), ErrInvalidItem)
}
