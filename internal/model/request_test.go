package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Priority
		wantErr bool
	}{
		{name: "lowercase", input: "high", want: PriorityHigh},
		{name: "mixed case with spaces", input: "  Medium ", want: PriorityMedium},
		{name: "uppercase", input: "LOW", want: PriorityLow},
		{name: "unknown", input: "urgent", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePriority(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid priority")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRequestStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    RequestStatus
		wantErr bool
	}{
		{name: "pending", input: "pending", want: StatusPending},
		{name: "approved uppercase", input: "APPROVED", want: StatusApproved},
		{name: "rejected", input: " rejected", want: StatusRejected},
		{name: "completed", input: "Completed", want: StatusCompleted},
		{name: "cancelled is not a stored status", input: "cancelled", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRequestStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalCategories(t *testing.T) {
	cats := CanonicalCategories()
	require.Len(t, cats, 6)
	assert.Equal(t, CategoryElectronics, cats[0])
	assert.Equal(t, CategoryOther, cats[len(cats)-1])
	assert.Equal(t, "office-supplies", CategoryOfficeSupplies.String())
}
