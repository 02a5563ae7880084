package sheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/stockroom/internal/common"
	"github.com/Veraticus/stockroom/internal/model"
	"github.com/Veraticus/stockroom/internal/report"
)

func testData() (report.Period, []model.Request, report.Summary) {
	period := report.Period{Year: 2024, Month: time.January}
	records := []model.Request{
		{
			ID:            "r1",
			ItemName:      "Stapler",
			Quantity:      3,
			Priority:      model.PriorityHigh,
			Status:        model.StatusApproved,
			RequesterName: "Alice",
			CreatedAt:     time.Date(2024, time.January, 3, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:        "r2",
			ItemName:  "Toner",
			Quantity:  1,
			Priority:  model.PriorityLow,
			Status:    model.StatusPending,
			CreatedAt: time.Date(2024, time.January, 9, 9, 0, 0, 0, time.UTC),
		},
	}
	return period, records, report.Summarize(records)
}

func TestPrepareReportData(t *testing.T) {
	period, records, summary := testData()

	values := PrepareReportData(period, records, summary)

	assert.Equal(t, []any{"Monthly Request Report", "January 2024"}, values[0])
	assert.Equal(t, []any{"Total Requests", 2}, values[3])
	assert.Equal(t, []any{"Total Items Requested", 4}, values[11])

	assert.Equal(t, []any{"Most Requested Items"}, values[13])
	assert.Equal(t, []any{1, "Stapler", 3}, values[15])
	assert.Equal(t, []any{2, "Toner", 1}, values[16])

	assert.Equal(t, []any{"Top Requesters"}, values[18])
	assert.Equal(t, []any{1, "Alice", 1}, values[20])
	assert.Equal(t, []any{2, "Unknown", 1}, values[21])

	header := detailHeaderRow(summary)
	assert.Equal(t, RecordHeaders, values[header])
	assert.Equal(t, []any{"r1", "Stapler", 3, "high", "approved", "Alice", "2024-01-03"}, values[header+1])
	assert.Equal(t, []any{"r2", "Toner", 1, "low", "pending", "Unknown", "2024-01-09"}, values[header+2])
	assert.Len(t, values, header+1+len(records))
}

func TestPrepareReportData_Empty(t *testing.T) {
	period := report.Period{Year: 2024, Month: time.February}
	summary := report.Summarize(nil)

	values := PrepareReportData(period, nil, summary)

	header := detailHeaderRow(summary)
	assert.Equal(t, RecordHeaders, values[header])
	assert.Len(t, values, header+1)
	assert.Equal(t, []any{"Total Requests", 0}, values[3])
}

func TestFindTab(t *testing.T) {
	spreadsheet := &sheets.Spreadsheet{
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: "2023-12", SheetId: 11}},
			{Properties: nil},
			{Properties: &sheets.SheetProperties{Title: "2024-01", SheetId: 42}},
		},
	}

	id, ok := findTab(spreadsheet, "2024-01")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	_, ok = findTab(spreadsheet, "2024-02")
	assert.False(t, ok)
}

func TestA1Range(t *testing.T) {
	assert.Equal(t, "'2024-01'!A:Z", a1Range("2024-01", "A:Z"))
	assert.Equal(t, "'2024-01'!A1001", a1Range("2024-01", "A1001"))
}

func TestMockWriter(t *testing.T) {
	period, records, summary := testData()
	mock := NewMockWriter()
	ctx := context.Background()

	result, err := mock.Write(ctx, period, records, summary)
	require.NoError(t, err)
	assert.Equal(t, "2024-01", result.SheetTitle)
	assert.Equal(t, detailHeaderRow(summary)+1+len(records), result.RowsWritten)

	mock.SetWriteError(errors.New("quota exceeded"))
	_, err = mock.Write(ctx, period, records, summary)
	assert.EqualError(t, err, "quota exceeded")

	calls := mock.GetWriteCalls()
	require.Len(t, calls, 2)
	assert.NoError(t, calls[0].Error)
	assert.Error(t, calls[1].Error)
	assert.Equal(t, period, calls[1].Period)
}

func TestNewWriter_InvalidConfig(t *testing.T) {
	_, err := NewWriter(context.Background(), Config{}, nil)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
	assert.ErrorIs(t, err, ErrNoCredentials)
}
