package importer

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/stockroom/internal/export"
	"github.com/Veraticus/stockroom/internal/model"
	"github.com/Veraticus/stockroom/internal/report"
	"github.com/Veraticus/stockroom/internal/service"
	"github.com/Veraticus/stockroom/internal/storage"
)

// workbook builds an XLSX file with a single sheet holding rows.
func workbook(t *testing.T, sheet string, rows [][]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}
}

func newTestStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestReadItems(t *testing.T) {
	buf := workbook(t, "Inventory", [][]any{
		{"NAME", "Category", "quantity", "Location"},
		{"Laptop", "Tech", 4, "Shelf A"},
		{"Mop", "cleaning", "2", ""},
		{"", "furniture", 1, ""},
		{},
		{"Desk", "Office Furniture", "two", ""},
		{"Widget", "", 7, ""},
	})

	var progress []int
	imp := New(nil, nil,
		WithIDGenerator(sequentialIDs()),
		WithProgress(func(done, total int) {
			assert.Equal(t, 6, total)
			progress = append(progress, done)
		}),
	)

	items, result, err := imp.ReadItems(buf)
	require.NoError(t, err)

	assert.Equal(t, "Inventory", result.Sheet)
	require.Len(t, items, 3)
	assert.Equal(t, model.Item{
		ID:            "gen-1",
		Name:          "Laptop",
		CategoryLabel: "Tech",
		Category:      model.CategoryElectronics,
		Location:      "Shelf A",
		Quantity:      4,
	}, items[0])
	assert.Equal(t, model.CategoryCleaningMaterials, items[1].Category)
	assert.Equal(t, model.CategoryOther, items[2].Category)

	assert.Equal(t, []SkippedRow{
		{Row: 4, Reason: "missing name"},
		{Row: 6, Reason: `invalid quantity "two"`},
	}, result.Skipped)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, progress)
}

func TestReadItems_MissingColumns(t *testing.T) {
	buf := workbook(t, "Sheet1", [][]any{
		{"Name", "Quantity"},
		{"Laptop", 1},
	})

	_, _, err := New(nil, nil).ReadItems(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category")
}

func TestReadItems_NotAWorkbook(t *testing.T) {
	_, _, err := New(nil, nil).ReadItems(bytes.NewBufferString("name,category\n"))
	assert.Error(t, err)
}

func TestReadRequests(t *testing.T) {
	buf := workbook(t, "Requests", [][]any{
		{"ID", "Item Name", "Quantity", "Priority", "Status", "Requester", "Created Date"},
		{"r-1", "Stapler", 2, "High", "Approved", "Alice", "2024-01-05"},
		{"", "Toner", -1, "", "", "Unknown", "2024-01-06T10:00:00Z"},
		{"r-3", "Paper", 5, "low", "archived", "Bob", "not a date"},
		{"r-4", "Chair", 1.5, "low", "pending", "Bob", "2024-01-07"},
	})

	imp := New(nil, nil, WithIDGenerator(sequentialIDs()))
	requests, result, err := imp.ReadRequests(buf)
	require.NoError(t, err)

	require.Len(t, requests, 2)
	assert.Equal(t, model.Request{
		ID:            "r-1",
		ItemName:      "Stapler",
		Quantity:      2,
		Priority:      model.PriorityHigh,
		Status:        model.StatusApproved,
		RequesterName: "Alice",
		CreatedAt:     time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
	}, requests[0])

	second := requests[1]
	assert.Equal(t, "gen-1", second.ID)
	assert.Equal(t, -1, second.Quantity)
	assert.Equal(t, model.PriorityMedium, second.Priority)
	assert.Equal(t, model.StatusPending, second.Status)
	assert.Empty(t, second.RequesterName)
	assert.Equal(t, time.Date(2024, time.January, 6, 10, 0, 0, 0, time.UTC), second.CreatedAt)

	assert.Equal(t, []SkippedRow{
		{Row: 4, Reason: `invalid created date "not a date"`},
		{Row: 5, Reason: `invalid quantity "1.5"`},
	}, result.Skipped)
}

func TestImportRequests_RoundTripsExport(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	original := []model.Request{
		{ID: "a", ItemName: "Monitor", Quantity: 2, Priority: model.PriorityHigh, Status: model.StatusPending, RequesterName: "Alice", CreatedAt: time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC)},
		{ID: "b", ItemName: "Desk", Quantity: 1, Priority: model.PriorityLow, Status: model.StatusCompleted, CreatedAt: time.Date(2024, time.May, 20, 0, 0, 0, 0, time.UTC)},
	}
	doc, err := export.NewXLSXExporter().Export(original, report.Summarize(original), 2024, 5)
	require.NoError(t, err)

	result, err := New(nil, store).ImportRequests(ctx, bytes.NewReader(doc.Data))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.Skipped)

	got, err := store.ListRequests(ctx, service.RequestFilter{})
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestImportItems_SavesToStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	buf := workbook(t, "Items", [][]any{
		{"ID", "Item Name", "Category", "Quantity"},
		{"it-1", "Office chair", "Furnishings", 6},
		{"it-2", "Antivirus", "apps", 20},
	})

	result, err := New(store, nil).ImportItems(ctx, buf)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)

	furniture, err := store.ListItems(ctx, "furniture")
	require.NoError(t, err)
	require.Len(t, furniture, 1)
	assert.Equal(t, "it-1", furniture[0].ID)

	software, err := store.ListItems(ctx, "software")
	require.NoError(t, err)
	require.Len(t, software, 1)
	assert.Equal(t, "Antivirus", software[0].Name)
}

func TestImport_NotConfigured(t *testing.T) {
	_, err := New(nil, nil).ImportItems(context.Background(), &bytes.Buffer{})
	assert.Error(t, err)

	_, err = New(nil, nil).ImportRequests(context.Background(), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "3", want: 3},
		{in: "-2", want: -2},
		{in: "4.0", want: 4},
		{in: "", wantErr: true},
		{in: "2.5", wantErr: true},
		{in: "many", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseQuantity(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate_ExcelSerial(t *testing.T) {
	got, err := parseDate("45306")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), got)
}
