// Package importer loads items and requests from XLSX workbooks.
package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/stockroom/internal/category"
	"github.com/Veraticus/stockroom/internal/model"
	"github.com/Veraticus/stockroom/internal/service"
)

// Column names recognized in import headers, compared case-insensitively.
const (
	colID        = "id"
	colName      = "name"
	colItemName  = "item name"
	colCategory  = "category"
	colLocation  = "location"
	colQuantity  = "quantity"
	colPriority  = "priority"
	colStatus    = "status"
	colRequester = "requester"
	colCreated   = "created date"
)

// dateLayouts are tried in order when a created date is a string.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006",
}

// SkippedRow describes a row that could not be imported. Row is the
// 1-based spreadsheet row number.
type SkippedRow struct {
	Reason string
	Row    int
}

// Result summarizes an import.
type Result struct {
	Sheet    string
	Skipped  []SkippedRow
	Imported int
}

// ProgressFunc is called after each data row with the number of rows
// processed so far and the total.
type ProgressFunc func(done, total int)

// Importer reads workbooks and saves their rows.
type Importer struct {
	items    service.ItemStore
	requests service.RequestStore
	logger   *slog.Logger
	progress ProgressFunc
	newID    func() string
	now      func() time.Time
	sheet    string
}

// Option configures an Importer.
type Option func(*Importer)

// WithProgress registers a per-row progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(i *Importer) { i.progress = fn }
}

// WithSheet reads the named worksheet instead of the default.
func WithSheet(name string) Option {
	return func(i *Importer) { i.sheet = name }
}

// WithIDGenerator overrides ID generation for rows without one.
func WithIDGenerator(newID func() string) Option {
	return func(i *Importer) { i.newID = newID }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Importer) { i.logger = logger }
}

// New creates an importer. Either store may be nil when only the other
// kind of import is used.
func New(items service.ItemStore, requests service.RequestStore, opts ...Option) *Importer {
	i := &Importer{
		items:    items,
		requests: requests,
		logger:   slog.Default(),
		newID:    uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ImportItemsFile imports items from the workbook at path.
func (i *Importer) ImportItemsFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path) //nolint:gosec // path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()
	return i.ImportItems(ctx, f)
}

// ImportRequestsFile imports requests from the workbook at path.
func (i *Importer) ImportRequestsFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path) //nolint:gosec // path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()
	return i.ImportRequests(ctx, f)
}

// ImportItems reads an item sheet (Name, Category, Quantity and optional
// ID and Location columns) and saves every valid row.
func (i *Importer) ImportItems(ctx context.Context, r io.Reader) (*Result, error) {
	if i.items == nil {
		return nil, fmt.Errorf("item import is not configured")
	}

	items, result, err := i.ReadItems(r)
	if err != nil {
		return nil, err
	}

	for idx := range items {
		if err := i.items.SaveItem(ctx, &items[idx]); err != nil {
			return result, fmt.Errorf("failed to save item %q: %w", items[idx].Name, err)
		}
		result.Imported++
	}

	i.logger.Info("imported items", "sheet", result.Sheet, "imported", result.Imported, "skipped", len(result.Skipped))
	return result, nil
}

// ImportRequests reads a request sheet laid out like the XLSX export and
// saves every valid row in one batch.
func (i *Importer) ImportRequests(ctx context.Context, r io.Reader) (*Result, error) {
	if i.requests == nil {
		return nil, fmt.Errorf("request import is not configured")
	}

	requests, result, err := i.ReadRequests(r)
	if err != nil {
		return nil, err
	}

	if len(requests) > 0 {
		if err := i.requests.SaveRequests(ctx, requests); err != nil {
			return result, fmt.Errorf("failed to save requests: %w", err)
		}
	}
	result.Imported = len(requests)

	i.logger.Info("imported requests", "sheet", result.Sheet, "imported", result.Imported, "skipped", len(result.Skipped))
	return result, nil
}

// ReadItems parses items without saving them.
func (i *Importer) ReadItems(r io.Reader) ([]model.Item, *Result, error) {
	sheet, rows, err := i.readRows(r, "")
	if err != nil {
		return nil, nil, err
	}
	result := &Result{Sheet: sheet}

	cols, err := mapHeader(rows[0], []string{colName, colCategory, colQuantity})
	if err != nil {
		return nil, nil, err
	}

	items := []model.Item{}
	data := rows[1:]
	for n, row := range data {
		rowNum := n + 2
		if isBlank(row) {
			i.report(n+1, len(data))
			continue
		}

		item, reason := i.parseItem(row, cols)
		if reason != "" {
			result.Skipped = append(result.Skipped, SkippedRow{Row: rowNum, Reason: reason})
			i.logger.Debug("skipped item row", "row", rowNum, "reason", reason)
		} else {
			items = append(items, item)
		}
		i.report(n+1, len(data))
	}

	return items, result, nil
}

// ReadRequests parses requests without saving them.
func (i *Importer) ReadRequests(r io.Reader) ([]model.Request, *Result, error) {
	sheet, rows, err := i.readRows(r, "Requests")
	if err != nil {
		return nil, nil, err
	}
	result := &Result{Sheet: sheet}

	cols, err := mapHeader(rows[0], []string{colItemName, colQuantity})
	if err != nil {
		return nil, nil, err
	}

	requests := []model.Request{}
	data := rows[1:]
	for n, row := range data {
		rowNum := n + 2
		if isBlank(row) {
			i.report(n+1, len(data))
			continue
		}

		req, reason := i.parseRequest(row, cols)
		if reason != "" {
			result.Skipped = append(result.Skipped, SkippedRow{Row: rowNum, Reason: reason})
			i.logger.Debug("skipped request row", "row", rowNum, "reason", reason)
		} else {
			requests = append(requests, req)
		}
		i.report(n+1, len(data))
	}

	return requests, result, nil
}

func (i *Importer) parseItem(row []string, cols map[string]int) (model.Item, string) {
	name := cell(row, cols, colName)
	if name == "" {
		return model.Item{}, "missing name"
	}

	qty, err := parseQuantity(cell(row, cols, colQuantity))
	if err != nil {
		return model.Item{}, err.Error()
	}

	id := cell(row, cols, colID)
	if id == "" {
		id = i.newID()
	}

	label := cell(row, cols, colCategory)
	return model.Item{
		ID:            id,
		Name:          name,
		CategoryLabel: label,
		Category:      category.Normalize(label),
		Location:      cell(row, cols, colLocation),
		Quantity:      qty,
	}, ""
}

func (i *Importer) parseRequest(row []string, cols map[string]int) (model.Request, string) {
	name := cell(row, cols, colItemName)
	if name == "" {
		return model.Request{}, "missing item name"
	}

	qty, err := parseQuantity(cell(row, cols, colQuantity))
	if err != nil {
		return model.Request{}, err.Error()
	}

	created := i.now().UTC()
	if raw := cell(row, cols, colCreated); raw != "" {
		created, err = parseDate(raw)
		if err != nil {
			return model.Request{}, err.Error()
		}
	}

	id := cell(row, cols, colID)
	if id == "" {
		id = i.newID()
	}

	priority := model.Priority(strings.ToLower(cell(row, cols, colPriority)))
	if priority == "" {
		priority = model.PriorityMedium
	}
	status := model.RequestStatus(strings.ToLower(cell(row, cols, colStatus)))
	if status == "" {
		status = model.StatusPending
	}

	requester := cell(row, cols, colRequester)
	if strings.EqualFold(requester, "unknown") {
		requester = ""
	}

	return model.Request{
		ID:            id,
		ItemName:      name,
		Quantity:      qty,
		Priority:      priority,
		Status:        status,
		RequesterName: requester,
		CreatedAt:     created,
	}, ""
}

// readRows opens the workbook and returns the rows of the selected sheet.
// The sheet is, in order: the WithSheet name, preferred if present, or the
// first sheet.
func (i *Importer) readRows(r io.Reader, preferred string) (string, [][]string, error) {
	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return "", nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", nil, fmt.Errorf("workbook has no sheets")
	}

	sheet := sheets[0]
	switch {
	case i.sheet != "":
		sheet = i.sheet
	case preferred != "":
		if idx, _ := f.GetSheetIndex(preferred); idx != -1 {
			sheet = preferred
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return "", nil, fmt.Errorf("sheet %q is empty", sheet)
	}
	return sheet, rows, nil
}

func (i *Importer) report(done, total int) {
	if i.progress != nil {
		i.progress(done, total)
	}
}

// mapHeader returns the column index of each header, keyed by its
// lower-cased name. Every required column must be present.
func mapHeader(header []string, required []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for idx, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "" {
			continue
		}
		if _, seen := cols[key]; !seen {
			cols[key] = idx
		}
	}

	// The request export labels the item column "Item Name"; item sheets
	// may use it too.
	if _, ok := cols[colName]; !ok {
		if idx, ok := cols[colItemName]; ok {
			cols[colName] = idx
		}
	}

	var missing []string
	for _, col := range required {
		if _, ok := cols[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func cell(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseQuantity(raw string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("missing quantity")
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	// Numeric cells can come back as "3.0".
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid quantity %q", raw)
	}
	return int(f), nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	// Date-formatted cells are read as Excel serial numbers.
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid created date %q", raw)
}
