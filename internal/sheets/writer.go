package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/stockroom/internal/common"
	"github.com/Veraticus/stockroom/internal/model"
	"github.com/Veraticus/stockroom/internal/report"
	"github.com/Veraticus/stockroom/internal/service"
)

// Writer implements the ReportWriter interface for Google Sheets. Each
// month gets its own tab named after the period, e.g. "2024-01".
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

var _ ReportWriter = (*Writer)(nil)

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	service, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: service,
		logger:  logger,
	}, nil
}

// Write implements the ReportWriter interface.
func (w *Writer) Write(ctx context.Context, period report.Period, records []model.Request, summary report.Summary) (*PublishResult, error) {
	w.logger.Info("starting sheets publish",
		"period", period.String(),
		"records", len(records))

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	var spreadsheet *sheets.Spreadsheet
	err := common.WithRetry(ctx, func() error {
		var getErr error
		spreadsheet, getErr = w.getOrCreateSpreadsheet(ctx)
		return getErr
	}, retryOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	title := period.String()
	var sheetID int64
	err = common.WithRetry(ctx, func() error {
		var tabErr error
		sheetID, tabErr = w.ensureTab(ctx, spreadsheet, title)
		return tabErr
	}, retryOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare sheet %s: %w", title, err)
	}

	if clearErr := w.clearTab(ctx, spreadsheet.SpreadsheetId, title); clearErr != nil {
		return nil, fmt.Errorf("failed to clear sheet: %w", clearErr)
	}

	values := PrepareReportData(period, records, summary)

	err = common.WithRetry(ctx, func() error {
		return w.writeData(ctx, spreadsheet.SpreadsheetId, title, values)
	}, retryOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to write data: %w", err)
	}

	if w.config.EnableFormatting {
		err = common.WithRetry(ctx, func() error {
			return w.applyFormatting(ctx, spreadsheet.SpreadsheetId, sheetID, len(values), detailHeaderRow(summary))
		}, retryOpts)
		if err != nil {
			// Formatting is cosmetic; the data is already written.
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("sheets publish completed",
		"spreadsheet_id", spreadsheet.SpreadsheetId,
		"sheet", title,
		"rows_written", len(values))

	return &PublishResult{
		SpreadsheetID:  spreadsheet.SpreadsheetId,
		SpreadsheetURL: spreadsheet.SpreadsheetUrl,
		SheetTitle:     title,
		RowsWritten:    len(values),
	}, nil
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	method, err := config.AuthMethod()
	if err != nil {
		return nil, err
	}

	var tokenSource oauth2.TokenSource
	switch method {
	case AuthServiceAccount:
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	case AuthOAuth:
		client := oauthClientConfig(config.ClientID, config.ClientSecret, "")
		tokenSource = client.TokenSource(ctx, &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		})
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// getOrCreateSpreadsheet gets the configured spreadsheet or creates a new one.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (*sheets.Spreadsheet, error) {
	if w.config.SpreadsheetID != "" {
		existing, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return existing, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	// Later publishes go to the same spreadsheet.
	w.config.SpreadsheetID = created.SpreadsheetId
	return created, nil
}

// ensureTab returns the sheet ID of the tab with the given title, adding
// the tab when it does not exist yet.
func (w *Writer) ensureTab(ctx context.Context, spreadsheet *sheets.Spreadsheet, title string) (int64, error) {
	if id, ok := findTab(spreadsheet, title); ok {
		return id, nil
	}

	resp, err := w.service.Spreadsheets.BatchUpdate(spreadsheet.SpreadsheetId, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("unable to add sheet: %w", err)
	}

	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil {
		return 0, fmt.Errorf("add sheet returned no properties")
	}
	props := resp.Replies[0].AddSheet.Properties
	spreadsheet.Sheets = append(spreadsheet.Sheets, &sheets.Sheet{Properties: props})

	w.logger.Debug("added sheet", "title", title, "sheet_id", props.SheetId)
	return props.SheetId, nil
}

func findTab(spreadsheet *sheets.Spreadsheet, title string) (int64, bool) {
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return sheet.Properties.SheetId, true
		}
	}
	return 0, false
}

// clearTab clears all data from the tab.
func (w *Writer) clearTab(ctx context.Context, spreadsheetID, title string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, a1Range(title, "A:Z"), &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// a1Range qualifies a range with a quoted sheet title.
func a1Range(title, cells string) string {
	return fmt.Sprintf("'%s'!%s", title, cells)
}

// PrepareReportData lays out the report as spreadsheet rows: a title, the
// summary block, the two ranked lists and one row per request.
func PrepareReportData(period report.Period, records []model.Request, summary report.Summary) [][]any {
	values := make([][]any, 0, 24+len(summary.MostRequestedItems)+len(summary.TopRequesters)+len(records))

	values = append(values,
		[]any{"Monthly Request Report", period.Title()},
		[]any{}, // Empty row
		[]any{"Summary"},
		[]any{"Total Requests", summary.TotalRequests},
		[]any{"Pending Requests", summary.PendingRequests},
		[]any{"Approved Requests", summary.ApprovedRequests},
		[]any{"Rejected Requests", summary.RejectedRequests},
		[]any{"Completed Requests", summary.CompletedRequests},
		[]any{"High Priority", summary.HighPriority},
		[]any{"Medium Priority", summary.MediumPriority},
		[]any{"Low Priority", summary.LowPriority},
		[]any{"Total Items Requested", summary.TotalItemsRequested},
		[]any{}, // Empty row
		[]any{"Most Requested Items"},
		[]any{"Rank", "Item", "Quantity"},
	)
	for i, entry := range summary.MostRequestedItems {
		values = append(values, []any{i + 1, entry.Name, entry.Count})
	}

	values = append(values,
		[]any{}, // Empty row
		[]any{"Top Requesters"},
		[]any{"Rank", "Requester", "Requests"},
	)
	for i, entry := range summary.TopRequesters {
		values = append(values, []any{i + 1, entry.Name, entry.Count})
	}

	values = append(values,
		[]any{}, // Empty row
		[]any{"Request Details"},
		RecordHeaders,
	)
	for _, r := range records {
		requester := r.RequesterName
		if requester == "" {
			requester = report.UnknownRequester
		}
		values = append(values, []any{
			r.ID,
			r.ItemName,
			r.Quantity,
			string(r.Priority),
			string(r.Status),
			requester,
			r.CreatedAt.Format("2006-01-02"),
		})
	}

	return values
}

// detailHeaderRow returns the zero-based row index of the request detail
// header written by PrepareReportData.
func detailHeaderRow(summary report.Summary) int {
	return 20 + len(summary.MostRequestedItems) + len(summary.TopRequesters)
}

// writeData writes the data to the tab in batches.
func (w *Writer) writeData(ctx context.Context, spreadsheetID, title string, values [][]any) error {
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := i + w.config.BatchSize
		if end > len(values) {
			end = len(values)
		}

		batch := values[i:end]
		valueRange := &sheets.ValueRange{
			Values: batch,
		}

		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, a1Range(title, fmt.Sprintf("A%d", i+1)), valueRange).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		w.logger.Debug("wrote batch", "start_row", i+1, "rows", len(batch))
	}

	return nil
}

// applyFormatting bolds the headings and resizes the columns to fit.
func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, sheetID int64, totalRows, headerRow int) error {
	bold := func(startRow, endRow, endCol, size int64) *sheets.Request {
		format := &sheets.TextFormat{Bold: true}
		if size > 0 {
			format.FontSize = size
		}
		return &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    startRow,
					EndRowIndex:      endRow,
					StartColumnIndex: 0,
					EndColumnIndex:   endCol,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{TextFormat: format},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		}
	}

	requests := []*sheets.Request{
		bold(0, 1, 2, 16),
		bold(2, 3, 1, 0),
		bold(int64(headerRow), int64(headerRow)+1, int64(len(RecordHeaders)), 0),
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   int64(len(RecordHeaders)),
				},
			},
		},
	}

	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return err
	}

	w.logger.Debug("applied formatting", "sheet_id", sheetID, "rows", totalRows)
	return nil
}
