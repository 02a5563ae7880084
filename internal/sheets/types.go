package sheets

import (
	"context"

	"github.com/Veraticus/stockroom/internal/model"
	"github.com/Veraticus/stockroom/internal/report"
)

// RecordHeaders are the column titles of the request detail block.
var RecordHeaders = []any{"ID", "Item Name", "Quantity", "Priority", "Status", "Requester", "Created Date"}

// ReportWriter publishes a monthly report somewhere other than a file.
type ReportWriter interface {
	Write(ctx context.Context, period report.Period, records []model.Request, summary report.Summary) (*PublishResult, error)
}

// PublishResult identifies where a report was written.
type PublishResult struct {
	SpreadsheetID  string
	SpreadsheetURL string
	SheetTitle     string
	RowsWritten    int
}
