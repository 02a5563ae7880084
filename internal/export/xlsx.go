package export

import (
	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/stockroom/internal/model"
	"github.com/Veraticus/stockroom/internal/report"
)

// SheetName is the name of the worksheet holding the request rows.
const SheetName = "Requests"

// RecordHeaders is the fixed column order of the spreadsheet export.
var RecordHeaders = []string{
	"ID",
	"Item Name",
	"Quantity",
	"Priority",
	"Status",
	"Requester",
	"Created Date",
}

// XLSXExporter writes one worksheet with a row per request.
type XLSXExporter struct{}

// NewXLSXExporter creates a spreadsheet exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Format implements Exporter.
func (e *XLSXExporter) Format() Format {
	return FormatXLSX
}

// RecordRows shapes requests into spreadsheet rows in RecordHeaders order.
func RecordRows(records []model.Request) [][]any {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, []any{
			r.ID,
			r.ItemName,
			r.Quantity,
			string(r.Priority),
			string(r.Status),
			requesterName(r.RequesterName),
			isoDate(r.CreatedAt),
		})
	}
	return rows
}

// Export implements Exporter. The summary is not part of the sheet; the
// parameter keeps the signature shared with the PDF exporter.
func (e *XLSXExporter) Export(records []model.Request, _ report.Summary, year, month int) (*Document, error) {
	period, err := report.NewPeriod(year, month)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}

	header := make([]any, len(RecordHeaders))
	for i, h := range RecordHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, "A1", "G1", headerStyle); err != nil {
		return nil, err
	}

	for i, row := range RecordRows(records) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	// Widen a few columns
	_ = f.SetColWidth(SheetName, "A", "A", 38) // id
	_ = f.SetColWidth(SheetName, "B", "B", 28) // item
	_ = f.SetColWidth(SheetName, "C", "E", 12) // quantity, priority, status
	_ = f.SetColWidth(SheetName, "F", "F", 24) // requester
	_ = f.SetColWidth(SheetName, "G", "G", 14) // date

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}

	return &Document{
		FileName:    report.FileName(period, string(FormatXLSX)),
		ContentType: ContentTypeXLSX,
		Format:      FormatXLSX,
		Data:        buf.Bytes(),
	}, nil
}
