// Package export renders monthly request reports as downloadable documents.
package export

import (
	"fmt"
	"strings"

	"github.com/Veraticus/stockroom/internal/common"
	"github.com/Veraticus/stockroom/internal/metrics"
	"github.com/Veraticus/stockroom/internal/model"
	"github.com/Veraticus/stockroom/internal/report"
)

// Format identifies an export document type.
type Format string

// Supported formats.
const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// Content types for each format.
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

// Document is a rendered export ready to be downloaded or delivered.
type Document struct {
	FileName    string
	ContentType string
	Format      Format
	Data        []byte
}

// Exporter renders request records and their summary for a month.
type Exporter interface {
	Format() Format
	Export(records []model.Request, summary report.Summary, year, month int) (*Document, error)
}

// ParseFormat parses a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))); f {
	case FormatXLSX, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q: must be xlsx or pdf", s)
	}
}

// ForFormat returns the default exporter for a format.
func ForFormat(f Format) (Exporter, error) {
	switch f {
	case FormatXLSX:
		return NewXLSXExporter(), nil
	case FormatPDF:
		return NewPDFExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", f)
	}
}

// Formats lists all supported formats.
func Formats() []Format {
	return []Format{FormatXLSX, FormatPDF}
}

// Render runs e for period and records the export metrics.
func Render(e Exporter, records []model.Request, summary report.Summary, period report.Period) (*Document, error) {
	timer := metrics.NewTimer()
	doc, err := e.Export(records, summary, period.Year, int(period.Month))

	size := 0
	if doc != nil {
		size = len(doc.Data)
	}
	metrics.RecordExport(string(e.Format()), size, timer.Duration(), err)

	if err != nil {
		return nil, fmt.Errorf("%w: %s export for %s: %w", common.ErrExportFailed, e.Format(), period, err)
	}
	return doc, nil
}
