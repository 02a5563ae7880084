package export

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/Veraticus/stockroom/internal/model"
	"github.com/Veraticus/stockroom/internal/report"
)

// Section names recorded in a Layout.
const (
	SectionTitle              = "title"
	SectionSummary            = "summary"
	SectionMostRequestedItems = "most-requested-items"
	SectionTopRequesters      = "top-requesters"
	SectionDetailedRequests   = "detailed-requests"
)

const (
	fontFamily = "Helvetica"

	marginLeft   = 15.0
	marginTop    = 20.0
	marginRight  = 15.0
	marginBottom = 20.0

	rowHeight = 7.0

	// A section header is never started within this distance of the
	// bottom edge of the page.
	sectionBreakMargin = 60.0

	rankedLimit = 5

	idWidth        = 8
	itemWidth      = 20
	requesterWidth = 15
)

// Layout describes what a PDF render produced.
type Layout struct {
	Sections []string
	Pages    int
}

// Has reports whether a section was rendered.
func (l Layout) Has(section string) bool {
	for _, s := range l.Sections {
		if s == section {
			return true
		}
	}
	return false
}

// PDFExporter renders a paginated monthly report.
type PDFExporter struct {
	now func() time.Time
}

// PDFOption configures a PDFExporter.
type PDFOption func(*PDFExporter)

// WithClock overrides the clock used for the "Generated on" footer.
func WithClock(now func() time.Time) PDFOption {
	return func(e *PDFExporter) {
		e.now = now
	}
}

// NewPDFExporter creates a PDF exporter.
func NewPDFExporter(opts ...PDFOption) *PDFExporter {
	e := &PDFExporter{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Format implements Exporter.
func (e *PDFExporter) Format() Format {
	return FormatPDF
}

// Export implements Exporter.
func (e *PDFExporter) Export(records []model.Request, summary report.Summary, year, month int) (*Document, error) {
	doc, _, err := e.Render(records, summary, year, month)
	return doc, err
}

// Render produces the document along with the layout that was drawn.
func (e *PDFExporter) Render(records []model.Request, summary report.Summary, year, month int) (*Document, Layout, error) {
	var layout Layout

	period, err := report.NewPeriod(year, month)
	if err != nil {
		return nil, layout, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	generated := e.now().Format("January 2, 2006")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, "Generated on "+generated, "", 0, "L", false, 0, "")
		pdf.SetX(marginLeft)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()
	_, pageHeight := pdf.GetPageSize()

	// Title block
	pdf.SetFont(fontFamily, "B", 20)
	pdf.CellFormat(0, 12, "Monthly Request Report", "", 1, "C", false, 0, "")
	pdf.SetFont(fontFamily, "", 14)
	pdf.CellFormat(0, 8, tr(period.Title()), "", 1, "C", false, 0, "")
	pdf.Ln(6)
	layout.Sections = append(layout.Sections, SectionTitle)

	// Summary statistics
	sectionHeading(pdf, "Summary Statistics")
	tableHeader(pdf, []string{"Metric", "Value"}, []float64{120, 60})
	pdf.SetFont(fontFamily, "", 10)
	for _, row := range SummaryRows(summary) {
		if row[0] == "" {
			pdf.Ln(rowHeight / 2)
			continue
		}
		pdf.CellFormat(120, rowHeight, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, rowHeight, row[1], "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)
	layout.Sections = append(layout.Sections, SectionSummary)

	if len(summary.MostRequestedItems) > 0 {
		if needsSectionBreak(pdf.GetY(), pageHeight) {
			pdf.AddPage()
		}
		sectionHeading(pdf, "Most Requested Items")
		rankedTable(pdf, tr, []string{"Rank", "Item", "Quantity"}, report.Top(summary.MostRequestedItems, rankedLimit))
		layout.Sections = append(layout.Sections, SectionMostRequestedItems)
	}

	if len(summary.TopRequesters) > 0 {
		if needsSectionBreak(pdf.GetY(), pageHeight) {
			pdf.AddPage()
		}
		sectionHeading(pdf, "Top Requesters")
		rankedTable(pdf, tr, []string{"Rank", "Requester", "Requests"}, report.Top(summary.TopRequesters, rankedLimit))
		layout.Sections = append(layout.Sections, SectionTopRequesters)
	}

	if len(records) > 0 {
		pdf.AddPage()
		sectionHeading(pdf, "Detailed Requests")
		headers := []string{"#", "ID", "Item", "Qty", "Pri", "Status", "Requester", "Date"}
		widths := []float64{10, 25, 45, 15, 12, 15, 35, 23}
		aligns := []string{"C", "L", "L", "R", "C", "C", "L", "L"}
		tableHeader(pdf, headers, widths)
		pdf.SetFont(fontFamily, "", 9)
		for i, r := range records {
			if pdf.GetY()+rowHeight > pageHeight-marginBottom-5 {
				pdf.AddPage()
				tableHeader(pdf, headers, widths)
				pdf.SetFont(fontFamily, "", 9)
			}
			for col, cell := range DetailRow(i, r) {
				ln := 0
				if col == len(widths)-1 {
					ln = 1
				}
				pdf.CellFormat(widths[col], rowHeight, tr(cell), "1", ln, aligns[col], false, 0, "")
			}
		}
		layout.Sections = append(layout.Sections, SectionDetailedRequests)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, layout, err
	}
	layout.Pages = pdf.PageCount()

	return &Document{
		FileName:    report.FileName(period, string(FormatPDF)),
		ContentType: ContentTypePDF,
		Format:      FormatPDF,
		Data:        buf.Bytes(),
	}, layout, nil
}

// SummaryRows returns the label/value pairs of the summary table. Empty
// pairs separate the status, priority and item total groups.
func SummaryRows(s report.Summary) [][2]string {
	itoa := strconv.Itoa
	return [][2]string{
		{"Total Requests", itoa(s.TotalRequests)},
		{"Pending Requests", itoa(s.PendingRequests)},
		{"Approved Requests", itoa(s.ApprovedRequests)},
		{"Rejected Requests", itoa(s.RejectedRequests)},
		{"Completed Requests", itoa(s.CompletedRequests)},
		{"", ""},
		{"High Priority", itoa(s.HighPriority)},
		{"Medium Priority", itoa(s.MediumPriority)},
		{"Low Priority", itoa(s.LowPriority)},
		{"", ""},
		{"Total Items Requested", itoa(s.TotalItemsRequested)},
	}
}

// DetailRow returns the cells of the detailed table for the record at
// index i (zero-based).
func DetailRow(i int, r model.Request) []string {
	return []string{
		strconv.Itoa(i + 1),
		truncate(r.ID, idWidth),
		truncate(r.ItemName, itemWidth),
		strconv.Itoa(r.Quantity),
		letterCode(string(r.Priority)),
		letterCode(string(r.Status)),
		truncate(requesterName(r.RequesterName), requesterWidth),
		shortDate(r.CreatedAt),
	}
}

// needsSectionBreak reports whether a section starting at y would leave its
// header orphaned at the bottom of the page.
func needsSectionBreak(y, pageHeight float64) bool {
	return y > pageHeight-sectionBreakMargin
}

func sectionHeading(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont(fontFamily, "B", 14)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
}

func tableHeader(pdf *fpdf.Fpdf, headers []string, widths []float64) {
	pdf.SetFont(fontFamily, "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		ln := 0
		if i == len(headers)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], rowHeight, h, "1", ln, "C", true, 0, "")
	}
}

func rankedTable(pdf *fpdf.Fpdf, tr func(string) string, headers []string, entries []report.RankedEntry) {
	widths := []float64{20, 120, 40}
	tableHeader(pdf, headers, widths)
	pdf.SetFont(fontFamily, "", 10)
	for i, entry := range entries {
		pdf.CellFormat(widths[0], rowHeight, strconv.Itoa(i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], rowHeight, tr(entry.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], rowHeight, strconv.Itoa(entry.Count), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)
}
