package report

import (
	"fmt"
	"strings"
	"time"
)

// Period is a calendar month.
type Period struct {
	Year  int
	Month time.Month
}

// NewPeriod validates and builds a Period.
func NewPeriod(year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("invalid month %d: must be between 1 and 12", month)
	}
	if year < 1 || year > 9999 {
		return Period{}, fmt.Errorf("invalid year %d", year)
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// ParsePeriod parses a "YYYY-MM" string.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q (format: 2024-01): %w", s, err)
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// Start returns midnight UTC on the first day of the month.
func (p Period) Start() time.Time {
	return p.StartIn(time.UTC)
}

// End returns the exclusive upper bound of the month in UTC.
func (p Period) End() time.Time {
	return p.EndIn(time.UTC)
}

// StartIn returns midnight on the first day of the month in loc. A nil loc
// means UTC.
func (p Period) StartIn(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, loc)
}

// EndIn returns the exclusive upper bound of the month in loc.
func (p Period) EndIn(loc *time.Location) time.Time {
	return p.StartIn(loc).AddDate(0, 1, 0)
}

// Contains reports whether t falls inside the month.
func (p Period) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(p.Start()) && t.Before(p.End())
}

// Previous returns the month before p.
func (p Period) Previous() Period {
	return PeriodOf(p.Start().AddDate(0, -1, 0))
}

// MonthName returns the English month name, e.g. "January".
func (p Period) MonthName() string {
	return p.Month.String()
}

// String returns "YYYY-MM".
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Title returns "January 2024".
func (p Period) Title() string {
	return fmt.Sprintf("%s %d", p.MonthName(), p.Year)
}

// FileName returns the download name for a monthly report,
// e.g. monthly_report_january_2024.pdf.
func FileName(p Period, ext string) string {
	return fmt.Sprintf("monthly_report_%s_%d.%s", strings.ToLower(p.MonthName()), p.Year, strings.TrimPrefix(ext, "."))
}
