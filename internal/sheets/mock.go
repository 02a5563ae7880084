package sheets

import (
	"context"
	"sync"

	"github.com/Veraticus/stockroom/internal/model"
	"github.com/Veraticus/stockroom/internal/report"
)

// MockWriter is a mock implementation of ReportWriter for testing.
type MockWriter struct {
	WriteFunc      func(ctx context.Context, period report.Period, records []model.Request, summary report.Summary) error
	WriteCalls     []WriteCall
	WriteCallCount int
	mu             sync.Mutex
}

var _ ReportWriter = (*MockWriter)(nil)

// WriteCall represents a single call to Write.
type WriteCall struct {
	Error   error
	Period  report.Period
	Records []model.Request
	Summary report.Summary
}

// NewMockWriter creates a new mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{
		WriteCalls: make([]WriteCall, 0),
	}
}

// Write implements the ReportWriter interface.
func (m *MockWriter) Write(ctx context.Context, period report.Period, records []model.Request, summary report.Summary) (*PublishResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteCallCount++

	var err error
	if m.WriteFunc != nil {
		err = m.WriteFunc(ctx, period, records, summary)
	}

	m.WriteCalls = append(m.WriteCalls, WriteCall{
		Period:  period,
		Records: records,
		Summary: summary,
		Error:   err,
	})
	if err != nil {
		return nil, err
	}

	return &PublishResult{
		SpreadsheetID: "mock-spreadsheet",
		SheetTitle:    period.String(),
		RowsWritten:   len(PrepareReportData(period, records, summary)),
	}, nil
}

// GetWriteCalls returns a copy of all write calls.
func (m *MockWriter) GetWriteCalls() []WriteCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]WriteCall, len(m.WriteCalls))
	copy(calls, m.WriteCalls)
	return calls
}

// SetWriteError configures the mock to return an error on every Write call.
func (m *MockWriter) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteFunc = func(_ context.Context, _ report.Period, _ []model.Request, _ report.Summary) error {
		return err
	}
}
