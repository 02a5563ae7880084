package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/stockroom/internal/report"
)

// Run shows the dashboard until the user quits or ctx is done.
func Run(ctx context.Context, period report.Period, summary report.Summary, opts ...Option) error {
	p := tea.NewProgram(New(period, summary, opts...),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
