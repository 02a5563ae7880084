// Package components holds the reusable pieces of the report dashboard.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/stockroom/internal/model"
	"github.com/Veraticus/stockroom/internal/report"
	"github.com/Veraticus/stockroom/internal/tui/themes"
)

// StatsPanelModel displays the summary counters as cards.
type StatsPanelModel struct {
	theme   themes.Theme
	summary report.Summary
	width   int
}

// NewStatsPanelModel creates a stats panel for summary.
func NewStatsPanelModel(theme themes.Theme, summary report.Summary) StatsPanelModel {
	return StatsPanelModel{theme: theme, summary: summary}
}

// Card is one labeled counter.
type Card struct {
	Label string
	Value int
}

// Cards returns the counters shown on the dashboard in display order.
func (m StatsPanelModel) Cards() []Card {
	s := m.summary
	return []Card{
		{Label: "Total", Value: s.TotalRequests},
		{Label: "Pending", Value: s.PendingRequests},
		{Label: "Approved", Value: s.ApprovedRequests},
		{Label: "Rejected", Value: s.RejectedRequests},
		{Label: "Completed", Value: s.CompletedRequests},
		{Label: "Items", Value: s.TotalItemsRequested},
	}
}

// View renders the cards, wrapping rows to fit the width.
func (m StatsPanelModel) View() string {
	var rendered []string
	for _, c := range m.Cards() {
		body := lipgloss.JoinVertical(lipgloss.Left,
			m.theme.Muted.Render(c.Label),
			m.theme.CardValue.Render(fmt.Sprintf("%d", c.Value)),
		)
		rendered = append(rendered, m.theme.Card.Render(body))
	}

	perRow := len(rendered)
	if m.width > 0 {
		cardWidth := lipgloss.Width(rendered[0])
		perRow = max(1, m.width/cardWidth)
	}

	var rows []string
	for start := 0; start < len(rendered); start += perRow {
		end := min(start+perRow, len(rendered))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered[start:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// PriorityView renders the priority breakdown.
func (m StatsPanelModel) PriorityView() string {
	s := m.summary
	lines := []string{
		fmt.Sprintf("%-8s %s", "High:", m.theme.StatusError.Render(fmt.Sprintf("%d", s.HighPriority))),
		fmt.Sprintf("%-8s %s", "Medium:", m.theme.StatusWarning.Render(fmt.Sprintf("%d", s.MediumPriority))),
		fmt.Sprintf("%-8s %s", "Low:", m.theme.StatusInfo.Render(fmt.Sprintf("%d", s.LowPriority))),
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Subtitle.Render("Priority"),
		strings.Join(lines, "\n"),
	)
}

// StatusLegend renders the status counters with their status colors.
func (m StatsPanelModel) StatusLegend() string {
	s := m.summary
	parts := []string{
		m.theme.StatusStyle(model.StatusPending).Render(fmt.Sprintf("%d pending", s.PendingRequests)),
		m.theme.StatusStyle(model.StatusApproved).Render(fmt.Sprintf("%d approved", s.ApprovedRequests)),
		m.theme.StatusStyle(model.StatusRejected).Render(fmt.Sprintf("%d rejected", s.RejectedRequests)),
		m.theme.StatusStyle(model.StatusCompleted).Render(fmt.Sprintf("%d completed", s.CompletedRequests)),
	}
	return strings.Join(parts, " · ")
}

// Resize updates the component size.
func (m *StatsPanelModel) Resize(width int) {
	m.width = width
}

// RankedListModel renders a ranked list with proportional bars.
type RankedListModel struct {
	theme   themes.Theme
	title   string
	unit    string
	entries []report.RankedEntry
	bar     progress.Model
	limit   int
}

// NewRankedListModel creates a ranked list showing at most limit entries.
func NewRankedListModel(theme themes.Theme, title, unit string, entries []report.RankedEntry, limit int) RankedListModel {
	bar := progress.New(
		progress.WithSolidFill(string(theme.Primary)),
		progress.WithoutPercentage(),
	)
	bar.Width = 20

	return RankedListModel{
		theme:   theme,
		title:   title,
		unit:    unit,
		entries: entries,
		bar:     bar,
		limit:   limit,
	}
}

// Title returns the list title.
func (m RankedListModel) Title() string {
	return m.title
}

// Visible returns the entries that are rendered.
func (m RankedListModel) Visible() []report.RankedEntry {
	return report.Top(m.entries, m.limit)
}

// View renders the list.
func (m RankedListModel) View() string {
	entries := m.Visible()
	if len(entries) == 0 {
		return m.theme.Muted.Render("No data for this period")
	}

	top := entries[0].Count
	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		ratio := 0.0
		if top > 0 && e.Count > 0 {
			ratio = float64(e.Count) / float64(top)
		}
		lines = append(lines, fmt.Sprintf("%2d. %-22s %s %d %s",
			i+1,
			truncate(e.Name, 22),
			m.bar.ViewAs(ratio),
			e.Count,
			m.unit,
		))
	}
	return m.theme.Normal.Render(strings.Join(lines, "\n"))
}

// Resize adjusts the bar width to the available space.
func (m *RankedListModel) Resize(width int) {
	m.bar.Width = max(5, min(width-40, 30))
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
