// Package tui renders an interactive dashboard for a monthly report.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/stockroom/internal/report"
	"github.com/Veraticus/stockroom/internal/tui/components"
	"github.com/Veraticus/stockroom/internal/tui/themes"
)

// Tab identifies a dashboard tab.
type Tab int

// Dashboard tabs.
const (
	TabItems Tab = iota
	TabRequesters
)

var tabNames = []string{"Top Items", "Top Requesters"}

// String returns the tab label.
func (t Tab) String() string {
	return tabNames[t]
}

// Model is the dashboard state. It is read-only over a single summary.
type Model struct {
	theme      themes.Theme
	period     report.Period
	keymap     KeyMap
	help       help.Model
	stats      components.StatsPanelModel
	items      components.RankedListModel
	requesters components.RankedListModel
	width      int
	height     int
	tab        Tab
	quitting   bool
}

// New creates a dashboard for summary.
func New(period report.Period, summary report.Summary, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	m := Model{
		theme:      cfg.Theme,
		period:     period,
		keymap:     DefaultKeyMap(),
		help:       help.New(),
		stats:      components.NewStatsPanelModel(cfg.Theme, summary),
		items:      components.NewRankedListModel(cfg.Theme, "Most Requested Items", "units", summary.MostRequestedItems, cfg.RankLimit),
		requesters: components.NewRankedListModel(cfg.Theme, "Top Requesters", "requests", summary.TopRequesters, cfg.RankLimit),
	}
	m.resize(cfg.Width, cfg.Height)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.NextTab):
			m.tab = (m.tab + 1) % Tab(len(tabNames))
		case key.Matches(msg, m.keymap.PrevTab):
			m.tab = (m.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames))
		case key.Matches(msg, m.keymap.ItemsTab):
			m.tab = TabItems
		case key.Matches(msg, m.keymap.RequestersTab):
			m.tab = TabRequesters
		case key.Matches(msg, m.keymap.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := m.theme.Title.Render("Monthly Request Report · " + m.period.Title())

	overview := lipgloss.JoinVertical(lipgloss.Left,
		m.stats.View(),
		m.stats.StatusLegend(),
		"",
		m.stats.PriorityView(),
	)

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(),
		"",
		m.activeList().View(),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		overview,
		"",
		m.theme.RoundedBox.Render(body),
		m.help.View(m.keymap),
	)
}

// ActiveTab returns the selected tab.
func (m Model) ActiveTab() Tab {
	return m.tab
}

// Quitting reports whether the user asked to quit.
func (m Model) Quitting() bool {
	return m.quitting
}

func (m Model) activeList() components.RankedListModel {
	if m.tab == TabRequesters {
		return m.requesters
	}
	return m.items
}

func (m Model) renderTabs() string {
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		if Tab(i) == m.tab {
			tabs[i] = m.theme.ActiveTab.Render(name)
		} else {
			tabs[i] = m.theme.InactiveTab.Render(name)
		}
	}
	return strings.Join(tabs, " ")
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.stats.Resize(width)
	m.items.Resize(width)
	m.requesters.Resize(width)
}
