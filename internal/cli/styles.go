// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Stockroom palette. Adaptive colors keep labels readable on light
// terminals.
var (
	accent  = lipgloss.AdaptiveColor{Light: "#5B21B6", Dark: "#A78BFA"}
	green   = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}
	amber   = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	red     = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	blue    = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
	muted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	outline = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"}
)

// Shared text styles.
var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1)
	SubtitleStyle = lipgloss.NewStyle().Foreground(muted).Italic(true)
	HeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(blue).Underline(true)
	BoldStyle     = lipgloss.NewStyle().Bold(true)

	SuccessStyle = lipgloss.NewStyle().Foreground(green)
	WarningStyle = lipgloss.NewStyle().Foreground(amber)
	ErrorStyle   = lipgloss.NewStyle().Foreground(red).Bold(true)
	InfoStyle    = lipgloss.NewStyle().Foreground(blue)
	SubtleStyle  = lipgloss.NewStyle().Foreground(muted)

	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(outline).
			Padding(0, 2)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "!"
	InfoIcon    = "•"
	BoxIcon     = "📦"
	ChartIcon   = "📊"
)

func withIcon(style lipgloss.Style, icon, message string) string {
	return style.Render(icon + " " + message)
}

// FormatSuccess renders a confirmation line.
func FormatSuccess(message string) string { return withIcon(SuccessStyle, SuccessIcon, message) }

// FormatError renders an error line.
func FormatError(message string) string { return withIcon(ErrorStyle, ErrorIcon, message) }

// FormatWarning renders a warning line.
func FormatWarning(message string) string { return withIcon(WarningStyle, WarningIcon, message) }

// FormatInfo renders an informational line.
func FormatInfo(message string) string { return withIcon(InfoStyle, InfoIcon, message) }

// FormatTitle renders a section title with the stockroom icon.
func FormatTitle(title string) string { return withIcon(TitleStyle, BoxIcon, title) }

// FormatPrompt renders a question awaiting input.
func FormatPrompt(prompt string) string {
	return promptStyle.Render(prompt) + " "
}

// RenderBox draws content under a bold title inside a rounded border.
func RenderBox(title, content string) string {
	heading := TitleStyle.UnsetMargins().Render(title)
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, heading, content))
}

// StatusStyle returns the style for a request status label.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "approved":
		return InfoStyle
	case "rejected":
		return ErrorStyle
	case "completed":
		return SuccessStyle
	default:
		return SubtleStyle
	}
}

// PriorityStyle returns the style for a request priority label.
func PriorityStyle(priority string) lipgloss.Style {
	switch priority {
	case "high":
		return WarningStyle
	case "low":
		return SubtleStyle
	default:
		return lipgloss.NewStyle()
	}
}
