package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette shared across all CLI output, tuned for dark terminals.
const (
	ColorPrimary   = lipgloss.Color("#34D399")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorError     = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for primary headers.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary text.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for positive outcomes.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for errors and failed checks.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warnings.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// KeyStyle is for spec keys and file names.
	KeyStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)
)

// applyStyles switches the shared styles between the colored palette and
// plain passthrough rendering, per the "color" tool config setting.
func applyStyles(enabled bool) {
	if enabled {
		TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
		SubtitleStyle = lipgloss.NewStyle().Foreground(ColorMuted)
		SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
		ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
		WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
		KeyStyle = lipgloss.NewStyle().Foreground(ColorHighlight)
		return
	}

	plain := lipgloss.NewStyle()
	TitleStyle = plain
	SubtitleStyle = plain
	SuccessStyle = plain
	ErrorStyle = plain
	WarningStyle = plain
	KeyStyle = plain
}
