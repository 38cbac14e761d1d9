// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#CCCCCC"} // Main/primary text
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"} // Paths, counters
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"} // Hints, help text, gutters

	// Semantic color names - Border
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"} // Unfocused borders
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"} // Focused pane border

	// Semantic color names - Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"} // Success states
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"} // Warnings
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"} // Errors

	// Diff line colors
	DiffAdditionColor = lipgloss.AdaptiveColor{Light: "#2A9D3E", Dark: "#73F59F"}
	DiffDeletionColor = lipgloss.AdaptiveColor{Light: "#D13438", Dark: "#FF8787"}
	DiffContextColor  = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"}
	DiffHunkColor     = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}

	// Word-level highlight backgrounds for changed portions
	DiffWordAdditionBgColor = lipgloss.AdaptiveColor{Light: "#D3F9D8", Dark: "#1F3D2B"}
	DiffWordDeletionBgColor = lipgloss.AdaptiveColor{Light: "#FFE3E3", Dark: "#46242A"}

	// File status colors
	StatusAddedColor    = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusModifiedColor = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}
	StatusDeletedColor  = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	StatusRenamedColor  = lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#CBA6F7"}

	// Seen / unseen markers in the file list
	SeenColor   = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#696969"}
	UnseenColor = lipgloss.AdaptiveColor{Light: "#FE640B", Dark: "#FAB387"}

	// Selection indicator style (the ">" prefix in the file list)
	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"})

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor)
	StatusBarAccentStyle = lipgloss.NewStyle().
				Foreground(DiffHunkColor).Bold(true)
	StatusMessageStyle = lipgloss.NewStyle().
				Foreground(StatusWarningColor)

	// Pane borders
	PaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderDefaultColor)
	PaneFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(BorderFocusColor)

	// Help overlay
	HelpTitleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(TextPrimaryColor)
	HelpKeyStyle  = lipgloss.NewStyle().Foreground(DiffHunkColor)
	HelpDescStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
)
