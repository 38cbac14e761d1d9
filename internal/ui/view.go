package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/hunky/internal/engine"
	"github.com/zjrosen/hunky/internal/ui/styles"
)

// Layout constants
const (
	fileListMinWidth = 24   // Minimum width for file list panel
	fileListMaxWidth = 44   // Maximum width for file list panel
	fileListRatio    = 0.30 // File list takes 30% of width
	chromeHeight     = 2    // status bar + help line
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading…"
	}

	listWidth := int(float64(m.width) * fileListRatio)
	listWidth = min(max(listWidth, fileListMinWidth), fileListMaxWidth)
	if listWidth > m.width/2 {
		listWidth = m.width / 2
	}
	diffWidth := m.width - listWidth

	paneHeight := max(m.height-chromeHeight, 3)
	// Border eats two columns and two rows per pane.
	innerListW, innerDiffW := max(listWidth-2, 1), max(diffWidth-2, 1)
	innerH := max(paneHeight-2, 1)

	listStyle, diffStyle := styles.PaneStyle, styles.PaneStyle
	if m.eng.Focus() == engine.FocusFileList {
		listStyle = styles.PaneFocusedStyle
	} else {
		diffStyle = styles.PaneFocusedStyle
	}

	var diffContent string
	if m.eng.HelpVisible() {
		diffContent = m.renderHelpOverlay(innerDiffW)
	} else {
		diffContent = renderDiffPane(m.eng, m.wordDiffFor(m.eng.CurrentHunk()), innerDiffW, innerH)
	}

	left := listStyle.Width(innerListW).Height(innerH).Render(
		renderFileList(m.eng, innerListW, innerH))
	right := diffStyle.Width(innerDiffW).Height(innerH).Render(diffContent)

	panes := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	var b strings.Builder
	b.WriteString(panes)
	b.WriteString("\n")
	if m.showStatusBar {
		b.WriteString(renderStatusBar(m.eng, m.statusMsg, m.width))
		b.WriteString("\n")
	}
	b.WriteString(m.help.ShortHelpView(m.keymap.ShortHelp()))

	return b.String()
}

// renderHelpOverlay renders the full keybinding reference in the diff pane.
func (m Model) renderHelpOverlay(width int) string {
	var b strings.Builder
	b.WriteString(styles.HelpTitleStyle.Render("Keybindings"))
	b.WriteString("\n\n")

	for _, group := range m.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(styles.HelpKeyStyle.Render(padRight(h.Key, 10)))
			b.WriteString(styles.HelpDescStyle.Render(h.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(styles.HelpDescStyle.Render("press ? to close"))
	return b.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-len(s))
}
