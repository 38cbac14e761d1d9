package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wrap"

	"github.com/zjrosen/hunky/internal/diff"
	"github.com/zjrosen/hunky/internal/engine"
	"github.com/zjrosen/hunky/internal/ui/styles"
)

// lineNumberWidth is the width reserved for line numbers in the gutter.
const lineNumberWidth = 4

// statusIndicator returns the one-letter marker and style for a file status.
func statusIndicator(fc diff.FileChange) (string, lipgloss.Style) {
	switch fc.Status {
	case diff.StatusAdded:
		return "A", lipgloss.NewStyle().Foreground(styles.StatusAddedColor)
	case diff.StatusDeleted:
		return "D", lipgloss.NewStyle().Foreground(styles.StatusDeletedColor)
	case diff.StatusRenamed:
		return "R", lipgloss.NewStyle().Foreground(styles.StatusRenamedColor)
	default:
		return "M", lipgloss.NewStyle().Foreground(styles.StatusModifiedColor)
	}
}

// renderFileList renders the file pane: selection cursor, status letter,
// truncated path, and per-file unseen count.
func renderFileList(eng *engine.Engine, width, height int) string {
	snap := eng.Snapshot()
	if snap.IsEmpty() {
		return lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("no changes")
	}

	curFile, _ := eng.Position()
	var lines []string
	for i, fc := range snap.Files {
		cursor := "  "
		if i == curFile {
			cursor = styles.SelectionIndicatorStyle.Render("> ")
		}

		letter, letterStyle := statusIndicator(fc)

		unseen := 0
		for _, h := range fc.Hunks {
			if !eng.IsSeen(h.ID) {
				unseen++
			}
		}
		badge := ""
		badgeStyle := lipgloss.NewStyle().Foreground(styles.SeenColor)
		if unseen > 0 {
			badge = fmt.Sprintf(" +%d", unseen)
			badgeStyle = lipgloss.NewStyle().Foreground(styles.UnseenColor).Bold(true)
		}

		display := fc.Path
		if eng.FileNamesOnly() {
			display = filepath.Base(fc.Path)
		}
		nameMax := width - 2 - 2 - runewidth.StringWidth(badge)
		name := runewidth.Truncate(display, max(nameMax, 1), "…")

		nameStyle := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor)
		if unseen == 0 {
			nameStyle = lipgloss.NewStyle().Foreground(styles.SeenColor)
		}

		lines = append(lines, cursor+letterStyle.Render(letter)+" "+
			nameStyle.Render(name)+badgeStyle.Render(badge))
	}

	if len(lines) > height {
		// Keep the selection visible.
		start := min(max(curFile-height/2, 0), len(lines)-height)
		lines = lines[start : start+height]
	}
	return strings.Join(lines, "\n")
}

// formatGutter formats the line-number gutter for one diff line.
func formatGutter(oldNum, newNum int) string {
	oldStr, newStr := "", ""
	if oldNum > 0 {
		oldStr = fmt.Sprintf("%*d", lineNumberWidth, oldNum)
	} else {
		oldStr = strings.Repeat(" ", lineNumberWidth)
	}
	if newNum > 0 {
		newStr = fmt.Sprintf("%*d", lineNumberWidth, newNum)
	} else {
		newStr = strings.Repeat(" ", lineNumberWidth)
	}
	return oldStr + " " + newStr + " │ "
}

// renderSegments renders word segments with base styling for unchanged
// portions and highlight styling for changed ones.
func renderSegments(segments []wordSegment, base, highlight lipgloss.Style) string {
	var b strings.Builder
	for _, seg := range segments {
		if seg.Type == segmentUnchanged {
			b.WriteString(base.Render(seg.Text))
		} else {
			b.WriteString(highlight.Render(seg.Text))
		}
	}
	return b.String()
}

// renderHunk renders one hunk's header and classified lines, applying
// word-level highlighting where a word diff is available. Long lines wrap
// when wrapLines is set, otherwise they truncate at the pane edge.
func renderHunk(hunk diff.Hunk, wd hunkWordDiff, width int, wrapLines bool) string {
	addStyle := lipgloss.NewStyle().Foreground(styles.DiffAdditionColor)
	delStyle := lipgloss.NewStyle().Foreground(styles.DiffDeletionColor)
	contextStyle := lipgloss.NewStyle().Foreground(styles.DiffContextColor)
	hunkStyle := lipgloss.NewStyle().Foreground(styles.DiffHunkColor)
	gutterStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)

	wordAddStyle := lipgloss.NewStyle().
		Foreground(styles.DiffAdditionColor).
		Background(styles.DiffWordAdditionBgColor)
	wordDelStyle := lipgloss.NewStyle().
		Foreground(styles.DiffDeletionColor).
		Background(styles.DiffWordDeletionBgColor)

	// Format: "OOOO NNNN │ ±content"
	gutterWidth := lineNumberWidth*2 + 4
	contentWidth := max(width-gutterWidth-1, 1)

	var lines []string

	header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", hunk.OldStart, hunk.OldCount, hunk.NewStart, hunk.NewCount)
	if hunk.Header != "" {
		header += " " + hunk.Header
	}
	lines = append(lines, hunkStyle.Render(runewidth.Truncate(header, width, "…")))

	for lineIdx, line := range hunk.Lines {
		var gutter, prefix string
		var style lipgloss.Style
		var styled string

		switch line.Kind {
		case diff.LineAddition:
			gutter = formatGutter(0, line.NewLineNum)
			prefix, style = "+", addStyle
			if segs := wd.segmentsForLine(lineIdx, diff.LineAddition); len(segs) > 0 {
				styled = renderSegments(segs, addStyle, wordAddStyle)
			}
		case diff.LineDeletion:
			gutter = formatGutter(line.OldLineNum, 0)
			prefix, style = "-", delStyle
			if segs := wd.segmentsForLine(lineIdx, diff.LineDeletion); len(segs) > 0 {
				styled = renderSegments(segs, delStyle, wordDelStyle)
			}
		default:
			gutter = formatGutter(line.OldLineNum, line.NewLineNum)
			prefix, style = " ", contextStyle
		}

		content := line.Content
		if wrapLines && runewidth.StringWidth(content) > contentWidth {
			wrapped := wrap.String(content, contentWidth)
			parts := strings.Split(wrapped, "\n")
			lines = append(lines, gutterStyle.Render(gutter)+style.Render(prefix+parts[0]))
			cont := strings.Repeat(" ", gutterWidth+1)
			for _, part := range parts[1:] {
				lines = append(lines, cont+style.Render(part))
			}
			continue
		}

		if styled == "" {
			styled = style.Render(runewidth.Truncate(content, contentWidth, ""))
		}
		lines = append(lines, gutterStyle.Render(gutter)+style.Render(prefix)+styled)
	}

	return strings.Join(lines, "\n")
}

// renderDiffPane renders the current hunk view, including the file header
// line, applying the engine's scroll offset.
func renderDiffPane(eng *engine.Engine, wd hunkWordDiff, width, height int) string {
	fc := eng.CurrentFile()
	if fc == nil {
		msg := "watching for changes…"
		if eng.ViewMode() == engine.NewChangesOnly {
			msg = "all caught up — watching for changes…"
		}
		return lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render(msg)
	}

	var b strings.Builder
	title := fc.Path
	if fc.Status == diff.StatusRenamed {
		title = fc.OldPath + " → " + fc.Path
	}
	stats := fmt.Sprintf(" +%d -%d", fc.Additions, fc.Deletions)
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(styles.TextPrimaryColor).Render(
		runewidth.Truncate(title, max(width-runewidth.StringWidth(stats), 1), "…")))
	b.WriteString(lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render(stats))
	b.WriteString("\n")

	if fc.IsBinary {
		b.WriteString(lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("binary file"))
		return b.String()
	}

	hunk := eng.CurrentHunk()
	if hunk == nil {
		b.WriteString(lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("no hunks"))
		return b.String()
	}

	body := renderHunk(*hunk, wd, width, eng.WrapLines())
	bodyLines := strings.Split(body, "\n")

	// Engine scroll offset slices the rendered content; height-1 leaves
	// room for the title line.
	visible := max(height-1, 1)
	offset := min(eng.ScrollOffset(), max(len(bodyLines)-1, 0))
	end := min(offset+visible, len(bodyLines))
	b.WriteString(strings.Join(bodyLines[offset:end], "\n"))

	return b.String()
}

// renderStatusBar renders the bottom line: position, modes, pacing, and a
// transient message when one is active.
func renderStatusBar(eng *engine.Engine, message string, width int) string {
	snap := eng.Snapshot()
	f, h := eng.Position()

	var parts []string
	if !snap.IsEmpty() {
		hunkCount := 0
		if fc := eng.CurrentFile(); fc != nil {
			hunkCount = len(fc.Hunks)
		}
		parts = append(parts, fmt.Sprintf("file %d/%d", f+1, len(snap.Files)))
		parts = append(parts, fmt.Sprintf("hunk %d/%d", h+1, max(hunkCount, 1)))
	}
	parts = append(parts, styles.StatusBarAccentStyle.Render(eng.StreamMode().String()))
	parts = append(parts, eng.Speed().String())
	parts = append(parts, eng.ViewMode().String())

	if unseen := eng.UnseenCount(); unseen > 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(styles.UnseenColor).Render(
			fmt.Sprintf("%d unseen", unseen)))
	} else if eng.ReachedEnd() {
		parts = append(parts, lipgloss.NewStyle().Foreground(styles.StatusSuccessColor).Render("caught up"))
	}

	bar := styles.StatusBarStyle.Render(strings.Join(parts, " · "))
	if message != "" {
		bar += "  " + styles.StatusMessageStyle.Render(message)
	}
	return ansi.Truncate(bar, width, "…")
}
