package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// RenderPanel draws content inside a rounded border of exactly width×height
// cells. title is embedded on the left of the top border and status on the
// right; either may be empty. accent colors the border and titles.
func RenderPanel(content, title, status string, width, height int, accent lipgloss.TerminalColor) string {
	borderStyle := lipgloss.NewStyle().Foreground(accent)
	innerWidth := max(width-2, 1)
	innerHeight := max(height-2, 1)

	body := lipgloss.NewStyle().
		Width(innerWidth).
		Height(innerHeight).
		MaxHeight(innerHeight).
		Render(content)
	bodyLines := strings.Split(body, "\n")

	var out strings.Builder
	out.WriteString(topBorder(title, status, innerWidth, borderStyle))
	for i := range innerHeight {
		var line string
		if i < len(bodyLines) {
			line = bodyLines[i]
		}
		if w := lipgloss.Width(line); w < innerWidth {
			line += strings.Repeat(" ", innerWidth-w)
		}
		out.WriteString("\n")
		out.WriteString(borderStyle.Render(borderVertical) + line + borderStyle.Render(borderVertical))
	}
	out.WriteString("\n")
	out.WriteString(borderStyle.Render(borderBottomLeft + strings.Repeat(borderHorizontal, innerWidth) + borderBottomRight))
	return out.String()
}

// topBorder builds ╭─ title ───── status ─╮, dropping the status and then
// truncating the title when the width cannot fit them.
func topBorder(title, status string, innerWidth int, borderStyle lipgloss.Style) string {
	plain := func() string {
		return borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight)
	}

	titleWidth := lipgloss.Width(title)
	statusWidth := lipgloss.Width(status)

	// "─ " + title + " " ... " " + status + " ─"
	need := 0
	if title != "" {
		need += titleWidth + 3
	}
	if status != "" {
		need += statusWidth + 3
	}
	if need+1 > innerWidth {
		status, statusWidth = "", 0
		if title == "" || innerWidth < 5 {
			return plain()
		}
		title = TruncateString(title, innerWidth-4)
		titleWidth = lipgloss.Width(title)
		need = titleWidth + 3
	}
	if need == 0 {
		return plain()
	}

	var b strings.Builder
	b.WriteString(borderStyle.Render(borderTopLeft))
	if title != "" {
		b.WriteString(borderStyle.Render(borderHorizontal+" ") + title + borderStyle.Render(" "))
	}
	b.WriteString(borderStyle.Render(strings.Repeat(borderHorizontal, innerWidth-need)))
	if status != "" {
		b.WriteString(borderStyle.Render(" ") + status + borderStyle.Render(" "+borderHorizontal))
	}
	b.WriteString(borderStyle.Render(borderTopRight))
	return b.String()
}

// TruncateString truncates a string to fit within maxWidth, adding ellipsis if needed.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}

	return truncate.StringWithTail(s, uint(maxWidth), "...")
}
