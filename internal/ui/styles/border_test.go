package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
)

var testAccent = lipgloss.Color("#00FF00")

func requireDimensions(t *testing.T, result string, width, height int) {
	t.Helper()
	lines := strings.Split(result, "\n")
	require.Len(t, lines, height)
	for i, line := range lines {
		require.Equal(t, width, lipgloss.Width(line), "line %d: %q", i, line)
	}
}

func TestRenderPanel_Basic(t *testing.T) {
	result := RenderPanel("1.200000000 s", "tickwatch", "running", 40, 6, testAccent)

	lines := strings.Split(result, "\n")
	require.True(t, strings.HasPrefix(lines[0], "╭"))
	require.Contains(t, lines[0], "tickwatch")
	require.Contains(t, lines[0], "running")
	require.Contains(t, result, "1.200000000 s")
	require.True(t, strings.HasSuffix(lines[len(lines)-1], "╯"))
	requireDimensions(t, result, 40, 6)
}

func TestRenderPanel_StatusDroppedWhenNarrow(t *testing.T) {
	result := RenderPanel("x", "tickwatch", "running", 16, 3, testAccent)

	lines := strings.Split(result, "\n")
	require.Contains(t, lines[0], "tickwatch")
	require.NotContains(t, lines[0], "running")
	requireDimensions(t, result, 16, 3)
}

func TestRenderPanel_TitleTruncated(t *testing.T) {
	result := RenderPanel("x", "a very long stopwatch title", "", 14, 3, testAccent)

	lines := strings.Split(result, "\n")
	require.Contains(t, lines[0], "...")
	requireDimensions(t, result, 14, 3)
}

func TestRenderPanel_NoTitles(t *testing.T) {
	result := RenderPanel("content", "", "", 20, 4, testAccent)

	lines := strings.Split(result, "\n")
	require.Equal(t, "╭"+strings.Repeat("─", 18)+"╮", lines[0])
	requireDimensions(t, result, 20, 4)
}

func TestRenderPanel_StatusOnly(t *testing.T) {
	result := RenderPanel("content", "", "X", 20, 4, testAccent)

	lines := strings.Split(result, "\n")
	require.True(t, strings.HasSuffix(lines[0], "X ─╮"))
	requireDimensions(t, result, 20, 4)
}

func TestRenderPanel_ContentClippedToHeight(t *testing.T) {
	result := RenderPanel("1\n2\n3\n4\n5", "t", "", 10, 4, testAccent)

	require.Contains(t, result, "1")
	require.Contains(t, result, "2")
	require.NotContains(t, result, "5")
	requireDimensions(t, result, 10, 4)
}

func TestRenderPanel_MinimalSize(t *testing.T) {
	result := RenderPanel("", "", "", 3, 3, testAccent)
	require.Contains(t, result, "╭")
	require.Contains(t, result, "╯")
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		maxWidth int
		expected string
	}{
		{"fits", "Go", 5, "Go"},
		{"exact", "Clear", 5, "Clear"},
		{"truncated", "stopwatch", 7, "stop..."},
		{"tiny", "stopwatch", 2, ".."},
		{"zero", "stopwatch", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, TruncateString(tt.s, tt.maxWidth))
		})
	}
}
