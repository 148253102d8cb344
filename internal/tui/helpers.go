package tui

import (
	"runtime/debug"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Mr-Dark-debug/mpvlens/internal/snapshot"
)

// ────────────────────────────────────────────────────────────
// Filtering
// ────────────────────────────────────────────────────────────

// filterNames keeps the names containing substr. The match is case-sensitive.
func filterNames(names []string, substr string) []string {
	if substr == "" {
		return names
	}
	var out []string
	for _, n := range names {
		if strings.Contains(n, substr) {
			out = append(out, n)
		}
	}
	return out
}

// filterCommands keeps the commands whose name starts with prefix.
func filterCommands(commands []snapshot.Command, prefix string) []snapshot.Command {
	if prefix == "" {
		return commands
	}
	var out []snapshot.Command
	for _, c := range commands {
		if strings.HasPrefix(c.Name, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// ────────────────────────────────────────────────────────────
// Bindings
// ────────────────────────────────────────────────────────────

const bindingTitleLen = 50

// bindingTitle is the comment, or the command when there is no comment,
// cut to 50 characters with "..." appended when cut.
func bindingTitle(b snapshot.Binding) string {
	title := b.Comment
	if title == "" {
		title = b.Command
	}
	runes := []rune(title)
	if len(runes) <= bindingTitleLen {
		return title
	}
	return string(runes[:bindingTitleLen]) + "..."
}

// ────────────────────────────────────────────────────────────
// String helpers
// ────────────────────────────────────────────────────────────

// truncate cuts a string to maxLen cells and appends "..." if truncated.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return runewidth.Truncate(s, maxLen, "")
	}
	return runewidth.Truncate(s, maxLen, "...")
}

// lipglossWidth is the rendered cell width of s.
func lipglossWidth(s string) int { return lipgloss.Width(s) }

// clip cuts styled text to width cells.
func clip(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}

// clamp restricts val to [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// maxInt returns the larger of a and b.
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// minInt returns the smaller of a and b.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// toolkitVersion reports the bubbletea version compiled into the binary.
func toolkitVersion() string {
	const mod = "github.com/charmbracelet/bubbletea"
	info, ok := debug.ReadBuildInfo()
	if ok {
		for _, dep := range info.Deps {
			if dep.Path == mod {
				return "bubbletea " + dep.Version
			}
		}
	}
	return "bubbletea"
}
