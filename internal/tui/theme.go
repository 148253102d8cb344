package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Mr-Dark-debug/mpvlens/internal/console"
)

// ────────────────────────────────────────────────────────────
// Color Palette, GitHub Dark
// ────────────────────────────────────────────────────────────
//
// All colors are defined here. No ad-hoc color literals anywhere.

var (
	// Base
	colorBg        = lipgloss.Color("#0d1117")
	colorBgSurface = lipgloss.Color("#1c2128")

	// Text
	colorText      = lipgloss.Color("#e6edf3")
	colorTextDim   = lipgloss.Color("#8b949e")
	colorTextMuted = lipgloss.Color("#484f58")

	// Accents
	colorBlue   = lipgloss.Color("#58a6ff")
	colorGreen  = lipgloss.Color("#3fb950")
	colorRed    = lipgloss.Color("#f85149")
	colorYellow = lipgloss.Color("#d29922")
	colorPurple = lipgloss.Color("#bc8cff")
	colorCyan   = lipgloss.Color("#76e3ea")

	// Structural
	colorDivider   = lipgloss.Color("#30363d")
	colorHighlight = lipgloss.Color("#1f6feb")
)

// ────────────────────────────────────────────────────────────
// Component Styles
// ────────────────────────────────────────────────────────────

// Header bar
var (
	headerBarStyle = lipgloss.NewStyle().
			Background(colorBgSurface).
			Foreground(colorText).
			Padding(0, 1)

	headerBrandStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBlue)

	headerSepStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	headerMetaStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)
)

// Accordion section titles
var (
	sectionOpenStyle = lipgloss.NewStyle().
				Foreground(colorBlue).
				Bold(true)

	sectionClosedStyle = lipgloss.NewStyle().
				Foreground(colorTextDim)

	sectionCountStyle = lipgloss.NewStyle().
				Foreground(colorTextMuted)
)

// Lists (properties, bindings, commands)
var (
	rowNormalStyle = lipgloss.NewStyle().
			Foreground(colorText)

	rowSelectedStyle = lipgloss.NewStyle().
				Background(colorHighlight).
				Foreground(colorText).
				Bold(true)

	bulletStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	branchStyle = lipgloss.NewStyle().
			Foreground(colorPurple)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(colorTextMuted).
				Italic(true)

	commandNameStyle = lipgloss.NewStyle().
				Foreground(colorGreen)

	keyCapStyle = lipgloss.NewStyle().
			Foreground(colorCyan).
			Background(colorBgSurface).
			Padding(0, 1)

	detailLabelStyle = lipgloss.NewStyle().
				Foreground(colorBlue)

	detailValueStyle = lipgloss.NewStyle().
				Foreground(colorText)

	dividerStyle = lipgloss.NewStyle().
			Foreground(colorDivider)
)

// Format toggles and filter bar
var (
	toggleOnStyle = lipgloss.NewStyle().
			Foreground(colorBlue)

	toggleOffStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	emptyStateStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			Padding(1, 2)
)

// Console log levels
var (
	logFatalStyle = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	logErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
	logWarnStyle  = lipgloss.NewStyle().Foreground(colorYellow)
	logInfoStyle  = lipgloss.NewStyle().Foreground(colorText)
	logVerbStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	logDebugStyle = lipgloss.NewStyle().Foreground(colorTextDim)
)

// Footer / status bar
var (
	statusStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorBgSurface).
			Padding(0, 1)

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(colorRed).
				Background(colorBgSurface).
				Padding(0, 1)

	hintKeyStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	hintDescStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	promptStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	cursorStyle = lipgloss.NewStyle().
			Background(colorBlue).
			Foreground(colorBg)
)

// logStyle returns the color for a console level.
func logStyle(level console.Level) lipgloss.Style {
	switch level {
	case console.LevelFatal:
		return logFatalStyle
	case console.LevelError:
		return logErrorStyle
	case console.LevelWarn:
		return logWarnStyle
	case console.LevelVerbose:
		return logVerbStyle
	case console.LevelDebug, console.LevelTrace:
		return logDebugStyle
	default:
		return logInfoStyle
	}
}
