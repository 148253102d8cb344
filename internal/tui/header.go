package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// renderHeader produces the top bar:
//
//	MPVLENS │ mpv 0.38.0 Copyright © 2000-2024 mpv/MPlayer/mplayer2 projects        bubbletea v1.3.10
func renderHeader(m *Model) string {
	brand := headerBrandStyle.Render("MPVLENS")
	sep := headerSepStyle.Render(" │ ")

	version := "not loaded"
	if m.snap != nil {
		version = m.snap.Version
	}
	left := brand + sep + headerMetaStyle.Render(version)
	if m.hidden {
		left += sep + headerMetaStyle.Render("hidden")
	}
	right := headerMetaStyle.Render(m.toolkit)

	inner := maxInt(m.width-2, 0) // padding
	left = clip(left, maxInt(inner-lipglossWidth(right)-1, 0))
	gap := maxInt(inner-lipglossWidth(left)-lipglossWidth(right), 1)

	return headerBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderSectionTitle draws one accordion header, e.g. "▾ Properties [812]".
func renderSectionTitle(m *Model, s Section) string {
	marker, style := "▸ ", sectionClosedStyle
	if s == m.section && !m.hidden {
		marker, style = "▾ ", sectionOpenStyle
	}
	line := style.Render(marker + fmt.Sprintf("F%d %s", int(s)+1, s))
	if n, ok := m.sectionSize(s); ok {
		line += sectionCountStyle.Render(fmt.Sprintf(" [%d]", n))
	}
	return clip(line, m.width)
}

// renderFooter produces the bottom status bar with keyboard hints.
func renderFooter(m *Model) string {
	var left string
	if m.err != nil {
		left = statusErrorStyle.Render(m.statusMsg)
	} else if m.statusMsg != "" {
		left = statusStyle.Render(m.statusMsg)
	}

	right := renderHints(m.hints())

	gap := m.width - lipglossWidth(left) - lipglossWidth(right)
	if gap < 0 {
		right = ""
		gap = maxInt(m.width-lipglossWidth(left), 0)
	}

	bar := left + strings.Repeat(" ", gap) + right
	return lipgloss.NewStyle().
		Background(colorBgSurface).
		Width(m.width).
		MaxWidth(m.width).
		Render(bar)
}

// hints lists the bindings relevant to the current section and focus.
func (m *Model) hints() []key.Binding {
	k := m.keys
	if m.hidden {
		return []key.Binding{k.Toggle, k.Quit}
	}
	if m.filterFocused() {
		return []key.Binding{k.Back, k.Quit}
	}

	switch m.section {
	case SectionOptions, SectionProperties:
		return []key.Binding{k.Up, k.Expand, k.Filter, k.ToggleAll, k.Copy, k.CopyName, k.CopyValue, k.Refresh, k.Quit}
	case SectionBindings:
		return []key.Binding{k.Up, k.Refresh, k.NextPane, k.Quit}
	case SectionCommands:
		return []key.Binding{k.Up, k.Filter, k.Refresh, k.Quit}
	default:
		return []key.Binding{k.Submit, k.Complete, k.LogFilter, k.LogLines, k.LogLevel, k.AutoScroll, k.CopyLog, k.Quit}
	}
}

func renderHints(bindings []key.Binding) string {
	var parts []string
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts,
			hintKeyStyle.Render(h.Key)+" "+hintDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, hintDescStyle.Render("  "))
}
