package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/Mr-Dark-debug/mpvlens/internal/console"
)

// consoleFocus is the console widget receiving keystrokes.
type consoleFocus int

const (
	focusCommand consoleFocus = iota
	focusLogFilter
	focusLogLines
)

// consoleView adapts console.Console to bubbles widgets: a viewport for
// the log and text inputs for the command line, log filter and line limit.
type consoleView struct {
	input  textinput.Model
	filter textinput.Model
	lines  textinput.Model
	log    viewport.Model
	focus  consoleFocus
}

func newConsoleView(capacity int) consoleView {
	input := textinput.New()
	input.Prompt = "> "
	input.PromptStyle = promptStyle
	input.Placeholder = "press ENTER to execute"
	input.CharLimit = 1023

	lines := newFilterInput("")
	lines.CharLimit = 7
	lines.SetValue(strconv.Itoa(capacity))

	return consoleView{
		input:  input,
		filter: newFilterInput("incl,-excl"),
		lines:  lines,
		log:    viewport.New(80, 10),
	}
}

func (v *consoleView) resize(width, height int) {
	v.log.Width = maxInt(width, 1)
	v.log.Height = maxInt(height, 1)
	v.input.Width = maxInt(width-4, 1)
	v.filter.Width = 16
	v.lines.Width = 6
}

// sync rebuilds the viewport content from the console log. The view stays
// pinned to the newest line when a command was just submitted or when
// auto-scroll is on and it was already at the bottom.
func (v *consoleView) sync(c *console.Console) {
	atBottom := v.log.AtBottom()

	entries := c.Visible()
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = logStyle(e.Level).Render(e.Text)
	}
	v.log.SetContent(strings.Join(lines, "\n"))

	if c.TakeScrollToBottom() || (c.AutoScroll() && atBottom) {
		v.log.GotoBottom()
	}
}

// editState converts the command line into the toolkit-independent form.
func (v *consoleView) editState() console.EditState {
	return console.EditState{Text: v.input.Value(), Cursor: v.input.Position()}
}

func (v *consoleView) applyEditState(s console.EditState) {
	v.input.SetValue(s.Text)
	v.input.SetCursor(s.Cursor)
}

// setFocus moves keyboard focus between the console inputs.
func (v *consoleView) setFocus(f consoleFocus) {
	v.focus = f
	v.input.Blur()
	v.filter.Blur()
	v.lines.Blur()
	switch f {
	case focusLogFilter:
		v.filter.Focus()
	case focusLogLines:
		v.lines.Focus()
	default:
		v.input.Focus()
	}
}

func (v *consoleView) blurAll() {
	v.input.Blur()
	v.filter.Blur()
	v.lines.Blur()
}

// renderToolbar draws the filter, line limit, counter, level and
// auto-scroll state.
func (v *consoleView) renderToolbar(c *console.Console, width int) string {
	scroll := "off"
	if c.AutoScroll() {
		scroll = "on"
	}
	bar := labelStyle.Render("Filter ") + v.filter.View() + "  " +
		labelStyle.Render("Lines ") + v.lines.View() + " " +
		labelStyle.Render(fmt.Sprintf("(%d/%d)", c.Log().Len(), c.Log().Capacity())) + "  " +
		labelStyle.Render("Level ") + detailValueStyle.Render(c.Level().String()) + "  " +
		labelStyle.Render("Auto-scroll ") + detailValueStyle.Render(scroll)
	return clip(bar, width)
}

func (v *consoleView) view(c *console.Console, width int) string {
	help := hintDescStyle.Render("  (?) HELP, TAB completes, ↑↓ history")
	input := v.input.View()
	if lipglossWidth(input)+lipglossWidth(help) <= width {
		input += help
	}
	return strings.Join([]string{
		v.renderToolbar(c, width),
		v.log.View(),
		clip(input, width),
	}, "\n")
}
