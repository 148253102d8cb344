package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Mr-Dark-debug/mpvlens/internal/console"
	"github.com/Mr-Dark-debug/mpvlens/internal/mpv"
	"github.com/Mr-Dark-debug/mpvlens/internal/node"
	"github.com/Mr-Dark-debug/mpvlens/internal/snapshot"
)

// ────────────────────────────────────────────────────────────
// Sections
// ────────────────────────────────────────────────────────────

// Section is one fold of the accordion. Exactly one is open at a time.
type Section int

const (
	SectionOptions Section = iota
	SectionProperties
	SectionBindings
	SectionCommands
	SectionConsole

	sectionCount
)

var sectionNames = [...]string{"Options", "Properties", "Bindings", "Commands", "Console"}

func (s Section) String() string {
	if s < 0 || s >= sectionCount {
		return fmt.Sprintf("Section(%d)", int(s))
	}
	return sectionNames[s]
}

// frameInterval paces the lazy fetch of visible property values.
const frameInterval = 250 * time.Millisecond

// ────────────────────────────────────────────────────────────
// Model
// ────────────────────────────────────────────────────────────

// Model is the root BubbleTea model for the overlay.
// State is organized by section; rendering is delegated
// to component functions in separate files.
type Model struct {
	ctx       context.Context
	host      mpv.Host
	console   *console.Console
	events    <-chan mpv.LogMessage
	clipboard Clipboard
	keys      keyMap
	toolkit   string

	// Data
	snap    *snapshot.Snapshot
	loading bool

	// UI state
	hidden     bool
	section    Section
	options    propertyPane
	properties propertyPane
	bindings   listState
	commands   commandPane
	con        consoleView
	width      int
	height     int

	// Status
	statusMsg string
	err       error
}

// Option configures a Model.
type Option func(*Model)

// WithContext sets the context host calls run under.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// WithEvents feeds host log messages into the console.
func WithEvents(events <-chan mpv.LogMessage) Option {
	return func(m *Model) { m.events = events }
}

// WithClipboard replaces the system clipboard.
func WithClipboard(c Clipboard) Option {
	return func(m *Model) { m.clipboard = c }
}

// NewModel creates the overlay for host. The console is shared with the
// caller, which may have seeded history or hooks.
func NewModel(host mpv.Host, con *console.Console, opts ...Option) Model {
	m := Model{
		ctx:        context.Background(),
		host:       host,
		console:    con,
		clipboard:  SystemClipboard{},
		keys:       defaultKeyMap(),
		toolkit:    toolkitVersion(),
		loading:    true,
		section:    SectionConsole,
		options:    newPropertyPane(),
		properties: newPropertyPane(),
		commands:   newCommandPane(),
		con:        newConsoleView(con.Log().Capacity()),
		statusMsg:  "Loading snapshot...",
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.con.setFocus(focusCommand)
	m.con.sync(con)
	return m
}

// ────────────────────────────────────────────────────────────
// Messages
// ────────────────────────────────────────────────────────────

type snapshotLoadedMsg struct{ snap *snapshot.Snapshot }
type valuesFetchedMsg struct {
	section Section
	values  map[string]node.Value
}
type frameMsg time.Time
type logMsg mpv.LogMessage
type hostClosedMsg struct{}
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

// ────────────────────────────────────────────────────────────
// Init
// ────────────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadSnapshot(), m.frameTick(), m.waitForLog(), textinput.Blink)
}

func (m Model) loadSnapshot() tea.Cmd {
	ctx, host := m.ctx, m.host
	return func() tea.Msg {
		snap, err := snapshot.Load(ctx, host)
		if err != nil {
			return errMsg{err}
		}
		return snapshotLoadedMsg{snap}
	}
}

// fetchValues reads the given names. A failed read is stored as nil and
// renders as a placeholder.
func (m Model) fetchValues(section Section, names []string) tea.Cmd {
	ctx, host := m.ctx, m.host
	return func() tea.Msg {
		values := make(map[string]node.Value, len(names))
		for _, name := range names {
			v, err := host.GetProperty(ctx, name)
			if err != nil {
				slog.Debug("property unavailable", "name", name, "err", err)
				v = nil
			}
			values[name] = v
		}
		return valuesFetchedMsg{section: section, values: values}
	}
}

func (m Model) frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m Model) waitForLog() tea.Cmd {
	events := m.events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return hostClosedMsg{}
		}
		return logMsg(msg)
	}
}

// ────────────────────────────────────────────────────────────
// Update
// ────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.con.resize(m.width, m.consoleLogHeight())
		m.con.sync(m.console)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case snapshotLoadedMsg:
		m.applySnapshot(msg.snap)
		cmd := m.fetchVisible()
		return m, cmd

	case valuesFetchedMsg:
		if p := m.pane(msg.section); p != nil {
			p.mergeValues(msg.values)
			p.follow(len(p.rows()), m.listHeight())
		}
		return m, nil

	case frameMsg:
		cmd := m.fetchVisible()
		return m, tea.Batch(m.frameTick(), cmd)

	case logMsg:
		m.console.AddHostLog(msg.Prefix, msg.Level, msg.Text)
		m.con.sync(m.console)
		return m, m.waitForLog()

	case hostClosedMsg:
		m.err = mpv.ErrClosed
		m.statusMsg = "mpv connection closed"
		return m, nil

	case errMsg:
		m.loading = false
		m.err = msg.err
		m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		m.console.AppendLog(console.LevelError, msg.err.Error())
		m.con.sync(m.console)
		slog.Error("overlay", "err", msg.err)
		return m, nil
	}

	// Cursor blink and other widget messages go to the focused input.
	if in := m.focusedInput(); in != nil {
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		return m, cmd
	}
	return m, nil
}

// applySnapshot replaces every list with a fresh snapshot.
func (m *Model) applySnapshot(snap *snapshot.Snapshot) {
	m.snap = snap
	m.loading = false
	m.err = nil

	m.options.setNames(snap.Options)
	m.properties.setNames(snap.Properties)
	m.console.InitCommands(snap.Commands)

	h := m.listHeight()
	m.options.follow(len(m.options.rows()), h)
	m.properties.follow(len(m.properties.rows()), h)
	m.bindings.follow(len(snap.Bindings), h)
	m.commands.follow(len(m.commands.visible(snap.Commands)), h)

	m.statusMsg = fmt.Sprintf("%d options  %d properties  %d bindings  %d commands",
		len(snap.Options), len(snap.Properties), len(snap.Bindings), len(snap.Commands))
	slog.Debug("snapshot loaded",
		"options", len(snap.Options),
		"properties", len(snap.Properties),
		"bindings", len(snap.Bindings),
		"commands", len(snap.Commands))
}

// fetchVisible starts a fetch of the names in the visible window of the
// open property section, unless one is already in flight.
func (m *Model) fetchVisible() tea.Cmd {
	if m.hidden || m.snap == nil {
		return nil
	}
	p := m.pane(m.section)
	if p == nil || p.fetching {
		return nil
	}
	names := p.windowNames(m.listHeight())
	if len(names) == 0 {
		return nil
	}
	p.fetching = true
	return m.fetchValues(m.section, names)
}

// pane returns the property pane for s, or nil.
func (m *Model) pane(s Section) *propertyPane {
	switch s {
	case SectionOptions:
		return &m.options
	case SectionProperties:
		return &m.properties
	}
	return nil
}

func (m *Model) sectionSize(s Section) (int, bool) {
	if m.snap == nil {
		return 0, false
	}
	switch s {
	case SectionOptions:
		return len(m.snap.Options), true
	case SectionProperties:
		return len(m.snap.Properties), true
	case SectionBindings:
		return len(m.snap.Bindings), true
	case SectionCommands:
		return len(m.snap.Commands), true
	}
	return 0, false
}

// focusedInput returns the text input receiving keystrokes, if any.
func (m *Model) focusedInput() *textinput.Model {
	if m.hidden {
		return nil
	}
	switch m.section {
	case SectionOptions, SectionProperties:
		if p := m.pane(m.section); p.filter.Focused() {
			return &p.filter
		}
	case SectionCommands:
		if m.commands.filter.Focused() {
			return &m.commands.filter
		}
	case SectionConsole:
		switch m.con.focus {
		case focusLogFilter:
			return &m.con.filter
		case focusLogLines:
			return &m.con.lines
		default:
			return &m.con.input
		}
	}
	return nil
}

// filterFocused reports whether a secondary input (not the command line)
// has focus.
func (m *Model) filterFocused() bool {
	in := m.focusedInput()
	return in != nil && in != &m.con.input
}

func (m *Model) setSection(s Section) {
	m.options.filter.Blur()
	m.properties.filter.Blur()
	m.commands.filter.Blur()
	m.section = s
	if s == SectionConsole {
		m.con.setFocus(focusCommand)
		m.con.sync(m.console)
	} else {
		m.con.blurAll()
	}
}

// ────────────────────────────────────────────────────────────
// Layout
// ────────────────────────────────────────────────────────────

// bodyHeight is what remains for the open section after the header,
// footer and one title line per section.
func (m *Model) bodyHeight() int {
	return maxInt(m.height-2-int(sectionCount), 3)
}

// listHeight is the number of list rows the open section shows.
func (m *Model) listHeight() int {
	switch m.section {
	case SectionCommands:
		return maxInt(m.bodyHeight()-1, 1) // filter line
	default:
		return maxInt(m.bodyHeight()-2, 1) // toolbar lines or detail line
	}
}

func (m *Model) consoleLogHeight() int { return maxInt(m.bodyHeight()-2, 1) }

// ────────────────────────────────────────────────────────────
// Keys
// ────────────────────────────────────────────────────────────

// handleKey routes keyboard input based on the open section.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys

	// ── Global ──

	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit

	case key.Matches(msg, k.Toggle):
		if m.hidden {
			// Hidden → shown reloads everything.
			m.hidden = false
			m.setSection(m.section)
			m.loading = true
			m.statusMsg = "Loading snapshot..."
			return m, m.loadSnapshot()
		}
		m.hidden = true
		m.setSection(m.section)
		m.con.blurAll()
		return m, nil
	}

	if m.hidden {
		return m, nil
	}

	switch {
	case key.Matches(msg, k.Refresh):
		m.loading = true
		m.statusMsg = "Refreshing..."
		return m, m.loadSnapshot()

	case key.Matches(msg, k.NextPane):
		m.setSection((m.section + 1) % sectionCount)
		cmd := m.fetchVisible()
		return m, cmd

	case key.Matches(msg, k.PrevPane):
		m.setSection((m.section + sectionCount - 1) % sectionCount)
		cmd := m.fetchVisible()
		return m, cmd
	}

	for i, b := range k.Sections {
		if key.Matches(msg, b) {
			m.setSection(Section(i))
			cmd := m.fetchVisible()
			return m, cmd
		}
	}

	// ── Section-specific ──

	switch m.section {
	case SectionOptions, SectionProperties:
		return m.handlePropertyKey(msg)
	case SectionBindings:
		return m.handleBindingKey(msg)
	case SectionCommands:
		return m.handleCommandKey(msg)
	default:
		return m.handleConsoleKey(msg)
	}
}

// navigate applies a movement key to l. It reports whether msg was one.
func (m *Model) navigate(msg tea.KeyMsg, l *listState, total int) bool {
	k, h := m.keys, m.listHeight()
	switch {
	case key.Matches(msg, k.Up):
		l.move(-1, total, h)
	case key.Matches(msg, k.Down):
		l.move(1, total, h)
	case key.Matches(msg, k.PageUp):
		l.move(-h, total, h)
	case key.Matches(msg, k.PageDown):
		l.move(h, total, h)
	case key.Matches(msg, k.Home):
		l.move(-total, total, h)
	case key.Matches(msg, k.End):
		l.move(total, total, h)
	default:
		return false
	}
	return true
}

// updateFilter feeds msg to a focused filter input. Enter or Esc return
// focus to the list; any edit resets the cursor.
func (m *Model) updateFilter(msg tea.KeyMsg, in *textinput.Model, l *listState) tea.Cmd {
	if key.Matches(msg, m.keys.Back) || msg.Type == tea.KeyEnter {
		in.Blur()
		return nil
	}
	before := in.Value()
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	if in.Value() != before {
		l.reset()
	}
	return cmd
}

func (m Model) handlePropertyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	p := m.pane(m.section)

	if p.filter.Focused() {
		cmd := m.updateFilter(msg, &p.filter, &p.listState)
		fetch := m.fetchVisible()
		return m, tea.Batch(cmd, fetch)
	}

	rows := p.rows()
	if m.navigate(msg, &p.listState, len(rows)) {
		cmd := m.fetchVisible()
		return m, cmd
	}

	switch {
	case key.Matches(msg, k.Filter):
		cmd := p.filter.Focus()
		return m, cmd
	case key.Matches(msg, k.Expand):
		p.toggle(rows)
	case key.Matches(msg, k.Collapse):
		p.collapse(rows)
	case key.Matches(msg, k.ToggleAll):
		p.mask = p.mask.ToggleAll()
	case key.Matches(msg, k.Copy):
		m.copyRow(p, rows, copyNameValue)
	case key.Matches(msg, k.CopyName):
		m.copyRow(p, rows, copyName)
	case key.Matches(msg, k.CopyValue):
		m.copyRow(p, rows, copyValue)
	default:
		if s := msg.String(); len(s) == 1 && s[0] >= '0' && s[0] <= '7' {
			p.mask = p.mask.Toggle(node.Format(s[0] - '0'))
		}
	}

	p.follow(len(p.rows()), m.listHeight())
	cmd := m.fetchVisible()
	return m, cmd
}

type copyKind int

const (
	copyNameValue copyKind = iota
	copyName
	copyValue
)

// copyRow puts the selected scalar row on the clipboard.
func (m *Model) copyRow(p *propertyPane, rows []treeRow, kind copyKind) {
	r, ok := p.selected(rows)
	if !ok || r.kind != rowLeaf {
		m.statusMsg = "Nothing to copy"
		return
	}

	var text string
	switch kind {
	case copyName:
		text = r.label
	case copyValue:
		text = r.value
	default:
		text = r.label + "=" + r.value
	}
	m.copyText(text)
}

func (m *Model) copyText(text string) {
	if err := m.clipboard.WriteAll(text); err != nil {
		m.err = err
		m.statusMsg = fmt.Sprintf("Copy failed: %v", err)
		return
	}
	m.err = nil
	m.statusMsg = "Copied " + truncate(strings.ReplaceAll(text, "\n", " "), 60)
}

func (m Model) handleBindingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.snap != nil {
		m.navigate(msg, &m.bindings, len(m.snap.Bindings))
	}
	return m, nil
}

func (m Model) handleCommandKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	p := &m.commands

	if p.filter.Focused() {
		cmd := m.updateFilter(msg, &p.filter, &p.listState)
		return m, cmd
	}
	if m.snap == nil {
		return m, nil
	}

	visible := p.visible(m.snap.Commands)
	if m.navigate(msg, &p.listState, len(visible)) {
		return m, nil
	}

	switch {
	case key.Matches(msg, k.Filter):
		cmd := p.filter.Focus()
		return m, cmd

	case key.Matches(msg, k.Submit):
		// Start a console line with the selected command.
		if p.cursor < len(visible) {
			m.setSection(SectionConsole)
			m.con.input.SetValue(visible[p.cursor].Name + " ")
			m.con.input.CursorEnd()
		}
	}
	return m, nil
}

func (m Model) handleConsoleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	c := m.console
	v := &m.con

	switch v.focus {
	case focusLogFilter:
		if key.Matches(msg, k.Back) || msg.Type == tea.KeyEnter {
			v.setFocus(focusCommand)
			return m, nil
		}
		var cmd tea.Cmd
		v.filter, cmd = v.filter.Update(msg)
		c.SetFilter(v.filter.Value())
		v.sync(c)
		return m, cmd

	case focusLogLines:
		switch {
		case key.Matches(msg, k.Back):
			v.lines.SetValue(strconv.Itoa(c.Log().Capacity()))
			v.setFocus(focusCommand)
			return m, nil
		case msg.Type == tea.KeyEnter:
			n, err := strconv.Atoi(strings.TrimSpace(v.lines.Value()))
			if err != nil || n < 1 {
				m.statusMsg = "Lines must be a positive number"
			} else {
				c.SetCapacity(n)
				v.sync(c)
			}
			v.lines.SetValue(strconv.Itoa(c.Log().Capacity()))
			v.setFocus(focusCommand)
			return m, nil
		}
		var cmd tea.Cmd
		v.lines, cmd = v.lines.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, k.Submit):
		line := v.input.Value()
		v.input.SetValue("")
		c.Submit(m.ctx, line)
		v.sync(c)

	case key.Matches(msg, k.Complete):
		v.applyEditState(c.HandleKey(v.editState(), console.KeyTab))
		v.sync(c)

	case msg.Type == tea.KeyUp:
		v.applyEditState(c.HandleKey(v.editState(), console.KeyUp))

	case msg.Type == tea.KeyDown:
		v.applyEditState(c.HandleKey(v.editState(), console.KeyDown))

	case key.Matches(msg, k.Back):
		v.input.SetValue("")
		c.History().Reset()

	case key.Matches(msg, k.PageUp):
		v.log.SetYOffset(v.log.YOffset - v.log.Height)

	case key.Matches(msg, k.PageDown):
		v.log.SetYOffset(v.log.YOffset + v.log.Height)

	case key.Matches(msg, k.LogFilter):
		v.setFocus(focusLogFilter)

	case key.Matches(msg, k.LogLines):
		v.setFocus(focusLogLines)

	case key.Matches(msg, k.LogLevel):
		c.SetLevel(m.ctx, c.Level().Next())
		m.statusMsg = "Log level: " + c.Level().String()
		v.sync(c)

	case key.Matches(msg, k.AutoScroll):
		c.SetAutoScroll(!c.AutoScroll())
		if c.AutoScroll() {
			v.log.GotoBottom()
		}

	case key.Matches(msg, k.ClearLog):
		c.Log().Clear()
		v.sync(c)

	case key.Matches(msg, k.CopyLog):
		entries := c.Visible()
		texts := make([]string, len(entries))
		for i, e := range entries {
			texts[i] = e.Text
		}
		m.copyText(strings.Join(texts, "\n"))

	default:
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// ────────────────────────────────────────────────────────────
// View
// ────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	parts := []string{renderHeader(&m)}
	if m.hidden {
		body := emptyStateStyle.Render("Overlay hidden. Press f12 to show.")
		parts = append(parts, fitHeight(body, m.height-2))
	} else {
		for s := Section(0); s < sectionCount; s++ {
			parts = append(parts, renderSectionTitle(&m, s))
			if s == m.section {
				parts = append(parts, fitHeight(m.renderSection(), m.bodyHeight()))
			}
		}
	}
	parts = append(parts, renderFooter(&m))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// fitHeight pads or cuts s to exactly h lines.
func fitHeight(s string, h int) string {
	h = maxInt(h, 1)
	return lipgloss.NewStyle().Height(h).MaxHeight(h).Render(s)
}

func (m Model) renderSection() string {
	if m.snap == nil && m.section != SectionConsole {
		msg := "Loading snapshot..."
		if !m.loading {
			msg = "No snapshot. Press ctrl+r to retry."
		}
		return emptyStateStyle.Render(msg)
	}

	switch m.section {
	case SectionOptions, SectionProperties:
		return m.renderProperties()
	case SectionBindings:
		return m.renderBindings()
	case SectionCommands:
		return m.renderCommands()
	default:
		return m.con.view(m.console, m.width)
	}
}

func (m Model) renderProperties() string {
	p := m.pane(m.section)
	w, h := m.width, m.listHeight()

	lines := []string{
		clip(renderFormats(p.mask), w),
		labelStyle.Render("Filter: ") + p.filter.View(),
	}

	rows := p.rows()
	if len(rows) == 0 {
		msg := "No matching names."
		if p.mask == 0 {
			msg = "No formats selected."
		}
		return strings.Join(append(lines, emptyStateStyle.Render(msg)), "\n")
	}

	start, end := p.window(len(rows), h)
	for i := start; i < end; i++ {
		lines = append(lines, renderTreeRow(rows[i], w, i == p.cursor))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderBindings() string {
	bindings := m.snap.Bindings
	w, h := m.width, m.listHeight()
	if len(bindings) == 0 {
		return emptyStateStyle.Render("No bindings.")
	}

	var lines []string
	start, end := m.bindings.window(len(bindings), h)
	for i := start; i < end; i++ {
		lines = append(lines, renderBindingRow(bindings[i], w, i == m.bindings.cursor))
	}
	for len(lines) < h {
		lines = append(lines, "")
	}

	lines = append(lines, dividerStyle.Render(strings.Repeat("─", maxInt(w, 0))))
	if c := m.bindings.cursor; c < len(bindings) {
		lines = append(lines, renderBindingDetail(bindings[c], w))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderCommands() string {
	w, h := m.width, m.listHeight()
	lines := []string{labelStyle.Render("Filter: ") + m.commands.filter.View()}

	visible := m.commands.visible(m.snap.Commands)
	if len(visible) == 0 {
		return strings.Join(append(lines, emptyStateStyle.Render("No matching commands.")), "\n")
	}

	start, end := m.commands.window(len(visible), h)
	for i := start; i < end; i++ {
		lines = append(lines, renderCommandRow(visible[i], w, i == m.commands.cursor))
	}
	return strings.Join(lines, "\n")
}
