package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/Mr-Dark-debug/mpvlens/internal/node"
	"github.com/Mr-Dark-debug/mpvlens/internal/snapshot"
)

// ────────────────────────────────────────────────────────────
// List cursor
// ────────────────────────────────────────────────────────────

// listState is a cursor plus scroll offset over a list of total rows shown
// in a window of height rows.
type listState struct {
	cursor int
	offset int
}

func (l *listState) move(delta, total, height int) {
	if total == 0 {
		l.cursor, l.offset = 0, 0
		return
	}
	l.cursor = clamp(l.cursor+delta, 0, total-1)
	l.follow(total, height)
}

// follow scrolls so the cursor is inside the window.
func (l *listState) follow(total, height int) {
	height = maxInt(height, 1)
	l.cursor = clamp(l.cursor, 0, maxInt(total-1, 0))
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+height {
		l.offset = l.cursor - height + 1
	}
	l.offset = clamp(l.offset, 0, maxInt(total-height, 0))
}

func (l *listState) reset() { l.cursor, l.offset = 0, 0 }

// window returns the [start, end) slice bounds of the visible rows.
func (l *listState) window(total, height int) (int, int) {
	start := clamp(l.offset, 0, total)
	return start, minInt(start+maxInt(height, 0), total)
}

func newFilterInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 255
	return ti
}

// ────────────────────────────────────────────────────────────
// Options / Properties
// ────────────────────────────────────────────────────────────

// propertyPane lists option or property names. Only names inside the
// visible window are fetched from the host; the rest render as bullets.
type propertyPane struct {
	listState

	names    []string
	filter   textinput.Model
	mask     node.FormatMask
	values   map[string]node.Value // last fetched value per name; nil when the fetch failed
	expanded map[string]bool
	fetching bool
}

func newPropertyPane() propertyPane {
	return propertyPane{
		filter:   newFilterInput("substring"),
		mask:     node.MaskAll,
		values:   make(map[string]node.Value),
		expanded: make(map[string]bool),
	}
}

// setNames replaces the name list and forgets all fetched values.
func (p *propertyPane) setNames(names []string) {
	p.names = names
	p.values = make(map[string]node.Value)
	p.fetching = false
}

// rowsFor returns the rows of one name as currently known. A fetched value
// whose format is masked out yields no rows.
func (p *propertyPane) rowsFor(name string) []treeRow {
	v, fetched := p.values[name]
	if !fetched {
		return []treeRow{{name: name, path: name, label: name, kind: rowBullet}}
	}
	if v != nil && !p.mask.Has(v.Format()) {
		return nil
	}
	return flattenTree(name, v, p.expanded)
}

// rows returns all rows for the current filter and mask.
func (p *propertyPane) rows() []treeRow {
	if p.mask == 0 {
		return nil
	}
	var out []treeRow
	for _, name := range filterNames(p.names, p.filter.Value()) {
		out = append(out, p.rowsFor(name)...)
	}
	return out
}

// windowNames returns the names with at least one row inside the visible
// window, plus masked-out names positioned inside it.
func (p *propertyPane) windowNames(height int) []string {
	if p.mask == 0 {
		return nil
	}
	var out []string
	row := 0
	bottom := p.offset + height
	for _, name := range filterNames(p.names, p.filter.Value()) {
		if row >= bottom {
			break
		}
		end := row + len(p.rowsFor(name))
		if end > p.offset || (end == row && row >= p.offset) {
			out = append(out, name)
		}
		row = end
	}
	return out
}

// mergeValues stores freshly fetched values.
func (p *propertyPane) mergeValues(values map[string]node.Value) {
	for name, v := range values {
		p.values[name] = v
	}
	p.fetching = false
}

// toggle flips the open state of the branch at the cursor.
func (p *propertyPane) toggle(rows []treeRow) {
	if p.cursor >= len(rows) || rows[p.cursor].kind != rowBranch {
		return
	}
	r := rows[p.cursor]
	p.expanded[r.path] = !r.open
}

// collapse closes the branch at the cursor, or moves to the parent of a leaf.
func (p *propertyPane) collapse(rows []treeRow) {
	if p.cursor >= len(rows) {
		return
	}
	r := rows[p.cursor]
	if r.kind == rowBranch && r.open {
		p.expanded[r.path] = false
		return
	}
	for i := p.cursor - 1; i >= 0; i-- {
		if rows[i].depth < r.depth {
			p.cursor = i
			return
		}
	}
}

func (p *propertyPane) selected(rows []treeRow) (treeRow, bool) {
	if p.cursor < 0 || p.cursor >= len(rows) {
		return treeRow{}, false
	}
	return rows[p.cursor], true
}

// renderFormats draws the format toggles.
func renderFormats(mask node.FormatMask) string {
	box := func(on bool, label string) string {
		if on {
			return toggleOnStyle.Render("■ " + label)
		}
		return toggleOffStyle.Render("□ " + label)
	}
	parts := []string{labelStyle.Render("Format:"), box(mask == node.MaskAll, "a ALL")}
	for _, f := range node.Formats() {
		parts = append(parts, box(mask.Has(f), fmt.Sprintf("%d %s", int(f), f)))
	}
	return strings.Join(parts, " ")
}

// ────────────────────────────────────────────────────────────
// Commands
// ────────────────────────────────────────────────────────────

type commandPane struct {
	listState
	filter textinput.Model
}

func newCommandPane() commandPane {
	return commandPane{filter: newFilterInput("prefix")}
}

func (p *commandPane) visible(commands []snapshot.Command) []snapshot.Command {
	return filterCommands(commands, p.filter.Value())
}

func renderCommandRow(c snapshot.Command, width int, selected bool) string {
	if selected {
		return rowSelectedStyle.Width(width).MaxWidth(width).Render(strings.TrimSpace(c.Name + " " + c.Args))
	}
	line := commandNameStyle.Render(c.Name)
	if c.Args != "" {
		line += " " + rowNormalStyle.Render(c.Args)
	}
	return clip(line, width)
}

// ────────────────────────────────────────────────────────────
// Bindings
// ────────────────────────────────────────────────────────────

// renderBindingRow draws the title with the key right of the three-quarter
// mark.
func renderBindingRow(b snapshot.Binding, width int, selected bool) string {
	title := bindingTitle(b)
	gap := strings.Repeat(" ", maxInt(width*3/4-lipglossWidth(title), 1))
	if selected {
		return rowSelectedStyle.Width(width).MaxWidth(width).Render(title + gap + " " + b.Key + " ")
	}
	return clip(rowNormalStyle.Render(title)+gap+keyCapStyle.Render(b.Key), width)
}

// renderBindingDetail shows the full command of the selected binding.
func renderBindingDetail(b snapshot.Binding, width int) string {
	meta := fmt.Sprintf("section %s  priority %d", b.Section, b.Priority)
	if b.Weak {
		meta += "  weak"
	}
	line := detailLabelStyle.Render("cmd ") + detailValueStyle.Render(b.Command) +
		"  " + labelStyle.Render(meta)
	return clip(line, width)
}
