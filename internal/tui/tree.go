package tui

import (
	"fmt"
	"strings"

	"github.com/Mr-Dark-debug/mpvlens/internal/node"
)

// ────────────────────────────────────────────────────────────
// Property tree flattening
// ────────────────────────────────────────────────────────────

// rowKind distinguishes the three shapes a property list row can take.
type rowKind int

const (
	rowBullet rowKind = iota // not fetched this frame
	rowBranch                // array or map
	rowLeaf                  // scalar or placeholder
)

const (
	placeholderEmpty       = "<Empty>"
	placeholderUnavailable = "<Unavailable>"
)

// treeRow is one rendered line of a property list.
type treeRow struct {
	name  string // top-level property name
	path  string // unique key for expand state
	label string
	depth int
	kind  rowKind
	open  bool
	value string
	dim   bool
}

// pathSep joins path segments. It cannot appear in property names.
const pathSep = "\x1f"

func childPath(parent, label string) string { return parent + pathSep + label }

// flattenValue appends the rows for v, labelled label, to out. Arrays start
// collapsed. Maps start collapsed at depth 0 and open below it; an entry in
// expanded overrides either default.
func flattenValue(out []treeRow, name, path, label string, v node.Value, depth int, expanded map[string]bool) []treeRow {
	switch v := v.(type) {
	case node.Array:
		open := expanded[path]
		out = append(out, treeRow{
			name: name, path: path, depth: depth, kind: rowBranch, open: open,
			label: fmt.Sprintf("%s [%d]", label, len(v)),
		})
		if open {
			for i, child := range v {
				childLabel := fmt.Sprintf("#%d", i)
				out = flattenValue(out, name, childPath(path, childLabel), childLabel, child, depth+1, expanded)
			}
		}
		return out

	case node.Map:
		open, set := expanded[path]
		if !set {
			open = depth > 0
		}
		out = append(out, treeRow{
			name: name, path: path, depth: depth, kind: rowBranch, open: open,
			label: fmt.Sprintf("%s (%d)", label, len(v)),
		})
		if open {
			for _, e := range v {
				out = flattenValue(out, name, childPath(path, e.Key), e.Key, e.Value, depth+1, expanded)
			}
		}
		return out

	case node.None:
		return append(out, treeRow{
			name: name, path: path, label: label, depth: depth, kind: rowLeaf,
			value: placeholderEmpty, dim: true,
		})

	default:
		text, ok := node.Scalar(v)
		if !ok {
			return append(out, treeRow{
				name: name, path: path, label: label, depth: depth, kind: rowLeaf,
				value: placeholderUnavailable, dim: true,
			})
		}
		return append(out, treeRow{
			name: name, path: path, label: label, depth: depth, kind: rowLeaf,
			value: text,
		})
	}
}

// flattenTree returns the rows of a single property.
func flattenTree(name string, v node.Value, expanded map[string]bool) []treeRow {
	return flattenValue(nil, name, name, name, v, 0, expanded)
}

// renderTreeRow draws one row. Leaf values start at half the width.
func renderTreeRow(r treeRow, width int, selected bool) string {
	indent := strings.Repeat("  ", r.depth)

	var head, tail string
	headStyle, tailStyle := rowNormalStyle, valueStyle
	switch r.kind {
	case rowBullet:
		head, headStyle = indent+"• "+r.label, bulletStyle
	case rowBranch:
		marker := "▸ "
		if r.open {
			marker = "▾ "
		}
		head, headStyle = indent+marker+r.label, branchStyle
	default:
		head = indent + "• " + r.label
		col := maxInt(width/2, lipglossWidth(head)+1)
		head += strings.Repeat(" ", col-lipglossWidth(head))
		tail = truncate(r.value, maxInt(width-col, 8))
		if r.dim {
			tailStyle = placeholderStyle
		}
	}

	if selected {
		return rowSelectedStyle.Width(width).MaxWidth(width).Render(head + tail)
	}
	return clip(headStyle.Render(head)+tailStyle.Render(tail), width)
}
