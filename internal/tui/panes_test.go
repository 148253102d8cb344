package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mr-Dark-debug/mpvlens/internal/node"
)

// TestListStateFollowsCursor verifies that the window scrolls to keep the
// cursor visible.
func TestListStateFollowsCursor(t *testing.T) {
	var l listState

	l.move(5, 10, 3)
	assert.Equal(t, 5, l.cursor)
	assert.Equal(t, 3, l.offset)

	l.move(-4, 10, 3)
	assert.Equal(t, 1, l.cursor)
	assert.Equal(t, 1, l.offset)

	l.move(100, 10, 3)
	assert.Equal(t, 9, l.cursor)
	start, end := l.window(10, 3)
	assert.Equal(t, 7, start)
	assert.Equal(t, 10, end)

	l.move(1, 0, 3)
	assert.Equal(t, listState{}, l)
}

// TestPropertyPaneUnfetchedNamesAreBullets shows names without a value yet
// as bullets.
func TestPropertyPaneUnfetchedNamesAreBullets(t *testing.T) {
	p := newPropertyPane()
	p.setNames([]string{"a", "b", "c"})

	rows := p.rows()
	assert.Equal(t, []string{"a", "b", "c"}, labels(rows))
	for _, r := range rows {
		assert.Equal(t, rowBullet, r.kind)
	}
}

// TestPropertyPaneWindowNames lists only the names in the visible window.
func TestPropertyPaneWindowNames(t *testing.T) {
	p := newPropertyPane()
	p.setNames([]string{"a", "b", "c", "d", "e"})

	assert.Equal(t, []string{"a", "b"}, p.windowNames(2))

	p.offset = 2
	assert.Equal(t, []string{"c", "d"}, p.windowNames(2))
}

// TestPropertyPaneMaskedNamesTakeNoRows verifies that values hidden by the
// format mask are skipped entirely.
func TestPropertyPaneMaskedNamesTakeNoRows(t *testing.T) {
	p := newPropertyPane()
	p.setNames([]string{"a", "b", "c", "d"})
	p.mergeValues(map[string]node.Value{"a": node.String("x"), "b": node.Int64(1)})

	p.mask = p.mask.Toggle(node.FormatString)
	assert.Equal(t, []string{"b", "c", "d"}, labels(p.rows()))

	// "a" stays inside the window so it keeps being refreshed.
	assert.Equal(t, []string{"a", "b", "c"}, p.windowNames(2))
}

// TestPropertyPaneFailedFetchStaysVisible keeps a property whose fetch
// failed on screen as unavailable, whatever the mask.
func TestPropertyPaneFailedFetchStaysVisible(t *testing.T) {
	p := newPropertyPane()
	p.setNames([]string{"a"})
	p.mergeValues(map[string]node.Value{"a": nil})
	p.mask = node.FormatString.Bit()

	rows := p.rows()
	if assert.Len(t, rows, 1) {
		assert.Equal(t, placeholderUnavailable, rows[0].value)
	}
}

// TestPropertyPaneEmptyMask shows nothing when every format is masked.
func TestPropertyPaneEmptyMask(t *testing.T) {
	p := newPropertyPane()
	p.setNames([]string{"a"})
	p.mask = 0

	assert.Empty(t, p.rows())
	assert.Empty(t, p.windowNames(10))
}

// TestPropertyPaneToggleAndCollapse opens and closes composite rows.
func TestPropertyPaneToggleAndCollapse(t *testing.T) {
	p := newPropertyPane()
	p.setNames([]string{"list"})
	p.mergeValues(map[string]node.Value{"list": node.Array{node.Int64(1), node.Int64(2)}})

	p.toggle(p.rows())
	rows := p.rows()
	assert.Equal(t, []string{"list [2]", "#0", "#1"}, labels(rows))

	p.cursor = 2
	p.collapse(rows)
	assert.Equal(t, 0, p.cursor)

	p.collapse(p.rows())
	assert.Equal(t, []string{"list [2]"}, labels(p.rows()))
}

// TestSetNamesForgetsValues drops cached values and any pending fetch when
// names are set again.
func TestSetNamesForgetsValues(t *testing.T) {
	p := newPropertyPane()
	p.setNames([]string{"a"})
	p.mergeValues(map[string]node.Value{"a": node.Int64(3)})
	p.fetching = true

	p.setNames([]string{"a"})
	assert.Empty(t, p.values)
	assert.False(t, p.fetching)
}

// TestRenderFormats checks the format legend.
func TestRenderFormats(t *testing.T) {
	s := renderFormats(node.MaskAll)
	assert.Contains(t, s, "■ a ALL")
	assert.Contains(t, s, "■ 0 NONE")
	assert.Contains(t, s, "■ 7 BYTE_ARRAY")

	s = renderFormats(node.MaskAll.Toggle(node.FormatFlag))
	assert.Contains(t, s, "□ a ALL")
	assert.Contains(t, s, "□ 2 FLAG")
}
