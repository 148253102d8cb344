package console

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCompleteAmbiguousWithoutExtension lists candidates when no common
// prefix extends the word.
func TestCompleteAmbiguousWithoutExtension(t *testing.T) {
	in := EditState{Text: "se", Cursor: 2}

	out, msgs := Complete(in, []string{"set", "seek", "select"})

	assert.Equal(t, in, out)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Possible matches:", msgs[0])
	assert.Equal(t, fmt.Sprintf("%-32s%-32s%s", "set", "seek", "select"), msgs[1])
}

// TestCompleteExtendsCommonPrefix extends to the shared prefix.
func TestCompleteExtendsCommonPrefix(t *testing.T) {
	out, msgs := Complete(EditState{Text: "mu", Cursor: 2}, []string{"mute", "mute-all"})

	assert.Equal(t, EditState{Text: "mute", Cursor: 4}, out)
	assert.Equal(t, []string{"Possible matches:", fmt.Sprintf("%-32s%s", "mute", "mute-all")}, msgs)
}

// TestCompleteSingleCandidate completes the word and adds a space.
func TestCompleteSingleCandidate(t *testing.T) {
	out, msgs := Complete(EditState{Text: "qu", Cursor: 2}, []string{"quit", "seek"})

	assert.Equal(t, EditState{Text: "quit ", Cursor: 5}, out)
	assert.Empty(t, msgs)
}

// TestCompleteNoMatch leaves the line alone.
func TestCompleteNoMatch(t *testing.T) {
	in := EditState{Text: "zz", Cursor: 2}

	out, msgs := Complete(in, []string{"quit"})

	assert.Equal(t, in, out)
	assert.Equal(t, []string{`No match for "zz"!`}, msgs)
}

func TestCompleteIsCaseInsensitive(t *testing.T) {
	out, _ := Complete(EditState{Text: "he", Cursor: 2}, []string{"HELP", "seek"})
	assert.Equal(t, EditState{Text: "HELP ", Cursor: 5}, out)

	out, _ = Complete(EditState{Text: "SCR", Cursor: 3}, []string{"screenshot", "screenshot-to-file"})
	assert.Equal(t, EditState{Text: "screenshot", Cursor: 10}, out)
}

// TestCompleteUsesWordBeforeCursor completes only up to the cursor.
func TestCompleteUsesWordBeforeCursor(t *testing.T) {
	out, _ := Complete(EditState{Text: "set pause yes;cy rest", Cursor: 16}, []string{"cycle"})

	assert.Equal(t, EditState{Text: "set pause yes;cycle  rest", Cursor: 20}, out)
}

// TestCompleteThreePerLine lays out candidates three to a row.
func TestCompleteThreePerLine(t *testing.T) {
	cands := []string{"a1", "a2", "a3", "a4"}
	_, msgs := Complete(EditState{Text: "a", Cursor: 1}, cands)

	require.Len(t, msgs, 3)
	assert.Equal(t, fmt.Sprintf("%-32s%-32s%s", "a1", "a2", "a3"), msgs[1])
	assert.Equal(t, "a4", msgs[2])
}

// TestHistoryNavigation walks up to the oldest line and back down to the
// fresh input.
func TestHistoryNavigation(t *testing.T) {
	h := NewHistory([]string{"a", "b", "c"})
	require.Equal(t, -1, h.Pos())

	line, changed := h.Up()
	assert.Equal(t, "c", line)
	assert.True(t, changed)

	line, _ = h.Up()
	assert.Equal(t, "b", line)

	line, _ = h.Down()
	assert.Equal(t, "c", line)

	line, changed = h.Down()
	assert.Equal(t, "", line)
	assert.True(t, changed)
	assert.Equal(t, -1, h.Pos())

	_, changed = h.Down()
	assert.False(t, changed)
}

// TestHistoryUpClampsAtOldest stops at the oldest entry.
func TestHistoryUpClampsAtOldest(t *testing.T) {
	h := NewHistory([]string{"a", "b"})
	h.Up()
	h.Up()

	line, changed := h.Up()
	assert.Equal(t, "a", line)
	assert.False(t, changed)
	assert.Equal(t, 0, h.Pos())
}

func TestHistoryEmpty(t *testing.T) {
	h := NewHistory(nil)
	_, changed := h.Up()
	assert.False(t, changed)
	assert.Equal(t, -1, h.Pos())
}

// TestHistoryAddMovesExistingToEnd verifies that re-adding a line in
// another case moves it to the end.
func TestHistoryAddMovesExistingToEnd(t *testing.T) {
	h := NewHistory([]string{"a", "b", "c"})
	h.Up()

	h.Add("A")

	assert.Equal(t, []string{"b", "c", "A"}, h.Lines())
	assert.Equal(t, -1, h.Pos())
}

// TestHistoryAddFoldsCase verifies that lines differing only in Unicode
// case folding are one entry.
func TestHistoryAddFoldsCase(t *testing.T) {
	h := NewHistory([]string{"ſeek 10", "stop"})

	h.Add("seek 10")

	assert.Equal(t, []string{"stop", "seek 10"}, h.Lines())
}
