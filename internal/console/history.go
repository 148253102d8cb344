package console

import "github.com/Mr-Dark-debug/mpvlens/pkg/textutil"

// History holds submitted command lines ordered by recency of use, oldest
// first. A line occurs at most once, compared case-insensitively.
//
// The navigation position is -1 for the fresh input line, otherwise an
// index into the stored lines.
type History struct {
	lines []string
	pos   int
}

// NewHistory seeds the history with lines, oldest first.
func NewHistory(lines []string) *History {
	h := &History{pos: -1}
	for _, l := range lines {
		h.Add(l)
	}
	return h
}

// Add records line as the most recent entry, removing an earlier equal
// line. It resets navigation to the fresh line.
func (h *History) Add(line string) {
	h.pos = -1
	for i := len(h.lines) - 1; i >= 0; i-- {
		if textutil.SameLine(h.lines[i], line) {
			h.lines = append(h.lines[:i], h.lines[i+1:]...)
			break
		}
	}
	h.lines = append(h.lines, line)
}

// Lines returns a copy of the stored lines, oldest first.
func (h *History) Lines() []string { return append([]string(nil), h.lines...) }

// Len returns the number of stored lines.
func (h *History) Len() int { return len(h.lines) }

// Pos returns the navigation position.
func (h *History) Pos() int { return h.pos }

// Reset moves navigation back to the fresh line.
func (h *History) Reset() { h.pos = -1 }

// Up moves towards older entries, clamping at the oldest. changed is false
// when the position did not move.
func (h *History) Up() (line string, changed bool) {
	prev := h.pos
	if h.pos == -1 {
		h.pos = len(h.lines) - 1
	} else if h.pos > 0 {
		h.pos--
	}
	return h.current(), prev != h.pos
}

// Down moves towards newer entries; past the newest it returns to the
// fresh line.
func (h *History) Down() (line string, changed bool) {
	prev := h.pos
	if h.pos != -1 {
		h.pos++
		if h.pos >= len(h.lines) {
			h.pos = -1
		}
	}
	return h.current(), prev != h.pos
}

func (h *History) current() string {
	if h.pos < 0 || h.pos >= len(h.lines) {
		return ""
	}
	return h.lines[h.pos]
}
