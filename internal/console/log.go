package console

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultCapacity is the number of log lines kept when none is configured.
	DefaultCapacity = 5000

	// MaxEntryLen bounds the byte length of a single entry's text.
	MaxEntryLen = 1023
)

// Entry is one immutable log line.
type Entry struct {
	Level Level
	Text  string
}

// Log is a bounded FIFO of entries backed by a ring buffer. Once full,
// each append evicts the oldest entry.
type Log struct {
	buf  []Entry
	head int
	size int
}

// NewLog returns a log holding at most capacity entries (minimum 1).
func NewLog(capacity int) *Log {
	if capacity < 1 {
		capacity = 1
	}
	return &Log{buf: make([]Entry, capacity)}
}

// Append adds an entry at the tail, evicting from the head when full.
func (l *Log) Append(level Level, text string) {
	e := Entry{Level: level, Text: truncateText(text)}
	if l.size < len(l.buf) {
		l.buf[(l.head+l.size)%len(l.buf)] = e
		l.size++
		return
	}
	l.buf[l.head] = e
	l.head = (l.head + 1) % len(l.buf)
}

// Len returns the number of stored entries.
func (l *Log) Len() int { return l.size }

// Capacity returns the maximum number of entries.
func (l *Log) Capacity() int { return len(l.buf) }

// SetCapacity resizes the log, keeping the newest entries that fit.
func (l *Log) SetCapacity(capacity int) {
	if capacity < 1 {
		capacity = 1
	}
	if capacity == len(l.buf) {
		return
	}
	keep := l.Entries()
	if len(keep) > capacity {
		keep = keep[len(keep)-capacity:]
	}
	buf := make([]Entry, capacity)
	copy(buf, keep)
	l.buf, l.head, l.size = buf, 0, len(keep)
}

// Clear removes every entry.
func (l *Log) Clear() {
	for i := range l.buf {
		l.buf[i] = Entry{}
	}
	l.head, l.size = 0, 0
}

// Entries returns the stored entries, oldest first.
func (l *Log) Entries() []Entry {
	out := make([]Entry, 0, l.size)
	for i := 0; i < l.size; i++ {
		out = append(out, l.buf[(l.head+i)%len(l.buf)])
	}
	return out
}

// Filtered returns the entries whose text passes f, oldest first.
func (l *Log) Filtered(f Filter) []Entry {
	if f.Empty() {
		return l.Entries()
	}
	var out []Entry
	for i := 0; i < l.size; i++ {
		e := l.buf[(l.head+i)%len(l.buf)]
		if f.Match(e.Text) {
			out = append(out, e)
		}
	}
	return out
}

// truncateText cuts s to MaxEntryLen bytes without splitting a rune.
func truncateText(s string) string {
	if len(s) <= MaxEntryLen {
		return s
	}
	cut := MaxEntryLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// ────────────────────────────────────────────────────────────
// Filter
// ────────────────────────────────────────────────────────────

// Filter is a comma separated list of case-insensitive terms. A term
// prefixed with '-' excludes matching lines; if any include terms are
// present, a line must contain at least one of them.
type Filter struct {
	include []string
	exclude []string
}

// ParseFilter parses the filter expression typed by the user.
func ParseFilter(expr string) Filter {
	var f Filter
	for _, term := range strings.Split(expr, ",") {
		term = strings.ToLower(strings.TrimSpace(term))
		switch {
		case term == "", term == "-":
		case strings.HasPrefix(term, "-"):
			f.exclude = append(f.exclude, term[1:])
		default:
			f.include = append(f.include, term)
		}
	}
	return f
}

// Empty reports whether the filter accepts everything.
func (f Filter) Empty() bool { return len(f.include) == 0 && len(f.exclude) == 0 }

// Match reports whether text passes the filter.
func (f Filter) Match(text string) bool {
	if f.Empty() {
		return true
	}
	lower := strings.ToLower(text)
	for _, term := range f.exclude {
		if strings.Contains(lower, term) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, term := range f.include {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
