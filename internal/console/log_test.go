package console

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestLogNeverExceedsCapacity verifies that the ring drops the oldest
// entries once full.
func TestLogNeverExceedsCapacity(t *testing.T) {
	for _, capacity := range []int{1, 3, 7} {
		l := NewLog(capacity)
		for i := 0; i < 20; i++ {
			l.Append(LevelInfo, fmt.Sprint(i))
			assert.LessOrEqual(t, l.Len(), capacity)

			// The retained entries are the newest ones, in order.
			entries := l.Entries()
			first := i + 1 - len(entries)
			for j, e := range entries {
				assert.Equal(t, fmt.Sprint(first+j), e.Text)
			}
		}
	}
}

// TestLogSetCapacityKeepsNewest shrinks the log without losing the newest
// entries.
func TestLogSetCapacityKeepsNewest(t *testing.T) {
	l := NewLog(5)
	for i := 0; i < 5; i++ {
		l.Append(LevelInfo, fmt.Sprint(i))
	}

	l.SetCapacity(2)
	assert.Equal(t, []Entry{{LevelInfo, "3"}, {LevelInfo, "4"}}, l.Entries())

	l.SetCapacity(4)
	l.Append(LevelWarn, "5")
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, 4, l.Capacity())
	assert.Equal(t, "5", l.Entries()[2].Text)
}

// TestLogClear empties the log.
func TestLogClear(t *testing.T) {
	l := NewLog(2)
	l.Append(LevelInfo, "a")
	l.Append(LevelInfo, "b")
	l.Append(LevelInfo, "c")

	l.Clear()
	assert.Zero(t, l.Len())

	l.Append(LevelInfo, "d")
	assert.Equal(t, []Entry{{LevelInfo, "d"}}, l.Entries())
}

// TestLogMinimumCapacity keeps at least one entry.
func TestLogMinimumCapacity(t *testing.T) {
	l := NewLog(0)
	l.Append(LevelInfo, "a")
	l.Append(LevelInfo, "b")
	assert.Equal(t, []Entry{{LevelInfo, "b"}}, l.Entries())
}

// TestFilter covers include, exclude and case-insensitive terms.
func TestFilter(t *testing.T) {
	cases := []struct {
		expr string
		text string
		want bool
	}{
		{"", "anything", true},
		{"vo", "[VO/gpu] reinit", true},
		{"vo", "[ao] open", false},
		{"-ao", "[ao] open", false},
		{"-ao", "[vo] open", true},
		{"vo,ao", "[ao] open", true},
		{" , ", "x", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseFilter(tc.expr).Match(tc.text), "%q on %q", tc.expr, tc.text)
	}
}

// TestParseLevel accepts mpv's level names and the verbose alias.
func TestParseLevel(t *testing.T) {
	l, ok := ParseLevel("verbose")
	assert.True(t, ok)
	assert.Equal(t, LevelVerbose, l)

	l, ok = ParseLevel("V")
	assert.True(t, ok)
	assert.Equal(t, "v", l.String())

	_, ok = ParseLevel("loud")
	assert.False(t, ok)

	assert.Equal(t, LevelFatal, LevelNone.Next())
	assert.Equal(t, LevelError, LevelFatal.Next())
}

// TestNextVisitsEveryLevel walks the ctrl+l cycle once round and checks it
// follows the menu order.
func TestNextVisitsEveryLevel(t *testing.T) {
	levels := Levels()
	l := LevelInfo
	var seen []Level
	for range levels {
		seen = append(seen, l)
		l = l.Next()
	}
	assert.Equal(t, LevelInfo, l)
	assert.ElementsMatch(t, levels, seen)
	assert.Equal(t, LevelVerbose, seen[1])

	assert.Equal(t, LevelFatal, Level(42).Next())
}
