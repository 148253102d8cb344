package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestStamp formats a timestamp with milliseconds.
func TestStamp(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 7, 250*int(time.Millisecond), time.Local)
	assert.Equal(t, "2024-03-09 14:05:07.250", Stamp(ts.UnixNano()))
}

func TestCutoff(t *testing.T) {
	now := time.Unix(1000, 0)
	assert.Equal(t, time.Unix(940, 0).UnixNano(), Cutoff(now, time.Minute))
}

// TestElapsed checks the run length format at each magnitude.
func TestElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{450 * time.Millisecond, "450ms"},
		{1200 * time.Millisecond, "1.2s"},
		{2*time.Minute + 15300*time.Millisecond, "2m 15.3s"},
		{3*time.Hour + 4*time.Minute + 5*time.Second, "3h 4m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Elapsed(tt.d), tt.d.String())
	}
}

// TestAgo renders relative times for the sessions list.
func TestAgo(t *testing.T) {
	now := time.Unix(100000, 0)
	at := func(d time.Duration) int64 { return now.Add(-d).UnixNano() }

	assert.Equal(t, "just now", Ago(at(500*time.Millisecond), now))
	assert.Equal(t, "5s ago", Ago(at(5*time.Second), now))
	assert.Equal(t, "2m ago", Ago(at(2*time.Minute), now))
	assert.Equal(t, "1h ago", Ago(at(90*time.Minute), now))
	assert.Equal(t, "3d ago", Ago(at(72*time.Hour), now))
}
