// Package timeutil formats the Unix-nanosecond timestamps stored in the
// log archive and builds the cutoffs used to query it.
package timeutil

import (
	"fmt"
	"time"
)

// Stamp formats ns as "2006-01-02 15:04:05.000" in local time.
func Stamp(ns int64) string {
	return time.Unix(0, ns).Format("2006-01-02 15:04:05.000")
}

// Cutoff returns the timestamp window before now, for "newer than" queries.
func Cutoff(now time.Time, window time.Duration) int64 {
	return now.Add(-window).UnixNano()
}

// Elapsed formats a run length.
// Examples: "450ms", "1.2s", "2m 15.3s", "3h 4m"
func Elapsed(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		minutes := int(d.Minutes())
		return fmt.Sprintf("%dm %.1fs", minutes, d.Seconds()-float64(minutes*60))
	default:
		hours := int(d.Hours())
		return fmt.Sprintf("%dh %dm", hours, int(d.Minutes())-hours*60)
	}
}

// Ago returns how long before now ns was, e.g. "just now", "5s ago", "2m ago".
func Ago(ns int64, now time.Time) string {
	diff := now.Sub(time.Unix(0, ns))

	switch {
	case diff < time.Second:
		return "just now"
	case diff < time.Minute:
		return fmt.Sprintf("%ds ago", int(diff.Seconds()))
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
}
