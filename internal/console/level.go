package console

import "strings"

// Level is an mpv log level. LevelNone only makes sense as a subscription
// level ("no"): it disables forwarding.
type Level int

const (
	LevelFatal Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelVerbose
	LevelDebug
	LevelTrace
	LevelNone
)

var levelNames = [...]string{
	LevelFatal:   "fatal",
	LevelError:   "error",
	LevelWarn:    "warn",
	LevelInfo:    "info",
	LevelVerbose: "v",
	LevelDebug:   "debug",
	LevelTrace:   "trace",
	LevelNone:    "no",
}

// String returns the name mpv uses for the level.
func (l Level) String() string {
	if l < LevelFatal || l > LevelNone {
		return "info"
	}
	return levelNames[l]
}

// ParseLevel accepts mpv's level names, plus "verbose" for "v".
func ParseLevel(s string) (Level, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "verbose" {
		return LevelVerbose, true
	}
	for l, name := range levelNames {
		if name == s {
			return Level(l), true
		}
	}
	return LevelInfo, false
}

// Levels lists the selectable subscription levels in menu order.
func Levels() []Level {
	return []Level{LevelFatal, LevelError, LevelWarn, LevelInfo, LevelVerbose, LevelDebug, LevelTrace, LevelNone}
}

// Next returns the level after l in menu order, wrapping around. Unknown
// levels restart the cycle.
func (l Level) Next() Level {
	levels := Levels()
	for i, x := range levels {
		if x == l {
			return levels[(i+1)%len(levels)]
		}
	}
	return levels[0]
}
