// Package node models the dynamically typed values returned by mpv's
// property and introspection calls.
//
// A Value is one of None, String, Flag, Int64, Double, ByteArray, Array or
// Map. The set is closed: only this package can add implementations, so a
// type switch over these eight cases is exhaustive.
package node

import (
	"fmt"
	"strconv"
)

// Format identifies the tag of a Value. The numbering is also the bit
// position used by FormatMask.
type Format int

const (
	FormatNone Format = iota
	FormatString
	FormatFlag
	FormatInt64
	FormatDouble
	FormatArray
	FormatMap
	FormatByteArray

	formatCount
)

var formatNames = [...]string{
	FormatNone:      "NONE",
	FormatString:    "STRING",
	FormatFlag:      "FLAG",
	FormatInt64:     "INT64",
	FormatDouble:    "DOUBLE",
	FormatArray:     "NODE_ARRAY",
	FormatMap:       "NODE_MAP",
	FormatByteArray: "BYTE_ARRAY",
}

func (f Format) String() string {
	if f < 0 || f >= formatCount {
		return fmt.Sprintf("FORMAT(%d)", int(f))
	}
	return formatNames[f]
}

// Formats lists every format in bit order.
func Formats() []Format {
	out := make([]Format, 0, formatCount)
	for f := FormatNone; f < formatCount; f++ {
		out = append(out, f)
	}
	return out
}

// FormatMask is a set of formats.
type FormatMask uint32

// MaskAll selects every format.
const MaskAll FormatMask = 1<<formatCount - 1

// Bit returns the mask with only f set.
func (f Format) Bit() FormatMask { return 1 << uint(f) }

// Has reports whether f is selected.
func (m FormatMask) Has(f Format) bool { return m&f.Bit() != 0 }

// Toggle flips f.
func (m FormatMask) Toggle(f Format) FormatMask { return m ^ f.Bit() }

// ToggleAll behaves like a tri-state "ALL" checkbox: anything short of the
// full set becomes the full set, the full set becomes empty.
func (m FormatMask) ToggleAll() FormatMask {
	if m == MaskAll {
		return 0
	}
	return MaskAll
}

// ────────────────────────────────────────────────────────────
// Values
// ────────────────────────────────────────────────────────────

// Value is a tagged property value.
type Value interface {
	Format() Format
	isValue()
}

type (
	// None is an absent value.
	None struct{}
	// String holds a string or OSD string.
	String string
	// Flag holds a boolean.
	Flag bool
	// Int64 holds an integer.
	Int64 int64
	// Double holds a floating point number.
	Double float64
	// ByteArray only records its length; contents are never displayed.
	ByteArray struct{ Len int }
	// Array is an ordered list of values.
	Array []Value
	// Map is an ordered list of key/value pairs.
	Map []Entry
)

// Entry is one key/value pair of a Map.
type Entry struct {
	Key   string
	Value Value
}

func (None) Format() Format      { return FormatNone }
func (String) Format() Format    { return FormatString }
func (Flag) Format() Format      { return FormatFlag }
func (Int64) Format() Format     { return FormatInt64 }
func (Double) Format() Format    { return FormatDouble }
func (ByteArray) Format() Format { return FormatByteArray }
func (Array) Format() Format     { return FormatArray }
func (Map) Format() Format       { return FormatMap }

func (None) isValue()      {}
func (String) isValue()    {}
func (Flag) isValue()      {}
func (Int64) isValue()     {}
func (Double) isValue()    {}
func (ByteArray) isValue() {}
func (Array) isValue()     {}
func (Map) isValue()       {}

// Lookup returns the value stored under key, searching in order.
func (m Map) Lookup(key string) (Value, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// ────────────────────────────────────────────────────────────
// Accessors
// ────────────────────────────────────────────────────────────

// List returns the elements of an Array, or nil for anything else.
func List(v Value) []Value {
	if a, ok := v.(Array); ok {
		return a
	}
	return nil
}

// StringOf returns the string payload of v, or "" when v is not a String.
func StringOf(v Value) string {
	if s, ok := v.(String); ok {
		return string(s)
	}
	return ""
}

// FlagOf returns the boolean payload of v, or false when v is not a Flag.
func FlagOf(v Value) bool {
	if f, ok := v.(Flag); ok {
		return bool(f)
	}
	return false
}

// Int64Of returns the integer payload of v. Doubles are truncated.
func Int64Of(v Value) int64 {
	switch x := v.(type) {
	case Int64:
		return int64(x)
	case Double:
		return int64(x)
	}
	return 0
}

// Scalar formats a non-composite value for display. ok is false for None,
// composites and nil, which have no literal text.
func Scalar(v Value) (text string, ok bool) {
	switch x := v.(type) {
	case String:
		return string(x), true
	case Flag:
		if x {
			return "yes", true
		}
		return "no", true
	case Int64:
		return strconv.FormatInt(int64(x), 10), true
	case Double:
		return strconv.FormatFloat(float64(x), 'g', -1, 64), true
	case ByteArray:
		return fmt.Sprintf("byte array [%d]", x.Len), true
	}
	return "", false
}
