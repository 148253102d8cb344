// Package textutil holds the caseless comparison shared by the console's
// history and its database copy.
package textutil

import "golang.org/x/text/cases"

// FoldKey returns the Unicode case-folded form of s. Lines with the same
// key are the same history entry.
func FoldKey(s string) string {
	// A Caser is stateful, so each call gets its own.
	return cases.Fold().String(s)
}

// SameLine reports whether a and b differ only in case.
func SameLine(a, b string) bool { return FoldKey(a) == FoldKey(b) }
