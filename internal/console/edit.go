package console

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// candidateWidth is the column width of one completion candidate when the
// candidate list is printed.
const candidateWidth = 32

// EditState is the content of the single-line input and its cursor,
// measured in runes.
type EditState struct {
	Text   string
	Cursor int
}

// Key is an editing event intercepted from the input widget.
type Key int

const (
	KeyTab Key = iota
	KeyUp
	KeyDown
)

func isDelimiter(r rune) bool {
	return r == ' ' || r == '\t' || r == ',' || r == ';'
}

// Complete expands the word left of the cursor against commands. It
// returns the new edit state and the lines to print in the log.
//
// With one candidate the word is replaced by it plus a space. With several,
// the word is extended to their longest common prefix (compared
// case-insensitively) and every candidate is listed, three per line.
func Complete(state EditState, commands []string) (EditState, []string) {
	runes := []rune(state.Text)
	end := state.Cursor
	if end < 0 {
		end = 0
	}
	if end > len(runes) {
		end = len(runes)
	}
	start := end
	for start > 0 && !isDelimiter(runes[start-1]) {
		start--
	}
	word := string(runes[start:end])
	wordLen := end - start

	var candidates [][]rune
	for _, cmd := range commands {
		cr := []rune(cmd)
		if len(cr) >= wordLen && strings.EqualFold(string(cr[:wordLen]), word) {
			candidates = append(candidates, cr)
		}
	}

	splice := func(insert []rune) EditState {
		out := make([]rune, 0, len(runes)-wordLen+len(insert))
		out = append(out, runes[:start]...)
		out = append(out, insert...)
		out = append(out, runes[end:]...)
		return EditState{Text: string(out), Cursor: start + len(insert)}
	}

	switch len(candidates) {
	case 0:
		return state, []string{fmt.Sprintf("No match for \"%s\"!", word)}
	case 1:
		return splice(append(append([]rune(nil), candidates[0]...), ' ')), nil
	}

	matchLen := commonPrefixLen(candidates, wordLen)
	out := state
	if matchLen > wordLen {
		out = splice(candidates[0][:matchLen])
	}

	msgs := []string{"Possible matches:"}
	var line strings.Builder
	for i, c := range candidates {
		line.WriteString(runewidth.FillRight(string(c), candidateWidth))
		if (i+1)%3 == 0 {
			msgs = append(msgs, strings.TrimRight(line.String(), " "))
			line.Reset()
		}
	}
	if line.Len() > 0 {
		msgs = append(msgs, strings.TrimRight(line.String(), " "))
	}
	return out, msgs
}

// commonPrefixLen extends from length n while every candidate has the same
// rune (ignoring case) at that position.
func commonPrefixLen(candidates [][]rune, n int) int {
	for {
		if n >= len(candidates[0]) {
			return n
		}
		c := unicode.ToUpper(candidates[0][n])
		for _, cand := range candidates[1:] {
			if n >= len(cand) || unicode.ToUpper(cand[n]) != c {
				return n
			}
		}
		n++
	}
}
