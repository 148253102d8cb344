package mpv

import (
	"fmt"
	"strings"
)

// inputPrefixes are the input.conf words that may precede a command name.
var inputPrefixes = map[string]bool{
	"no-osd":            true,
	"osd-auto":          true,
	"osd-bar":           true,
	"osd-msg":           true,
	"osd-msg-bar":       true,
	"raw":               true,
	"expand-properties": true,
	"repeatable":        true,
	"nonrepeatable":     true,
	"async":             true,
	"sync":              true,
}

// Command is one parsed command. Args[0] is the command name.
type Command struct {
	Prefixes []string
	Args     []string
}

// Name returns the command name, or "" if the command had only prefixes.
func (c Command) Name() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

// Flags returns the prefixes to send with the command. Property expansion
// is on unless the line asked for raw.
func (c Command) Flags() []string {
	flags := append([]string(nil), c.Prefixes...)
	for _, p := range c.Prefixes {
		if p == "raw" || p == "expand-properties" {
			return flags
		}
	}
	return append(flags, "expand-properties")
}

// SplitCommands tokenizes a command line in input.conf syntax. Commands
// are separated by unquoted ';'. Arguments are separated by blanks and may
// be double quoted (with backslash escapes) or single quoted (literal).
// An unquoted '#' starts a comment. Leading unquoted prefix words such as
// no-osd are collected into Prefixes.
func SplitCommands(line string) ([]Command, error) {
	var (
		cmds   []Command
		cmd    Command
		cur    strings.Builder
		inArg  bool
		quoted bool
	)

	endArg := func() {
		if !inArg {
			return
		}
		word := cur.String()
		if len(cmd.Args) == 0 && !quoted && inputPrefixes[word] {
			cmd.Prefixes = append(cmd.Prefixes, word)
		} else {
			cmd.Args = append(cmd.Args, word)
		}
		cur.Reset()
		inArg = false
		quoted = false
	}
	endCmd := func() {
		endArg()
		if len(cmd.Args) > 0 || len(cmd.Prefixes) > 0 {
			cmds = append(cmds, cmd)
			cmd = Command{}
		}
	}

	rs := []rune(line)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == ' ' || r == '\t':
			endArg()
		case r == ';':
			endCmd()
		case r == '#':
			endCmd()
			return cmds, nil
		case r == '"':
			inArg, quoted = true, true
			i++
			closed := false
			for ; i < len(rs); i++ {
				c := rs[i]
				if c == '"' {
					closed = true
					break
				}
				if c == '\\' && i+1 < len(rs) {
					i++
					switch rs[i] {
					case 'n':
						cur.WriteRune('\n')
					case 't':
						cur.WriteRune('\t')
					default:
						cur.WriteRune(rs[i])
					}
					continue
				}
				cur.WriteRune(c)
			}
			if !closed {
				return nil, fmt.Errorf("unterminated double quote")
			}
		case r == '\'':
			inArg, quoted = true, true
			i++
			closed := false
			for ; i < len(rs); i++ {
				if rs[i] == '\'' {
					closed = true
					break
				}
				cur.WriteRune(rs[i])
			}
			if !closed {
				return nil, fmt.Errorf("unterminated single quote")
			}
		default:
			inArg = true
			cur.WriteRune(r)
		}
	}
	endCmd()
	return cmds, nil
}
