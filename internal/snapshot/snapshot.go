// Package snapshot fetches the flat lists the overlay browses: option
// names, property names, input bindings and the command list. A snapshot is
// rebuilt wholesale on every load and never updated in place.
package snapshot

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mr-Dark-debug/mpvlens/internal/mpv"
	"github.com/Mr-Dark-debug/mpvlens/internal/node"
)

// Binding is one row of mpv's "input-bindings" property.
type Binding struct {
	Section  string `json:"section"`
	Key      string `json:"key"`
	Command  string `json:"cmd"`
	Comment  string `json:"comment,omitempty"`
	Priority int64  `json:"priority"`
	Weak     bool   `json:"is_weak"`
}

// Command is one entry of mpv's "command-list" with its argument
// signature pre-rendered, e.g. "target <flags>" or "name <value> ...".
type Command struct {
	Name string `json:"name"`
	Args string `json:"args"`
}

// Snapshot is everything the overlay lists.
type Snapshot struct {
	Version    string
	Options    []string
	Properties []string
	Bindings   []Binding
	Commands   []Command
}

// Load queries the host for a fresh snapshot.
func Load(ctx context.Context, host mpv.Host) (*Snapshot, error) {
	var (
		s   Snapshot
		err error
	)

	if s.Version, err = host.GetPropertyString(ctx, "mpv-version"); err != nil {
		return nil, fmt.Errorf("loading mpv-version: %w", err)
	}

	lists := []struct {
		name string
		into func(node.Value)
	}{
		{"options", func(v node.Value) { s.Options = ParseNames(v) }},
		{"property-list", func(v node.Value) { s.Properties = ParseNames(v) }},
		{"input-bindings", func(v node.Value) { s.Bindings = ParseBindings(v) }},
		{"command-list", func(v node.Value) { s.Commands = FormatCommands(v) }},
	}
	for _, l := range lists {
		v, err := host.GetProperty(ctx, l.name)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", l.name, err)
		}
		l.into(v)
	}

	return &s, nil
}

// LoadCommands fetches and formats only the command list.
func LoadCommands(ctx context.Context, host mpv.Host) ([]Command, error) {
	v, err := host.GetProperty(ctx, "command-list")
	if err != nil {
		return nil, fmt.Errorf("loading command-list: %w", err)
	}
	return FormatCommands(v), nil
}

// ParseNames collects the string elements of an array node.
func ParseNames(v node.Value) []string {
	items := node.List(v)
	names := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(node.String); ok {
			names = append(names, string(s))
		}
	}
	return names
}

// ParseBindings converts the "input-bindings" array. Unknown keys are
// ignored; non-map elements are skipped.
func ParseBindings(v node.Value) []Binding {
	items := node.List(v)
	bindings := make([]Binding, 0, len(items))
	for _, item := range items {
		m, ok := item.(node.Map)
		if !ok {
			continue
		}
		var b Binding
		for _, e := range m {
			switch e.Key {
			case "section":
				b.Section = node.StringOf(e.Value)
			case "key":
				b.Key = node.StringOf(e.Value)
			case "cmd":
				b.Command = node.StringOf(e.Value)
			case "comment":
				b.Comment = node.StringOf(e.Value)
			case "priority":
				b.Priority = node.Int64Of(e.Value)
			case "is_weak":
				b.Weak = node.FlagOf(e.Value)
			}
		}
		bindings = append(bindings, b)
	}
	return bindings
}

// FormatCommands converts the "command-list" array. Entries without a name
// are dropped.
func FormatCommands(v node.Value) []Command {
	items := node.List(v)
	commands := make([]Command, 0, len(items))
	for _, item := range items {
		m, ok := item.(node.Map)
		if !ok {
			continue
		}

		var (
			name    string
			hasName bool
			args    []string
			vararg  bool
		)
		for _, e := range m {
			switch e.Key {
			case "name":
				name, hasName = node.StringOf(e.Value), true
			case "args":
				for _, a := range node.List(e.Value) {
					args = append(args, formatArg(a))
				}
			case "vararg":
				vararg = node.FlagOf(e.Value)
			}
		}
		if !hasName {
			continue
		}

		sig := strings.Join(args, " ")
		if sig != "" && vararg {
			sig += " ..."
		}
		commands = append(commands, Command{Name: name, Args: sig})
	}
	return commands
}

func formatArg(v node.Value) string {
	m, _ := v.(node.Map)
	var (
		name     string
		optional bool
	)
	for _, e := range m {
		switch e.Key {
		case "name":
			name = node.StringOf(e.Value)
		case "optional":
			optional = node.FlagOf(e.Value)
		}
	}
	if optional {
		return "<" + name + ">"
	}
	return name
}

// Names returns the command names in order.
func Names(commands []Command) []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.Name
	}
	return names
}
