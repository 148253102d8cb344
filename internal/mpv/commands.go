package mpv

import (
	"log/slog"

	"github.com/Mr-Dark-debug/mpvlens/internal/node"
)

// commandSpec is what a command-list entry says about a command's
// arguments.
type commandSpec struct {
	args   []string
	vararg bool
}

// parseCommandSpecs indexes a command-list node by command name.
func parseCommandSpecs(v node.Value) map[string]commandSpec {
	specs := make(map[string]commandSpec)
	for _, item := range node.List(v) {
		m, ok := item.(node.Map)
		if !ok {
			continue
		}
		name, ok := m.Lookup("name")
		if !ok {
			continue
		}
		var spec commandSpec
		if a, ok := m.Lookup("args"); ok {
			for _, arg := range node.List(a) {
				am, _ := arg.(node.Map)
				an, _ := am.Lookup("name")
				spec.args = append(spec.args, node.StringOf(an))
			}
		}
		if va, ok := m.Lookup("vararg"); ok {
			spec.vararg = node.FlagOf(va)
		}
		specs[node.StringOf(name)] = spec
	}
	return specs
}

// buildCommand returns the request payload for cmd. Known commands use the
// named form so prefixes travel in _flags. Unknown commands, vararg
// commands and lines with surplus arguments fall back to the plain array
// form, which carries no prefixes; mpv then runs the command as given or
// reports its own error.
func buildCommand(cmd Command, specs map[string]commandSpec) any {
	spec, known := specs[cmd.Name()]
	rest := cmd.Args[1:]
	if !known || spec.vararg || len(rest) > len(spec.args) {
		if len(cmd.Prefixes) > 0 {
			slog.Debug("sending command without prefixes", "command", cmd.Name(), "prefixes", cmd.Prefixes)
		}
		argv := make([]any, len(cmd.Args))
		for i, a := range cmd.Args {
			argv[i] = a
		}
		return argv
	}

	named := map[string]any{
		"name":   cmd.Name(),
		"_flags": cmd.Flags(),
	}
	for i, a := range rest {
		named[spec.args[i]] = a
	}
	return named
}
