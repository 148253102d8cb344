// Package console implements the overlay's interactive console: a bounded
// log of host and console messages, a command line with history and tab
// completion, and a few built-in meta-commands.
//
// The console never talks to a widget toolkit. Input editing is expressed
// as EditState transformations, so any front-end (the bubbletea overlay,
// tests) can drive it.
package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mr-Dark-debug/mpvlens/internal/mpv"
	"github.com/Mr-Dark-debug/mpvlens/internal/snapshot"
)

// BuiltinCommands are handled by the console itself.
var BuiltinCommands = []string{"HELP", "CLEAR", "HISTORY"}

// historyListLen is how many entries HISTORY prints.
const historyListLen = 10

// Console is not safe for concurrent use; the overlay drives it from its
// update loop.
type Console struct {
	host    mpv.Host
	log     *Log
	history *History
	level   Level

	commands       []string
	commandsInited bool

	filter         Filter
	autoScroll     bool
	scrollToBottom bool

	onSubmit func(line string)
	onEntry  func(Entry)
}

// Option configures a Console.
type Option func(*Console)

// WithHistory seeds the command history, oldest first.
func WithHistory(lines []string) Option {
	return func(c *Console) { c.history = NewHistory(lines) }
}

// WithSubmitHook is called with every non-blank submitted line.
func WithSubmitHook(fn func(line string)) Option {
	return func(c *Console) { c.onSubmit = fn }
}

// WithEntryHook is called with every entry appended to the log. It must
// not block.
func WithEntryHook(fn func(Entry)) Option {
	return func(c *Console) { c.onEntry = fn }
}

// New creates a console. level is the initial subscription level; it is
// sent to the host by SetLevel, not here.
func New(host mpv.Host, level Level, capacity int, opts ...Option) *Console {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Console{
		host:       host,
		log:        NewLog(capacity),
		history:    NewHistory(nil),
		level:      level,
		autoScroll: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ────────────────────────────────────────────────────────────
// Log
// ────────────────────────────────────────────────────────────

// AppendLog adds one line to the log.
func (c *Console) AppendLog(level Level, text string) {
	c.log.Append(level, text)
	if c.onEntry != nil {
		c.onEntry(Entry{Level: level, Text: truncateText(text)})
	}
}

// AddHostLog appends a message forwarded by the host as "[prefix] text".
// Unknown levels are shown as info.
func (c *Console) AddHostLog(prefix, level, text string) {
	lvl, _ := ParseLevel(level)
	c.AppendLog(lvl, fmt.Sprintf("[%s] %s", prefix, strings.TrimRight(text, "\n")))
}

// Log exposes the log buffer.
func (c *Console) Log() *Log { return c.log }

// SetCapacity changes the number of lines kept.
func (c *Console) SetCapacity(n int) { c.log.SetCapacity(n) }

// SetFilter sets the display filter expression.
func (c *Console) SetFilter(expr string) { c.filter = ParseFilter(expr) }

// Visible returns the entries passing the display filter.
func (c *Console) Visible() []Entry { return c.log.Filtered(c.filter) }

// AutoScroll reports whether the view follows new lines.
func (c *Console) AutoScroll() bool { return c.autoScroll }

// SetAutoScroll toggles following new lines.
func (c *Console) SetAutoScroll(on bool) { c.autoScroll = on }

// TakeScrollToBottom reports and clears a pending request to scroll to the
// newest line, raised after every submitted command.
func (c *Console) TakeScrollToBottom() bool {
	v := c.scrollToBottom
	c.scrollToBottom = false
	return v
}

// Level returns the current subscription level.
func (c *Console) Level() Level { return c.level }

// SetLevel asks the host to forward messages at level and above. It only
// affects messages the host emits afterwards.
func (c *Console) SetLevel(ctx context.Context, level Level) {
	c.level = level
	if err := c.host.RequestLogMessages(ctx, level.String()); err != nil {
		c.AppendLog(LevelError, fmt.Sprintf("request_log_messages %s: %s", level, err))
	}
}

// ────────────────────────────────────────────────────────────
// Commands
// ────────────────────────────────────────────────────────────

// InitCommands seeds the completion list with the built-ins and the host
// commands. Only the first call has an effect.
func (c *Console) InitCommands(commands []snapshot.Command) {
	if c.commandsInited {
		return
	}
	c.commands = append(c.commands, BuiltinCommands...)
	c.commands = append(c.commands, snapshot.Names(commands)...)
	c.commandsInited = true
}

// Commands returns the completion candidates.
func (c *Console) Commands() []string { return c.commands }

// History exposes the command history.
func (c *Console) History() *History { return c.history }

// Submit runs one command line. Blank lines are ignored.
func (c *Console) Submit(ctx context.Context, line string) {
	line = strings.Trim(line, " \t")
	if line == "" {
		return
	}

	c.AppendLog(LevelInfo, "# "+line)
	c.history.Add(line)
	if c.onSubmit != nil {
		c.onSubmit(line)
	}

	switch {
	case strings.EqualFold(line, "CLEAR"):
		c.log.Clear()
	case strings.EqualFold(line, "HELP"):
		c.help(ctx)
	case strings.EqualFold(line, "HISTORY"):
		lines := c.history.Lines()
		first := len(lines) - historyListLen
		if first < 0 {
			first = 0
		}
		for i := first; i < len(lines); i++ {
			c.AppendLog(LevelInfo, fmt.Sprintf("%d: %s", i, lines[i]))
		}
	default:
		if err := c.host.CommandString(ctx, line); err != nil {
			c.AppendLog(LevelError, err.Error())
		} else {
			c.AppendLog(LevelInfo, "[mpv] Success")
		}
	}

	c.scrollToBottom = true
}

func (c *Console) help(ctx context.Context) {
	c.AppendLog(LevelInfo, "Builtin Commands:")
	for _, name := range BuiltinCommands {
		c.AppendLog(LevelInfo, "- "+name)
	}
	c.AppendLog(LevelInfo, "MPV Commands:")

	commands, err := snapshot.LoadCommands(ctx, c.host)
	if err != nil {
		c.AppendLog(LevelError, err.Error())
		return
	}
	for _, cmd := range commands {
		c.AppendLog(LevelInfo, strings.TrimRight("- "+cmd.Name+" "+cmd.Args, " "))
	}
}

// HandleKey applies a completion or history event to the input.
func (c *Console) HandleKey(state EditState, key Key) EditState {
	switch key {
	case KeyTab:
		next, msgs := Complete(state, c.commands)
		for _, m := range msgs {
			c.AppendLog(LevelInfo, m)
		}
		return next
	case KeyUp, KeyDown:
		var (
			line    string
			changed bool
		)
		if key == KeyUp {
			line, changed = c.history.Up()
		} else {
			line, changed = c.history.Down()
		}
		if !changed {
			return state
		}
		return EditState{Text: line, Cursor: len([]rune(line))}
	}
	return state
}
