// Package mpv talks to a running mpv instance over its JSON IPC socket
// (mpv --input-ipc-server=/path/to/socket).
//
// Architecture:
//
//	Overlay / CLI → Host → Client → unix socket → mpv
//	                               ← replies (matched by request_id)
//	                               ← events  (log-message → Events())
//
// A single reader goroutine owns the socket's read side. Requests are
// serialized on the write side and wait for the reply carrying their
// request_id.
package mpv

import (
	"context"

	"github.com/Mr-Dark-debug/mpvlens/internal/node"
)

// Host is the introspection and command surface the overlay needs.
// The production implementation is *Client; tests use fakes.
type Host interface {
	// GetProperty returns the property as a typed node.
	GetProperty(ctx context.Context, name string) (node.Value, error)
	// GetPropertyString returns the property formatted by mpv as a string.
	GetPropertyString(ctx context.Context, name string) (string, error)
	// CommandString runs a command line in input.conf syntax.
	CommandString(ctx context.Context, line string) error
	// RequestLogMessages sets the minimum level of forwarded log messages.
	// "no" disables forwarding.
	RequestLogMessages(ctx context.Context, level string) error
}

// Error is a failure reported by mpv itself, as opposed to a transport
// failure. Message is mpv's error string, e.g. "property unavailable".
type Error struct {
	Command string
	Message string
}

func (e *Error) Error() string { return e.Message }

// LogMessage is one "log-message" event.
type LogMessage struct {
	Prefix string `json:"prefix"`
	Level  string `json:"level"`
	Text   string `json:"text"`
}
