package mpv

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Mr-Dark-debug/mpvlens/internal/node"
)

// maxMessageSize bounds a single IPC line. "options" and "property-list"
// replies are large but well below this.
const maxMessageSize = 16 * 1024 * 1024

// ErrClosed is returned for requests issued after the connection is gone.
var ErrClosed = errors.New("mpv connection closed")

// Config holds connection settings.
type Config struct {
	// SocketPath is the unix socket mpv was started with via
	// --input-ipc-server.
	SocketPath string `json:"socket_path" yaml:"socket"`

	// Timeout bounds requests whose context has no deadline.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// EventBuffer is the capacity of the log message channel. Messages
	// arriving while it is full are dropped.
	EventBuffer int `json:"event_buffer" yaml:"event_buffer"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		SocketPath:  "/tmp/mpvsocket",
		Timeout:     5 * time.Second,
		EventBuffer: 1024,
	}
}

// ────────────────────────────────────────────────────────────
// Wire format
// ────────────────────────────────────────────────────────────

// request is one line sent to mpv. Command is either the array form
//
//	{"command": ["get_property", "volume"], "request_id": 7}
//
// or the named form used for console lines
//
//	{"command": {"name": "seek", "target": "10", "_flags": ["no-osd"]}, "request_id": 8}
type request struct {
	Command   any   `json:"command"`
	RequestID int64 `json:"request_id"`
}

// message is any line received from mpv: either a reply carrying the
// request_id of a request, or an event.
type message struct {
	Event     string          `json:"event,omitempty"`
	RequestID *int64          `json:"request_id,omitempty"`
	Error     string          `json:"error,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`

	// log-message payload
	Prefix string `json:"prefix,omitempty"`
	Level  string `json:"level,omitempty"`
	Text   string `json:"text,omitempty"`
}

// ────────────────────────────────────────────────────────────
// Client
// ────────────────────────────────────────────────────────────

// Client is the production Host backed by an IPC connection.
type Client struct {
	config Config
	conn   net.Conn

	writeMu sync.Mutex
	mu      sync.Mutex
	pending map[int64]chan message
	nextID  atomic.Int64

	// argument names from command-list, loaded on first use
	specsMu sync.Mutex
	specs   map[string]commandSpec

	events    chan LogMessage
	wg        sync.WaitGroup
	done      chan struct{}
	closeOnce sync.Once
	readErr   error
}

var _ Host = (*Client)(nil)

// Dial connects to the socket in config.
func Dial(ctx context.Context, config Config) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", config.SocketPath)
	if err != nil {
		return nil, fmt.Errorf("connecting to mpv at %s: %w", config.SocketPath, err)
	}
	slog.Info("connected", "socket", config.SocketPath)
	return NewClient(conn, config), nil
}

// NewClient wraps an established connection and starts its reader.
func NewClient(conn net.Conn, config Config) *Client {
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	if config.EventBuffer <= 0 {
		config.EventBuffer = DefaultConfig().EventBuffer
	}

	c := &Client{
		config:  config,
		conn:    conn,
		pending: make(map[int64]chan message),
		events:  make(chan LogMessage, config.EventBuffer),
		done:    make(chan struct{}),
	}

	c.wg.Add(1)
	go c.readLoop()
	return c
}

// Events delivers log messages requested with RequestLogMessages.
// The channel is closed when the connection ends.
func (c *Client) Events() <-chan LogMessage { return c.events }

// Done is closed when the connection is lost or closed.
func (c *Client) Done() <-chan struct{} { return c.done }

// Err returns the reason the connection ended, if it has.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readErr
}

// Close shuts the connection down and waits for the reader to exit.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.conn.Close()
		c.wg.Wait()
	})
	return err
}

// GetProperty implements Host.
func (c *Client) GetProperty(ctx context.Context, name string) (node.Value, error) {
	data, err := c.call(ctx, "get_property", name)
	if err != nil {
		return nil, err
	}
	v, err := node.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("property %s: %w", name, err)
	}
	return v, nil
}

// GetPropertyString implements Host.
func (c *Client) GetPropertyString(ctx context.Context, name string) (string, error) {
	data, err := c.call(ctx, "get_property_string", name)
	if err != nil {
		return "", err
	}
	if len(data) == 0 || string(data) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", fmt.Errorf("property %s: %w", name, err)
	}
	return s, nil
}

// CommandString implements Host. Multiple ';' separated commands run in
// order; the first failure stops the sequence. Input prefixes are honored
// and ${...} property references are expanded unless the command is
// prefixed with raw.
func (c *Client) CommandString(ctx context.Context, line string) error {
	cmds, err := SplitCommands(line)
	if err != nil {
		return &Error{Command: line, Message: err.Error()}
	}
	if len(cmds) == 0 {
		return &Error{Command: line, Message: "invalid parameter"}
	}
	for _, cmd := range cmds {
		if cmd.Name() == "" {
			return &Error{Command: line, Message: "command name missing"}
		}
		specs, err := c.commandSpecs(ctx)
		if err != nil {
			return err
		}
		if _, err := c.send(ctx, cmd.Name(), buildCommand(cmd, specs)); err != nil {
			return err
		}
	}
	return nil
}

// commandSpecs returns the argument names of every command mpv knows,
// fetching command-list once per connection.
func (c *Client) commandSpecs(ctx context.Context) (map[string]commandSpec, error) {
	c.specsMu.Lock()
	defer c.specsMu.Unlock()
	if c.specs != nil {
		return c.specs, nil
	}
	v, err := c.GetProperty(ctx, "command-list")
	if err != nil {
		return nil, fmt.Errorf("reading command-list: %w", err)
	}
	c.specs = parseCommandSpecs(v)
	slog.Debug("loaded command-list", "commands", len(c.specs))
	return c.specs, nil
}

// RequestLogMessages implements Host.
func (c *Client) RequestLogMessages(ctx context.Context, level string) error {
	_, err := c.call(ctx, "request_log_messages", level)
	return err
}

// call sends an array form request and waits for its reply.
func (c *Client) call(ctx context.Context, args ...any) (json.RawMessage, error) {
	return c.send(ctx, fmt.Sprint(args[0]), args)
}

// send writes command under a fresh request_id and waits for the reply.
// name labels metrics and errors.
func (c *Client) send(ctx context.Context, name string, command any) (json.RawMessage, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	id := c.nextID.Add(1)
	ch := make(chan message, 1)

	c.mu.Lock()
	if c.readErr != nil {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.pending[id] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	line, err := json.Marshal(request{Command: command, RequestID: id})
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", name, err)
	}
	line = append(line, '\n')

	metricRequests.WithLabelValues(name).Inc()

	c.writeMu.Lock()
	_, err = c.conn.Write(line)
	c.writeMu.Unlock()
	if err != nil {
		metricTransportErrors.Inc()
		return nil, fmt.Errorf("sending %s: %w", name, err)
	}

	select {
	case <-ctx.Done():
		metricTransportErrors.Inc()
		return nil, fmt.Errorf("waiting for %s: %w", name, ctx.Err())
	case <-c.done:
		// The reply may have raced the shutdown.
		select {
		case msg := <-ch:
			return c.result(name, msg)
		default:
		}
		return nil, ErrClosed
	case msg := <-ch:
		return c.result(name, msg)
	}
}

func (c *Client) result(name string, msg message) (json.RawMessage, error) {
	if msg.Error != "" && msg.Error != "success" {
		metricCommandErrors.WithLabelValues(name).Inc()
		return nil, &Error{Command: name, Message: msg.Error}
	}
	return msg.Data, nil
}

// readLoop reads newline-delimited JSON from mpv until the connection ends.
func (c *Client) readLoop() {
	defer c.wg.Done()

	sc := bufio.NewScanner(c.conn)
	sc.Buffer(make([]byte, 0, 64*1024), maxMessageSize)

	for sc.Scan() {
		var msg message
		if err := json.Unmarshal(sc.Bytes(), &msg); err != nil {
			slog.Warn("skipping malformed message", "err", err)
			metricTransportErrors.Inc()
			continue
		}

		if msg.Event != "" {
			c.handleEvent(msg)
			continue
		}
		if msg.RequestID == nil {
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[*msg.RequestID]
		c.mu.Unlock()
		if ok {
			select {
			case ch <- msg:
			default:
			}
		}
	}

	err := sc.Err()
	if err == nil {
		err = ErrClosed
	}

	c.mu.Lock()
	c.readErr = err
	c.mu.Unlock()
	close(c.done)
	close(c.events)

	slog.Info("connection ended", "socket", c.config.SocketPath, "err", err)
}

// handleEvent forwards log messages without ever blocking the reader.
func (c *Client) handleEvent(msg message) {
	if msg.Event != "log-message" {
		slog.Debug("event", "name", msg.Event)
		return
	}

	metricLogMessages.WithLabelValues(msg.Level).Inc()
	select {
	case c.events <- LogMessage{Prefix: msg.Prefix, Level: msg.Level, Text: msg.Text}:
	default:
		metricLogDropped.Inc()
	}
}
