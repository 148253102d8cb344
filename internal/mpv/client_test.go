package mpv

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mr-Dark-debug/mpvlens/internal/node"
)

// fakeServer answers IPC requests on the far end of a net.Pipe.
type fakeServer struct {
	t    *testing.T
	conn net.Conn

	mu        sync.Mutex
	received  []any
	listCalls int
	writeMu   sync.Mutex
}

// fakeCommandList is a trimmed command-list reply.
var fakeCommandList = []map[string]any{
	{"name": "seek", "vararg": false, "args": []map[string]any{
		{"name": "target", "type": "Time", "optional": false},
		{"name": "flags", "type": "Flags", "optional": true},
	}},
	{"name": "show-text", "vararg": false, "args": []map[string]any{
		{"name": "text", "type": "String", "optional": false},
		{"name": "duration", "type": "Integer", "optional": true},
		{"name": "level", "type": "Integer", "optional": true},
	}},
	{"name": "run", "vararg": true, "args": []map[string]any{
		{"name": "command", "type": "String", "optional": false},
		{"name": "args", "type": "String", "optional": true},
	}},
}

type fakeReply struct {
	data any
	err  string
}

// newFakeServer connects a Client to a scripted mpv. handle sees array
// form commands as sent and named form commands as [name]. command-list
// is answered with fakeCommandList and not recorded.
func newFakeServer(t *testing.T, handle func(cmd []any) fakeReply) (*Client, *fakeServer) {
	t.Helper()
	clientConn, serverConn := net.Pipe()
	srv := &fakeServer{t: t, conn: serverConn}

	go func() {
		sc := bufio.NewScanner(serverConn)
		for sc.Scan() {
			var req struct {
				Command   any   `json:"command"`
				RequestID int64 `json:"request_id"`
			}
			if err := json.Unmarshal(sc.Bytes(), &req); err != nil {
				return
			}

			var argv []any
			switch cmd := req.Command.(type) {
			case []any:
				argv = cmd
			case map[string]any:
				argv = []any{cmd["name"]}
			}
			if len(argv) == 2 && argv[0] == "get_property" && argv[1] == "command-list" {
				srv.mu.Lock()
				srv.listCalls++
				srv.mu.Unlock()
				srv.send(map[string]any{"request_id": req.RequestID, "error": "success", "data": fakeCommandList})
				continue
			}

			srv.mu.Lock()
			srv.received = append(srv.received, req.Command)
			srv.mu.Unlock()

			r := handle(argv)
			if r.err == "" {
				r.err = "success"
			}
			srv.send(map[string]any{"request_id": req.RequestID, "error": r.err, "data": r.data})
		}
	}()

	c := NewClient(clientConn, Config{SocketPath: "pipe", Timeout: 2 * time.Second, EventBuffer: 4})
	t.Cleanup(func() {
		serverConn.Close()
		c.Close()
	})
	return c, srv
}

func (s *fakeServer) send(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.t.Errorf("marshal: %v", err)
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.Write(append(b, '\n'))
}

func (s *fakeServer) commands() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]any(nil), s.received...)
}

// TestGetProperty verifies that a reply's data is decoded into a node.
func TestGetProperty(t *testing.T) {
	c, _ := newFakeServer(t, func(cmd []any) fakeReply {
		assert.Equal(t, "get_property", cmd[0])
		return fakeReply{data: map[string]any{"w": 1920}}
	})

	v, err := c.GetProperty(context.Background(), "video-params")
	require.NoError(t, err)
	assert.Equal(t, node.Map{{Key: "w", Value: node.Int64(1920)}}, v)
}

// TestGetPropertyError checks that mpv's error string surfaces as *Error.
func TestGetPropertyError(t *testing.T) {
	c, _ := newFakeServer(t, func(cmd []any) fakeReply {
		return fakeReply{err: "property unavailable"}
	})

	_, err := c.GetProperty(context.Background(), "duration")
	require.Error(t, err)

	var mpvErr *Error
	require.True(t, errors.As(err, &mpvErr))
	assert.Equal(t, "property unavailable", mpvErr.Message)
	assert.Equal(t, "property unavailable", err.Error())
}

// TestGetPropertyString reads a formatted property.
func TestGetPropertyString(t *testing.T) {
	c, _ := newFakeServer(t, func(cmd []any) fakeReply {
		return fakeReply{data: "mpv 0.38.0"}
	})

	s, err := c.GetPropertyString(context.Background(), "mpv-version")
	require.NoError(t, err)
	assert.Equal(t, "mpv 0.38.0", s)
}

// TestCommandStringRunsEachCommand verifies that ';' separated commands are
// sent one by one in named form with property expansion on.
func TestCommandStringRunsEachCommand(t *testing.T) {
	c, srv := newFakeServer(t, func(cmd []any) fakeReply { return fakeReply{} })

	require.NoError(t, c.CommandString(context.Background(), `seek 10 ; show-text "a b"`))

	got := srv.commands()
	require.Len(t, got, 2)
	assert.Equal(t, map[string]any{
		"name":   "seek",
		"target": "10",
		"_flags": []any{"expand-properties"},
	}, got[0])
	assert.Equal(t, map[string]any{
		"name":   "show-text",
		"text":   "a b",
		"_flags": []any{"expand-properties"},
	}, got[1])
}

// TestCommandStringSendsPrefixes verifies that input.conf prefixes reach
// mpv as _flags instead of being taken for the command name.
func TestCommandStringSendsPrefixes(t *testing.T) {
	c, srv := newFakeServer(t, func(cmd []any) fakeReply {
		if cmd[0] != "seek" {
			return fakeReply{err: "invalid parameter"}
		}
		return fakeReply{}
	})

	require.NoError(t, c.CommandString(context.Background(), "no-osd seek 10 relative"))

	got := srv.commands()
	require.Len(t, got, 1)
	assert.Equal(t, map[string]any{
		"name":   "seek",
		"target": "10",
		"flags":  "relative",
		"_flags": []any{"no-osd", "expand-properties"},
	}, got[0])
}

// TestCommandStringExpandsProperties checks that ${...} references are
// left for mpv to expand, and that raw turns expansion off.
func TestCommandStringExpandsProperties(t *testing.T) {
	c, srv := newFakeServer(t, func(cmd []any) fakeReply { return fakeReply{} })

	require.NoError(t, c.CommandString(context.Background(), `show-text "${time-pos}"`))
	require.NoError(t, c.CommandString(context.Background(), `raw show-text "${time-pos}"`))

	got := srv.commands()
	require.Len(t, got, 2)
	assert.Equal(t, map[string]any{
		"name":   "show-text",
		"text":   "${time-pos}",
		"_flags": []any{"expand-properties"},
	}, got[0])
	assert.Equal(t, map[string]any{
		"name":   "show-text",
		"text":   "${time-pos}",
		"_flags": []any{"raw"},
	}, got[1])

	srv.mu.Lock()
	defer srv.mu.Unlock()
	assert.Equal(t, 1, srv.listCalls, "command-list is fetched once per connection")
}

// TestCommandStringArrayFallback covers commands the named form cannot
// express: vararg commands and names missing from command-list.
func TestCommandStringArrayFallback(t *testing.T) {
	c, srv := newFakeServer(t, func(cmd []any) fakeReply { return fakeReply{} })

	require.NoError(t, c.CommandString(context.Background(), "run echo a b; script-message hi"))

	got := srv.commands()
	require.Len(t, got, 2)
	assert.Equal(t, []any{"run", "echo", "a", "b"}, got[0])
	assert.Equal(t, []any{"script-message", "hi"}, got[1])
}

// TestCommandStringRequiresName rejects a line made only of prefixes.
func TestCommandStringRequiresName(t *testing.T) {
	c, srv := newFakeServer(t, func(cmd []any) fakeReply { return fakeReply{} })

	err := c.CommandString(context.Background(), "no-osd")
	require.Error(t, err)
	assert.Equal(t, "command name missing", err.Error())
	assert.Empty(t, srv.commands())
}

// TestCommandStringStopsAtFirstFailure verifies that commands after a
// failing one are not sent.
func TestCommandStringStopsAtFirstFailure(t *testing.T) {
	c, srv := newFakeServer(t, func(cmd []any) fakeReply {
		if cmd[0] == "bogus" {
			return fakeReply{err: "invalid parameter"}
		}
		return fakeReply{}
	})

	err := c.CommandString(context.Background(), "bogus; seek 1")
	require.Error(t, err)
	assert.Equal(t, "invalid parameter", err.Error())
	assert.Equal(t, []any{[]any{"bogus"}}, srv.commands())
}

// TestCommandStringRejectsBadQuoting verifies nothing is sent for a line
// that does not tokenize.
func TestCommandStringRejectsBadQuoting(t *testing.T) {
	c, srv := newFakeServer(t, func(cmd []any) fakeReply { return fakeReply{} })

	err := c.CommandString(context.Background(), `show-text "oops`)
	require.Error(t, err)
	assert.Empty(t, srv.commands())
}

// TestLogEventsAreForwarded checks that log-message events reach Events.
func TestLogEventsAreForwarded(t *testing.T) {
	c, srv := newFakeServer(t, func(cmd []any) fakeReply { return fakeReply{} })

	require.NoError(t, c.RequestLogMessages(context.Background(), "v"))
	srv.send(map[string]any{"event": "log-message", "prefix": "cplayer", "level": "info", "text": "Playing: a.mkv\n"})

	select {
	case msg := <-c.Events():
		assert.Equal(t, LogMessage{Prefix: "cplayer", Level: "info", Text: "Playing: a.mkv\n"}, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("no log message received")
	}
}

// TestCloseEndsPendingAndEvents verifies that Close closes Done and Events
// and that later requests fail with ErrClosed.
func TestCloseEndsPendingAndEvents(t *testing.T) {
	c, _ := newFakeServer(t, func(cmd []any) fakeReply { return fakeReply{} })

	require.NoError(t, c.Close())

	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Done not closed")
	}
	_, ok := <-c.Events()
	assert.False(t, ok)

	_, err := c.GetProperty(context.Background(), "pause")
	assert.ErrorIs(t, err, ErrClosed)
}

// TestFullEventBufferDoesNotBlockReplies floods the log channel past its
// capacity without reading it and checks that replies still arrive.
func TestFullEventBufferDoesNotBlockReplies(t *testing.T) {
	c, srv := newFakeServer(t, func(cmd []any) fakeReply {
		return fakeReply{data: false}
	})

	before := testutil.ToFloat64(metricLogDropped)
	for i := 0; i < 10; i++ {
		srv.send(map[string]any{"event": "log-message", "prefix": "cplayer", "level": "v", "text": "tick\n"})
	}

	v, err := c.GetProperty(context.Background(), "pause")
	require.NoError(t, err)
	assert.Equal(t, node.Flag(false), v)

	// The reader handles the events before the reply, so all drops are
	// counted by now. The fake server uses a buffer of 4.
	assert.Equal(t, 6.0, testutil.ToFloat64(metricLogDropped)-before)
	assert.Len(t, c.Events(), 4)
}
