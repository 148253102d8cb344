// Package recorder archives mpv log messages into the database.
//
// Lines are handed over with Record, which never blocks the caller, and
// written by a single flush goroutine in batches: every FlushInterval or as
// soon as BatchSize lines are pending, whichever comes first. Every line is
// tagged with the recorder's session ID.
package recorder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Mr-Dark-debug/mpvlens/internal/database"
)

// Config holds batching parameters.
type Config struct {
	// BatchSize is the maximum number of lines written per transaction.
	BatchSize int `yaml:"batch_size"`

	// FlushInterval is the maximum time a line waits before being written.
	FlushInterval time.Duration `yaml:"flush_interval"`

	// BufferSize bounds the hand-off queue. Lines recorded while it is full
	// are dropped and counted.
	BufferSize int `yaml:"buffer_size"`
}

// DefaultConfig returns the batching defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:     500,
		FlushInterval: 500 * time.Millisecond,
		BufferSize:    4096,
	}
}

// Stats tracks throughput and error counts.
type Stats struct {
	Recorded         int64 `json:"recorded"`
	Dropped          int64 `json:"dropped"`
	Written          int64 `json:"written"`
	BatchesCommitted int64 `json:"batches_committed"`
	ErrorCount       int64 `json:"error_count"`
}

// Recorder batches log lines into a database.Store.
type Recorder struct {
	config  Config
	store   database.Store
	session database.Session
	stats   Stats

	entries chan *database.LogRecord
	stop    chan struct{}
	stopped atomic.Bool
	started bool

	wg       sync.WaitGroup
	stopOnce sync.Once
}

// New creates a recorder for the mpv instance at socket. A fresh session ID
// is generated.
func New(store database.Store, config Config, socket string) *Recorder {
	def := DefaultConfig()
	if config.BatchSize <= 0 {
		config.BatchSize = def.BatchSize
	}
	if config.FlushInterval <= 0 {
		config.FlushInterval = def.FlushInterval
	}
	if config.BufferSize <= 0 {
		config.BufferSize = def.BufferSize
	}

	return &Recorder{
		config: config,
		store:  store,
		session: database.Session{
			SessionID: uuid.NewString(),
			Socket:    socket,
			StartedAt: time.Now().UnixNano(),
		},
		entries: make(chan *database.LogRecord, config.BufferSize),
		stop:    make(chan struct{}),
	}
}

// SessionID returns the ID every recorded line is tagged with.
func (r *Recorder) SessionID() string { return r.session.SessionID }

// Start registers the session and starts the flush goroutine. The goroutine
// exits when ctx is cancelled or Stop is called, writing what is pending.
func (r *Recorder) Start(ctx context.Context, mpvVersion string) error {
	r.session.MPVVersion = mpvVersion
	if err := r.store.InsertSession(&r.session); err != nil {
		return fmt.Errorf("registering session: %w", err)
	}

	r.started = true
	r.wg.Add(1)
	go r.flushLoop(ctx)

	slog.Info("recording session", "session", r.session.SessionID, "socket", r.session.Socket)
	return nil
}

// Record queues one line for writing. It returns false if the line was
// dropped because the queue is full or the recorder is stopped.
func (r *Recorder) Record(level, text string) bool {
	if r.stopped.Load() {
		atomic.AddInt64(&r.stats.Dropped, 1)
		return false
	}

	rec := &database.LogRecord{
		SessionID: r.session.SessionID,
		Timestamp: time.Now().UnixNano(),
		Level:     level,
		Text:      text,
	}
	select {
	case r.entries <- rec:
		atomic.AddInt64(&r.stats.Recorded, 1)
		return true
	default:
		atomic.AddInt64(&r.stats.Dropped, 1)
		return false
	}
}

// Stop flushes pending lines and waits for the flush goroutine to exit.
// It is safe to call more than once.
func (r *Recorder) Stop() {
	r.stopOnce.Do(func() {
		r.stopped.Store(true)
		close(r.stop)
	})
	r.wg.Wait()

	if !r.started {
		return
	}
	s := r.Stats()
	slog.Info("recorder stopped",
		"session", r.session.SessionID,
		"written", s.Written,
		"dropped", s.Dropped,
		"errors", s.ErrorCount)
}

// Stats returns a snapshot of the counters.
func (r *Recorder) Stats() Stats {
	return Stats{
		Recorded:         atomic.LoadInt64(&r.stats.Recorded),
		Dropped:          atomic.LoadInt64(&r.stats.Dropped),
		Written:          atomic.LoadInt64(&r.stats.Written),
		BatchesCommitted: atomic.LoadInt64(&r.stats.BatchesCommitted),
		ErrorCount:       atomic.LoadInt64(&r.stats.ErrorCount),
	}
}

// flushLoop commits when either BatchSize lines accumulate or
// FlushInterval elapses.
func (r *Recorder) flushLoop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.FlushInterval)
	defer ticker.Stop()

	buf := make([]*database.LogRecord, 0, r.config.BatchSize)

	flush := func() {
		if len(buf) == 0 {
			return
		}
		if err := r.store.BatchInsertLogs(buf); err != nil {
			slog.Error("flushing log batch", "err", err, "lines", len(buf))
			atomic.AddInt64(&r.stats.ErrorCount, 1)
		} else {
			atomic.AddInt64(&r.stats.Written, int64(len(buf)))
			atomic.AddInt64(&r.stats.BatchesCommitted, 1)
		}
		buf = buf[:0]
	}

	drain := func() {
		for {
			select {
			case rec := <-r.entries:
				buf = append(buf, rec)
				if len(buf) >= r.config.BatchSize {
					flush()
				}
			default:
				flush()
				return
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			r.stopped.Store(true)
			drain()
			return

		case <-r.stop:
			drain()
			return

		case rec := <-r.entries:
			buf = append(buf, rec)
			if len(buf) >= r.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()
		}
	}
}
