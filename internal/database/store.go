// Package database provides the storage layer for mpvlens.
//
// It implements the Store interface using SQLite with WAL mode. Two things
// are kept: the console's command history, so it survives restarts, and an
// archive of log lines recorded from mpv sessions.
package database

import (
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Mr-Dark-debug/mpvlens/pkg/textutil"
)

//go:embed schema.sql
var schemaFS embed.FS

// Store defines the interface for persistence.
type Store interface {
	// AppendHistory records a command line as the most recently used one.
	// An existing line equal ignoring case is replaced.
	AppendHistory(line string) error
	// LoadHistory returns up to limit lines, oldest first.
	LoadHistory(limit int) ([]string, error)
	// ClearHistory removes all history.
	ClearHistory() error

	// InsertSession registers a recording session.
	InsertSession(session *Session) error
	// ListSessions returns sessions, most recent first.
	ListSessions(limit int) ([]*Session, error)
	// BatchInsertLogs inserts log lines in a single transaction.
	BatchInsertLogs(records []*LogRecord) error
	// QueryLogs returns log lines matching the filter, oldest first.
	QueryLogs(filter LogFilter) ([]*LogRecord, error)

	// Close gracefully shuts down the database connection.
	Close() error
}

// ============================================================
// Domain Models
// ============================================================

// Session is one run of the recorder or overlay against an mpv instance.
type Session struct {
	SessionID  string `json:"session_id"`
	Socket     string `json:"socket"`
	MPVVersion string `json:"mpv_version,omitempty"`
	StartedAt  int64  `json:"started_at"` // Unix nanoseconds
}

// LogRecord is one archived log line.
type LogRecord struct {
	ID        int64  `json:"id"`
	SessionID string `json:"session_id"`
	Timestamp int64  `json:"timestamp"` // Unix nanoseconds
	Level     string `json:"level"`
	Text      string `json:"text"`
}

// LogFilter defines query parameters for the log archive.
type LogFilter struct {
	SessionID *string  `json:"session_id,omitempty"`
	Levels    []string `json:"levels,omitempty"`
	Search    string   `json:"search,omitempty"` // substring, case-insensitive for ASCII
	Since     *int64   `json:"since,omitempty"`  // Unix nanoseconds
	Limit     int      `json:"limit"`
	Offset    int      `json:"offset"`
}

// ============================================================
// DBService Implementation
// ============================================================

// DBService implements the Store interface using SQLite.
type DBService struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string

	// Prepared statements for hot-path operations
	stmtDeleteHistory *sql.Stmt
	stmtInsertHistory *sql.Stmt
	stmtInsertSession *sql.Stmt
	stmtInsertLog     *sql.Stmt
}

// NewDBService opens the database, applies the schema and prepares
// frequently-used statements.
//
// Use ":memory:" for an in-memory database (useful for testing).
func NewDBService(path string) (*DBService, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=ON", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database at %s: %w", path, err)
	}

	// SQLite only supports one writer at a time; one connection also keeps
	// ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	svc := &DBService{
		db:   db,
		path: path,
	}

	if err := svc.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	if err := svc.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return svc, nil
}

// initSchema executes the embedded schema.sql.
func (s *DBService) initSchema() error {
	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("reading embedded schema: %w", err)
	}
	if _, err := s.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

func (s *DBService) prepareStatements() error {
	var err error

	s.stmtDeleteHistory, err = s.db.Prepare(`DELETE FROM history WHERE line_key = ?`)
	if err != nil {
		return fmt.Errorf("preparing delete history: %w", err)
	}

	s.stmtInsertHistory, err = s.db.Prepare(`
		INSERT INTO history (line, line_key, used_at) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert history: %w", err)
	}

	s.stmtInsertSession, err = s.db.Prepare(`
		INSERT INTO sessions (session_id, socket, mpv_version, started_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET mpv_version = excluded.mpv_version`)
	if err != nil {
		return fmt.Errorf("preparing insert session: %w", err)
	}

	s.stmtInsertLog, err = s.db.Prepare(`
		INSERT INTO log_entries (session_id, timestamp, level, text) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert log: %w", err)
	}

	return nil
}

// historyKey is the case-folded form used for de-duplication. It matches
// the console's in-memory comparison.
func historyKey(line string) string { return textutil.FoldKey(line) }

// AppendHistory deletes any line equal ignoring case and inserts line, so
// the row id order is the order of last use.
func (s *DBService) AppendHistory(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning history tx: %w", err)
	}
	defer tx.Rollback()

	key := historyKey(line)
	if _, err := tx.Stmt(s.stmtDeleteHistory).Exec(key); err != nil {
		return fmt.Errorf("removing old history line: %w", err)
	}
	if _, err := tx.Stmt(s.stmtInsertHistory).Exec(line, key, time.Now().UnixNano()); err != nil {
		return fmt.Errorf("inserting history line: %w", err)
	}
	return tx.Commit()
}

// LoadHistory returns the newest limit lines, oldest first.
func (s *DBService) LoadHistory(limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.Query(`
		SELECT line FROM (
			SELECT id, line FROM history ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// ClearHistory removes all history rows.
func (s *DBService) ClearHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM history`); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

// InsertSession persists a session. Re-inserting the same ID updates the
// recorded mpv version.
func (s *DBService) InsertSession(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.stmtInsertSession.Exec(session.SessionID, session.Socket, session.MPVVersion, session.StartedAt)
	if err != nil {
		return fmt.Errorf("inserting session %s: %w", session.SessionID, err)
	}
	return nil
}

// ListSessions returns sessions ordered by start time, most recent first.
func (s *DBService) ListSessions(limit int) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT session_id, socket, mpv_version, started_at
		FROM sessions ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		var ss Session
		if err := rows.Scan(&ss.SessionID, &ss.Socket, &ss.MPVVersion, &ss.StartedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, &ss)
	}
	return sessions, rows.Err()
}

// BatchInsertLogs inserts log lines within a single transaction.
func (s *DBService) BatchInsertLogs(records []*LogRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning log batch tx: %w", err)
	}
	defer tx.Rollback()

	stmt := tx.Stmt(s.stmtInsertLog)
	for _, r := range records {
		if _, err := stmt.Exec(r.SessionID, r.Timestamp, r.Level, r.Text); err != nil {
			return fmt.Errorf("inserting log line: %w", err)
		}
	}
	return tx.Commit()
}

// QueryLogs returns archived lines matching the filter, oldest first.
func (s *DBService) QueryLogs(filter LogFilter) ([]*LogRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, session_id, timestamp, level, text FROM log_entries WHERE 1=1`
	var args []interface{}

	if filter.SessionID != nil {
		query += ` AND session_id = ?`
		args = append(args, *filter.SessionID)
	}
	if len(filter.Levels) > 0 {
		query += ` AND level IN (?` + strings.Repeat(`, ?`, len(filter.Levels)-1) + `)`
		for _, l := range filter.Levels {
			args = append(args, l)
		}
	}
	if filter.Search != "" {
		query += ` AND text LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(filter.Search)+"%")
	}
	if filter.Since != nil {
		query += ` AND timestamp >= ?`
		args = append(args, *filter.Since)
	}

	query += ` ORDER BY id ASC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	query += ` LIMIT ? OFFSET ?`
	args = append(args, limit, filter.Offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying logs: %w", err)
	}
	defer rows.Close()

	return scanLogRecords(rows)
}

// Close closes all prepared statements and the connection pool.
func (s *DBService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stmts := []*sql.Stmt{
		s.stmtDeleteHistory,
		s.stmtInsertHistory,
		s.stmtInsertSession,
		s.stmtInsertLog,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}

	return s.db.Close()
}

// ============================================================
// Scan Helpers
// ============================================================

func scanLogRecords(rows *sql.Rows) ([]*LogRecord, error) {
	var records []*LogRecord
	for rows.Next() {
		var r LogRecord
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Timestamp, &r.Level, &r.Text); err != nil {
			return nil, fmt.Errorf("scanning log record: %w", err)
		}
		records = append(records, &r)
	}
	return records, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
