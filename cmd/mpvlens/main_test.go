package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mr-Dark-debug/mpvlens/internal/database"
)

// testEnv writes a config file pointing at a fresh database with the
// diagnostics log disabled.
func testEnv(t *testing.T) (cfgPath, dbPath string) {
	t.Helper()
	dir := t.TempDir()
	dbPath = filepath.Join(dir, "test.db")
	cfgPath = filepath.Join(dir, "config.yaml")
	data := "app_log: \"\"\ndb_path: " + dbPath + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(data), 0644))
	return cfgPath, dbPath
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), buf.String())
	return buf.String()
}

// TestVersion prints the build version without a config file.
func TestVersion(t *testing.T) {
	out := execute(t, "version")
	assert.Contains(t, out, "mpvlens v"+Version)
}

// TestHistoryListAndClear verifies that 'history' lists stored lines oldest
// first and that --clear empties them.
func TestHistoryListAndClear(t *testing.T) {
	cfgPath, dbPath := testEnv(t)
	t.Cleanup(func() { historyClear = false })

	store, err := database.NewDBService(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.AppendHistory("seek 10"))
	require.NoError(t, store.AppendHistory("cycle pause"))
	require.NoError(t, store.Close())

	out := execute(t, "history", "--config", cfgPath)
	assert.Equal(t, "0: seek 10\n1: cycle pause\n", out)

	out = execute(t, "history", "--config", cfgPath, "--clear")
	assert.Equal(t, "History cleared.\n", out)

	historyClear = false
	out = execute(t, "history", "--config", cfgPath)
	assert.Empty(t, out)
}

// TestLogsQuery runs 'logs --search' and 'logs sessions' against a seeded
// database.
func TestLogsQuery(t *testing.T) {
	cfgPath, dbPath := testEnv(t)
	t.Cleanup(func() { logsSearch = "" })

	store, err := database.NewDBService(dbPath)
	require.NoError(t, err)
	now := time.Now().UnixNano()
	require.NoError(t, store.InsertSession(&database.Session{SessionID: "s1", Socket: "/tmp/mpvsocket", StartedAt: now}))
	require.NoError(t, store.BatchInsertLogs([]*database.LogRecord{
		{SessionID: "s1", Timestamp: now, Level: "info", Text: "[cplayer] Playing: a.mkv"},
		{SessionID: "s1", Timestamp: now + 1, Level: "error", Text: "[ffmpeg] decode failed"},
	}))
	require.NoError(t, store.Close())

	out := execute(t, "logs", "--config", cfgPath, "--search", "ffmpeg")
	assert.Contains(t, out, "[ffmpeg] decode failed")
	assert.NotContains(t, out, "Playing")

	out = execute(t, "logs", "sessions", "--config", cfgPath)
	assert.Contains(t, out, "s1")
	assert.Contains(t, out, "/tmp/mpvsocket")
}
