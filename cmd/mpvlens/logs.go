package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mr-Dark-debug/mpvlens/internal/database"
	"github.com/Mr-Dark-debug/mpvlens/pkg/timeutil"
)

var (
	logsSession string
	logsLevels  []string
	logsSearch  string
	logsSince   time.Duration
	logsLimit   int
	logsOffset  int
	logsJSON    bool
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Query archived log messages",
	Long: `Prints log lines written by 'mpvlens record' or 'mpvlens --record',
oldest first.

Examples:
  mpvlens logs --level error --level warn
  mpvlens logs --search ffmpeg --since 1h
  mpvlens logs sessions`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore()
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer store.Close()

		filter := database.LogFilter{
			Levels: logsLevels,
			Search: logsSearch,
			Limit:  logsLimit,
			Offset: logsOffset,
		}
		if logsSession != "" {
			filter.SessionID = &logsSession
		}
		if logsSince > 0 {
			since := timeutil.Cutoff(time.Now(), logsSince)
			filter.Since = &since
		}

		records, err := store.QueryLogs(filter)
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if logsJSON {
			return printJSON(out, records)
		}
		for _, r := range records {
			fmt.Fprintf(out, "%s %-5s %s\n", timeutil.Stamp(r.Timestamp), r.Level, r.Text)
		}
		return nil
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recording sessions, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore()
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer store.Close()

		sessions, err := store.ListSessions(logsLimit)
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if logsJSON {
			return printJSON(out, sessions)
		}
		now := time.Now()
		for _, s := range sessions {
			fmt.Fprintf(out, "%s  %s (%s)  %s  %s\n",
				s.SessionID, timeutil.Stamp(s.StartedAt), timeutil.Ago(s.StartedAt, now), s.Socket, s.MPVVersion)
		}
		return nil
	},
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func init() {
	pf := logsCmd.PersistentFlags()
	pf.IntVar(&logsLimit, "limit", 100, "maximum results")
	pf.BoolVar(&logsJSON, "json", false, "print JSON")

	f := logsCmd.Flags()
	f.StringVar(&logsSession, "session", "", "only lines from this session ID")
	f.StringSliceVar(&logsLevels, "level", nil, "only these levels (repeatable)")
	f.StringVar(&logsSearch, "search", "", "substring to look for")
	f.DurationVar(&logsSince, "since", 0, "only lines newer than this, e.g. 30m")
	f.IntVar(&logsOffset, "offset", 0, "skip this many results")

	logsCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(logsCmd)
}
