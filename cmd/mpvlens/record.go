package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mr-Dark-debug/mpvlens/internal/recorder"
	"github.com/Mr-Dark-debug/mpvlens/pkg/timeutil"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Archive mpv log messages until interrupted",
	Long: `Subscribes to mpv's log at --log-level and writes every message to the
database in batches. Stops on Ctrl+C, SIGTERM or when mpv exits.
Query the archive with 'mpvlens logs'.`,
	Args: cobra.NoArgs,
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	client, err := dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	store, err := openStore()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	version, err := client.GetPropertyString(ctx, "mpv-version")
	if err != nil {
		return fmt.Errorf("reading mpv-version: %w", err)
	}

	rec := recorder.New(store, cfg.Recorder, cfg.Socket)
	if err := rec.Start(ctx, version); err != nil {
		return err
	}

	level := logLevel()
	if err := client.RequestLogMessages(ctx, level.String()); err != nil {
		rec.Stop()
		return fmt.Errorf("subscribing to log messages: %w", err)
	}

	serveMetrics(ctx)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  MPVLENS RECORDER")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  mpv:      %s\n", version)
	fmt.Fprintf(out, "  Socket:   %s\n", cfg.Socket)
	fmt.Fprintf(out, "  DB:       %s\n", cfg.DBPath)
	fmt.Fprintf(out, "  Level:    %s\n", level)
	fmt.Fprintf(out, "  Session:  %s\n", rec.SessionID())
	if cfg.MetricsAddr != "" {
		fmt.Fprintf(out, "  Metrics:  http://%s/metrics\n", cfg.MetricsAddr)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  Press Ctrl+C to stop.")
	fmt.Fprintln(out)

	// Wait for shutdown signal or the end of the connection
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	started := time.Now()
	events := client.Events()
loop:
	for {
		select {
		case msg, ok := <-events:
			if !ok {
				slog.Info("mpv connection ended", "err", client.Err())
				fmt.Fprintln(out, "  mpv exited.")
				break loop
			}
			text := fmt.Sprintf("[%s] %s", msg.Prefix, strings.TrimRight(msg.Text, "\n"))
			rec.Record(msg.Level, text)
		case <-sigChan:
			fmt.Fprintln(out, "\n  Shutting down gracefully...")
			break loop
		}
	}

	rec.Stop()
	s := rec.Stats()
	fmt.Fprintf(out, "  Done. %d lines written, %d dropped in %s.\n",
		s.Written, s.Dropped, timeutil.Elapsed(time.Since(started)))
	return nil
}
