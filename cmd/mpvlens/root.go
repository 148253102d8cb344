package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Mr-Dark-debug/mpvlens/internal/config"
	"github.com/Mr-Dark-debug/mpvlens/internal/console"
	"github.com/Mr-Dark-debug/mpvlens/internal/database"
	"github.com/Mr-Dark-debug/mpvlens/internal/logging"
	"github.com/Mr-Dark-debug/mpvlens/internal/mpv"
	"github.com/Mr-Dark-debug/mpvlens/internal/recorder"
	"github.com/Mr-Dark-debug/mpvlens/internal/tui"
)

var (
	cfgFile string
	cfg     config.Config

	logCloser io.Closer = io.NopCloser(nil)

	flagSocket      string
	flagDB          string
	flagLogLevel    string
	flagMetricsAddr string
	flagLogLines    int
	flagRecord      bool
	flagNoHistory   bool
)

var rootCmd = &cobra.Command{
	Use:   "mpvlens",
	Short: "Terminal debug overlay for mpv",
	Long: `mpvlens connects to a running mpv over its JSON IPC socket and shows
options, properties, key bindings and commands, plus a console that runs
commands and streams mpv's log.

Start mpv with:
  mpv --input-ipc-server=/tmp/mpvsocket <file>

Keys: F1-F5 open a section, F12 hides the overlay, ctrl+c quits.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	PersistentPostRun: func(*cobra.Command, []string) { logCloser.Close() },
	RunE:              runOverlay,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default "+config.DefaultPath()+")")
	pf.StringVar(&flagSocket, "socket", "", "mpv IPC socket path")
	pf.StringVar(&flagDB, "db", "", "SQLite database for history and the log archive")
	pf.StringVar(&flagLogLevel, "log-level", "", "mpv log level: fatal, error, warn, info, v, debug, trace, no")
	pf.StringVar(&flagMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	f := rootCmd.Flags()
	f.IntVar(&flagLogLines, "log-lines", 0, "console log capacity")
	f.BoolVar(&flagRecord, "record", false, "archive console log lines to the database")
	f.BoolVar(&flagNoHistory, "no-history", false, "do not load or store console history")
}

// loadConfig builds cfg from defaults, the config file and flags, then
// starts the diagnostics log.
func loadConfig(cmd *cobra.Command, _ []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadOrDefault(config.DefaultPath())
	}
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("socket") {
		cfg.Socket = flagSocket
	}
	if flags.Changed("db") {
		cfg.DBPath = flagDB
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = flagMetricsAddr
	}
	if flags.Changed("log-lines") {
		cfg.LogLines = flagLogLines
	}
	if flagNoHistory {
		cfg.PersistHistory = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logCloser, err = logging.Setup(cfg.AppLog, cfg.AppLogLevel)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	slog.Debug("config loaded", "socket", cfg.Socket, "db", cfg.DBPath)
	return nil
}

// ────────────────────────────────────────────────────────────
// Shared helpers
// ────────────────────────────────────────────────────────────

func dial(ctx context.Context) (*mpv.Client, error) {
	mc := mpv.DefaultConfig()
	mc.SocketPath = cfg.Socket
	mc.Timeout = cfg.Timeout

	client, err := mpv.Dial(ctx, mc)
	if err != nil {
		return nil, fmt.Errorf("%w\nIs mpv running? Start it with: mpv --input-ipc-server=%s", err, cfg.Socket)
	}
	return client, nil
}

func openStore() (*database.DBService, error) {
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory %s: %w", dbDir, err)
	}
	return database.NewDBService(cfg.DBPath)
}

// logLevel is the configured subscription level. Validate has already
// rejected unknown names.
func logLevel() console.Level {
	level, _ := console.ParseLevel(cfg.LogLevel)
	return level
}

func serveMetrics(ctx context.Context) {
	if cfg.MetricsAddr == "" {
		return
	}
	go func() {
		if err := mpv.ServeMetrics(ctx, cfg.MetricsAddr); err != nil {
			slog.Error("metrics server failed", "addr", cfg.MetricsAddr, "err", err)
		}
	}()
}

// ────────────────────────────────────────────────────────────
// Overlay
// ────────────────────────────────────────────────────────────

func runOverlay(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	client, err := dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	var opts []console.Option

	if cfg.PersistHistory || flagRecord {
		store, err := openStore()
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer store.Close()

		if cfg.PersistHistory {
			lines, err := store.LoadHistory(cfg.HistoryLimit)
			if err != nil {
				slog.Warn("loading history", "err", err)
			}
			opts = append(opts,
				console.WithHistory(lines),
				console.WithSubmitHook(func(line string) {
					if err := store.AppendHistory(line); err != nil {
						slog.Warn("saving history", "err", err)
					}
				}))
		}

		if flagRecord {
			rec := recorder.New(store, cfg.Recorder, cfg.Socket)
			version, _ := client.GetPropertyString(ctx, "mpv-version")
			if err := rec.Start(ctx, version); err != nil {
				return err
			}
			defer rec.Stop()
			opts = append(opts, console.WithEntryHook(func(e console.Entry) {
				rec.Record(e.Level.String(), e.Text)
			}))
		}
	}

	level := logLevel()
	con := console.New(client, level, cfg.LogLines, opts...)
	con.SetLevel(ctx, level)

	serveMetrics(ctx)

	model := tui.NewModel(client, con,
		tui.WithContext(ctx),
		tui.WithEvents(client.Events()))
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running overlay: %w", err)
	}
	return nil
}
