package mpv

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	metricRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mpvlens",
		Name:      "ipc_requests_total",
		Help:      "IPC requests sent to mpv, by command name.",
	}, []string{"command"})
	metricCommandErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mpvlens",
		Name:      "ipc_command_errors_total",
		Help:      "IPC requests mpv answered with an error, by command name.",
	}, []string{"command"})
	metricTransportErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mpvlens",
		Name:      "ipc_transport_errors_total",
		Help:      "Write failures, timeouts and malformed replies on the IPC socket.",
	})
	metricLogMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mpvlens",
		Name:      "log_messages_total",
		Help:      "log-message events received from mpv, by level.",
	}, []string{"level"})
	metricLogDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mpvlens",
		Name:      "log_messages_dropped_total",
		Help:      "log-message events dropped because the consumer fell behind.",
	})
)

// metricsHandler serves /metrics (Prometheus text format) and /health.
func metricsHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// ServeMetrics exposes metricsHandler on addr until ctx is cancelled.
func ServeMetrics(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:    addr,
		Handler: metricsHandler(),
	}

	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	slog.Info("metrics server listening", "addr", addr)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
