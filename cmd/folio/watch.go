package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/aretw0/folio"
	"github.com/aretw0/folio/internal/metrics"
	"github.com/aretw0/folio/pkg/watch"
)

var (
	metricsAddr   string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the site whenever a post or layout changes",
	Long: `Watch builds the site once, then rebuilds it after every change under the
content and template directories. It never publishes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var opts []folio.Option
		var recorder *metrics.PrometheusRecorder
		if metricsAddr != "" {
			recorder = metrics.NewPrometheusRecorder(prom.NewRegistry())
			opts = append(opts, folio.WithRecorder(recorder))
		}

		s, err := openSite(opts...)
		if err != nil {
			return err
		}

		if recorder != nil {
			srv := serveMetrics(metricsAddr, recorder.Handler())
			defer srv.Close()
		}

		if res, err := s.Build(ctx); err != nil {
			slog.Error("initial build failed", "error", err)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Built %d pages.\n", res.PagesWritten)
		}

		w := s.NewWatcher(watchDebounce)
		if err := w.Start(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Watching %v (Ctrl+C to stop)\n", w.State().(watch.WatcherState).Dirs)

		for ev := range w.Events() {
			fmt.Fprintln(cmd.OutOrStdout(), ev)
		}
		return nil
	},
}

func serveMetrics(addr string, handler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()
	slog.Info("serving metrics", "addr", addr, "path", "/metrics")
	return srv
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Quiet period before a rebuild")
}
