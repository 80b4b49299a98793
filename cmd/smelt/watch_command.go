package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/smelt-client/internal/config"
	"github.com/nguyentantai21042004/smelt-client/internal/media"
	"github.com/nguyentantai21042004/smelt-client/internal/strategy"
	"github.com/nguyentantai21042004/smelt-client/internal/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var modeFlag string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the input directory and convert files as they arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			a := newApp(cfg)
			mode, err := a.mode(modeFlag)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return a.watch(runCtx, mode)
		},
	}

	cmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "Submission mode: bulk or sequential (default from config)")

	return cmd
}

func (a *app) watch(ctx context.Context, mode strategy.Mode) error {
	cfg := a.cfg

	a.log.Info(ctx, "========================================")
	a.log.Info(ctx, "Smelt watch mode")
	a.log.Info(ctx, "========================================")
	a.log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	a.log.Info(ctx, "Server: %s", cfg.Server.Endpoint())
	a.log.Info(ctx, "Mode: %s, max concurrent batches: %d", mode, cfg.Performance.MaxConcurrent)

	if err := ensureDirectories(cfg); err != nil {
		return err
	}
	if err := a.media.Check(); err != nil {
		a.log.Warn(ctx, "%v; video inputs will fail to convert", err)
	}

	w, err := watcher.New(watcher.Options{
		Dir:           cfg.Paths.Input,
		BatchWindow:   cfg.Watch.BatchWindow,
		SettleDelay:   cfg.Watch.SettleDelay,
		MaxBatchSize:  cfg.Watch.MaxBatchSize,
		MaxConcurrent: cfg.Performance.MaxConcurrent,
		Accept:        media.IsSupported,
	}, a.batchHandler(mode), a.log)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	if cfg.Metrics.Addr != "" {
		srv := a.serveMetrics(ctx)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	a.log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
	a.log.Info(ctx, "Output: %s", cfg.Paths.Output)
	a.log.Info(ctx, "Press Ctrl+C to stop")

	err = w.Start(ctx)
	a.log.Info(ctx, "Smelt watch stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// batchHandler runs one job per batch and archives its inputs once the job is done.
func (a *app) batchHandler(mode strategy.Mode) watcher.BatchHandler {
	return func(ctx context.Context, paths []string) error {
		srcs, release, err := a.prepare(ctx, paths)
		if err != nil {
			return err
		}
		defer release()

		ctrl := a.newSession(mode, nil)
		defer ctrl.Close()

		out, err := ctrl.Run(ctx, srcs)
		if err != nil {
			return err
		}

		if _, err := a.writer.Write(ctx, out.Results); err != nil {
			return err
		}

		for _, path := range paths {
			if _, err := a.media.Archive(ctx, path); err != nil {
				a.log.Warn(ctx, "Failed to archive %s: %v", path, err)
			}
		}

		a.log.Info(ctx, "Batch done: %d of %d items converted", len(out.Results), len(srcs))
		return nil
	}
}

func (a *app) serveMetrics(ctx context.Context) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              a.cfg.Metrics.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		a.log.Info(ctx, "Metrics listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error(ctx, "Metrics server error: %v", err)
		}
	}()
	return srv
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Archived,
		cfg.Paths.Temp,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
