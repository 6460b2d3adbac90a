package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gyaneshwarpardhi/funnelsim/internal/api"
	"github.com/gyaneshwarpardhi/funnelsim/internal/config"
	"github.com/gyaneshwarpardhi/funnelsim/internal/engine"
	"github.com/gyaneshwarpardhi/funnelsim/internal/store"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	cfgPath := flag.String("config", "configs/funnelsim.yaml", "Path to funnelsim YAML config")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// ── Load config ──────────────────────────────────────────────────────────
	loader, err := config.NewLoader(*cfgPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	cfg := loader.Config()
	slog.Info("config loaded", "path", loader.Path(), "version", cfg.Version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Scenario store ───────────────────────────────────────────────────────
	st, err := store.New(ctx, cfg.Store)
	if err != nil {
		slog.Error("failed to open scenario store", "backend", cfg.Store.Backend, "err", err)
		os.Exit(1)
	}
	defer st.Close()
	slog.Info("scenario store ready", "backend", cfg.Store.Backend)

	// ── Engine ────────────────────────────────────────────────────────────────
	eng := engine.New(ctx, cfg.Engine, cfg.Blueprints)
	slog.Info("engine started", "workers", cfg.Engine.Workers, "blueprints", len(cfg.Blueprints))

	// ── Hot-reload watcher ────────────────────────────────────────────────────
	// api.New swaps the blueprints; invalid files never reach OnChange.
	loader.OnChange(func(newCfg *config.Config) {
		slog.Info("config hot-reloaded", "blueprints", len(newCfg.Blueprints))
	})
	stopWatch, err := loader.Watch()
	if err != nil {
		slog.Warn("config watcher unavailable (hot-reload disabled)", "err", err)
	} else {
		defer stopWatch()
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	srv := &http.Server{
		Addr:         *addr,
		Handler:      api.New(eng, loader, st),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	cancel()
	eng.Shutdown()
	slog.Info("goodbye")
}
