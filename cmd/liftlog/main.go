package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tailscale.com/tsnet"

	"github.com/claude/liftlog/internal/api"
	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/server"
	"github.com/claude/liftlog/internal/store"
	"github.com/claude/liftlog/internal/units"
	"github.com/claude/liftlog/internal/workout"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func validSessionDate(d string) bool {
	_, err := time.Parse("2006-01-02", d)
	return err == nil
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("LiftLog starting", "version", Version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Open the local snapshot store and recover whatever session survived
	// the last shutdown or crash.
	st, err := store.Open(cfg.Storage.Dir, log)
	if err != nil {
		log.Error("failed to open state store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	restored, err := st.LoadSession()
	if err != nil {
		log.Error("failed to load saved session", "error", err)
		os.Exit(1)
	}
	if restored != nil {
		log.Info("restored in-progress session",
			"session_date", restored.SessionDate,
			"exercises", len(restored.Exercises))
	}

	writer := store.NewWriter(st, log)
	defer writer.Close()

	tracker := workout.NewTracker(workout.Options{
		Persist:          writer.Enqueue,
		ValidSessionDate: validSessionDate,
		Units:            workout.UnitSystem(cfg.Units.System),
		Convert:          units.ToKilograms,
		ConvertBack:      units.FromKilograms,
		Restored:         restored,
	})

	var backend *api.Client
	if cfg.Server.URL != "" {
		backend = api.NewClient(cfg.Server.URL, cfg.Server.APIKey)
		log.Info("backend configured", "url", cfg.Server.URL)
	} else {
		log.Info("no backend configured, running offline")
	}

	srv := server.New(tracker, backend, cfg.Listen.APIKey, log)

	// Start server — tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Listen.Host, cfg.Listen.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr)
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: stop accepting requests, then flush the pending
	// snapshot before the store closes.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
