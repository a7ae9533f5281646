// liftlog-mcp serves the workout session over MCP stdio for AI assistants.
// It shares the snapshot store with the liftlog daemon, so a session started
// in one surface is visible in the other after a restart.
package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/claude/liftlog/internal/api"
	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/mcp"
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

	// stdout carries the MCP protocol, so logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

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
	}

	s := mcp.New(tracker, backend, Version, log)

	log.Info("LiftLog MCP server starting", "version", Version)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
