package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gatesort/internal/audit"
	"gatesort/internal/catalog"
	"gatesort/internal/classify"
	"gatesort/internal/configuration"
	"gatesort/internal/decision/override"
	"gatesort/internal/server"
	"gatesort/internal/speech"
)

// prepareLogger configures the global logger using slog. Takes a string
// log level (e.g., "debug", "info", "warn", "error") and installs a
// JSON-formatted handler on os.Stdout. An unrecognized level falls back
// to Info.
func prepareLogger(level string) {
	var logLevel slog.Level

	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn", "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	logger := slog.New(handler)
	slog.SetDefault(logger)
}

// On configuration, catalog or override-rule initialization errors the
// application exits with code 1.
func main() {
	configPath := flag.String("config", "/etc/gatesort/config.yaml", "configuration file")
	seed := flag.Bool("seed", false, "insert demo reference data and exit")
	flag.Parse()
	config, err := configuration.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Unable to load configuration", "error", err)
		os.Exit(1)
	}
	prepareLogger(config.Logger.Level)

	cat, err := catalog.Open(config.Catalog.Path)
	if err != nil {
		slog.Error("Unable to open catalog", "error", err)
		os.Exit(1)
	}
	defer cat.Close()

	if *seed {
		if err := cat.Seed(context.Background()); err != nil {
			slog.Error("Unable to seed catalog", "error", err)
			os.Exit(1)
		}
		slog.Info("Catalog seeded")
		return
	}

	appCtx, appCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer appCancel()

	var overrides []override.Rule
	if config.Overrides.Rules != "" {
		overrides, err = override.LoadFromFile(config.Overrides.Rules)
		if err != nil {
			slog.Error("Unable to load override rules", "error", err)
			os.Exit(1)
		}
		slog.Info("Override rules loaded", "count", len(overrides))
	}

	var trail *audit.Trail
	if config.Audit.File != "" {
		trail = audit.NewTrail(config.Audit.File, config.Audit.Size, config.Audit.Amount)
		defer trail.Close()
	}

	classifier := classify.NewClient(config.Classifier.URL, config.Classifier.Timeout)
	announcer := speech.NewAnnouncer(config.Speech.URL, config.Speech.Voice, config.Speech.Timeout)

	router := server.NewApiV1Router(
		config.Server.Static,
		cat,
		classifier,
		overrides,
		announcer,
		trail,
	)
	srv := server.NewServer(config.Server.Address, router)
	go srv.ListenAndServe()
	slog.Info("Server listening " + config.Server.Address)
	<-appCtx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second*10)
	defer shutdownCancel()

	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		slog.Error("Server shutdown", "error", err)
	}
	slog.Info("Server stopped")
}
