// # cmd/archlens/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"archlens/internal/cache"
	"archlens/internal/config"
	"archlens/internal/scan"
)

var (
	configPath = flag.String("config", "./archlens.toml", "Path to config file")
	once       = flag.Bool("once", false, "Run single analysis and exit")
	watchMode  = flag.Bool("watch", false, "Re-run analysis on file changes")
	jsonOut    = flag.Bool("json", false, "Output findings as JSON")
	markdown   = flag.Bool("markdown", false, "Output findings as Markdown")
	trends     = flag.Bool("trends", false, "Print stored snapshot history and exit")
	clearCache = flag.Bool("clear-cache", false, "Delete the result cache and exit")
	metricsOn  = flag.String("metrics", "", "Serve Prometheus metrics on this address (e.g. :9163)")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("archlens v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	start := "."
	if flag.NArg() > 0 {
		start = flag.Arg(0)
	}

	root, ok := scan.FindProjectRoot(start, cfg.WorkspaceMarkers)
	if !ok {
		// No marker anywhere above: analyze the given directory as-is.
		if root, err = filepath.Abs(start); err != nil {
			slog.Error("cannot resolve start path", "path", start, "error", err)
			os.Exit(1)
		}
		slog.Debug("no workspace marker found, using start path as root", "root", root)
	}

	if *clearCache {
		rc := cache.New(cfg.CachePath(root))
		if err := rc.Clear(); err != nil {
			slog.Error("failed to clear cache", "path", rc.Path(), "error", err)
			os.Exit(1)
		}
		fmt.Printf("cleared cache at %s\n", rc.Path())
		os.Exit(0)
	}

	app, err := NewApp(root, cfg)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *trends {
		if err := app.PrintTrends(os.Stdout); err != nil {
			slog.Error("failed to load trends", "error", err)
			os.Exit(1)
		}
		return
	}

	if *metricsOn != "" {
		srv := NewObservabilityServer(*metricsOn)
		srv.Start()
		defer srv.Stop(context.Background())
	}

	if *watchMode && !*once {
		if err := app.RunWatch(ctx); err != nil {
			slog.Error("watch mode failed", "error", err)
			os.Exit(1)
		}
		return
	}

	findings, err := app.RunOnce(ctx, os.Stdout)
	if err != nil {
		slog.Error("analysis failed", "error", err)
		os.Exit(1)
	}
	if findings > 0 {
		os.Exit(2)
	}
}
