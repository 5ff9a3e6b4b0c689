// # cmd/archlens/app.go
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"archlens/internal/analyzer"
	"archlens/internal/config"
	"archlens/internal/history"
	"archlens/internal/scan"
	"archlens/internal/shared/util"
	"archlens/internal/trend"
	"archlens/internal/watch"
)

// App ties the scanner, the analysis engine, and the optional snapshot store
// to one project root for the lifetime of the process.
type App struct {
	root   string
	cfg    *config.Config
	engine *analyzer.Engine
	trends *trend.Store
}

func NewApp(root string, cfg *config.Config) (*App, error) {
	app := &App{
		root:   root,
		cfg:    cfg,
		engine: analyzer.New(root, cfg),
	}

	if cfg.Snapshot.Enabled {
		store, err := trend.Open(cfg.SnapshotPath(root))
		if err != nil {
			return nil, fmt.Errorf("open snapshot store: %w", err)
		}
		app.trends = store
	}

	return app, nil
}

func (a *App) Close() {
	if a.trends != nil {
		if err := a.trends.Close(); err != nil {
			slog.Warn("failed to close snapshot store", "error", err)
		}
	}
}

// RunOnce performs a full scan and analysis, writes the report, and records a
// snapshot when the store is enabled. Returns the number of findings.
func (a *App) RunOnce(ctx context.Context, out io.Writer) (int, error) {
	start := time.Now()

	inv, err := scan.NewScanner(a.root, a.cfg).Scan()
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", a.root, err)
	}
	slog.Debug("scan complete",
		"files", len(inv.AllFiles),
		"scripts", len(inv.ScriptFiles),
		"source_dirs", len(inv.SourceDirectories))

	report, err := a.engine.Analyze(ctx, inv)
	if err != nil {
		return 0, fmt.Errorf("analyze %s: %w", a.root, err)
	}

	if err := writeReport(out, report, reportMode()); err != nil {
		return 0, err
	}

	slog.Info("analysis complete",
		"findings", len(report.Findings),
		"files", len(inv.AllFiles),
		"graph_cached", report.GraphFromCache,
		"duration", time.Since(start))

	if a.trends != nil {
		a.recordSnapshot(ctx, inv, report)
	}

	return len(report.Findings), nil
}

func (a *App) recordSnapshot(ctx context.Context, inv *scan.Inventory, report *analyzer.Report) {
	stats := report.Graph.Stats()
	snapshot := trend.Snapshot{
		FileCount: len(inv.AllFiles),
		NodeCount: stats.Nodes,
		EdgeCount: stats.Edges,
	}
	snapshot.CountFindings(report.Findings)

	provider := history.NewProvider(a.root, a.cfg.Git.Timeout, util.NewLimiter(a.cfg.Git.RateLimit, a.cfg.Git.Burst))
	if provider.Available(ctx) {
		snapshot.CommitHash = provider.Head(ctx)
	}

	runID, err := a.trends.SaveSnapshot(a.root, snapshot)
	if err != nil {
		slog.Warn("failed to save snapshot", "error", err)
		return
	}
	slog.Debug("snapshot saved", "run_id", runID)
}

// RunWatch performs an initial analysis, then re-runs on every debounced
// change batch until the context is cancelled.
func (a *App) RunWatch(ctx context.Context) error {
	if _, err := a.RunOnce(ctx, os.Stdout); err != nil {
		return err
	}

	runs := make(chan []string, 1)
	w, err := watch.NewWatcher(a.cfg.Watch.Debounce, a.cfg.ExcludeDirs, a.cfg.ScriptExtensions, func(paths []string) {
		select {
		case runs <- paths:
		default:
			// A run is already queued; the next analysis picks up all
			// changes anyway.
		}
	})
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Watch(a.root); err != nil {
		return fmt.Errorf("watch %s: %w", a.root, err)
	}
	slog.Info("watching for changes", "root", a.root, "debounce", a.cfg.Watch.Debounce)

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-runs:
			slog.Info("changes detected, re-running analysis", "changed", len(paths))
			if _, err := a.RunOnce(ctx, os.Stdout); err != nil {
				slog.Error("analysis failed", "error", err)
			}
		}
	}
}

// PrintTrends writes the stored snapshot history for this project.
func (a *App) PrintTrends(out io.Writer) error {
	if a.trends == nil {
		return fmt.Errorf("snapshots are disabled; enable [snapshot] in the config")
	}
	snapshots, err := a.trends.LoadSnapshots(a.root, time.Time{})
	if err != nil {
		return err
	}
	return writeTrends(out, snapshots)
}
