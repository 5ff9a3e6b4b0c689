// Package analyzer wires the classifier, graph builder, and smell detectors
// into a single analysis pass over a project inventory.
package analyzer

import (
	"context"
	"log/slog"
	"time"

	"archlens/internal/builder"
	"archlens/internal/cache"
	"archlens/internal/classify"
	"archlens/internal/config"
	"archlens/internal/graph"
	"archlens/internal/history"
	"archlens/internal/scan"
	"archlens/internal/shared/observability"
	"archlens/internal/shared/util"
	"archlens/internal/smell"
)

// Engine runs the full analysis pipeline for one project root.
type Engine struct {
	root       string
	cfg        *config.Config
	classifier *classify.Classifier
	builder    *builder.Builder
	git        *smell.GitDetectors
}

// Report is the outcome of one analysis run.
type Report struct {
	Findings        []smell.Finding
	Graph           *graph.Graph
	Classifications map[string][]string
	SkippedFiles    int
	GraphFromCache  bool
	Fingerprint     string
}

func New(root string, cfg *config.Config) *Engine {
	classifier := classify.NewClassifier(cfg)

	var rc *cache.ResultCache
	if !cfg.Cache.Disabled {
		rc = cache.New(cfg.CachePath(root))
	}

	limiter := util.NewLimiter(cfg.Git.RateLimit, cfg.Git.Burst)
	provider := history.NewProvider(root, cfg.Git.Timeout, limiter)

	return &Engine{
		root:       root,
		cfg:        cfg,
		classifier: classifier,
		builder:    builder.New(cfg, classifier, rc),
		git:        smell.NewGitDetectors(provider, rc, cfg, root, cfg.Workers),
	}
}

// Analyze classifies the inventory, builds the dependency graph, and runs
// every detector. An empty inventory yields an empty report, not an error.
func (e *Engine) Analyze(ctx context.Context, inv *scan.Inventory) (*Report, error) {
	classifications := make(map[string][]string, len(inv.AllFiles))
	for _, file := range inv.AllFiles {
		classifications[file] = e.classifier.Classify(file)
	}

	build, err := e.builder.Build(ctx, inv.ScriptFiles, e.root)
	if err != nil {
		return nil, err
	}

	fileSet := make(map[string]bool, len(inv.AllFiles))
	for _, f := range inv.AllFiles {
		fileSet[f] = true
	}
	var sources []string
	for _, f := range inv.ScriptFiles {
		if e.classifier.IsSource(f) {
			sources = append(sources, f)
		}
	}

	findings := make([]smell.Finding, 0)
	collect := func(name string, fn func() []smell.Finding) {
		start := time.Now()
		found := fn()
		observability.DetectorDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		for _, f := range found {
			observability.FindingsTotal.WithLabelValues(string(f.Type)).Inc()
		}
		if len(found) > 0 {
			slog.Debug("detector finished", "detector", name, "findings", len(found))
		}
		findings = append(findings, found...)
	}

	g := build.Graph
	collect("circular", func() []smell.Finding { return smell.DetectCircular(g) })
	collect("boundary", func() []smell.Finding { return smell.DetectBoundaryViolations(g, e.cfg) })
	collect("entanglement", func() []smell.Finding { return smell.DetectEntanglement(g, e.cfg) })
	collect("blast_radius", func() []smell.Finding { return smell.DetectBlastRadius(g, e.cfg) })
	collect("monolithic", func() []smell.Finding { return smell.DetectMonolithic(classifications, e.cfg) })
	collect("ghost_file", func() []smell.Finding { return smell.DetectGhostFiles(sources, fileSet, e.cfg) })
	collect("stale_logic", func() []smell.Finding { return e.git.DetectStaleLogic(ctx, sources) })
	collect("high_churn", func() []smell.Finding { return e.git.DetectHighChurn(ctx, sources) })
	collect("stale_tests", func() []smell.Finding { return e.git.DetectStaleTests(ctx, sources, fileSet) })

	smell.SortFindings(findings)

	return &Report{
		Findings:        findings,
		Graph:           g,
		Classifications: classifications,
		SkippedFiles:    build.SkippedFiles,
		GraphFromCache:  build.FromCache,
		Fingerprint:     build.Fingerprint,
	}, nil
}
