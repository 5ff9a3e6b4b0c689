// # internal/builder/builder.go
package builder

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"archlens/internal/cache"
	"archlens/internal/classify"
	"archlens/internal/config"
	"archlens/internal/extract"
	"archlens/internal/graph"
	"archlens/internal/resolve"
	"archlens/internal/shared/observability"
)

const graphCacheDomain = "dependency_graph"

// Builder orchestrates extraction and resolution over a file set to populate
// a dependency graph, reusing a cached graph when the project fingerprint is
// unchanged.
type Builder struct {
	cfg        *config.Config
	classifier *classify.Classifier
	extractor  *extract.Registry
	cache      *cache.ResultCache
	workers    int
}

// Result carries the built graph plus build-side diagnostics.
type Result struct {
	Graph        *graph.Graph
	SkippedFiles int
	FromCache    bool
	Fingerprint  string
}

type cachedGraph struct {
	Edges     map[string][]string `json:"edges"`
	Timestamp int64               `json:"timestamp"`
}

func New(cfg *config.Config, classifier *classify.Classifier, rc *cache.ResultCache) *Builder {
	return &Builder{
		cfg:        cfg,
		classifier: classifier,
		extractor:  extract.NewRegistry(),
		cache:      rc,
		workers:    cfg.Workers,
	}
}

// Build produces the dependency graph for files under projectRoot. Edges are
// added only between members of the input file set; imports resolving outside
// it are dropped. Unreadable files are skipped with a warning, never fatal.
func (b *Builder) Build(ctx context.Context, files []string, projectRoot string) (*Result, error) {
	fingerprint := cache.Fingerprint(files)
	key := cache.Key(graphCacheDomain, fingerprint)

	if b.cache != nil && !b.cfg.Cache.Disabled {
		var cached cachedGraph
		if b.cache.Get(key, b.cfg.Cache.GraphTTL, &cached) {
			slog.Debug("dependency graph loaded from cache", "fingerprint", fingerprint)
			return &Result{
				Graph:       graph.FromEdges(cached.Edges),
				FromCache:   true,
				Fingerprint: fingerprint,
			}, nil
		}
	}

	start := time.Now()
	g := graph.NewGraph()
	resolver := resolve.NewResolver(b.sourceRoots(projectRoot), b.cfg.ScriptExtensions)

	members := make(map[string]bool, len(files))
	for _, f := range files {
		members[f] = true
	}

	var skipped atomic.Int64

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(b.workers)

	for _, file := range files {
		if !b.classifier.IsSource(file) {
			continue
		}
		file := file
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			content, err := os.ReadFile(file)
			if err != nil {
				slog.Warn("skipping unreadable file", "path", file, "error", err)
				skipped.Add(1)
				return nil
			}

			ext := strings.ToLower(filepath.Ext(file))
			for _, token := range b.extractor.Extract(string(content), ext) {
				resolved, ok := resolver.Resolve(token, file)
				if !ok {
					continue
				}
				// Imports to files outside the analyzed set are
				// ignored, not partially recorded.
				if !members[resolved] {
					continue
				}
				g.AddDependency(file, resolved)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	stats := g.Stats()
	observability.GraphNodes.Set(float64(stats.Nodes))
	observability.GraphEdges.Set(float64(stats.Edges))
	observability.BuildDuration.Observe(time.Since(start).Seconds())

	if b.cache != nil && !b.cfg.Cache.Disabled {
		b.cache.Put(key, cachedGraph{Edges: g.Edges(), Timestamp: time.Now().Unix()})
	}

	return &Result{
		Graph:        g,
		SkippedFiles: int(skipped.Load()),
		Fingerprint:  fingerprint,
	}, nil
}

// sourceRoots returns the configured source directories as absolute paths,
// keeping configuration order, plus the project root itself as the final
// fallback root.
func (b *Builder) sourceRoots(projectRoot string) []string {
	roots := make([]string, 0, len(b.cfg.SourceDirs)+1)
	for _, dir := range b.cfg.SourceDirs {
		if filepath.IsAbs(dir) {
			roots = append(roots, dir)
			continue
		}
		roots = append(roots, filepath.Join(projectRoot, dir))
	}
	roots = append(roots, projectRoot)
	return roots
}
