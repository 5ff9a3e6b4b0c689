// # internal/builder/builder_test.go
package builder

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"archlens/internal/cache"
	"archlens/internal/classify"
	"archlens/internal/config"
)

func writeProject(t *testing.T) (string, []string) {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"src/a.py":     "from b import thing\n",
		"src/b.py":     "import c\n",
		"src/c.py":     "import a\n",
		"src/alone.py": "import os\n",
	}
	var paths []string
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}
	return root, paths
}

func newBuilder(cfg *config.Config, rc *cache.ResultCache) *Builder {
	return New(cfg, classify.NewClassifier(cfg), rc)
}

func TestBuild_CycleGraph(t *testing.T) {
	root, files := writeProject(t)
	cfg := config.DefaultConfig()
	cfg.Cache.Disabled = true

	result, err := newBuilder(cfg, nil).Build(context.Background(), files, root)
	if err != nil {
		t.Fatal(err)
	}

	cycles := result.Graph.FindCycles()
	if len(cycles) != 1 {
		t.Fatalf("expected the a->b->c cycle, got %v", cycles)
	}
	if len(cycles[0]) != 3 {
		t.Errorf("cycle = %v", cycles[0])
	}

	// Imports outside the analyzed set (os) must not create nodes.
	for _, f := range result.Graph.Files() {
		if filepath.Base(f) == "os.py" {
			t.Errorf("external import materialized as node: %v", result.Graph.Files())
		}
	}
}

func TestBuild_CacheReuse(t *testing.T) {
	root, files := writeProject(t)
	cfg := config.DefaultConfig()
	rc := cache.New(filepath.Join(t.TempDir(), "cache.json"))
	b := newBuilder(cfg, rc)
	ctx := context.Background()

	first, err := b.Build(ctx, files, root)
	if err != nil {
		t.Fatal(err)
	}
	if first.FromCache {
		t.Error("first build must not come from cache")
	}

	second, err := b.Build(ctx, files, root)
	if err != nil {
		t.Fatal(err)
	}
	if !second.FromCache {
		t.Error("unchanged project must hit the graph cache")
	}
	if second.Fingerprint != first.Fingerprint {
		t.Errorf("fingerprints diverged: %s vs %s", first.Fingerprint, second.Fingerprint)
	}

	firstEdges := first.Graph.Edges()
	secondEdges := second.Graph.Edges()
	if len(firstEdges) != len(secondEdges) {
		t.Errorf("cached graph differs: %v vs %v", firstEdges, secondEdges)
	}
}

func TestBuild_FingerprintInvalidation(t *testing.T) {
	root, files := writeProject(t)
	cfg := config.DefaultConfig()
	rc := cache.New(filepath.Join(t.TempDir(), "cache.json"))
	b := newBuilder(cfg, rc)
	ctx := context.Background()

	if _, err := b.Build(ctx, files, root); err != nil {
		t.Fatal(err)
	}

	// Grow a file so size (and thus the fingerprint) changes.
	target := filepath.Join(root, "src", "a.py")
	if err := os.WriteFile(target, []byte("from b import thing\nimport c\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rebuilt, err := b.Build(ctx, files, root)
	if err != nil {
		t.Fatal(err)
	}
	if rebuilt.FromCache {
		t.Error("changed project must rebuild, not reuse the cache")
	}
}

func TestBuild_EmptyFileSet(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Cache.Disabled = true

	result, err := newBuilder(cfg, nil).Build(context.Background(), nil, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if stats := result.Graph.Stats(); stats.Nodes != 0 || stats.Edges != 0 {
		t.Errorf("empty input produced %+v", stats)
	}
}

func TestBuild_UnreadableFileSkipped(t *testing.T) {
	root, files := writeProject(t)
	cfg := config.DefaultConfig()
	cfg.Cache.Disabled = true

	files = append(files, filepath.Join(root, "src", "missing.py"))

	result, err := newBuilder(cfg, nil).Build(context.Background(), files, root)
	if err != nil {
		t.Fatalf("unreadable file must not fail the build: %v", err)
	}
	if result.SkippedFiles != 1 {
		t.Errorf("SkippedFiles = %d, want 1", result.SkippedFiles)
	}
}
