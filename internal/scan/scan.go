// # internal/scan/scan.go
// Package scan walks a project tree once and produces the file inventory the
// analysis engine consumes. Ignore filtering (gitignore plus configured
// excludes) happens here so the core packages never touch the filesystem
// beyond reading file contents they are handed.
package scan

import (
	"bufio"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"archlens/internal/config"
)

// Inventory is the result of a single filesystem walk.
type Inventory struct {
	AllFiles          []string
	SourceDirectories []string
	ScriptFiles       []string
}

// FindProjectRoot ascends from start until a directory containing one of the
// workspace markers is found. Returns false when no marker exists anywhere up
// to the filesystem root.
func FindProjectRoot(start string, markers []string) (string, bool) {
	current, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	if info, err := os.Stat(current); err == nil && !info.IsDir() {
		current = filepath.Dir(current)
	}
	for {
		for _, marker := range markers {
			if _, err := os.Stat(filepath.Join(current, marker)); err == nil {
				return current, true
			}
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

// Scanner walks one project root with a fixed exclusion set.
type Scanner struct {
	root        string
	cfg         *config.Config
	excludeDirs map[string]bool
	patterns    []glob.Glob
	scriptExts  map[string]bool
}

func NewScanner(root string, cfg *config.Config) *Scanner {
	s := &Scanner{
		root:        root,
		cfg:         cfg,
		excludeDirs: make(map[string]bool, len(cfg.ExcludeDirs)),
		scriptExts:  make(map[string]bool, len(cfg.ScriptExtensions)),
	}
	for _, d := range cfg.ExcludeDirs {
		s.excludeDirs[d] = true
	}
	for _, ext := range cfg.ScriptExtensions {
		s.scriptExts[strings.ToLower(ext)] = true
	}

	patterns := append(readGitignore(root), cfg.ExcludePatterns...)
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			slog.Warn("skipping invalid exclude pattern", "pattern", p, "error", err)
			continue
		}
		s.patterns = append(s.patterns, g)
	}
	return s
}

// Scan performs the walk. Excluded directories are pruned so their contents
// are never visited; unreadable entries are skipped with a warning rather
// than aborting the whole walk.
func (s *Scanner) Scan() (*Inventory, error) {
	inv := &Inventory{}
	sourceDirs := make(map[string]bool, len(s.cfg.SourceDirs))
	for _, d := range s.cfg.SourceDirs {
		sourceDirs[d] = true
	}

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("scan error, skipping entry", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		base := filepath.Base(path)
		if d.IsDir() {
			if path == s.root {
				return nil
			}
			if s.excludeDirs[base] || s.ignored(path) {
				return filepath.SkipDir
			}
			if sourceDirs[base] {
				inv.SourceDirectories = append(inv.SourceDirectories, path)
			}
			return nil
		}

		if s.ignored(path) {
			return nil
		}

		inv.AllFiles = append(inv.AllFiles, path)
		if s.scriptExts[strings.ToLower(filepath.Ext(path))] {
			inv.ScriptFiles = append(inv.ScriptFiles, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(inv.AllFiles)
	sort.Strings(inv.SourceDirectories)
	sort.Strings(inv.ScriptFiles)
	return inv, nil
}

func (s *Scanner) ignored(path string) bool {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return true
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)
	for _, g := range s.patterns {
		if g.Match(rel) || g.Match(base) {
			return true
		}
	}
	return false
}

// readGitignore returns the non-comment pattern lines of <root>/.gitignore.
// A missing or unreadable file yields no patterns. Trailing slashes on
// directory patterns are trimmed so they match the directory name itself.
func readGitignore(root string) []string {
	f, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	defer f.Close()

	var patterns []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSuffix(line, "/")
		line = strings.TrimPrefix(line, "/")
		patterns = append(patterns, line)
	}
	return patterns
}
