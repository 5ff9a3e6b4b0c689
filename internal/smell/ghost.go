package smell

import (
	"fmt"
	"path/filepath"
	"strings"

	"archlens/internal/config"
)

// DetectGhostFiles flags source files inside the configured source roots that
// have no corresponding test file by naming convention. Files matching an
// untestable pattern (entry points, generated code, migrations) are skipped.
func DetectGhostFiles(sources []string, fileSet map[string]bool, cfg *config.Config) []Finding {
	untestable := compileGlobs(cfg.UntestablePatterns)

	var findings []Finding
	for _, file := range sources {
		if looksLikeTest(file) {
			continue
		}
		if !underSourceRoot(file, cfg.SourceDirs) {
			continue
		}
		if matchesAny(untestable, file) {
			continue
		}
		if _, ok := FindCorrespondingTest(file, fileSet, cfg); ok {
			continue
		}
		findings = append(findings, newFinding(
			TypeGhostFile,
			file,
			fmt.Sprintf("No test file found for %s", filepath.Base(file)),
			SeverityMedium,
			CategoryTesting,
		))
	}
	return findings
}

var testDirSegments = map[string]bool{
	"test": true, "tests": true, "__tests__": true, "spec": true, "specs": true,
}

// looksLikeTest filters test files out of the ghost candidates. A test file
// not having its own test is not a smell. The check is segment-aware so an
// unrelated parent directory name does not misfire.
func looksLikeTest(path string) bool {
	segs := strings.Split(strings.ToLower(filepath.ToSlash(path)), "/")
	for _, seg := range segs[:len(segs)-1] {
		if testDirSegments[seg] {
			return true
		}
	}
	base := segs[len(segs)-1]
	return strings.Contains(base, "test") || strings.Contains(base, "spec")
}

func underSourceRoot(path string, roots []string) bool {
	if len(roots) == 0 {
		return true
	}
	segs := strings.Split(filepath.ToSlash(path), "/")
	for _, root := range roots {
		for _, seg := range segs {
			if seg == root {
				return true
			}
		}
	}
	return false
}
