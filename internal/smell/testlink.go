package smell

import (
	"path/filepath"
	"strings"

	"archlens/internal/config"
	"archlens/internal/shared/util"
)

var testDirNames = []string{"test", "tests", "__tests__"}

// testExts covers the naming-convention probe; the project's own script
// extensions are the authoritative set, these are fallbacks for mixed trees.
var testExts = []string{".py", ".js", ".ts", ".jsx", ".tsx", ".go", ".java"}

// FindCorrespondingTest searches the analyzed file set for a test file
// matching source by naming convention: prefix "test_", suffixes "_test",
// ".test", ".spec", or the same basename, located either in the source file's
// own directory or in a parallel test/tests/__tests__ directory mirroring the
// source-root-relative path.
func FindCorrespondingTest(source string, fileSet map[string]bool, cfg *config.Config) (string, bool) {
	stem := util.Stem(source)
	dir := filepath.Dir(source)

	exts := cfg.ScriptExtensions
	if len(exts) == 0 {
		exts = testExts
	}

	names := candidateTestNames(stem, exts)

	// Same directory first.
	for _, name := range names {
		candidate := filepath.Join(dir, name)
		if candidate != source && fileSet[candidate] {
			return candidate, true
		}
	}

	// Parallel test directory mirroring the source-root-relative path:
	// <prefix>/src/pkg/file.py -> <prefix>/tests/pkg/test_file.py.
	parts := strings.Split(filepath.ToSlash(source), "/")
	rootIdx := -1
	for i, part := range parts {
		for _, srcDir := range cfg.SourceDirs {
			if part == srcDir {
				rootIdx = i
			}
		}
		if rootIdx >= 0 {
			break
		}
	}
	if rootIdx < 0 {
		return "", false
	}

	prefix := parts[:rootIdx]
	relParent := parts[rootIdx+1 : len(parts)-1]

	for _, testDir := range testDirNames {
		base := append(append([]string(nil), prefix...), testDir)
		base = append(base, relParent...)
		for _, name := range names {
			// Join on "/" keeps the leading slash of absolute paths,
			// which filepath.Join would drop with the empty first part.
			candidate := filepath.FromSlash(strings.Join(append(base, name), "/"))
			if fileSet[candidate] {
				return candidate, true
			}
		}
	}

	return "", false
}

func candidateTestNames(stem string, exts []string) []string {
	stems := []string{
		"test_" + stem,
		stem + "_test",
		stem + ".test",
		stem + ".spec",
		stem,
	}
	names := make([]string, 0, len(stems)*len(exts))
	for _, s := range stems {
		for _, ext := range exts {
			names = append(names, s+ext)
		}
	}
	return names
}
