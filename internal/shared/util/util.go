package util

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// NormalizePatternPath cleans and normalizes paths for matcher/pattern usage.
func NormalizePatternPath(s string) string {
	trimmed := strings.TrimSpace(strings.ReplaceAll(s, "\\", "/"))
	clean := path.Clean(trimmed)
	if clean == "." {
		return ""
	}
	return strings.TrimPrefix(clean, "./")
}

// PathContains reports whether the normalized path contains the normalized
// fragment as a segment-aligned substring. Layer rules and feature roots are
// configured as path fragments ("domain/", "src/features/"), which may match
// anywhere inside a file's path, not only at the start.
func PathContains(p, fragment string) bool {
	p = NormalizePatternPath(p)
	fragment = NormalizePatternPath(fragment)
	if fragment == "" {
		return false
	}
	if p == fragment || strings.HasPrefix(p, fragment+"/") {
		return true
	}
	return strings.Contains(p, "/"+fragment+"/") || strings.HasSuffix(p, "/"+fragment)
}

// SortedStringKeys returns the map's keys in sorted order.
func SortedStringKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Stem returns the basename without its extension.
func Stem(p string) string {
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// WriteFileWithDirs creates parent directories (0755) and writes the file with perm.
func WriteFileWithDirs(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, perm)
}
