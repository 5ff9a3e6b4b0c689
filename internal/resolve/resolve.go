package resolve

import (
	"os"
	"path/filepath"
	"strings"
)

// Resolver maps extracted import tokens to concrete in-project file paths.
// It is root-agnostic: callers decide whether a resolved path belongs to the
// analyzed file set. Resolution never errors; any failure is "no match".
type Resolver struct {
	sourceRoots []string
	scriptExts  []string
}

// NewResolver builds a resolver over the configured source roots (absolute
// paths, probed in configuration order) and script extensions.
func NewResolver(sourceRoots, scriptExts []string) *Resolver {
	return &Resolver{
		sourceRoots: append([]string(nil), sourceRoots...),
		scriptExts:  append([]string(nil), scriptExts...),
	}
}

// Resolve turns token, as written in fromFile, into a candidate file path.
// Relative tokens (leading dots) resolve against fromFile's directory;
// everything else is probed beneath each source root. First match wins.
func (r *Resolver) Resolve(token, fromFile string) (string, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}

	if strings.HasPrefix(token, ".") {
		return r.resolveRelative(token, fromFile)
	}
	return r.resolveFromRoots(token)
}

// resolveRelative handles Python-style "from ..pkg import x" and JS-style
// "./sibling" forms. The number of leading dots selects how many parent
// directories to ascend from the declaring file's directory.
func (r *Resolver) resolveRelative(token, fromFile string) (string, bool) {
	// JS relative specifiers are already path-shaped.
	if strings.HasPrefix(token, "./") || strings.HasPrefix(token, "../") {
		candidate := filepath.Join(filepath.Dir(fromFile), filepath.FromSlash(token))
		return r.probe(candidate)
	}

	level := 0
	for level < len(token) && token[level] == '.' {
		level++
	}
	remainder := token[level:]

	base := filepath.Dir(fromFile)
	for i := 0; i < level-1; i++ {
		base = filepath.Dir(base)
	}

	if remainder == "" {
		return r.probe(base)
	}
	return r.probe(filepath.Join(base, dotsToPath(remainder)))
}

func (r *Resolver) resolveFromRoots(token string) (string, bool) {
	rel := dotsToPath(token)
	for _, root := range r.sourceRoots {
		if resolved, ok := r.probe(filepath.Join(root, rel)); ok {
			return resolved, true
		}
	}
	return "", false
}

// probe checks <path><ext> for each script extension, then the package-marker
// fallback <path>/__init__<ext> for directory imports.
func (r *Resolver) probe(path string) (string, bool) {
	for _, ext := range r.scriptExts {
		candidate := path + ext
		if isFile(candidate) {
			return candidate, true
		}
	}
	for _, ext := range r.scriptExts {
		marker := filepath.Join(path, "__init__"+ext)
		if isFile(marker) {
			return marker, true
		}
	}
	// JS specifiers often carry the extension already.
	if filepath.Ext(path) != "" && isFile(path) {
		return path, true
	}
	return "", false
}

func dotsToPath(token string) string {
	// Python module paths use dots; JS bare specifiers use slashes. A token
	// containing a slash is treated as path-shaped as-is.
	if strings.ContainsRune(token, '/') {
		return filepath.FromSlash(token)
	}
	return filepath.FromSlash(strings.ReplaceAll(token, ".", "/"))
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
