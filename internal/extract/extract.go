package extract

import (
	"sort"
	"strings"
)

// Strategy extracts the literal import/require tokens from file content for
// one language family. Implementations are regex-driven and best-effort: they
// may over- or under-match inside strings and comments, and never error.
type Strategy interface {
	Extract(content string) []string
}

// Registry maps a file extension to the extraction strategy for its language.
// Adding a language means registering a strategy, not branching inside one.
type Registry struct {
	strategies map[string]Strategy
}

func NewRegistry() *Registry {
	r := &Registry{strategies: make(map[string]Strategy)}

	python := &pythonStrategy{}
	for _, ext := range []string{".py"} {
		r.Register(ext, python)
	}

	js := &javascriptStrategy{}
	for _, ext := range []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"} {
		r.Register(ext, js)
	}

	return r
}

func (r *Registry) Register(ext string, s Strategy) {
	r.strategies[strings.ToLower(ext)] = s
}

// Extract returns the de-duplicated, sorted import tokens found in content.
// Unsupported extensions yield an empty result, never an error.
func (r *Registry) Extract(content, ext string) []string {
	s, ok := r.strategies[strings.ToLower(ext)]
	if !ok {
		return nil
	}

	tokens := s.Extract(content)
	if len(tokens) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// Supported reports whether an extraction strategy exists for ext.
func (r *Registry) Supported(ext string) bool {
	_, ok := r.strategies[strings.ToLower(ext)]
	return ok
}
