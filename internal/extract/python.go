package extract

import (
	"regexp"
	"strings"
)

// Python-family import patterns. Line-oriented regex matching, not a parser:
// a commented-out import will still match (documented limitation).
var (
	pythonFromRe   = regexp.MustCompile(`(?m)^\s*from\s+(\S+)\s+import\b`)
	pythonImportRe = regexp.MustCompile(`(?m)^\s*import\s+(.+)$`)
)

type pythonStrategy struct{}

func (pythonStrategy) Extract(content string) []string {
	var tokens []string

	for _, m := range pythonFromRe.FindAllStringSubmatch(content, -1) {
		tokens = append(tokens, m[1])
	}

	// "import a, b as c" declares several modules on one line.
	for _, m := range pythonImportRe.FindAllStringSubmatch(content, -1) {
		for _, part := range strings.Split(m[1], ",") {
			part = strings.TrimSpace(part)
			if part == "" || strings.HasPrefix(part, "#") {
				continue
			}
			if idx := strings.Index(part, " as "); idx >= 0 {
				part = part[:idx]
			}
			if idx := strings.IndexAny(part, " \t#"); idx >= 0 {
				part = part[:idx]
			}
			if part != "" {
				tokens = append(tokens, part)
			}
		}
	}

	return tokens
}
