package classify

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"archlens/internal/config"
)

// Tags produced by the classifier. Language tags are derived from the
// extension and carry no configuration.
const (
	TagSource           = "source"
	TagTest             = "test"
	TagDocumentation    = "documentation"
	TagConfig           = "config"
	TagProjectLifecycle = "project_lifecycle"
)

var languageByExt = map[string]string{
	".py":    "python",
	".js":    "javascript_typescript",
	".jsx":   "javascript_typescript",
	".ts":    "javascript_typescript",
	".tsx":   "javascript_typescript",
	".go":    "go",
	".java":  "java",
	".c":     "c_cpp",
	".cpp":   "c_cpp",
	".h":     "c_cpp",
	".hpp":   "c_cpp",
	".cs":    "csharp",
	".rb":    "ruby",
	".php":   "php",
	".rs":    "rust",
	".swift": "swift",
	".kt":    "kotlin",
}

// Classifier labels file paths with category tags from configured glob
// patterns. It is a pure function of config + path: matching is case-sensitive
// and applies to the basename only, never the full path.
type Classifier struct {
	ignore           []glob.Glob
	projectLifecycle []glob.Glob
	documentation    []glob.Glob
	config           []glob.Glob
	test             []glob.Glob
	source           []glob.Glob
}

func NewClassifier(cfg *config.Config) *Classifier {
	return &Classifier{
		ignore:           compilePatterns(cfg.IgnoreFilePatterns),
		projectLifecycle: compilePatterns(cfg.ProjectLifecyclePatterns),
		documentation:    compilePatterns(cfg.DocumentationFilePatterns),
		config:           compilePatterns(cfg.ConfigFilePatterns),
		test:             compilePatterns(cfg.TestFilePatterns),
		source:           compilePatterns(cfg.SourceFilePatterns),
	}
}

// compilePatterns drops patterns that fail to compile: a bad pattern degrading
// to fewer matches is safer than refusing to classify anything.
func compilePatterns(patterns []string) []glob.Glob {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			continue
		}
		globs = append(globs, g)
	}
	return globs
}

// Classify returns the ordered, de-duplicated tag set for path. Ignored files
// return nil. Detection order is fixed: ignore > project_lifecycle >
// documentation > config > test > source > language inference.
func (c *Classifier) Classify(path string) []string {
	base := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(base))

	if matchAny(c.ignore, base) {
		return nil
	}

	var tags []string
	if matchAny(c.projectLifecycle, base) {
		tags = append(tags, TagProjectLifecycle)
	}
	if matchAny(c.documentation, base) {
		tags = append(tags, TagDocumentation)
	}
	if matchAny(c.config, base) {
		tags = append(tags, TagConfig)
	}
	if matchAny(c.test, base) {
		tags = append(tags, TagTest)
	}
	if matchAny(c.source, base) {
		tags = append(tags, TagSource)
	}

	if lang, ok := languageByExt[ext]; ok {
		tags = append(tags, lang)
		if !contains(tags, TagSource) && !contains(tags, TagTest) {
			tags = append(tags, TagSource)
		}
	}

	return dedupe(tags)
}

// IsSource reports whether path carries the source tag.
func (c *Classifier) IsSource(path string) bool {
	return contains(c.Classify(path), TagSource)
}

// IsTest reports whether path carries the test tag.
func (c *Classifier) IsTest(path string) bool {
	return contains(c.Classify(path), TagTest)
}

func matchAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func contains(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func dedupe(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
