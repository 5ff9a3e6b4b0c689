package classify

import (
	"reflect"
	"testing"

	"archlens/internal/config"
)

func defaultClassifier() *Classifier {
	return NewClassifier(config.DefaultConfig())
}

func TestClassify_TestFileWins(t *testing.T) {
	c := defaultClassifier()

	tags := c.Classify("src/test_helpers.py")
	if !contains(tags, TagTest) {
		t.Errorf("test_helpers.py missing test tag: %v", tags)
	}
}

func TestClassify_TestOnlyExtensionStaysTest(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SourceFilePatterns = []string{"*.nomatch"}
	c := NewClassifier(cfg)

	// With no source pattern matching, language inference must not promote a
	// test file to source.
	tags := c.Classify("tests/test_app.py")
	if !contains(tags, TagTest) {
		t.Fatalf("missing test tag: %v", tags)
	}
	if contains(tags, TagSource) {
		t.Errorf("inference added source to a test-tagged file: %v", tags)
	}
}

func TestClassify_SourceFile(t *testing.T) {
	c := defaultClassifier()

	tags := c.Classify("src/utils/helpers.py")
	want := []string{"python", TagSource}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("Classify() = %v, want %v", tags, want)
	}
}

func TestClassify_ProjectLifecycle(t *testing.T) {
	c := defaultClassifier()

	tags := c.Classify("deep/nested/.gitignore")
	if !contains(tags, TagProjectLifecycle) {
		t.Errorf(".gitignore missing project_lifecycle tag: %v", tags)
	}
}

func TestClassify_DocumentationAndConfig(t *testing.T) {
	c := defaultClassifier()

	if tags := c.Classify("docs/README.md"); !contains(tags, TagDocumentation) {
		t.Errorf("README.md missing documentation tag: %v", tags)
	}
	if tags := c.Classify("config/settings.yaml"); !contains(tags, TagConfig) {
		t.Errorf("settings.yaml missing config tag: %v", tags)
	}
}

func TestClassify_MultiCategorySorted(t *testing.T) {
	c := defaultClassifier()

	// package.json matches both project_lifecycle and config patterns.
	tags := c.Classify("package.json")
	if !contains(tags, TagProjectLifecycle) || !contains(tags, TagConfig) {
		t.Fatalf("package.json should carry both tags: %v", tags)
	}
	sorted := append([]string(nil), tags...)
	copy(sorted, tags)
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1] > sorted[i] {
			t.Errorf("tags not sorted: %v", tags)
		}
	}
}

func TestClassify_LanguageInferenceOnly(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SourceFilePatterns = []string{"*.nomatch"}
	c := NewClassifier(cfg)

	// No source pattern matches, but the extension implies a language, which
	// implies source.
	tags := c.Classify("lib/engine.rb")
	if !contains(tags, "ruby") || !contains(tags, TagSource) {
		t.Errorf("expected language-inferred source, got %v", tags)
	}
}

func TestClassify_IgnoreShortCircuits(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.IgnoreFilePatterns = []string{"*.min.js"}
	c := NewClassifier(cfg)

	if tags := c.Classify("dist/app.min.js"); tags != nil {
		t.Errorf("ignored file must classify to nil, got %v", tags)
	}
}

func TestClassify_UnknownFile(t *testing.T) {
	c := defaultClassifier()

	if tags := c.Classify("assets/logo.png"); tags != nil {
		t.Errorf("unclassifiable file should yield nil, got %v", tags)
	}
}

func TestClassify_InvalidPatternDegrades(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TestFilePatterns = []string{"[invalid", "test_*.py"}
	c := NewClassifier(cfg)

	if !c.IsTest("test_app.py") {
		t.Error("valid pattern must survive an invalid sibling")
	}
}

func TestIsSourceIsTest(t *testing.T) {
	c := defaultClassifier()

	if !c.IsSource("src/main.py") {
		t.Error("main.py should be source")
	}
	if c.IsSource("README.md") {
		t.Error("README.md should not be source")
	}
	if !c.IsTest("tests/test_main.py") {
		t.Error("test_main.py should be test")
	}
}
