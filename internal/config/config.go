package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds every tunable the analysis engine recognises. All fields have
// working defaults; a missing config file yields DefaultConfig(), not an error.
type Config struct {
	Version int `toml:"version"`

	SourceDirs       StringList `toml:"source_dirs"`
	ExcludeDirs      StringList `toml:"exclude_dirs"`
	ExcludePatterns  StringList `toml:"exclude_patterns"`
	WorkspaceMarkers StringList `toml:"workspace_markers"`
	ScriptExtensions StringList `toml:"script_extensions"`

	SourceFilePatterns        StringList `toml:"source_file_patterns"`
	TestFilePatterns          StringList `toml:"test_file_patterns"`
	DocumentationFilePatterns StringList `toml:"documentation_file_patterns"`
	ConfigFilePatterns        StringList `toml:"config_file_patterns"`
	IgnoreFilePatterns        StringList `toml:"ignore_file_patterns"`
	ProjectLifecyclePatterns  StringList `toml:"project_lifecycle_patterns"`

	ArchitectureRules []ArchitectureRule `toml:"architecture_rules"`
	FeaturesPath      string             `toml:"features_path"`

	BlastRadiusThreshold int        `toml:"blast_radius_threshold"`
	UtilityPatterns      StringList `toml:"utility_patterns"`
	UntestablePatterns   StringList `toml:"untestable_patterns"`

	StaleLogicThresholdDays        int     `toml:"stale_logic_threshold_days"`
	HighChurnDays                  int     `toml:"high_churn_days"`
	HighChurnThreshold             int     `toml:"high_churn_threshold"`
	MonolithicSourceRatioThreshold float64 `toml:"monolithic_source_ratio_threshold"`

	Cache    Cache    `toml:"cache"`
	Git      Git      `toml:"git"`
	Snapshot Snapshot `toml:"snapshot"`
	Watch    Watch    `toml:"watch"`
	Workers  int      `toml:"workers"`
}

// ArchitectureRule declares a layer and the layers that must never import it.
type ArchitectureRule struct {
	Layer              string     `toml:"layer"`
	Path               string     `toml:"path"`
	CannotBeImportedBy StringList `toml:"cannot_be_imported_by"`
}

type Cache struct {
	Dir         string        `toml:"dir"`
	GraphTTL    time.Duration `toml:"graph_ttl"`
	DetectorTTL time.Duration `toml:"detector_ttl"`
	Disabled    bool          `toml:"disabled"`
	FileName    string        `toml:"file_name"`
}

type Git struct {
	Timeout   time.Duration `toml:"timeout"`
	RateLimit float64       `toml:"rate_limit"`
	Burst     int           `toml:"burst"`
}

type Snapshot struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

// StringList decodes a TOML array of strings but coerces any malformed value
// (wrong element type, scalar instead of array) to an empty list instead of
// failing the whole load. Classification degrading to fewer matches is safer
// than refusing to run.
type StringList []string

func (l *StringList) UnmarshalTOML(v any) error {
	*l = coerceStringList(v)
	return nil
}

func coerceStringList(v any) []string {
	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil
			}
			out = append(out, s)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	default:
		return nil
	}
}

// Load reads the TOML config at path. A missing file is not an error: the
// defaults are returned so the engine always has a complete configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DefaultConfig returns the full default configuration.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if len(cfg.SourceDirs) == 0 {
		cfg.SourceDirs = []string{"src", "app", "main"}
	}
	if len(cfg.ExcludeDirs) == 0 {
		cfg.ExcludeDirs = []string{
			"node_modules", ".git", ".vscode", ".idea", "dist", "coverage",
			"venv", ".venv", "__pycache__", "build", "target",
		}
	}
	if len(cfg.WorkspaceMarkers) == 0 {
		cfg.WorkspaceMarkers = []string{
			".git", "pyproject.toml", "requirements.txt", "package.json",
			"pom.xml", "build.gradle", "Makefile", "go.mod", "README.md",
		}
	}
	if len(cfg.ScriptExtensions) == 0 {
		cfg.ScriptExtensions = []string{
			".py", ".js", ".ts", ".tsx", ".jsx", ".go", ".rs", ".java",
			".rb", ".php", ".c", ".cpp", ".h", ".cs", ".swift", ".kt",
		}
	}

	if len(cfg.SourceFilePatterns) == 0 {
		cfg.SourceFilePatterns = []string{
			"*.py", "*.js", "*.ts", "*.java", "*.go", "*.cs", "*.rb", "*.php",
			"*.c", "*.cpp", "*.h", "*.hpp", "*.swift", "*.kt", "*.dart",
		}
	}
	if len(cfg.TestFilePatterns) == 0 {
		cfg.TestFilePatterns = []string{
			"test_*.py", "*_test.py", "*_test.go", "*.spec.js", "*.test.js",
			"*.spec.ts", "*.test.ts", "*Test.java", "*Tests.cs",
		}
	}
	if len(cfg.DocumentationFilePatterns) == 0 {
		cfg.DocumentationFilePatterns = []string{"*.md", "*.txt", "README*", "LICENSE*", "CONTRIBUTING*"}
	}
	if len(cfg.ConfigFilePatterns) == 0 {
		cfg.ConfigFilePatterns = []string{
			"*.json", "*.yaml", "*.yml", "*.xml", "*.ini", "*.toml", "*.cfg",
			".env", "env.*", "settings.py",
		}
	}
	if len(cfg.ProjectLifecyclePatterns) == 0 {
		cfg.ProjectLifecyclePatterns = []string{
			".gitignore", "setup.py", "requirements.txt", "Dockerfile",
			"docker-compose.yml", "package.json", "webpack.config.js", "go.mod",
		}
	}

	if strings.TrimSpace(cfg.FeaturesPath) == "" {
		cfg.FeaturesPath = "src/features/"
	}

	if cfg.BlastRadiusThreshold <= 0 {
		cfg.BlastRadiusThreshold = 10
	}
	if cfg.StaleLogicThresholdDays <= 0 {
		cfg.StaleLogicThresholdDays = 365
	}
	if cfg.HighChurnDays <= 0 {
		cfg.HighChurnDays = 30
	}
	if cfg.HighChurnThreshold <= 0 {
		cfg.HighChurnThreshold = 10
	}
	if cfg.MonolithicSourceRatioThreshold <= 0 {
		cfg.MonolithicSourceRatioThreshold = 0.8
	}

	if strings.TrimSpace(cfg.Cache.Dir) == "" {
		cfg.Cache.Dir = ".archlens"
	}
	if strings.TrimSpace(cfg.Cache.FileName) == "" {
		cfg.Cache.FileName = "cache.json"
	}
	if cfg.Cache.GraphTTL <= 0 {
		cfg.Cache.GraphTTL = time.Hour
	}
	if cfg.Cache.DetectorTTL <= 0 {
		cfg.Cache.DetectorTTL = 24 * time.Hour
	}

	if cfg.Git.Timeout <= 0 {
		cfg.Git.Timeout = 10 * time.Second
	}
	if cfg.Git.RateLimit <= 0 {
		cfg.Git.RateLimit = 200
	}
	if cfg.Git.Burst <= 0 {
		cfg.Git.Burst = 20
	}

	if strings.TrimSpace(cfg.Snapshot.Path) == "" {
		cfg.Snapshot.Path = "snapshots.db"
	}

	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}
}

func validate(cfg *Config) error {
	if cfg.Version < 1 {
		return fmt.Errorf("version must be >= 1, got %d", cfg.Version)
	}

	seen := make(map[string]bool, len(cfg.ArchitectureRules))
	for i, rule := range cfg.ArchitectureRules {
		ref := fmt.Sprintf("architecture_rules[%d]", i)
		if strings.TrimSpace(rule.Layer) == "" {
			return fmt.Errorf("%s.layer must not be empty", ref)
		}
		if strings.TrimSpace(rule.Path) == "" {
			return fmt.Errorf("%s.path must not be empty", ref)
		}
		if seen[rule.Layer] {
			return fmt.Errorf("duplicate architecture layer %q", rule.Layer)
		}
		seen[rule.Layer] = true
	}

	if cfg.MonolithicSourceRatioThreshold > 1 {
		return fmt.Errorf("monolithic_source_ratio_threshold must be <= 1, got %v", cfg.MonolithicSourceRatioThreshold)
	}

	return nil
}

// CachePath returns the on-disk location of the result cache for a project.
// A relative cache dir is anchored at the project root.
func (c *Config) CachePath(projectRoot string) string {
	dir := c.Cache.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(projectRoot, dir)
	}
	return filepath.Join(dir, c.Cache.FileName)
}

// SnapshotPath returns the on-disk location of the trend snapshot store.
// A relative path is anchored inside the project's cache dir.
func (c *Config) SnapshotPath(projectRoot string) string {
	if filepath.IsAbs(c.Snapshot.Path) {
		return c.Snapshot.Path
	}
	dir := c.Cache.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(projectRoot, dir)
	}
	return filepath.Join(dir, c.Snapshot.Path)
}

// LayerPath returns the path substring configured for the named layer, or "".
func (c *Config) LayerPath(layer string) string {
	for _, rule := range c.ArchitectureRules {
		if rule.Layer == layer {
			return rule.Path
		}
	}
	return ""
}
