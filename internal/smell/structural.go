// # internal/smell/structural.go
//
// Structural detectors: pure functions of the dependency graph, the file
// classifications, and configuration. No I/O, no git.
package smell

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"archlens/internal/config"
	"archlens/internal/graph"
	"archlens/internal/shared/util"
)

// DetectCircular emits one High finding per normalized dependency cycle.
func DetectCircular(g *graph.Graph) []Finding {
	var findings []Finding
	for _, cycle := range g.FindCycles() {
		names := make([]string, 0, len(cycle))
		for _, f := range cycle {
			names = append(names, filepath.Base(f))
		}
		f := newFinding(
			TypeCircularDependency,
			cycle[0],
			fmt.Sprintf("Circular dependency detected: %s. Break the dependency loop.", strings.Join(names, " → ")),
			SeverityHigh,
			CategoryArchitecture,
		)
		f.Files = cycle
		findings = append(findings, f)
	}
	return findings
}

// DetectBoundaryViolations checks configured layer rules: for every file
// under a layer's path, any importer whose path matches a forbidden layer's
// path is a violation.
func DetectBoundaryViolations(g *graph.Graph, cfg *config.Config) []Finding {
	var findings []Finding
	for _, rule := range cfg.ArchitectureRules {
		for _, layerFile := range g.Files() {
			if !util.PathContains(layerFile, rule.Path) {
				continue
			}
			for _, importer := range g.ImportedBy(layerFile) {
				for _, forbidden := range rule.CannotBeImportedBy {
					forbiddenPath := cfg.LayerPath(forbidden)
					if forbiddenPath == "" || !util.PathContains(importer, forbiddenPath) {
						continue
					}
					f := newFinding(
						TypeBoundaryViolation,
						importer,
						fmt.Sprintf("%q imports %q: the %s layer must not depend on the %s layer.",
							filepath.Base(importer), filepath.Base(layerFile), forbidden, rule.Layer),
						SeverityHigh,
						CategoryArchitecture,
					)
					f.Files = []string{importer, layerFile}
					findings = append(findings, f)
				}
			}
		}
	}
	return findings
}

// DetectEntanglement groups files by their first path segment beneath the
// configured features root and flags every cross-feature import edge.
func DetectEntanglement(g *graph.Graph, cfg *config.Config) []Finding {
	featureOf := make(map[string]string)
	for _, file := range g.Files() {
		if name, ok := featureName(file, cfg.FeaturesPath); ok {
			featureOf[file] = name
		}
	}

	var findings []Finding
	for _, file := range util.SortedStringKeys(featureOf) {
		from := featureOf[file]
		for _, imported := range g.Imports(file) {
			to, ok := featureOf[imported]
			if !ok || to == from {
				continue
			}
			f := newFinding(
				TypeEntanglement,
				file,
				fmt.Sprintf("The %q feature directly imports from the %q feature. Consider extracting shared logic into a common module.", from, to),
				SeverityMedium,
				CategoryArchitecture,
			)
			f.Files = []string{file, imported}
			findings = append(findings, f)
		}
	}
	return findings
}

// featureName returns the first path segment beneath featuresRoot.
func featureName(path, featuresRoot string) (string, bool) {
	normalized := util.NormalizePatternPath(path)
	root := util.NormalizePatternPath(featuresRoot)
	if root == "" {
		return "", false
	}

	idx := strings.Index(normalized, root+"/")
	if idx < 0 {
		return "", false
	}
	rest := normalized[idx+len(root)+1:]
	seg, _, _ := strings.Cut(rest, "/")
	if seg == "" {
		return "", false
	}
	return seg, true
}

// DetectBlastRadius flags files whose fan-in reaches the configured
// threshold. Utility files keep an informational Low severity; everything
// else is Medium, escalating to High at twice the threshold.
func DetectBlastRadius(g *graph.Graph, cfg *config.Config) []Finding {
	utility := compileGlobs(cfg.UtilityPatterns)

	var findings []Finding
	for _, file := range g.Files() {
		count := g.ImportCount(file)
		if count < cfg.BlastRadiusThreshold {
			continue
		}

		var f Finding
		if matchesAny(utility, file) {
			f = newFinding(
				TypeBlastRadius,
				file,
				fmt.Sprintf("Utility %q is imported by %d modules (as expected).", filepath.Base(file), count),
				SeverityLow,
				CategoryArchitecture,
			)
		} else {
			severity := SeverityMedium
			if count >= cfg.BlastRadiusThreshold*2 {
				severity = SeverityHigh
			}
			f = newFinding(
				TypeBlastRadius,
				file,
				fmt.Sprintf("Core file %q is imported by %d modules. Changes are high-risk.", filepath.Base(file), count),
				severity,
				CategoryArchitecture,
			)
		}
		f.Count = count
		findings = append(findings, f)
	}
	return findings
}

// DetectMonolithic flags a project where nearly every classified file is
// source code, a weak signal of a monolith with no test/config/doc structure.
func DetectMonolithic(classifications map[string][]string, cfg *config.Config) []Finding {
	total := len(classifications)
	if total == 0 {
		return nil
	}

	sources := 0
	for _, tags := range classifications {
		for _, t := range tags {
			if t == "source" {
				sources++
				break
			}
		}
	}

	ratio := float64(sources) / float64(total)
	if ratio <= cfg.MonolithicSourceRatioThreshold {
		return nil
	}

	return []Finding{newFinding(
		TypeMonolithicStructure,
		"",
		fmt.Sprintf("%.0f%% of classified files are source code. The project may lack test, config, and documentation structure.", ratio*100),
		SeverityLow,
		CategoryStructure,
	)}
}

func compileGlobs(patterns []string) []glob.Glob {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		if g, err := glob.Compile(p); err == nil {
			globs = append(globs, g)
		}
	}
	return globs
}

// matchesAny matches against both the basename and the slash-normalized path,
// so "utils/*" and "*_utils.py" both behave as expected.
func matchesAny(globs []glob.Glob, path string) bool {
	base := filepath.Base(path)
	normalized := util.NormalizePatternPath(path)
	for _, g := range globs {
		if g.Match(base) || g.Match(normalized) {
			return true
		}
	}
	return false
}

// SortFindings orders findings for stable output: severity descending, then
// type, then file.
func SortFindings(findings []Finding) {
	rank := map[Severity]int{SeverityHigh: 0, SeverityMedium: 1, SeverityLow: 2}
	sort.SliceStable(findings, func(i, j int) bool {
		if rank[findings[i].Severity] != rank[findings[j].Severity] {
			return rank[findings[i].Severity] < rank[findings[j].Severity]
		}
		if findings[i].Type != findings[j].Type {
			return findings[i].Type < findings[j].Type
		}
		return findings[i].File < findings[j].File
	})
}
