package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"archlens/internal/analyzer"
	"archlens/internal/smell"
	"archlens/internal/trend"
)

type outputMode int

const (
	modeText outputMode = iota
	modeJSON
	modeMarkdown
)

func reportMode() outputMode {
	switch {
	case *jsonOut:
		return modeJSON
	case *markdown:
		return modeMarkdown
	default:
		return modeText
	}
}

var typeHeadings = map[smell.Type]string{
	smell.TypeCircularDependency:  "Circular Dependencies",
	smell.TypeBoundaryViolation:   "Boundary Violations",
	smell.TypeEntanglement:        "Feature Entanglement",
	smell.TypeBlastRadius:         "High Blast Radius",
	smell.TypeGhostFile:           "Untested Files",
	smell.TypeStaleLogic:          "Stale Logic",
	smell.TypeHighChurn:           "High Churn",
	smell.TypeStaleTests:          "Stale Tests",
	smell.TypeMonolithicStructure: "Monolithic Structure",
}

func writeReport(out io.Writer, report *analyzer.Report, mode outputMode) error {
	switch mode {
	case modeJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Findings []smell.Finding `json:"findings"`
			Skipped  int             `json:"skipped_files"`
		}{Findings: report.Findings, Skipped: report.SkippedFiles})
	case modeMarkdown:
		return writeMarkdownReport(out, report.Findings)
	default:
		return writeTextReport(out, report.Findings)
	}
}

func writeTextReport(out io.Writer, findings []smell.Finding) error {
	if len(findings) == 0 {
		_, err := fmt.Fprintln(out, "No architectural issues detected.")
		return err
	}

	groups, order := groupByType(findings)
	for _, t := range order {
		fmt.Fprintf(out, "\n%s:\n", headingFor(t))
		for _, f := range groups[t] {
			fmt.Fprintf(out, "  [%s] %s\n", f.Severity, f.Message)
		}
	}
	_, err := fmt.Fprintf(out, "\nFound %d issues across %d categories.\n", len(findings), len(groups))
	return err
}

func writeMarkdownReport(out io.Writer, findings []smell.Finding) error {
	fmt.Fprintln(out, "# Architectural Health Report")
	if len(findings) == 0 {
		_, err := fmt.Fprintln(out, "\nNo architectural issues detected.")
		return err
	}

	groups, order := groupByType(findings)
	for _, t := range order {
		fmt.Fprintf(out, "\n## %s\n\n", headingFor(t))
		for _, f := range groups[t] {
			fmt.Fprintf(out, "- **%s**: %s\n", f.Severity, f.Message)
		}
	}
	_, err := fmt.Fprintf(out, "\n%d issues across %d categories.\n", len(findings), len(groups))
	return err
}

// groupByType preserves the sorted finding order within and across groups.
func groupByType(findings []smell.Finding) (map[smell.Type][]smell.Finding, []smell.Type) {
	groups := make(map[smell.Type][]smell.Finding)
	var order []smell.Type
	for _, f := range findings {
		if _, seen := groups[f.Type]; !seen {
			order = append(order, f.Type)
		}
		groups[f.Type] = append(groups[f.Type], f)
	}
	return groups, order
}

func headingFor(t smell.Type) string {
	if h, ok := typeHeadings[t]; ok {
		return h
	}
	return string(t)
}

func writeTrends(out io.Writer, snapshots []trend.Snapshot) error {
	if len(snapshots) == 0 {
		_, err := fmt.Fprintln(out, "No snapshots recorded yet.")
		return err
	}

	fmt.Fprintf(out, "%-25s %-12s %8s %8s %8s %8s\n", "TIMESTAMP", "COMMIT", "FILES", "EDGES", "CYCLES", "TOTAL")
	fmt.Fprintln(out, strings.Repeat("-", 75))
	for _, s := range snapshots {
		commit := s.CommitHash
		if commit == "" {
			commit = "-"
		}
		fmt.Fprintf(out, "%-25s %-12s %8d %8d %8d %8d\n",
			s.Timestamp.Format("2006-01-02 15:04:05"),
			commit,
			s.FileCount,
			s.EdgeCount,
			s.CycleCount,
			s.TotalFindings,
		)
	}
	return nil
}
