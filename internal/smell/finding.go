package smell

// Type identifies one detector's finding kind. The set is closed: detectors
// never invent ad-hoc type strings.
type Type string

const (
	TypeCircularDependency  Type = "CIRCULAR_DEPENDENCY"
	TypeBoundaryViolation   Type = "BOUNDARY_VIOLATION"
	TypeEntanglement        Type = "ENTANGLEMENT"
	TypeBlastRadius         Type = "BLAST_RADIUS"
	TypeGhostFile           Type = "GHOST_FILE"
	TypeStaleLogic          Type = "STALE_LOGIC"
	TypeHighChurn           Type = "HIGH_CHURN"
	TypeStaleTests          Type = "STALE_TESTS"
	TypeMonolithicStructure Type = "MONOLITHIC_STRUCTURE"
)

// Severity levels, ordered.
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// Categories group findings by the analysis that produced them.
const (
	CategoryArchitecture = "Architectural Smell"
	CategoryGit          = "Git Analysis"
	CategoryTesting      = "Testing"
	CategoryStructure    = "Project Structure"
)

// LineNotApplicable is the sentinel for findings with no line-level location.
const LineNotApplicable = -1

// Finding is one detected architectural smell. Findings are pure data:
// produced once, never mutated, safe to serialize directly.
type Finding struct {
	Type     Type     `json:"type"`
	File     string   `json:"file,omitempty"`
	Files    []string `json:"files,omitempty"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Category string   `json:"category"`
	Line     int      `json:"line"`
	Count    int      `json:"count,omitempty"`
}

// newFinding is the single construction point for findings, so every detector
// produces the same shape. Line defaults to the not-applicable sentinel.
func newFinding(t Type, file, message string, severity Severity, category string) Finding {
	return Finding{
		Type:     t,
		File:     file,
		Message:  message,
		Severity: severity,
		Category: category,
		Line:     LineNotApplicable,
	}
}
