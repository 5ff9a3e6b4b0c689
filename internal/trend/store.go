// # internal/trend/store.go
// Package trend persists per-run analysis snapshots so smell counts can be
// compared across time. One row per analysis run, keyed by a generated run id.
package trend

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"archlens/internal/smell"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

// Snapshot summarizes one analysis run.
type Snapshot struct {
	RunID         string
	ProjectKey    string
	SchemaVersion int
	Timestamp     time.Time
	CommitHash    string

	FileCount int
	NodeCount int
	EdgeCount int

	CycleCount        int
	BoundaryCount     int
	EntanglementCount int
	BlastRadiusCount  int
	GhostCount        int
	StaleLogicCount   int
	HighChurnCount    int
	StaleTestCount    int
	TotalFindings     int
}

// CountFindings fills the per-smell counters of a snapshot from a finding
// list. The remaining fields (graph stats, commit hash) are the caller's.
func (s *Snapshot) CountFindings(findings []smell.Finding) {
	s.TotalFindings = len(findings)
	for _, f := range findings {
		switch f.Type {
		case smell.TypeCircularDependency:
			s.CycleCount++
		case smell.TypeBoundaryViolation:
			s.BoundaryCount++
		case smell.TypeEntanglement:
			s.EntanglementCount++
		case smell.TypeBlastRadius:
			s.BlastRadiusCount++
		case smell.TypeGhostFile:
			s.GhostCount++
		case smell.TypeStaleLogic:
			s.StaleLogicCount++
		case smell.TypeHighChurn:
			s.HighChurnCount++
		case smell.TypeStaleTests:
			s.StaleTestCount++
		}
	}
}

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("trend store path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("trend store path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create trend store directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts when watch mode writes a
	// snapshot while a one-shot run reads trends.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open trend store %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping trend store %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize trend schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// SaveSnapshot inserts one run row. A missing run id or timestamp is filled
// in; the generated run id is returned.
func (s *Store) SaveSnapshot(projectKey string, snapshot Snapshot) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projectKey = strings.TrimSpace(projectKey)
	if projectKey == "" {
		projectKey = "default"
	}
	if snapshot.RunID == "" {
		snapshot.RunID = uuid.NewString()
	}
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = time.Now().UTC()
	}
	if snapshot.SchemaVersion == 0 {
		snapshot.SchemaVersion = SchemaVersion
	}
	if snapshot.SchemaVersion != SchemaVersion {
		return "", fmt.Errorf("unsupported snapshot schema version %d", snapshot.SchemaVersion)
	}

	query := `
INSERT INTO runs (
  run_id, project_key, schema_version, ts_utc, commit_hash, file_count, node_count,
  edge_count, cycle_count, boundary_count, entanglement_count, blast_radius_count,
  ghost_count, stale_logic_count, high_churn_count, stale_test_count, total_findings
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`
	err := s.withRetry("save snapshot", func() error {
		_, err := s.db.Exec(
			query,
			snapshot.RunID,
			projectKey,
			snapshot.SchemaVersion,
			snapshot.Timestamp.UTC().Format(time.RFC3339Nano),
			snapshot.CommitHash,
			snapshot.FileCount,
			snapshot.NodeCount,
			snapshot.EdgeCount,
			snapshot.CycleCount,
			snapshot.BoundaryCount,
			snapshot.EntanglementCount,
			snapshot.BlastRadiusCount,
			snapshot.GhostCount,
			snapshot.StaleLogicCount,
			snapshot.HighChurnCount,
			snapshot.StaleTestCount,
			snapshot.TotalFindings,
		)
		return err
	})
	if err != nil {
		return "", err
	}
	return snapshot.RunID, nil
}

// LoadSnapshots returns the runs for a project since the given time, oldest
// first. A zero since loads the full history.
func (s *Store) LoadSnapshots(projectKey string, since time.Time) ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projectKey = strings.TrimSpace(projectKey)
	if projectKey == "" {
		projectKey = "default"
	}

	query := `
SELECT
  run_id, project_key, schema_version, ts_utc, commit_hash, file_count, node_count,
  edge_count, cycle_count, boundary_count, entanglement_count, blast_radius_count,
  ghost_count, stale_logic_count, high_churn_count, stale_test_count, total_findings
FROM runs
WHERE project_key = ?
`
	args := []any{projectKey}
	if !since.IsZero() {
		query += " AND ts_utc >= ?"
		args = append(args, since.UTC().Format(time.RFC3339Nano))
	}
	query += " ORDER BY ts_utc ASC, run_id ASC"

	var rows *sql.Rows
	err := s.withRetry("load snapshots", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := make([]Snapshot, 0)
	for rows.Next() {
		var (
			tsRaw    string
			snapshot Snapshot
		)
		if err := rows.Scan(
			&snapshot.RunID,
			&snapshot.ProjectKey,
			&snapshot.SchemaVersion,
			&tsRaw,
			&snapshot.CommitHash,
			&snapshot.FileCount,
			&snapshot.NodeCount,
			&snapshot.EdgeCount,
			&snapshot.CycleCount,
			&snapshot.BoundaryCount,
			&snapshot.EntanglementCount,
			&snapshot.BlastRadiusCount,
			&snapshot.GhostCount,
			&snapshot.StaleLogicCount,
			&snapshot.HighChurnCount,
			&snapshot.StaleTestCount,
			&snapshot.TotalFindings,
		); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}

		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", tsRaw, err)
		}
		snapshot.Timestamp = ts.UTC()
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}

	return snapshots, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}
