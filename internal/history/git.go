package history

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"archlens/internal/shared/util"
)

// Provider answers per-file version-control questions by shelling out to git.
// Absence of a repository is a valid, common state: every query degrades to
// its zero value, and detectors are expected to no-op on it. Each invocation
// carries a timeout; a timed-out query means "no history available", never an
// error surfaced to callers.
type Provider struct {
	root    string
	timeout time.Duration
	limiter *util.Limiter
}

// FileHistory is the per-file result of a batch query.
type FileHistory struct {
	LastCommit  time.Time
	CommitCount int
}

func NewProvider(projectRoot string, timeout time.Duration, limiter *util.Limiter) *Provider {
	return &Provider{root: projectRoot, timeout: timeout, limiter: limiter}
}

// Available reports whether projectRoot is inside a git work tree. Checked
// once per analysis; a false result downgrades all history detectors to no-ops.
func (p *Provider) Available(ctx context.Context) bool {
	out := p.run(ctx, "rev-parse", "--is-inside-work-tree")
	return out == "true"
}

// Head returns the short commit hash of HEAD, or "" without a repository.
func (p *Provider) Head(ctx context.Context) string {
	return p.run(ctx, "rev-parse", "--short=12", "HEAD")
}

// LastCommitTime returns the committer timestamp of the most recent commit
// touching path. The zero time means untracked or no history.
func (p *Provider) LastCommitTime(ctx context.Context, path string) time.Time {
	out := p.run(ctx, "log", "-1", "--format=%cI", "--", path)
	if out == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339, out)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}

// CommitCount returns the number of commits touching path since the given
// time. Zero means untracked, no recent commits, or no history.
func (p *Provider) CommitCount(ctx context.Context, path string, since time.Time) int {
	out := p.run(ctx, "rev-list", "--count", "--since="+since.UTC().Format(time.RFC3339), "HEAD", "--", path)
	if out == "" {
		return 0
	}
	n, err := strconv.Atoi(out)
	if err != nil {
		return 0
	}
	return n
}

func (p *Provider) run(ctx context.Context, args ...string) string {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, 1); err != nil {
			return ""
		}
	}

	runCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, "git", append([]string{"-C", p.root}, args...)...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return ""
	}
	return strings.TrimSpace(stdout.String())
}
