package smell

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"archlens/internal/cache"
	"archlens/internal/config"
	"archlens/internal/history"
)

// GitDetectors groups the history-backed detectors. All of them are no-ops
// outside a git repository and cache their findings per detector, since the
// per-file git queries dominate analysis latency.
type GitDetectors struct {
	provider *history.Provider
	cache    *cache.ResultCache
	cfg      *config.Config
	identity string
	workers  int
	now      func() time.Time
}

// NewGitDetectors wires the history provider and result cache. identity
// distinguishes cache entries between projects sharing one cache directory;
// the project root path is a stable choice.
func NewGitDetectors(provider *history.Provider, rc *cache.ResultCache, cfg *config.Config, identity string, workers int) *GitDetectors {
	return &GitDetectors{
		provider: provider,
		cache:    rc,
		cfg:      cfg,
		identity: identity,
		workers:  workers,
		now:      time.Now,
	}
}

// DetectStaleLogic flags source files whose last commit is older than the
// configured threshold. Untracked files report a zero commit time and are
// skipped rather than flagged.
func (d *GitDetectors) DetectStaleLogic(ctx context.Context, sources []string) []Finding {
	if d.provider == nil || !d.provider.Available(ctx) {
		return nil
	}
	if cached, ok := d.cachedFindings("stale_logic"); ok {
		return cached
	}

	threshold := d.cfg.StaleLogicThresholdDays
	cutoff := d.now().AddDate(0, 0, -threshold)
	candidates := d.trackable(sources)
	histories := d.provider.CollectHistories(ctx, candidates, time.Time{}, d.workers)

	var findings []Finding
	for _, file := range candidates {
		h := histories[file]
		if h.LastCommit.IsZero() {
			continue
		}
		if h.LastCommit.Before(cutoff) {
			days := int(d.now().Sub(h.LastCommit).Hours() / 24)
			findings = append(findings, newFinding(
				TypeStaleLogic,
				file,
				fmt.Sprintf("%s has not been modified in %d days (threshold: %d)", filepath.Base(file), days, threshold),
				SeverityMedium,
				CategoryGit,
			))
		}
	}

	d.storeFindings("stale_logic", findings)
	return findings
}

// DetectHighChurn flags source files with an unusually high commit count in
// the recent window, a signal of instability or a design hotspot.
func (d *GitDetectors) DetectHighChurn(ctx context.Context, sources []string) []Finding {
	if d.provider == nil || !d.provider.Available(ctx) {
		return nil
	}
	if cached, ok := d.cachedFindings("high_churn"); ok {
		return cached
	}

	since := d.now().AddDate(0, 0, -d.cfg.HighChurnDays)
	candidates := d.trackable(sources)
	histories := d.provider.CollectHistories(ctx, candidates, since, d.workers)

	var findings []Finding
	for _, file := range candidates {
		h := histories[file]
		if h.CommitCount < d.cfg.HighChurnThreshold {
			continue
		}
		f := newFinding(
			TypeHighChurn,
			file,
			fmt.Sprintf("%s changed %d times in the last %d days (threshold: %d)", filepath.Base(file), h.CommitCount, d.cfg.HighChurnDays, d.cfg.HighChurnThreshold),
			SeverityMedium,
			CategoryGit,
		)
		f.Count = h.CommitCount
		findings = append(findings, f)
	}

	d.storeFindings("high_churn", findings)
	return findings
}

// DetectStaleTests flags source files whose corresponding test file is older
// than the source, meaning the logic changed after the test last did.
func (d *GitDetectors) DetectStaleTests(ctx context.Context, sources []string, fileSet map[string]bool) []Finding {
	if d.provider == nil || !d.provider.Available(ctx) {
		return nil
	}
	if cached, ok := d.cachedFindings("stale_tests"); ok {
		return cached
	}

	type pair struct {
		source, test string
	}
	var pairs []pair
	var queryPaths []string
	for _, file := range sources {
		if looksLikeTest(file) {
			continue
		}
		test, ok := FindCorrespondingTest(file, fileSet, d.cfg)
		if !ok {
			continue
		}
		pairs = append(pairs, pair{source: file, test: test})
		queryPaths = append(queryPaths, file, test)
	}
	if len(pairs) == 0 {
		d.storeFindings("stale_tests", nil)
		return nil
	}

	histories := d.provider.CollectHistories(ctx, queryPaths, time.Time{}, d.workers)

	var findings []Finding
	for _, p := range pairs {
		srcTime := histories[p.source].LastCommit
		testTime := histories[p.test].LastCommit
		if srcTime.IsZero() || testTime.IsZero() {
			continue
		}
		if srcTime.After(testTime) {
			f := newFinding(
				TypeStaleTests,
				p.source,
				fmt.Sprintf("%s changed after its test %s (source: %s, test: %s)",
					filepath.Base(p.source), filepath.Base(p.test),
					srcTime.Format("2006-01-02"), testTime.Format("2006-01-02")),
				SeverityMedium,
				CategoryTesting,
			)
			f.Files = []string{p.source, p.test}
			findings = append(findings, f)
		}
	}

	d.storeFindings("stale_tests", findings)
	return findings
}

// trackable filters the git-backed detectors to non-test files under the
// configured source roots, matching the ghost detector's candidate set.
func (d *GitDetectors) trackable(sources []string) []string {
	out := make([]string, 0, len(sources))
	for _, file := range sources {
		if looksLikeTest(file) {
			continue
		}
		if !underSourceRoot(file, d.cfg.SourceDirs) {
			continue
		}
		out = append(out, file)
	}
	return out
}

func (d *GitDetectors) cachedFindings(name string) ([]Finding, bool) {
	if d.cache == nil {
		return nil, false
	}
	key := cache.Key("detector:"+name, d.identity)
	var findings []Finding
	if d.cache.Get(key, d.cfg.Cache.DetectorTTL, &findings) {
		slog.Debug("detector cache hit", "detector", name, "findings", len(findings))
		return findings, true
	}
	return nil, false
}

func (d *GitDetectors) storeFindings(name string, findings []Finding) {
	if d.cache == nil {
		return
	}
	if findings == nil {
		findings = []Finding{}
	}
	d.cache.Put(cache.Key("detector:"+name, d.identity), findings)
}
