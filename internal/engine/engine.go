package engine

import (
	"io"
	"log/slog"

	"github.com/quietmind/lab/internal/config"
	"github.com/quietmind/lab/internal/dataset"
	"github.com/quietmind/lab/internal/fingerprint"
	"github.com/quietmind/lab/internal/methods"
	"github.com/quietmind/lab/internal/model"
)

// Engine runs the analysis pipeline. Construct with New; the zero value
// is not usable. All configuration is explicit so there is no
// package-level mutable state anywhere in the pipeline.
type Engine struct {
	clock     Clock
	tuning    config.Tuning
	log       *slog.Logger
	rateScale map[string]bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock injects a clock; tests use a manual one to advance the
// throttle window deterministically.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithTuning overrides the default thresholds.
func WithTuning(t config.Tuning) Option {
	return func(e *Engine) { e.tuning = t }
}

// WithLogger enables diagnostic logging; the default discards.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates an Engine with the stock tuning and system clock.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock:     SystemClock{},
		tuning:    config.Default(),
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		rateScale: methods.RateScaleMethods(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the outcome of analyzing one project.
type Result struct {
	Findings []model.Finding
	// CacheHit reports that the findings came from the cache (exact
	// fingerprint match or throttled stale entry), not a recompute.
	CacheHit bool
	// UpdatedCache is the full replacement cache map for the caller to
	// persist. nil means "no change, keep the existing cache as-is".
	UpdatedCache fingerprint.Cache
}

// AnalyzeProject analyzes one project against the given cache snapshot.
func (e *Engine) AnalyzeProject(snap *model.Snapshot, cache fingerprint.Cache, projectID string) Result {
	p, ok := snap.Project(projectID)
	if !ok || p.Archived {
		return Result{}
	}

	fp := fingerprint.Project(snap, projectID)
	if findings, hit := cache.Lookup(projectID, fp); hit {
		e.log.Debug("cache hit", "project", projectID)
		return Result{Findings: findings, CacheHit: true}
	}

	// Throttle: a recent entry is served stale even though the content
	// changed. Survives rapid-fire mutation bursts; the next call after
	// the window recomputes.
	if entry, ok := cache.Entry(projectID); ok {
		if e.clock.Now().Sub(entry.ComputedAt) < e.tuning.ThrottleWindow {
			e.log.Debug("throttled", "project", projectID)
			return Result{Findings: entry.Findings, CacheHit: true}
		}
	}

	findings, rows := e.compute(snap, p)
	if rows < e.tuning.MinDatasetRows {
		// Cache the empty result too: thin projects would otherwise
		// recompute on every call.
		findings = nil
	}

	entry := model.CacheEntry{
		Fingerprint: fp,
		Findings:    findings,
		ComputedAt:  e.clock.Now(),
	}
	e.log.Debug("recomputed", "project", projectID, "rows", rows, "findings", len(findings))
	return Result{
		Findings:     findings,
		UpdatedCache: cache.WithEntry(projectID, entry),
	}
}

// compute materializes the dataset(s), dispatches every matching method,
// and filters. Returns the surviving findings and the valid row count
// for the minimum-data gate.
func (e *Engine) compute(snap *model.Snapshot, p model.Project) ([]model.Finding, int) {
	switch p.Mode {
	case model.ModeDaily:
		ds := dataset.BuildDaily(snap, p.ID)
		if ds.Coverage.ValidRows < e.tuning.MinDatasetRows {
			return nil, ds.Coverage.ValidRows
		}
		var findings []model.Finding
		for _, m := range methods.DailyMethods {
			findings = append(findings, m.Run(&ds, p.ID)...)
		}
		findings = e.suppressRareTags(&ds, findings)
		return e.guardrails(findings), ds.Coverage.ValidRows

	case model.ModeEvent:
		ds := dataset.BuildEvent(snap, p.ID)
		if ds.Coverage.ValidRows < e.tuning.MinDatasetRows {
			return nil, ds.Coverage.ValidRows
		}
		grouped := dataset.BuildEventGroups(snap, p.ID)
		var findings []model.Finding
		for _, m := range methods.EventMethods {
			if m.Grouped {
				findings = append(findings, m.Run(&grouped, p.ID)...)
			} else {
				findings = append(findings, m.Run(&ds, p.ID)...)
			}
		}
		return e.guardrails(findings), ds.Coverage.ValidRows

	default:
		return nil, 0
	}
}

// AllResult is the outcome of analyzing every project in order.
type AllResult struct {
	// FindingsByProject holds only projects that produced findings.
	FindingsByProject map[string][]model.Finding
	// UpdatedCache is the final cache map after all deltas, or nil if
	// nothing recomputed.
	UpdatedCache fingerprint.Cache
}

// AnalyzeAll runs the single-project pipeline over the project order
// list. Deltas accumulate: each project sees the cache produced by the
// previous one, and the last delta is the map the caller persists.
func (e *Engine) AnalyzeAll(snap *model.Snapshot, cache fingerprint.Cache) AllResult {
	out := AllResult{FindingsByProject: make(map[string][]model.Finding)}
	current := cache
	for _, projectID := range snap.ProjectOrder {
		res := e.AnalyzeProject(snap, current, projectID)
		if len(res.Findings) > 0 {
			out.FindingsByProject[projectID] = res.Findings
		}
		if res.UpdatedCache != nil {
			current = res.UpdatedCache
			out.UpdatedCache = res.UpdatedCache
		}
	}
	return out
}
