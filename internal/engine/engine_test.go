package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quietmind/lab/internal/model"
	"github.com/quietmind/lab/internal/testutil"
)

// presenceBuilder is the minimal daily fixture that yields exactly one
// presence-effect finding: three tagged days averaging 4 against three
// untagged days averaging 2.
func presenceBuilder() *testutil.SnapshotBuilder {
	return testutil.NewSnapshot().
		DailyProject("sleep", "Sleep").
		Tag("sleep", model.TagDef{ID: "coffee", Name: "Coffee"}).
		Day("sleep", "2026-03-01", 4, "coffee").
		Day("sleep", "2026-03-02", 5, "coffee").
		Day("sleep", "2026-03-03", 3, "coffee").
		Day("sleep", "2026-03-04", 1).
		Day("sleep", "2026-03-05", 2).
		Day("sleep", "2026-03-06", 3)
}

// TestEngine_RecomputeThenCacheHit tests the basic cache cycle: a cold
// call recomputes and returns a replacement cache; a later call with
// unchanged content hits and leaves the cache alone.
func TestEngine_RecomputeThenCacheHit(t *testing.T) {
	clock := testutil.NewManualClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	e := New(WithClock(clock))
	snap := presenceBuilder().Build()

	first := e.AnalyzeProject(snap, nil, "sleep")
	assert.False(t, first.CacheHit)
	require.NotNil(t, first.UpdatedCache)
	require.Len(t, first.Findings, 1)
	assert.Equal(t, "presence-effect", first.Findings[0].Method)
	assert.Equal(t, 2.0, first.Findings[0].Effect)

	clock.Advance(2 * time.Second)
	second := e.AnalyzeProject(snap, first.UpdatedCache, "sleep")
	assert.True(t, second.CacheHit)
	assert.Nil(t, second.UpdatedCache, "a hit writes nothing")
	assert.Equal(t, first.Findings, second.Findings)
}

// TestEngine_ThrottleServesStale tests the mutation-burst throttle: a
// content change inside the window returns the stale findings without
// recomputing, and the first call after the window recomputes.
func TestEngine_ThrottleServesStale(t *testing.T) {
	clock := testutil.NewManualClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	e := New(WithClock(clock))
	b := presenceBuilder()

	first := e.AnalyzeProject(b.Build(), nil, "sleep")
	require.NotNil(t, first.UpdatedCache)

	// Mutate content: the fingerprint now misses.
	b.Day("sleep", "2026-03-07", 5, "coffee")

	clock.Advance(500 * time.Millisecond)
	throttled := e.AnalyzeProject(b.Build(), first.UpdatedCache, "sleep")
	assert.True(t, throttled.CacheHit)
	assert.Nil(t, throttled.UpdatedCache)
	assert.Equal(t, first.Findings, throttled.Findings, "stale findings served verbatim")

	clock.Advance(600 * time.Millisecond)
	fresh := e.AnalyzeProject(b.Build(), first.UpdatedCache, "sleep")
	assert.False(t, fresh.CacheHit)
	require.NotNil(t, fresh.UpdatedCache)
	assert.NotEqual(t,
		first.UpdatedCache["sleep"].Fingerprint,
		fresh.UpdatedCache["sleep"].Fingerprint)
}

// TestEngine_MinDataGate tests that a thin project caches an explicit
// empty result instead of recomputing forever.
func TestEngine_MinDataGate(t *testing.T) {
	clock := testutil.NewManualClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	e := New(WithClock(clock))
	snap := testutil.NewSnapshot().
		DailyProject("sleep", "Sleep").
		Day("sleep", "2026-03-01", 4).
		Day("sleep", "2026-03-02", 2).
		Build()

	first := e.AnalyzeProject(snap, nil, "sleep")
	assert.False(t, first.CacheHit)
	assert.Empty(t, first.Findings)
	require.NotNil(t, first.UpdatedCache, "the empty result is cached too")

	clock.Advance(2 * time.Second)
	second := e.AnalyzeProject(snap, first.UpdatedCache, "sleep")
	assert.True(t, second.CacheHit)
	assert.Empty(t, second.Findings)
	assert.Nil(t, second.UpdatedCache)
}

// TestEngine_SkipsArchivedAndMissing tests the no-op paths.
func TestEngine_SkipsArchivedAndMissing(t *testing.T) {
	e := New()
	snap := presenceBuilder().
		Mutate("sleep", func(p *model.Project) { p.Archived = true }).
		Build()

	assert.Equal(t, Result{}, e.AnalyzeProject(snap, nil, "sleep"))
	assert.Equal(t, Result{}, e.AnalyzeProject(snap, nil, "ghost"))
}

// TestEngine_SuppressesRareTags tests that daily findings for a tag
// present on under 10% of days disappear while common tags survive.
func TestEngine_SuppressesRareTags(t *testing.T) {
	b := testutil.NewSnapshot().
		DailyProject("sleep", "Sleep").
		Tag("sleep", model.TagDef{ID: "rare", Name: "Rare thing"}).
		Tag("sleep", model.TagDef{ID: "common", Name: "Common thing"})
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for day := 0; day < 40; day++ {
		date := base.AddDate(0, 0, day).Format("2006-01-02")
		outcome := 1.0
		if day < 20 {
			outcome = 5.0
		}
		var tags []string
		if day < 3 {
			tags = append(tags, "rare") // 3/40 days, below the 10% share
		}
		if day < 20 {
			tags = append(tags, "common")
		}
		b.Day("sleep", date, outcome, tags...)
	}

	e := New(WithClock(testutil.NewManualClock(base.AddDate(0, 2, 0))))
	res := e.AnalyzeProject(b.Build(), nil, "sleep")

	require.NotEmpty(t, res.Findings)
	for _, f := range res.Findings {
		assert.NotEqual(t, model.TagID("rare"), f.Tag, "method %s leaked a rare tag", f.Method)
	}
	methods := make(map[string]bool)
	for _, f := range res.Findings {
		if f.Tag == model.TagID("common") {
			methods[f.Method] = true
		}
	}
	assert.True(t, methods["presence-effect"], "common tag keeps its findings")
}

// TestEngine_RateScaleGuardrailExemption tests the minimum-effect
// guardrail: a 0.05 presence rate survives because frequency effects
// live on a rate scale, while a 0.05 severity difference is dropped.
func TestEngine_RateScaleGuardrailExemption(t *testing.T) {
	b := testutil.NewSnapshot().
		EventProject("migraine", "Migraine").
		Tag("migraine", model.TagDef{ID: "coffee", Name: "Coffee"}).
		Tag("migraine", model.TagDef{ID: "stress", Name: "Stress"})
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 40; i++ {
		log := model.EventLog{Timestamp: base.AddDate(0, 0, i).Format(time.RFC3339)}
		switch {
		case i < 2:
			log.Tags = []model.TagUse{{TagID: "coffee"}}
		case i < 5:
			log.Tags = []model.TagUse{{TagID: "stress"}}
			log.Severity = testutil.Ptr(5.05)
		case i < 15:
			log.Severity = testutil.Ptr(5)
		}
		b.EventLog("migraine", log)
	}

	e := New(WithClock(testutil.NewManualClock(base.AddDate(0, 2, 0))))
	res := e.AnalyzeProject(b.Build(), nil, "migraine")

	byMethodTag := make(map[string]float64)
	for _, f := range res.Findings {
		byMethodTag[fmt.Sprintf("%s/%s", f.Method, f.Tag)] = f.Effect
	}
	assert.Equal(t, 0.05, byMethodTag["event-tag-frequency/coffee"])
	assert.Contains(t, byMethodTag, "event-tag-frequency/stress")
	for key := range byMethodTag {
		assert.NotContains(t, key, "severity", "tiny severity differences must not surface: %s", key)
	}
}

// TestEngine_AnalyzeAll tests order-preserving accumulation: every
// analyzable project lands in the final cache, but only projects with
// findings appear in the findings map.
func TestEngine_AnalyzeAll(t *testing.T) {
	b := presenceBuilder().
		DailyProject("thin", "Thin").
		Day("thin", "2026-03-01", 1).
		DailyProject("shelved", "Shelved").
		Mutate("shelved", func(p *model.Project) { p.Archived = true })

	e := New(WithClock(testutil.NewManualClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))))
	res := e.AnalyzeAll(b.Build(), nil)

	require.NotNil(t, res.UpdatedCache)
	assert.Len(t, res.UpdatedCache, 2, "sleep and thin cached; archived skipped")
	assert.Contains(t, res.UpdatedCache, "sleep")
	assert.Contains(t, res.UpdatedCache, "thin")

	require.Len(t, res.FindingsByProject, 1)
	assert.Len(t, res.FindingsByProject["sleep"], 1)
}

// TestEngine_AnalyzeAllIdempotent tests that a second full pass over an
// unchanged snapshot writes nothing.
func TestEngine_AnalyzeAllIdempotent(t *testing.T) {
	clock := testutil.NewManualClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	e := New(WithClock(clock))
	snap := presenceBuilder().Build()

	first := e.AnalyzeAll(snap, nil)
	require.NotNil(t, first.UpdatedCache)

	clock.Advance(time.Hour)
	second := e.AnalyzeAll(snap, first.UpdatedCache)
	assert.Nil(t, second.UpdatedCache)
	assert.Equal(t, first.FindingsByProject, second.FindingsByProject)
}
