package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quietmind/lab/internal/fingerprint"
	"github.com/quietmind/lab/internal/model"
	"github.com/quietmind/lab/internal/testutil"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "lab.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// TestStore_OpenIdempotent tests that reopening an existing database
// applies the schema without complaint.
func TestStore_OpenIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lab.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveProject(context.Background(), model.Project{
		ID: "sleep", Name: "Sleep", Mode: model.ModeDaily,
		UpdatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	snap, err := s.LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.Contains(t, snap.Projects, "sleep")
}

// TestStore_ProjectRoundTrip tests the full project round trip,
// including order, archived flag and config.
func TestStore_ProjectRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	updated := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	require.NoError(t, s.SaveProject(ctx, model.Project{
		ID: "sleep", Name: "Sleep", Mode: model.ModeDaily, UpdatedAt: updated,
		Config: model.ProjectConfig{Kind: model.ModeDaily, RequireOutcome: true, OutcomeLabel: "hours"},
	}))
	require.NoError(t, s.SaveProject(ctx, model.Project{
		ID: "migraine", Name: "Migraine", Mode: model.ModeEvent, Archived: true, UpdatedAt: updated,
		Config: model.ProjectConfig{Kind: model.ModeEvent, SeverityEnabled: true},
	}))

	snap, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"sleep", "migraine"}, snap.ProjectOrder)

	sleep := snap.Projects["sleep"]
	assert.Equal(t, model.ModeDaily, sleep.Mode)
	assert.True(t, sleep.UpdatedAt.Equal(updated))
	assert.True(t, sleep.Config.RequireOutcome)
	assert.Equal(t, "hours", sleep.Config.OutcomeLabel)

	migraine := snap.Projects["migraine"]
	assert.True(t, migraine.Archived)
	assert.True(t, migraine.Config.SeverityEnabled)
}

// TestStore_SaveProjectUpsert tests that re-saving updates in place and
// keeps the original position.
func TestStore_SaveProjectUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveProject(ctx, model.Project{ID: "a", Name: "A", Mode: model.ModeDaily, UpdatedAt: at}))
	require.NoError(t, s.SaveProject(ctx, model.Project{ID: "b", Name: "B", Mode: model.ModeDaily, UpdatedAt: at}))
	require.NoError(t, s.SaveProject(ctx, model.Project{ID: "a", Name: "A renamed", Mode: model.ModeDaily, UpdatedAt: at.Add(time.Hour)}))

	snap, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, snap.ProjectOrder)
	assert.Equal(t, "A renamed", snap.Projects["a"].Name)
}

// TestStore_TagRoundTrip tests tag vocabulary persistence, intensity
// spec included.
func TestStore_TagRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveProject(ctx, model.Project{ID: "sleep", Name: "Sleep", Mode: model.ModeDaily, UpdatedAt: time.Now()}))

	require.NoError(t, s.SaveTag(ctx, "sleep", model.TagDef{
		ID: "coffee", Name: "Coffee", Group: "FOOD",
		Intensity: &model.IntensitySpec{Min: 0, Max: 5, Step: 1, Unit: "cups"},
	}))
	require.NoError(t, s.SaveTag(ctx, "sleep", model.TagDef{ID: "stress", Name: "Stress"}))

	snap, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)

	coffee := snap.Tags["sleep"]["coffee"]
	assert.Equal(t, "FOOD", coffee.Group)
	require.NotNil(t, coffee.Intensity)
	assert.Equal(t, 5.0, coffee.Intensity.Max)
	assert.Equal(t, "cups", coffee.Intensity.Unit)

	assert.Nil(t, snap.Tags["sleep"]["stress"].Intensity)
}

// TestStore_DailyLogUpsert tests the last-write-wins contract on the
// date key.
func TestStore_DailyLogUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveProject(ctx, model.Project{ID: "sleep", Name: "Sleep", Mode: model.ModeDaily, UpdatedAt: time.Now()}))

	require.NoError(t, s.SaveDailyLog(ctx, "sleep", model.DailyLog{
		Date: "2026-03-01", Outcome: testutil.Ptr(4),
		Tags: []model.TagUse{{TagID: "coffee"}},
	}))
	require.NoError(t, s.SaveDailyLog(ctx, "sleep", model.DailyLog{
		Date: "2026-03-01", Outcome: testutil.Ptr(2), NoTags: true, Note: "corrected",
	}))

	snap, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.DailyLogs["sleep"], 1)

	log := snap.DailyLogs["sleep"]["2026-03-01"]
	require.NotNil(t, log.Outcome)
	assert.Equal(t, 2.0, *log.Outcome)
	assert.True(t, log.NoTags)
	assert.Empty(t, log.Tags)
	assert.Equal(t, "corrected", log.Note)
}

// TestStore_EventAppendOnly tests id minting and the append-only
// constraint on event logs.
func TestStore_EventAppendOnly(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveProject(ctx, model.Project{ID: "migraine", Name: "Migraine", Mode: model.ModeEvent, UpdatedAt: time.Now()}))

	id, err := s.AppendEventLog(ctx, "migraine", model.EventLog{
		Timestamp: "2026-03-01T10:00:00Z",
		Severity:  testutil.Ptr(7),
		Tags:      []model.TagUse{{TagID: "coffee", Intensity: testutil.Ptr(2)}},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "evt-"))

	// Explicit ids are honored but never overwritten.
	_, err = s.AppendEventLog(ctx, "migraine", model.EventLog{ID: id, Timestamp: "2026-03-02T10:00:00Z"})
	require.Error(t, err)

	snap, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.EventLogs["migraine"], 1)

	log := snap.EventLogs["migraine"][id]
	assert.Equal(t, "2026-03-01T10:00:00Z", log.Timestamp)
	require.NotNil(t, log.Severity)
	assert.Equal(t, 7.0, *log.Severity)
	require.Len(t, log.Tags, 1)
	require.NotNil(t, log.Tags[0].Intensity)
	assert.Equal(t, 2.0, *log.Tags[0].Intensity)
}

// TestStore_CacheRoundTrip tests that a cache delta written by
// MergeCache reads back intact, findings and all.
func TestStore_CacheRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveProject(ctx, model.Project{ID: "sleep", Name: "Sleep", Mode: model.ModeDaily, UpdatedAt: time.Now()}))
	require.NoError(t, s.SaveProject(ctx, model.Project{ID: "thin", Name: "Thin", Mode: model.ModeDaily, UpdatedAt: time.Now()}))

	computedAt := time.Date(2026, 3, 10, 9, 0, 0, 123456789, time.UTC)
	delta := fingerprint.Cache{
		"sleep": model.CacheEntry{
			Fingerprint: "fp-a",
			ComputedAt:  computedAt,
			Findings: []model.Finding{{
				ProjectID:  "sleep",
				Tag:        model.TagID("coffee"),
				Method:     "presence-effect",
				Effect:     2,
				Confidence: model.ConfidenceMedium,
				SampleSize: 6,
				Summary:    "Days with [TAG] show a strong higher outcome (+2.00).",
				Raw:        map[string]float64{"mean_present": 4, "mean_absent": 2},
			}},
		},
		"thin": model.CacheEntry{Fingerprint: "fp-b", ComputedAt: computedAt},
	}
	require.NoError(t, s.MergeCache(ctx, delta))

	cache, err := s.LoadCache(ctx)
	require.NoError(t, err)
	require.Len(t, cache, 2)

	entry := cache["sleep"]
	assert.Equal(t, "fp-a", entry.Fingerprint)
	assert.True(t, entry.ComputedAt.Equal(computedAt))
	require.Len(t, entry.Findings, 1)
	assert.Equal(t, model.TagID("coffee"), entry.Findings[0].Tag)
	assert.Equal(t, 2.0, entry.Findings[0].Effect)
	assert.Equal(t, 4.0, entry.Findings[0].Raw["mean_present"])

	assert.Empty(t, cache["thin"].Findings)

	// Replacement is wholesale.
	require.NoError(t, s.MergeCache(ctx, fingerprint.Cache{
		"sleep": model.CacheEntry{Fingerprint: "fp-c", ComputedAt: computedAt.Add(time.Second)},
	}))
	cache, err = s.LoadCache(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fp-c", cache["sleep"].Fingerprint)
	assert.Empty(t, cache["sleep"].Findings)
	assert.Equal(t, "fp-b", cache["thin"].Fingerprint, "untouched entries survive")
}

// TestStore_MergeCacheNilDelta tests the no-change fast path.
func TestStore_MergeCacheNilDelta(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.MergeCache(context.Background(), nil))
}
