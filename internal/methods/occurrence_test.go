package methods

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quietmind/lab/internal/dataset"
	"github.com/quietmind/lab/internal/model"
	"github.com/quietmind/lab/internal/testutil"
)

// occurrenceFixture builds an event dataset spanning the given calendar
// days of March 2026, tagging "coffee" on the days listed in tagged.
func occurrenceFixture(days []int, tagged map[int]bool) dataset.EventDataset {
	b := testutil.NewSnapshot().
		EventProject("migraine", "Migraine").
		Tag("migraine", model.TagDef{ID: "coffee", Name: "Coffee"})
	for _, day := range days {
		ts := fmt.Sprintf("2026-03-%02dT10:00", day)
		if tagged[day] {
			b.Event("migraine", ts, "coffee")
		} else {
			b.Event("migraine", ts)
		}
	}
	return dataset.BuildEvent(b.Build(), "migraine")
}

// TestOccurrenceEffect_RateDifference tests the baseline comparison:
// events on 5 of 20 calendar days, coffee on 3 of the event days.
func TestOccurrenceEffect_RateDifference(t *testing.T) {
	ds := occurrenceFixture([]int{1, 2, 4, 7, 20}, map[int]bool{1: true, 4: true, 20: true})
	findings := occurrenceEffect("event-tag-occurrence-effect")(&ds, "migraine")

	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, model.TagID("coffee"), f.Tag)
	assert.Equal(t, "event-tag-occurrence-effect", f.Method)
	// Coffee days always saw an event (rate 1); of the 17 other days only
	// 2 did (rate 2/17), so the rounded difference is 0.88.
	assert.Equal(t, 0.88, f.Effect)
	assert.Equal(t, model.ConfidenceLow, f.Confidence)
	assert.Equal(t, 20, f.SampleSize)
	assert.Equal(t, 5.0, f.Raw["event_days"])
	assert.Equal(t, 3.0, f.Raw["with_key_days"])
}

// TestOccurrenceEffect_SpanTooShort tests the 14-day minimum span.
func TestOccurrenceEffect_SpanTooShort(t *testing.T) {
	ds := occurrenceFixture([]int{1, 3, 5, 13}, map[int]bool{1: true, 3: true, 5: true})
	assert.Nil(t, occurrenceEffect("event-tag-occurrence-effect")(&ds, "migraine"))
}

// TestOccurrenceEffect_NeedsQuietDays tests that a span with an event
// every single day has no baseline to compare against.
func TestOccurrenceEffect_NeedsQuietDays(t *testing.T) {
	days := make([]int, 0, 20)
	tagged := make(map[int]bool)
	for d := 1; d <= 20; d++ {
		days = append(days, d)
		tagged[d] = d <= 5
	}
	ds := occurrenceFixture(days, tagged)
	assert.Nil(t, occurrenceEffect("event-tag-occurrence-effect")(&ds, "migraine"))
}

// TestOccurrenceEffect_SideMinimums tests the 3-with / 7-without day
// gates.
func TestOccurrenceEffect_SideMinimums(t *testing.T) {
	// Only 2 coffee days across a 20-day span.
	ds := occurrenceFixture([]int{1, 5, 9, 20}, map[int]bool{1: true, 20: true})
	assert.Empty(t, occurrenceEffect("event-tag-occurrence-effect")(&ds, "migraine"))
}

// TestOccurrenceEffect_ConfidenceTiers tests the day-span tiering.
func TestOccurrenceEffect_ConfidenceTiers(t *testing.T) {
	// 28-day span with 6 coffee days bumps to medium.
	days := []int{1, 3, 5, 7, 9, 11, 14, 28}
	tagged := map[int]bool{1: true, 3: true, 5: true, 7: true, 9: true, 11: true}
	ds := occurrenceFixture(days, tagged)

	findings := occurrenceEffect("event-tag-occurrence-effect")(&ds, "migraine")
	require.Len(t, findings, 1)
	assert.Equal(t, model.ConfidenceMedium, findings[0].Confidence)
	assert.Equal(t, 28, findings[0].SampleSize)
}
