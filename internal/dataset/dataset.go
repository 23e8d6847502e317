// Package dataset turns raw project logs into analysis-ready rows.
//
// Builders are pure functions over a model.Snapshot. They never mutate
// the snapshot and never fail: a missing project, a mode mismatch, or an
// empty log simply produces an empty dataset. Callers distinguish "no
// rows because no data" only via Coverage.
//
// The two dataset kinds are distinct types. Daily methods take a
// *DailyDataset and event methods a *EventDataset; the compiler enforces
// the partition instead of runtime field probing.
package dataset

import (
	"time"

	"github.com/quietmind/lab/internal/model"
)

// EpisodeGap is the maximum gap between consecutive events that still
// belong to the same episode.
const EpisodeGap = 12 * time.Hour

// TagMark records whether a tag (or group) is present on a row, with the
// recorded intensity when the tag's definition enables one.
type TagMark struct {
	Present   bool
	Intensity *float64
}

// Coverage reports how much of the raw log survived dataset construction.
type Coverage struct {
	// TotalLogs is the number of raw log records examined.
	TotalLogs int
	// ValidRows is the number of rows emitted.
	ValidRows int
	// SkippedRows counts daily logs dropped for a missing required
	// outcome. Always 0 for event datasets.
	SkippedRows int
	// MalformedRows counts event logs whose timestamp failed to parse
	// and degraded to the epoch sentinel. The rows are still emitted.
	MalformedRows int
}

// DailyRow is one logged (or synthesized) calendar day.
//
// The Tags map contains every tag known to the project, absent ones with
// Present false, so methods can iterate a stable key set.
type DailyRow struct {
	Date    string // YYYY-MM-DD
	Day     time.Time
	Outcome *float64
	Tags    map[model.TagKey]TagMark
}

// DailyDataset is the daily-kind dataset.
type DailyDataset struct {
	ProjectID string
	Rows      []DailyRow
	Coverage  Coverage
	// Synthesized marks datasets whose rows were invented (the
	// occurrence baseline) rather than taken from the log.
	Synthesized bool
}

// Episode places an event row inside its gap-delimited run.
// The three fields are always set together during event dataset
// construction; a row is never half-annotated.
type Episode struct {
	ID     string // "ep-1", "ep-2", ... in chronological order
	Index  int    // 1-based position within the episode
	Length int    // total rows in the episode
}

// EventRow is one timestamped event with derived episode placement.
type EventRow struct {
	At       time.Time
	Severity *float64
	Note     string
	Tags     map[model.TagKey]TagMark
	Episode  Episode
}

// EventDataset is the event-kind dataset. Rows are sorted ascending by
// timestamp and episode-annotated.
//
// GroupNames is populated only on the group-projected variant: it maps
// each virtual group key to its display name.
type EventDataset struct {
	ProjectID  string
	Rows       []EventRow
	Coverage   Coverage
	GroupNames map[model.TagKey]string
}

// Keys returns the stable tag key set shared by every row of the
// dataset, in unspecified order. Empty datasets return nil.
func (d *EventDataset) Keys() []model.TagKey {
	if len(d.Rows) == 0 {
		return nil
	}
	keys := make([]model.TagKey, 0, len(d.Rows[0].Tags))
	for k := range d.Rows[0].Tags {
		keys = append(keys, k)
	}
	return keys
}

// Keys returns the stable tag key set shared by every row of the
// dataset, in unspecified order. Empty datasets return nil.
func (d *DailyDataset) Keys() []model.TagKey {
	if len(d.Rows) == 0 {
		return nil
	}
	keys := make([]model.TagKey, 0, len(d.Rows[0].Tags))
	for k := range d.Rows[0].Tags {
		keys = append(keys, k)
	}
	return keys
}

// seedTagMap builds a presence map covering the full project vocabulary,
// then marks the used tags. Intensity is carried only when the tag's
// definition enables it.
func seedTagMap(defs map[string]model.TagDef, uses []model.TagUse) map[model.TagKey]TagMark {
	tags := make(map[model.TagKey]TagMark, len(defs))
	for id := range defs {
		tags[model.TagID(id)] = TagMark{}
	}
	for _, use := range uses {
		def, known := defs[use.TagID]
		if !known {
			// Tag was deleted from the vocabulary after the log was
			// written; it no longer participates in analysis.
			continue
		}
		mark := TagMark{Present: true}
		if def.Intensity != nil && use.Intensity != nil {
			v := *use.Intensity
			mark.Intensity = &v
		}
		tags[model.TagID(use.TagID)] = mark
	}
	return tags
}

// analyzableProject fetches the project and checks mode/config coherence.
// Any mismatch yields ok=false and the builder returns an empty dataset.
func analyzableProject(snap *model.Snapshot, projectID string, mode model.ProjectMode) (model.Project, bool) {
	p, ok := snap.Project(projectID)
	if !ok {
		return model.Project{}, false
	}
	if p.Mode != mode || p.Config.Kind != p.Mode {
		return model.Project{}, false
	}
	return p, true
}
