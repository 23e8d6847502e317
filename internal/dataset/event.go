package dataset

import (
	"fmt"
	"sort"
	"time"

	"github.com/quietmind/lab/internal/model"
)

// timestampFormats are tried in order when parsing event timestamps.
// Clients record RFC 3339; the shorter forms cover hand-edited exports.
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	DayFormat,
}

// parseTimestamp parses a recorded event timestamp. Unparseable values
// degrade to the epoch sentinel rather than failing the build; the
// caller tallies them in Coverage.MalformedRows so the fallback is
// visible instead of silently merging rows into the first episode.
func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampFormats {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Unix(0, 0), false
}

// BuildEvent materializes the event dataset for a project: one row per
// event log, sorted ascending by timestamp, episode fields derived.
//
// Event logs have no required fields, so nothing is skipped and
// Coverage.SkippedRows is always 0.
func BuildEvent(snap *model.Snapshot, projectID string) EventDataset {
	ds := EventDataset{ProjectID: projectID}
	if _, ok := analyzableProject(snap, projectID, model.ModeEvent); !ok {
		return ds
	}

	defs := snap.ProjectTags(projectID)
	logs := snap.EventLogs[projectID]
	ds.Coverage.TotalLogs = len(logs)

	ds.Rows = make([]EventRow, 0, len(logs))
	for _, log := range logs {
		at, parsed := parseTimestamp(log.Timestamp)
		if !parsed {
			ds.Coverage.MalformedRows++
		}
		row := EventRow{
			At:   at,
			Note: log.Note,
			Tags: seedTagMap(defs, log.Tags),
		}
		if log.Severity != nil {
			v := *log.Severity
			row.Severity = &v
		}
		ds.Rows = append(ds.Rows, row)
	}

	sort.Slice(ds.Rows, func(i, j int) bool {
		return ds.Rows[i].At.Before(ds.Rows[j].At)
	})
	annotateEpisodes(ds.Rows)
	ds.Coverage.ValidRows = len(ds.Rows)
	return ds
}

// annotateEpisodes partitions sorted rows into gap-delimited episodes and
// stamps every row with its episode id, 1-based index, and streak length.
//
// Invariant: episodes partition the rows exactly. No two consecutive rows
// inside an episode are more than EpisodeGap apart, and the gap across an
// episode boundary always exceeds EpisodeGap. A lone row is its own
// episode of length 1.
func annotateEpisodes(rows []EventRow) {
	if len(rows) == 0 {
		return
	}

	episode := 1
	start := 0 // first row index of the current episode
	close := func(end int) {
		id := fmt.Sprintf("ep-%d", episode)
		length := end - start
		for i := start; i < end; i++ {
			rows[i].Episode = Episode{ID: id, Index: i - start + 1, Length: length}
		}
	}

	for i := 1; i < len(rows); i++ {
		if rows[i].At.Sub(rows[i-1].At) > EpisodeGap {
			close(i)
			episode++
			start = i
		}
	}
	close(len(rows))
}
