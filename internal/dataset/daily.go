package dataset

import (
	"sort"
	"time"

	"github.com/quietmind/lab/internal/model"
)

// DayFormat is the calendar-day key format used throughout.
const DayFormat = "2006-01-02"

// BuildDaily materializes the daily dataset for a project.
//
// Logs lacking a required outcome are skipped and counted. Every emitted
// row carries the full vocabulary in its tag map. Rows come back sorted
// ascending by date. A missing project, a non-daily project, or a config
// kind mismatch yields an empty dataset, not an error.
func BuildDaily(snap *model.Snapshot, projectID string) DailyDataset {
	ds := DailyDataset{ProjectID: projectID}
	p, ok := analyzableProject(snap, projectID, model.ModeDaily)
	if !ok {
		return ds
	}

	defs := snap.ProjectTags(projectID)
	logs := snap.DailyLogs[projectID]
	ds.Coverage.TotalLogs = len(logs)

	ds.Rows = make([]DailyRow, 0, len(logs))
	for _, log := range logs {
		if p.Config.RequireOutcome && log.Outcome == nil {
			ds.Coverage.SkippedRows++
			continue
		}
		row := DailyRow{
			Date: log.Date,
			Tags: seedTagMap(defs, log.Tags),
		}
		if log.Outcome != nil {
			v := *log.Outcome
			row.Outcome = &v
		}
		if day, err := time.ParseInLocation(DayFormat, log.Date, time.Local); err == nil {
			row.Day = day
		} else {
			ds.Coverage.MalformedRows++
		}
		ds.Rows = append(ds.Rows, row)
	}

	sort.Slice(ds.Rows, func(i, j int) bool {
		return ds.Rows[i].Date < ds.Rows[j].Date
	})
	ds.Coverage.ValidRows = len(ds.Rows)
	return ds
}
