package dataset

import (
	"time"

	"github.com/quietmind/lab/internal/model"
)

// OccurrenceDaily synthesizes a daily dataset from an event dataset: one
// row per local calendar day spanning the earliest to latest event
// (inclusive), outcome 1 on days with at least one event and 0 otherwise,
// tag presence OR-ed across the day's events.
//
// This is the only builder that invents rows absent from the source log;
// the gap days form the implicit "no event" baseline occurrence-style
// methods compare against. Works on both the raw and the group-projected
// event dataset (the key set is taken from the input rows).
func OccurrenceDaily(events *EventDataset) DailyDataset {
	ds := DailyDataset{ProjectID: events.ProjectID, Synthesized: true}
	if len(events.Rows) == 0 {
		return ds
	}

	keys := events.Keys()
	byDay := make(map[string][]EventRow, len(events.Rows))
	for _, row := range events.Rows {
		day := row.At.Local().Format(DayFormat)
		byDay[day] = append(byDay[day], row)
	}

	first := dayStart(events.Rows[0].At)
	last := dayStart(events.Rows[len(events.Rows)-1].At)

	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		date := day.Format(DayFormat)
		rows := byDay[date]

		outcome := 0.0
		if len(rows) > 0 {
			outcome = 1.0
		}
		tags := make(map[model.TagKey]TagMark, len(keys))
		for _, k := range keys {
			tags[k] = TagMark{}
		}
		for _, r := range rows {
			for k, mark := range r.Tags {
				if mark.Present {
					tags[k] = TagMark{Present: true}
				}
			}
		}

		v := outcome
		ds.Rows = append(ds.Rows, DailyRow{
			Date:    date,
			Day:     day,
			Outcome: &v,
			Tags:    tags,
		})
	}

	ds.Coverage.TotalLogs = len(events.Rows)
	ds.Coverage.ValidRows = len(ds.Rows)
	return ds
}

// dayStart truncates a timestamp to local midnight.
func dayStart(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
