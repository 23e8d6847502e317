package dataset

import "time"

// DaySummary aggregates one calendar day of an event dataset.
type DaySummary struct {
	Date          string   `json:"date"`
	Count         int      `json:"count"`
	SeverityCount int      `json:"severity_count"`
	SeverityAvg   *float64 `json:"severity_avg,omitempty"`
	SeverityMax   *float64 `json:"severity_max,omitempty"`
}

// EpisodeSummary aggregates one episode of an event dataset.
type EpisodeSummary struct {
	ID            string         `json:"id"`
	Start         time.Time      `json:"start"`
	End           time.Time      `json:"end"`
	Duration      time.Duration  `json:"duration"`
	Events        int            `json:"events"`
	GapSincePrev  *time.Duration `json:"gap_since_prev,omitempty"` // nil for the first episode
	SeverityCount int            `json:"severity_count"`
	SeverityAvg   *float64       `json:"severity_avg,omitempty"`
	SeverityMax   *float64       `json:"severity_max,omitempty"`
}

// SummarizeDays rolls an event dataset up per calendar day, ascending.
// Days without events are omitted (unlike OccurrenceDaily, this is a
// view of what happened, not a baseline).
func SummarizeDays(events *EventDataset) []DaySummary {
	var out []DaySummary
	for _, row := range events.Rows {
		date := row.At.Local().Format(DayFormat)
		if len(out) == 0 || out[len(out)-1].Date != date {
			out = append(out, DaySummary{Date: date})
		}
		s := &out[len(out)-1]
		s.Count++
		if row.Severity != nil {
			addSeverity(&s.SeverityCount, &s.SeverityAvg, &s.SeverityMax, *row.Severity)
		}
	}
	return out
}

// SummarizeEpisodes rolls an event dataset up per episode, in episode
// order. The input rows are already episode-annotated and sorted, so the
// walk closes an episode whenever the id changes.
func SummarizeEpisodes(events *EventDataset) []EpisodeSummary {
	var out []EpisodeSummary
	for _, row := range events.Rows {
		if len(out) == 0 || out[len(out)-1].ID != row.Episode.ID {
			s := EpisodeSummary{ID: row.Episode.ID, Start: row.At, End: row.At}
			if len(out) > 0 {
				gap := row.At.Sub(out[len(out)-1].End)
				s.GapSincePrev = &gap
			}
			out = append(out, s)
		}
		s := &out[len(out)-1]
		s.End = row.At
		s.Duration = s.End.Sub(s.Start)
		s.Events++
		if row.Severity != nil {
			addSeverity(&s.SeverityCount, &s.SeverityAvg, &s.SeverityMax, *row.Severity)
		}
	}
	return out
}

// addSeverity folds one severity sample into running count/avg/max.
func addSeverity(count *int, avg, max **float64, v float64) {
	*count++
	if *avg == nil {
		a, m := v, v
		*avg, *max = &a, &m
		return
	}
	n := float64(*count)
	**avg = (**avg*(n-1) + v) / n
	if v > **max {
		**max = v
	}
}
