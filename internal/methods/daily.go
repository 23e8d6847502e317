package methods

import (
	"sort"

	"github.com/quietmind/lab/internal/dataset"
	"github.com/quietmind/lab/internal/model"
)

// presenceEffect compares the mean outcome of days a tag was present
// against days it was absent. Requires at least 3 outcome-bearing days
// on each side.
func presenceEffect(ds *dataset.DailyDataset, projectID string) []model.Finding {
	var out []model.Finding
	for _, key := range sortedKeys(ds.Keys()) {
		var present, absent []float64
		for _, row := range ds.Rows {
			if row.Outcome == nil {
				continue
			}
			if row.Tags[key].Present {
				present = append(present, *row.Outcome)
			} else {
				absent = append(absent, *row.Outcome)
			}
		}
		if len(present) < 3 || len(absent) < 3 {
			continue
		}

		n := len(present) + len(absent)
		effect := round2(mean(present) - mean(absent))
		confidence := model.ConfidenceMedium
		if n >= 20 {
			confidence = model.ConfidenceHigh
		}
		out = append(out, model.Finding{
			ProjectID:  projectID,
			Tag:        key,
			Method:     "presence-effect",
			Effect:     effect,
			Confidence: confidence,
			SampleSize: n,
			Summary:    summarize("presence-effect", effect),
			Raw: map[string]float64{
				"mean_present": mean(present),
				"mean_absent":  mean(absent),
				"n_present":    float64(len(present)),
				"n_absent":     float64(len(absent)),
			},
		})
	}
	return out
}

// lagEffect builds the lag-k method: today's outcome conditioned on
// whether the tag was present k days earlier. Requires 5 usable pairs
// and 3 per side.
func lagEffect(name string, lagDays int) DailyFunc {
	return func(ds *dataset.DailyDataset, projectID string) []model.Finding {
		// Rows with an unparseable date have a zero Day and simply miss
		// every lookup.
		byDate := make(map[string]dataset.DailyRow, len(ds.Rows))
		for _, row := range ds.Rows {
			if !row.Day.IsZero() {
				byDate[row.Date] = row
			}
		}

		var out []model.Finding
		for _, key := range sortedKeys(ds.Keys()) {
			var withTag, withoutTag []float64
			for _, row := range ds.Rows {
				if row.Outcome == nil || row.Day.IsZero() {
					continue
				}
				earlier, ok := byDate[row.Day.AddDate(0, 0, -lagDays).Format(dataset.DayFormat)]
				if !ok {
					continue
				}
				if earlier.Tags[key].Present {
					withTag = append(withTag, *row.Outcome)
				} else {
					withoutTag = append(withoutTag, *row.Outcome)
				}
			}
			n := len(withTag) + len(withoutTag)
			if n < 5 || len(withTag) < 3 || len(withoutTag) < 3 {
				continue
			}

			effect := round2(mean(withTag) - mean(withoutTag))
			confidence := model.ConfidenceLow
			if n >= 15 {
				confidence = model.ConfidenceMedium
			}
			out = append(out, model.Finding{
				ProjectID:  projectID,
				Tag:        key,
				Method:     name,
				Effect:     effect,
				Confidence: confidence,
				SampleSize: n,
				Summary:    summarize(name, effect),
				Raw: map[string]float64{
					"lag_days":     float64(lagDays),
					"mean_after":   mean(withTag),
					"mean_without": mean(withoutTag),
				},
			})
		}
		return out
	}
}

// countedOutcome pairs a rolling tag count with that day's outcome.
type countedOutcome struct {
	count   int
	outcome float64
}

// rollingEffect builds the rolling-window method: for each day with at
// least `window` preceding rows, count tag occurrences in those rows,
// then split all (count, outcome) pairs at the median count and compare
// mean outcomes of the high half against the low half.
func rollingEffect(name string, window int) DailyFunc {
	return func(ds *dataset.DailyDataset, projectID string) []model.Finding {
		var out []model.Finding
		for _, key := range sortedKeys(ds.Keys()) {
			var pairs []countedOutcome
			for i := window; i < len(ds.Rows); i++ {
				if ds.Rows[i].Outcome == nil {
					continue
				}
				count := 0
				for j := i - window; j < i; j++ {
					if ds.Rows[j].Tags[key].Present {
						count++
					}
				}
				pairs = append(pairs, countedOutcome{count: count, outcome: *ds.Rows[i].Outcome})
			}
			if len(pairs) < 10 {
				continue
			}

			// Median split: sort ascending by count; for odd n the
			// median pair belongs to neither half.
			sort.SliceStable(pairs, func(a, b int) bool { return pairs[a].count < pairs[b].count })
			n := len(pairs)
			var low, high []float64
			for _, p := range pairs[:n/2] {
				low = append(low, p.outcome)
			}
			for _, p := range pairs[(n+1)/2:] {
				high = append(high, p.outcome)
			}
			if len(low) == 0 || len(high) == 0 {
				continue
			}

			effect := round2(mean(high) - mean(low))
			confidence := model.ConfidenceLow
			if n >= 20 {
				confidence = model.ConfidenceMedium
			}
			out = append(out, model.Finding{
				ProjectID:  projectID,
				Tag:        key,
				Method:     name,
				Effect:     effect,
				Confidence: confidence,
				SampleSize: n,
				Summary:    summarize(name, effect),
				Raw: map[string]float64{
					"window_days":    float64(window),
					"mean_high_half": mean(high),
					"mean_low_half":  mean(low),
				},
			})
		}
		return out
	}
}

// doseResponse compares outcomes at the bottom third of recorded
// intensities against the top third, among days where the tag was
// present with an intensity. Requires 6 such days, 2 per third.
func doseResponse(ds *dataset.DailyDataset, projectID string) []model.Finding {
	type dose struct {
		intensity float64
		outcome   float64
	}
	var out []model.Finding
	for _, key := range sortedKeys(ds.Keys()) {
		var points []dose
		for _, row := range ds.Rows {
			mark := row.Tags[key]
			if row.Outcome == nil || !mark.Present || mark.Intensity == nil {
				continue
			}
			points = append(points, dose{intensity: *mark.Intensity, outcome: *row.Outcome})
		}
		n := len(points)
		if n < 6 {
			continue
		}

		sort.SliceStable(points, func(a, b int) bool { return points[a].intensity < points[b].intensity })
		third := n / 3
		if third < 2 {
			continue
		}
		var bottom, top []float64
		for _, p := range points[:third] {
			bottom = append(bottom, p.outcome)
		}
		for _, p := range points[n-third:] {
			top = append(top, p.outcome)
		}

		effect := round2(mean(top) - mean(bottom))
		confidence := model.ConfidenceLow
		if n >= 12 {
			confidence = model.ConfidenceMedium
		}
		out = append(out, model.Finding{
			ProjectID:  projectID,
			Tag:        key,
			Method:     "dose-response",
			Effect:     effect,
			Confidence: confidence,
			SampleSize: n,
			Summary:    summarize("dose-response", effect),
			Raw: map[string]float64{
				"mean_top_third":    mean(top),
				"mean_bottom_third": mean(bottom),
				"third_size":        float64(third),
			},
		})
	}
	return out
}

// regimeNoiseFloor discards regime findings whose presence-rate spread
// is too small to mean anything.
const regimeNoiseFloor = 0.15

// regimeSummary sorts outcome-bearing days ascending and compares each
// tag's presence rate in the top quartile of days against the bottom
// quartile. Requires 10 outcome-bearing days.
func regimeSummary(ds *dataset.DailyDataset, projectID string) []model.Finding {
	var ranked []dataset.DailyRow
	for _, row := range ds.Rows {
		if row.Outcome != nil {
			ranked = append(ranked, row)
		}
	}
	n := len(ranked)
	if n < 10 {
		return nil
	}
	sort.SliceStable(ranked, func(a, b int) bool { return *ranked[a].Outcome < *ranked[b].Outcome })

	quartile := n / 4
	if quartile < 1 {
		return nil
	}
	bottom := ranked[:quartile]
	top := ranked[n-quartile:]

	presenceRate := func(rows []dataset.DailyRow, key model.TagKey) float64 {
		present := 0
		for _, row := range rows {
			if row.Tags[key].Present {
				present++
			}
		}
		return float64(present) / float64(len(rows))
	}

	var out []model.Finding
	for _, key := range sortedKeys(ds.Keys()) {
		topRate := presenceRate(top, key)
		bottomRate := presenceRate(bottom, key)
		effect := round2(topRate - bottomRate)
		if effect > -regimeNoiseFloor && effect < regimeNoiseFloor {
			continue
		}

		confidence := model.ConfidenceLow
		if n >= 20 {
			confidence = model.ConfidenceMedium
		}
		out = append(out, model.Finding{
			ProjectID:  projectID,
			Tag:        key,
			Method:     "regime-summary",
			Effect:     effect,
			Confidence: confidence,
			SampleSize: n,
			Summary:    summarize("regime-summary", effect),
			Raw: map[string]float64{
				"rate_top_quartile":    topRate,
				"rate_bottom_quartile": bottomRate,
				"quartile_size":        float64(quartile),
			},
		})
	}
	return out
}
