package methods

import (
	"github.com/quietmind/lab/internal/dataset"
	"github.com/quietmind/lab/internal/model"
)

// occurrenceNoiseFloor drops occurrence findings whose rate difference
// is effectively zero.
const occurrenceNoiseFloor = 0.01

// occurrenceEffect builds the method comparing the daily occurrence rate
// (did any event happen that day, 0/1) on days the key appeared against
// days it did not, over the synthesized occurrence baseline.
//
// Requires 14 calendar days and variance to explain: at least one event
// day and one non-event day, 3 with-key days, 7 without.
func occurrenceEffect(name string) EventFunc {
	return func(ds *dataset.EventDataset, projectID string) []model.Finding {
		daily := dataset.OccurrenceDaily(ds)
		days := len(daily.Rows)
		if days < 14 {
			return nil
		}

		eventDays, quietDays := 0, 0
		for _, row := range daily.Rows {
			if *row.Outcome > 0 {
				eventDays++
			} else {
				quietDays++
			}
		}
		if eventDays == 0 || quietDays == 0 {
			return nil
		}

		var out []model.Finding
		for _, key := range sortedKeys(daily.Keys()) {
			var withKey, withoutKey []float64
			for _, row := range daily.Rows {
				if row.Tags[key].Present {
					withKey = append(withKey, *row.Outcome)
				} else {
					withoutKey = append(withoutKey, *row.Outcome)
				}
			}
			if len(withKey) < 3 || len(withoutKey) < 7 {
				continue
			}

			effect := round2(mean(withKey) - mean(withoutKey))
			if effect > -occurrenceNoiseFloor && effect < occurrenceNoiseFloor {
				continue
			}

			confidence := model.ConfidenceLow
			switch {
			case days >= 60 && len(withKey) >= 10:
				confidence = model.ConfidenceHigh
			case days >= 28 && len(withKey) >= 6:
				confidence = model.ConfidenceMedium
			}
			out = append(out, model.Finding{
				ProjectID:  projectID,
				Tag:        key,
				Method:     name,
				Effect:     effect,
				Confidence: confidence,
				SampleSize: days,
				Summary:    summarize(name, effect),
				Raw: map[string]float64{
					"days":          float64(days),
					"event_days":    float64(eventDays),
					"with_key_days": float64(len(withKey)),
					"rate_with":     mean(withKey),
					"rate_without":  mean(withoutKey),
				},
			})
		}
		return out
	}
}
