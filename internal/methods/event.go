package methods

import (
	"github.com/quietmind/lab/internal/dataset"
	"github.com/quietmind/lab/internal/model"
)

// frequency builds the tag/group presence-rate method: how often the key
// appears across all events. The effect is the rate itself (0..1).
func frequency(name string) EventFunc {
	return func(ds *dataset.EventDataset, projectID string) []model.Finding {
		total := len(ds.Rows)
		if total == 0 {
			return nil
		}
		var out []model.Finding
		for _, key := range sortedKeys(ds.Keys()) {
			present := 0
			for _, row := range ds.Rows {
				if row.Tags[key].Present {
					present++
				}
			}
			if present == 0 {
				continue
			}

			effect := round2(float64(present) / float64(total))
			confidence := model.ConfidenceLow
			switch {
			case total >= 30 && present >= 10:
				confidence = model.ConfidenceHigh
			case total >= 10 && present >= 3:
				confidence = model.ConfidenceMedium
			}
			out = append(out, model.Finding{
				ProjectID:  projectID,
				Tag:        key,
				Method:     name,
				Effect:     effect,
				Confidence: confidence,
				SampleSize: total,
				Summary:    summarize(name, effect),
				Raw: map[string]float64{
					"present": float64(present),
					"total":   float64(total),
				},
			})
		}
		return out
	}
}

// severityTiers applies the shared confidence tiering of the
// severity-style event methods.
func severityTiers(n int) model.Confidence {
	switch {
	case n >= 20:
		return model.ConfidenceHigh
	case n >= 10:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

// severityEffect builds the method comparing mean event severity with
// the key present against absent. Requires 6 severity-bearing events,
// 3 per side.
func severityEffect(name string) EventFunc {
	return func(ds *dataset.EventDataset, projectID string) []model.Finding {
		var out []model.Finding
		for _, key := range sortedKeys(ds.Keys()) {
			var withKey, withoutKey []float64
			for _, row := range ds.Rows {
				if row.Severity == nil {
					continue
				}
				if row.Tags[key].Present {
					withKey = append(withKey, *row.Severity)
				} else {
					withoutKey = append(withoutKey, *row.Severity)
				}
			}
			n := len(withKey) + len(withoutKey)
			if n < 6 || len(withKey) < 3 || len(withoutKey) < 3 {
				continue
			}

			effect := round2(mean(withKey) - mean(withoutKey))
			out = append(out, model.Finding{
				ProjectID:  projectID,
				Tag:        key,
				Method:     name,
				Effect:     effect,
				Confidence: severityTiers(n),
				SampleSize: n,
				Summary:    summarize(name, effect),
				Raw: map[string]float64{
					"mean_with":    mean(withKey),
					"mean_without": mean(withoutKey),
					"n_with":       float64(len(withKey)),
					"n_without":    float64(len(withoutKey)),
				},
			})
		}
		return out
	}
}
