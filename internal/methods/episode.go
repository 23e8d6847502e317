package methods

import (
	"github.com/quietmind/lab/internal/dataset"
	"github.com/quietmind/lab/internal/model"
)

// episodeAggregate is the per-episode view the episode-scoped methods
// compare on: duration, peak severity, and the set of keys present
// anywhere in the episode.
type episodeAggregate struct {
	durationHours float64
	maxSeverity   *float64
	keys          map[model.TagKey]bool
}

// aggregateEpisodes folds episode-annotated rows into one aggregate per
// episode, in episode order.
func aggregateEpisodes(ds *dataset.EventDataset) []episodeAggregate {
	var out []episodeAggregate
	var currentID string
	var start, end int // row index range of the current episode

	flush := func() {
		agg := episodeAggregate{keys: make(map[model.TagKey]bool)}
		for i := start; i < end; i++ {
			row := ds.Rows[i]
			for k, mark := range row.Tags {
				if mark.Present {
					agg.keys[k] = true
				}
			}
			if row.Severity != nil && (agg.maxSeverity == nil || *row.Severity > *agg.maxSeverity) {
				v := *row.Severity
				agg.maxSeverity = &v
			}
		}
		agg.durationHours = ds.Rows[end-1].At.Sub(ds.Rows[start].At).Hours()
		out = append(out, agg)
	}

	for i, row := range ds.Rows {
		if row.Episode.ID != currentID {
			if currentID != "" {
				end = i
				flush()
			}
			currentID = row.Episode.ID
			start = i
		}
	}
	if currentID != "" {
		end = len(ds.Rows)
		flush()
	}
	return out
}

// episodeSplit partitions episode values by whether the episode contains
// the key. The caller chooses which value to extract per episode.
func episodeSplit(episodes []episodeAggregate, key model.TagKey, value func(episodeAggregate) (float64, bool)) (with, without []float64) {
	for _, ep := range episodes {
		v, ok := value(ep)
		if !ok {
			continue
		}
		if ep.keys[key] {
			with = append(with, v)
		} else {
			without = append(without, v)
		}
	}
	return with, without
}

// episodeDurationEffect builds the method comparing episode duration
// (hours) of episodes containing the key against those without it.
// Requires 6 episodes, 3 per side.
func episodeDurationEffect(name string) EventFunc {
	return episodeEffect(name, func(ep episodeAggregate) (float64, bool) {
		return ep.durationHours, true
	}, 6)
}

// episodeMaxSeverityEffect builds the method comparing peak episode
// severity with the key present against absent. Requires 6 episodes
// carrying a severity, 3 per side.
func episodeMaxSeverityEffect(name string) EventFunc {
	return episodeEffect(name, func(ep episodeAggregate) (float64, bool) {
		if ep.maxSeverity == nil {
			return 0, false
		}
		return *ep.maxSeverity, true
	}, 6)
}

// episodeEffect is the shared core of the episode-scoped comparisons.
func episodeEffect(name string, value func(episodeAggregate) (float64, bool), minEpisodes int) EventFunc {
	return func(ds *dataset.EventDataset, projectID string) []model.Finding {
		episodes := aggregateEpisodes(ds)

		var out []model.Finding
		for _, key := range sortedKeys(ds.Keys()) {
			with, without := episodeSplit(episodes, key, value)
			n := len(with) + len(without)
			if n < minEpisodes || len(with) < 3 || len(without) < 3 {
				continue
			}

			effect := round2(mean(with) - mean(without))
			out = append(out, model.Finding{
				ProjectID:  projectID,
				Tag:        key,
				Method:     name,
				Effect:     effect,
				Confidence: severityTiers(n),
				SampleSize: n,
				Summary:    summarize(name, effect),
				Raw: map[string]float64{
					"mean_with":    mean(with),
					"mean_without": mean(without),
					"episodes":     float64(n),
				},
			})
		}
		return out
	}
}
