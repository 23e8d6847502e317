package engine

import (
	"github.com/quietmind/lab/internal/dataset"
	"github.com/quietmind/lab/internal/model"
)

// suppressRareTags drops daily findings for tags present on less than
// RareTagMinShare of logged days. It only kicks in once RareTagMinLogs
// days exist: before that, every tag is "rare" and suppression would
// erase the dataset's early signal entirely. The point is to keep
// one-off tags from dominating rankings, not to punish small datasets.
func (e *Engine) suppressRareTags(ds *dataset.DailyDataset, findings []model.Finding) []model.Finding {
	total := len(ds.Rows)
	if total < e.tuning.RareTagMinLogs {
		return findings
	}

	counts := make(map[model.TagKey]int)
	for _, row := range ds.Rows {
		for key, mark := range row.Tags {
			if mark.Present {
				counts[key]++
			}
		}
	}

	kept := findings[:0]
	for _, f := range findings {
		share := float64(counts[f.Tag]) / float64(total)
		if share < e.tuning.RareTagMinShare {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// guardrails applies the post-hoc reliability filters: findings backed
// by too small a sample go, and findings with a negligible absolute
// effect go unless the method's effect lives on a 0..1 rate scale
// (a 5% presence rate is small but still worth surfacing).
func (e *Engine) guardrails(findings []model.Finding) []model.Finding {
	kept := findings[:0]
	for _, f := range findings {
		if f.SampleSize < e.tuning.MinSampleSize {
			continue
		}
		abs := f.Effect
		if abs < 0 {
			abs = -abs
		}
		if abs < e.tuning.MinEffect && !e.rateScale[f.Method] {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}
