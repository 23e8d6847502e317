package methods

import (
	"math"
	"sort"

	"github.com/quietmind/lab/internal/model"
)

// mean averages a sample. Callers gate on len > 0.
func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// round2 rounds an effect to 2 decimals, the precision findings carry.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// sortedKeys returns the dataset key set in deterministic order so every
// recompute emits findings identically.
func sortedKeys(keys []model.TagKey) []model.TagKey {
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}
