package model

import "time"

// Confidence is the qualitative reliability tier a method assigns to a
// finding. Tiers come from sample-size cutoffs, not significance tests.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Finding is one statistical observation produced by a correlation method
// for one tag or group. Findings are immutable: the engine recomputes the
// whole slice per fingerprint and never patches one in place.
type Finding struct {
	ProjectID  string             `json:"project_id"`
	Tag        TagKey             `json:"tag"`
	Method     string             `json:"method"`
	Effect     float64            `json:"effect"` // rounded to 2 decimals
	Confidence Confidence         `json:"confidence"`
	SampleSize int                `json:"sample_size"`
	Summary    string             `json:"summary"`
	Raw        map[string]float64 `json:"raw,omitempty"`
}

// CacheEntry holds the findings computed for one project at one content
// fingerprint. Entries are replaced wholesale on recompute, never merged.
type CacheEntry struct {
	Fingerprint string    `json:"fingerprint"`
	Findings    []Finding `json:"findings"`
	ComputedAt  time.Time `json:"computed_at"`
}
