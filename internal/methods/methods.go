// Package methods is the correlation method library.
//
// Every method is a stateless pure function from a dataset to findings.
// The shared contract: insufficient data yields nil, never an error and
// never a partial result. Minimum-n thresholds are hard gates.
//
// Methods are partitioned by dataset kind at the type level: daily
// methods take *dataset.DailyDataset, event methods *dataset.EventDataset.
// The runner consumes both registries polymorphically.
package methods

import (
	"github.com/quietmind/lab/internal/dataset"
	"github.com/quietmind/lab/internal/model"
)

// DailyFunc computes findings over a daily dataset.
type DailyFunc func(ds *dataset.DailyDataset, projectID string) []model.Finding

// EventFunc computes findings over an event dataset.
type EventFunc func(ds *dataset.EventDataset, projectID string) []model.Finding

// DailyMethod is one registered daily-kind method.
type DailyMethod struct {
	Name string
	// RateScale marks methods whose effect lives on a 0..1 rate scale,
	// where small absolute effects are still meaningful. The runner's
	// minimum-effect guardrail exempts them.
	RateScale bool
	Run       DailyFunc
}

// EventMethod is one registered event-kind method.
type EventMethod struct {
	Name string
	// Grouped methods receive the group-projected dataset instead of
	// the raw one.
	Grouped   bool
	RateScale bool
	Run       EventFunc
}

// DailyMethods is the daily method registry, in declaration order.
// Order is stable so recomputes emit findings deterministically.
var DailyMethods = []DailyMethod{
	{Name: "presence-effect", Run: presenceEffect},
	{Name: "lag-1", Run: lagEffect("lag-1", 1)},
	{Name: "lag-2", Run: lagEffect("lag-2", 2)},
	{Name: "lag-3", Run: lagEffect("lag-3", 3)},
	{Name: "rolling-3d", Run: rollingEffect("rolling-3d", 3)},
	{Name: "rolling-7d", Run: rollingEffect("rolling-7d", 7)},
	{Name: "dose-response", Run: doseResponse},
	{Name: "regime-summary", Run: regimeSummary},
}

// EventMethods is the event method registry, in declaration order.
// Each analysis exists in a tag-keyed and a group-keyed flavor; the two
// share one implementation and differ only in dataset and name.
var EventMethods = []EventMethod{
	{Name: "event-tag-frequency", RateScale: true, Run: frequency("event-tag-frequency")},
	{Name: "event-group-frequency", Grouped: true, RateScale: true, Run: frequency("event-group-frequency")},
	{Name: "event-tag-severity-effect", Run: severityEffect("event-tag-severity-effect")},
	{Name: "event-group-severity-effect", Grouped: true, Run: severityEffect("event-group-severity-effect")},
	{Name: "event-tag-episode-duration-effect", Run: episodeDurationEffect("event-tag-episode-duration-effect")},
	{Name: "event-group-episode-duration-effect", Grouped: true, Run: episodeDurationEffect("event-group-episode-duration-effect")},
	{Name: "event-tag-episode-max-severity-effect", Run: episodeMaxSeverityEffect("event-tag-episode-max-severity-effect")},
	{Name: "event-group-episode-max-severity-effect", Grouped: true, Run: episodeMaxSeverityEffect("event-group-episode-max-severity-effect")},
	{Name: "event-tag-occurrence-effect", RateScale: true, Run: occurrenceEffect("event-tag-occurrence-effect")},
	{Name: "event-group-occurrence-effect", Grouped: true, RateScale: true, Run: occurrenceEffect("event-group-occurrence-effect")},
}

// RateScaleMethods reports, by name, which methods operate on a rate
// scale. The runner consults this for its guardrail exemption.
func RateScaleMethods() map[string]bool {
	out := make(map[string]bool, len(DailyMethods)+len(EventMethods))
	for _, m := range DailyMethods {
		if m.RateScale {
			out[m.Name] = true
		}
	}
	for _, m := range EventMethods {
		if m.RateScale {
			out[m.Name] = true
		}
	}
	return out
}
