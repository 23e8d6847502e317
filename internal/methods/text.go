package methods

import "fmt"

// Magnitude buckets for summary wording, by absolute effect.
const (
	bucketSlight     = "slight"
	bucketModerate   = "moderate"
	bucketNoticeable = "noticeable"
	bucketStrong     = "strong"
)

// magnitude buckets an absolute effect size for summary wording.
func magnitude(effect float64) string {
	abs := effect
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs < 0.10:
		return bucketSlight
	case abs < 0.30:
		return bucketModerate
	case abs < 0.60:
		return bucketNoticeable
	default:
		return bucketStrong
	}
}

// adverbs maps magnitude buckets to their adverb forms.
var adverbs = map[string]string{
	bucketSlight:     "slightly",
	bucketModerate:   "moderately",
	bucketNoticeable: "noticeably",
	bucketStrong:     "strongly",
}

// direction words the sign of an effect.
func direction(effect float64, positive, negative string) string {
	if effect < 0 {
		return negative
	}
	return positive
}

// summarize builds the human-readable summary for a finding. Summaries
// keep the literal "[TAG]" placeholder; the presentation layer swaps in
// the tag's display name.
func summarize(method string, effect float64) string {
	mag := magnitude(effect)
	switch method {
	case "presence-effect":
		return fmt.Sprintf("Days with [TAG] show a %s %s outcome (%+.2f).",
			mag, direction(effect, "higher", "lower"), effect)
	case "lag-1", "lag-2", "lag-3":
		return fmt.Sprintf("[TAG] is followed by a %s %s outcome %s later (%+.2f).",
			mag, direction(effect, "higher", "lower"), lagSpan(method), effect)
	case "rolling-3d", "rolling-7d":
		return fmt.Sprintf("Frequent [TAG] over the past %s lines up with a %s %s outcome (%+.2f).",
			rollingSpan(method), mag, direction(effect, "higher", "lower"), effect)
	case "dose-response":
		return fmt.Sprintf("Higher [TAG] intensity shows a %s %s outcome (%+.2f).",
			mag, direction(effect, "higher", "lower"), effect)
	case "regime-summary":
		return fmt.Sprintf("[TAG] is %s %s common on your best days than your worst (%+.2f).",
			adverbs[mag], direction(effect, "more", "less"), effect)
	case "event-tag-frequency", "event-group-frequency":
		return fmt.Sprintf("[TAG] appears on %.0f%% of events (%s presence).",
			effect*100, mag)
	case "event-tag-severity-effect", "event-group-severity-effect":
		return fmt.Sprintf("Events with [TAG] run %s %s in severity (%+.2f).",
			adverbs[mag], direction(effect, "higher", "lower"), effect)
	case "event-tag-episode-duration-effect", "event-group-episode-duration-effect":
		return fmt.Sprintf("Episodes involving [TAG] last %s %s (%+.2f h).",
			adverbs[mag], direction(effect, "longer", "shorter"), effect)
	case "event-tag-episode-max-severity-effect", "event-group-episode-max-severity-effect":
		return fmt.Sprintf("Episodes involving [TAG] peak %s %s in severity (%+.2f).",
			adverbs[mag], direction(effect, "higher", "lower"), effect)
	case "event-tag-occurrence-effect", "event-group-occurrence-effect":
		return fmt.Sprintf("Days with [TAG] are %s %s likely to include an event (%+.2f).",
			adverbs[mag], direction(effect, "more", "less"), effect)
	default:
		return fmt.Sprintf("[TAG] shows a %s effect (%+.2f).", mag, effect)
	}
}

func lagSpan(method string) string {
	switch method {
	case "lag-1":
		return "1 day"
	case "lag-2":
		return "2 days"
	default:
		return "3 days"
	}
}

func rollingSpan(method string) string {
	if method == "rolling-3d" {
		return "3 days"
	}
	return "7 days"
}
