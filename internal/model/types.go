package model

import "time"

// ProjectMode distinguishes the two tracking styles a project can use.
type ProjectMode string

const (
	// ModeDaily projects record at most one outcome value per calendar day.
	ModeDaily ProjectMode = "daily"
	// ModeEvent projects record timestamped sporadic occurrences.
	ModeEvent ProjectMode = "event"
)

// ValidModes defines the allowed project modes.
var ValidModes = map[ProjectMode]bool{
	ModeDaily: true,
	ModeEvent: true,
}

// ProjectConfig carries per-mode settings. Kind must match the project's
// Mode; a mismatch makes the project unanalyzable (empty datasets, not an
// error).
type ProjectConfig struct {
	Kind ProjectMode `json:"kind" yaml:"kind"`

	// RequireOutcome makes daily logs without a recorded outcome invalid
	// for analysis (they are skipped and counted in Coverage).
	RequireOutcome bool `json:"require_outcome,omitempty" yaml:"require_outcome,omitempty"`

	// OutcomeLabel is the display name for the daily outcome axis
	// ("mood", "energy", ...). Presentation only.
	OutcomeLabel string `json:"outcome_label,omitempty" yaml:"outcome_label,omitempty"`

	// SeverityEnabled exposes the severity field on event logs.
	SeverityEnabled bool `json:"severity_enabled,omitempty" yaml:"severity_enabled,omitempty"`
}

// Project is one user-defined tracking context.
type Project struct {
	ID        string        `json:"id" yaml:"id"`
	Name      string        `json:"name" yaml:"name"`
	Mode      ProjectMode   `json:"mode" yaml:"mode"`
	Archived  bool          `json:"archived,omitempty" yaml:"archived,omitempty"`
	UpdatedAt time.Time     `json:"updated_at" yaml:"updated_at"`
	Config    ProjectConfig `json:"config" yaml:"config"`
}

// IntensitySpec enables the optional intensity value on a tag and bounds it.
type IntensitySpec struct {
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
	Step float64 `json:"step,omitempty" yaml:"step,omitempty"`
	Unit string  `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// TagDef defines one entry of a project's tag vocabulary.
// A nil Intensity means the tag is presence-only.
type TagDef struct {
	ID        string         `json:"id" yaml:"id"`
	Name      string         `json:"name" yaml:"name"`
	Group     string         `json:"group,omitempty" yaml:"group,omitempty"`
	Intensity *IntensitySpec `json:"intensity,omitempty" yaml:"intensity,omitempty"`
}

// TagUse attaches a tag to a log record. Intensity is meaningful only if
// the referenced TagDef enables it.
type TagUse struct {
	TagID     string   `json:"tag_id" yaml:"tag_id"`
	Intensity *float64 `json:"intensity,omitempty" yaml:"intensity,omitempty"`
}

// DailyLog is one per calendar date per project; the date is the natural
// key and last write wins.
type DailyLog struct {
	Date    string   `json:"date" yaml:"date"` // YYYY-MM-DD
	Outcome *float64 `json:"outcome,omitempty" yaml:"outcome,omitempty"`
	Tags    []TagUse `json:"tags,omitempty" yaml:"tags,omitempty"`
	NoTags  bool     `json:"no_tags,omitempty" yaml:"no_tags,omitempty"`
	Note    string   `json:"note,omitempty" yaml:"note,omitempty"`
}

// EventLog is one timestamped occurrence. The collection is append-only
// and keyed by a generated id; multiple events per day are permitted.
//
// Timestamp is kept as the raw string the client recorded. Parsing
// happens at dataset build time, where an unparseable value degrades to
// the epoch sentinel rather than failing the pipeline.
type EventLog struct {
	ID        string   `json:"id" yaml:"id"`
	Timestamp string   `json:"timestamp" yaml:"timestamp"` // RFC 3339
	Severity  *float64 `json:"severity,omitempty" yaml:"severity,omitempty"`
	Tags      []TagUse `json:"tags,omitempty" yaml:"tags,omitempty"`
	Note      string   `json:"note,omitempty" yaml:"note,omitempty"`
}

// Snapshot is the read-only view of application state the engine consumes.
// The engine never mutates it; results come back as new values.
type Snapshot struct {
	// Projects by id.
	Projects map[string]Project `json:"projects" yaml:"projects"`

	// ProjectOrder is the user's display ordering; AnalyzeAll walks it.
	ProjectOrder []string `json:"project_order" yaml:"project_order"`

	// Tags is the per-project tag registry: project id -> tag id -> def.
	Tags map[string]map[string]TagDef `json:"tags" yaml:"tags"`

	// DailyLogs: project id -> date -> log. Only meaningful for daily
	// projects.
	DailyLogs map[string]map[string]DailyLog `json:"daily_logs" yaml:"daily_logs"`

	// EventLogs: project id -> log id -> log. Only meaningful for event
	// projects.
	EventLogs map[string]map[string]EventLog `json:"event_logs" yaml:"event_logs"`
}

// Project returns the project and whether it exists.
func (s *Snapshot) Project(id string) (Project, bool) {
	p, ok := s.Projects[id]
	return p, ok
}

// ProjectTags returns the tag registry for a project (possibly nil).
func (s *Snapshot) ProjectTags(id string) map[string]TagDef {
	return s.Tags[id]
}
