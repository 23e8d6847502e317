package testutil

import (
	"fmt"
	"time"

	"github.com/quietmind/lab/internal/model"
)

// Ptr returns a pointer to v; shorthand for optional numeric fields.
func Ptr(v float64) *float64 {
	return &v
}

// SnapshotBuilder assembles model.Snapshot fixtures incrementally.
// Methods return the builder for chaining; Build hands out the snapshot.
type SnapshotBuilder struct {
	snap model.Snapshot
}

// NewSnapshot creates an empty snapshot builder.
func NewSnapshot() *SnapshotBuilder {
	return &SnapshotBuilder{snap: model.Snapshot{
		Projects:  make(map[string]model.Project),
		Tags:      make(map[string]map[string]model.TagDef),
		DailyLogs: make(map[string]map[string]model.DailyLog),
		EventLogs: make(map[string]map[string]model.EventLog),
	}}
}

// DailyProject registers a daily-mode project with a coherent config.
func (b *SnapshotBuilder) DailyProject(id, name string) *SnapshotBuilder {
	b.snap.Projects[id] = model.Project{
		ID:        id,
		Name:      name,
		Mode:      model.ModeDaily,
		UpdatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Config:    model.ProjectConfig{Kind: model.ModeDaily},
	}
	b.snap.ProjectOrder = append(b.snap.ProjectOrder, id)
	return b
}

// EventProject registers an event-mode project with a coherent config.
func (b *SnapshotBuilder) EventProject(id, name string) *SnapshotBuilder {
	b.snap.Projects[id] = model.Project{
		ID:        id,
		Name:      name,
		Mode:      model.ModeEvent,
		UpdatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Config:    model.ProjectConfig{Kind: model.ModeEvent, SeverityEnabled: true},
	}
	b.snap.ProjectOrder = append(b.snap.ProjectOrder, id)
	return b
}

// Mutate applies an arbitrary edit to a registered project.
func (b *SnapshotBuilder) Mutate(projectID string, fn func(*model.Project)) *SnapshotBuilder {
	p := b.snap.Projects[projectID]
	fn(&p)
	b.snap.Projects[projectID] = p
	return b
}

// Tag adds a tag definition to a project's vocabulary.
func (b *SnapshotBuilder) Tag(projectID string, def model.TagDef) *SnapshotBuilder {
	if b.snap.Tags[projectID] == nil {
		b.snap.Tags[projectID] = make(map[string]model.TagDef)
	}
	b.snap.Tags[projectID][def.ID] = def
	return b
}

// DailyLog records a daily log; the date is the key, last write wins.
func (b *SnapshotBuilder) DailyLog(projectID string, log model.DailyLog) *SnapshotBuilder {
	if b.snap.DailyLogs[projectID] == nil {
		b.snap.DailyLogs[projectID] = make(map[string]model.DailyLog)
	}
	b.snap.DailyLogs[projectID][log.Date] = log
	return b
}

// Day is DailyLog shorthand: date, outcome, present tag ids.
func (b *SnapshotBuilder) Day(projectID, date string, outcome float64, tagIDs ...string) *SnapshotBuilder {
	log := model.DailyLog{Date: date, Outcome: Ptr(outcome)}
	for _, id := range tagIDs {
		log.Tags = append(log.Tags, model.TagUse{TagID: id})
	}
	return b.DailyLog(projectID, log)
}

// EventLog appends an event log under a generated sequential id.
func (b *SnapshotBuilder) EventLog(projectID string, log model.EventLog) *SnapshotBuilder {
	if b.snap.EventLogs[projectID] == nil {
		b.snap.EventLogs[projectID] = make(map[string]model.EventLog)
	}
	if log.ID == "" {
		log.ID = fmt.Sprintf("evt-%d", len(b.snap.EventLogs[projectID])+1)
	}
	b.snap.EventLogs[projectID][log.ID] = log
	return b
}

// Event is EventLog shorthand: timestamp and present tag ids.
func (b *SnapshotBuilder) Event(projectID, timestamp string, tagIDs ...string) *SnapshotBuilder {
	log := model.EventLog{Timestamp: timestamp}
	for _, id := range tagIDs {
		log.Tags = append(log.Tags, model.TagUse{TagID: id})
	}
	return b.EventLog(projectID, log)
}

// Build returns the assembled snapshot.
func (b *SnapshotBuilder) Build() *model.Snapshot {
	return &b.snap
}
