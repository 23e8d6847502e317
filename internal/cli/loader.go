package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quietmind/lab/internal/model"
)

// snapshotFile is the YAML layout of an exported state snapshot. Logs
// are lists in the file and become the keyed maps the engine expects.
type snapshotFile struct {
	Projects     []model.Project              `yaml:"projects"`
	ProjectOrder []string                     `yaml:"project_order"`
	Tags         map[string][]model.TagDef    `yaml:"tags"`
	DailyLogs    map[string][]model.DailyLog  `yaml:"daily_logs"`
	EventLogs    map[string][]model.EventLog  `yaml:"event_logs"`
}

// LoadSnapshotFile reads a YAML snapshot export into the engine's view.
// Event logs without an id get a positional one; exports made by the
// store always carry ids.
func LoadSnapshotFile(path string) (*model.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}

	var file snapshotFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}

	snap := &model.Snapshot{
		Projects:  make(map[string]model.Project, len(file.Projects)),
		Tags:      make(map[string]map[string]model.TagDef, len(file.Tags)),
		DailyLogs: make(map[string]map[string]model.DailyLog, len(file.DailyLogs)),
		EventLogs: make(map[string]map[string]model.EventLog, len(file.EventLogs)),
	}

	for _, p := range file.Projects {
		if p.ID == "" {
			return nil, fmt.Errorf("parse snapshot %s: project without id", path)
		}
		snap.Projects[p.ID] = p
	}

	snap.ProjectOrder = file.ProjectOrder
	if len(snap.ProjectOrder) == 0 {
		for _, p := range file.Projects {
			snap.ProjectOrder = append(snap.ProjectOrder, p.ID)
		}
	}

	for projectID, defs := range file.Tags {
		m := make(map[string]model.TagDef, len(defs))
		for _, def := range defs {
			m[def.ID] = def
		}
		snap.Tags[projectID] = m
	}

	for projectID, logs := range file.DailyLogs {
		m := make(map[string]model.DailyLog, len(logs))
		for _, log := range logs {
			m[log.Date] = log // date is the natural key, last write wins
		}
		snap.DailyLogs[projectID] = m
	}

	for projectID, logs := range file.EventLogs {
		m := make(map[string]model.EventLog, len(logs))
		for i, log := range logs {
			if log.ID == "" {
				log.ID = fmt.Sprintf("evt-%d", i+1)
			}
			m[log.ID] = log
		}
		snap.EventLogs[projectID] = m
	}

	return snap, nil
}
