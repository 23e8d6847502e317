package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quietmind/lab/internal/fingerprint"
	"github.com/quietmind/lab/internal/model"
)

// LoadSnapshot reads the full application state into the read-only view
// the engine consumes.
func (s *Store) LoadSnapshot(ctx context.Context) (*model.Snapshot, error) {
	snap := &model.Snapshot{
		Projects:  make(map[string]model.Project),
		Tags:      make(map[string]map[string]model.TagDef),
		DailyLogs: make(map[string]map[string]model.DailyLog),
		EventLogs: make(map[string]map[string]model.EventLog),
	}

	if err := s.loadProjects(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadTags(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadDailyLogs(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadEventLogs(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *Store) loadProjects(ctx context.Context, snap *model.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.mode, p.archived, p.updated_at, p.config
		FROM projects p
		LEFT JOIN project_order o ON o.project_id = p.id
		ORDER BY o.position, p.id
	`)
	if err != nil {
		return fmt.Errorf("load projects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p model.Project
		var mode, updatedAt, configJSON string
		var archived int
		if err := rows.Scan(&p.ID, &p.Name, &mode, &archived, &updatedAt, &configJSON); err != nil {
			return fmt.Errorf("load projects: %w", err)
		}
		p.Mode = model.ProjectMode(mode)
		p.Archived = archived != 0
		if p.UpdatedAt, err = time.Parse(timeFormat, updatedAt); err != nil {
			return fmt.Errorf("load projects: parse updated_at: %w", err)
		}
		if err := json.Unmarshal([]byte(configJSON), &p.Config); err != nil {
			return fmt.Errorf("load projects: parse config: %w", err)
		}
		snap.Projects[p.ID] = p
		snap.ProjectOrder = append(snap.ProjectOrder, p.ID)
	}
	return rows.Err()
}

func (s *Store) loadTags(ctx context.Context, snap *model.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `SELECT project_id, id, name, grp, intensity FROM tags`)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var projectID string
		var def model.TagDef
		var intensity sql.NullString
		if err := rows.Scan(&projectID, &def.ID, &def.Name, &def.Group, &intensity); err != nil {
			return fmt.Errorf("load tags: %w", err)
		}
		if intensity.Valid {
			def.Intensity = &model.IntensitySpec{}
			if err := json.Unmarshal([]byte(intensity.String), def.Intensity); err != nil {
				return fmt.Errorf("load tags: parse intensity: %w", err)
			}
		}
		if snap.Tags[projectID] == nil {
			snap.Tags[projectID] = make(map[string]model.TagDef)
		}
		snap.Tags[projectID][def.ID] = def
	}
	return rows.Err()
}

func (s *Store) loadDailyLogs(ctx context.Context, snap *model.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT project_id, date, outcome, tags, no_tags, note FROM daily_logs
	`)
	if err != nil {
		return fmt.Errorf("load daily logs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var projectID, tagsJSON string
		var log model.DailyLog
		var outcome sql.NullFloat64
		var noTags int
		if err := rows.Scan(&projectID, &log.Date, &outcome, &tagsJSON, &noTags, &log.Note); err != nil {
			return fmt.Errorf("load daily logs: %w", err)
		}
		if outcome.Valid {
			v := outcome.Float64
			log.Outcome = &v
		}
		log.NoTags = noTags != 0
		if err := json.Unmarshal([]byte(tagsJSON), &log.Tags); err != nil {
			return fmt.Errorf("load daily logs: parse tags: %w", err)
		}
		if snap.DailyLogs[projectID] == nil {
			snap.DailyLogs[projectID] = make(map[string]model.DailyLog)
		}
		snap.DailyLogs[projectID][log.Date] = log
	}
	return rows.Err()
}

func (s *Store) loadEventLogs(ctx context.Context, snap *model.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT project_id, id, timestamp, severity, tags, note FROM event_logs
	`)
	if err != nil {
		return fmt.Errorf("load event logs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var projectID, tagsJSON string
		var log model.EventLog
		var severity sql.NullFloat64
		if err := rows.Scan(&projectID, &log.ID, &log.Timestamp, &severity, &tagsJSON, &log.Note); err != nil {
			return fmt.Errorf("load event logs: %w", err)
		}
		if severity.Valid {
			v := severity.Float64
			log.Severity = &v
		}
		if err := json.Unmarshal([]byte(tagsJSON), &log.Tags); err != nil {
			return fmt.Errorf("load event logs: parse tags: %w", err)
		}
		if snap.EventLogs[projectID] == nil {
			snap.EventLogs[projectID] = make(map[string]model.EventLog)
		}
		snap.EventLogs[projectID][log.ID] = log
	}
	return rows.Err()
}

// LoadCache reads the persisted findings cache. A missing table row per
// project is simply a cold start.
func (s *Store) LoadCache(ctx context.Context) (fingerprint.Cache, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT project_id, fingerprint, findings, computed_at FROM findings_cache
	`)
	if err != nil {
		return nil, fmt.Errorf("load cache: %w", err)
	}
	defer rows.Close()

	cache := make(fingerprint.Cache)
	for rows.Next() {
		var projectID, findingsJSON, computedAt string
		var entry model.CacheEntry
		if err := rows.Scan(&projectID, &entry.Fingerprint, &findingsJSON, &computedAt); err != nil {
			return nil, fmt.Errorf("load cache: %w", err)
		}
		if err := json.Unmarshal([]byte(findingsJSON), &entry.Findings); err != nil {
			return nil, fmt.Errorf("load cache: parse findings: %w", err)
		}
		if entry.ComputedAt, err = time.Parse(timeFormat, computedAt); err != nil {
			return nil, fmt.Errorf("load cache: parse computed_at: %w", err)
		}
		cache[projectID] = entry
	}
	return cache, rows.Err()
}
