package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quietmind/lab/internal/fingerprint"
	"github.com/quietmind/lab/internal/model"
)

// timeFormat is the RFC 3339 form used for all stored timestamps.
const timeFormat = time.RFC3339Nano

// SaveProject upserts a project and keeps it in the display order.
func (s *Store) SaveProject(ctx context.Context, p model.Project) error {
	configJSON, err := json.Marshal(p.Config)
	if err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, mode, archived, updated_at, config)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			mode = excluded.mode,
			archived = excluded.archived,
			updated_at = excluded.updated_at,
			config = excluded.config
	`, p.ID, p.Name, string(p.Mode), boolInt(p.Archived), p.UpdatedAt.UTC().Format(timeFormat), string(configJSON))
	if err != nil {
		return fmt.Errorf("save project: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO project_order (project_id, position)
		SELECT ?, COALESCE(MAX(position), 0) + 1 FROM project_order
		WHERE true
		ON CONFLICT(project_id) DO NOTHING
	`, p.ID)
	if err != nil {
		return fmt.Errorf("save project order: %w", err)
	}
	return nil
}

// SaveTag upserts one tag definition in a project's vocabulary.
func (s *Store) SaveTag(ctx context.Context, projectID string, def model.TagDef) error {
	var intensity *string
	if def.Intensity != nil {
		data, err := json.Marshal(def.Intensity)
		if err != nil {
			return fmt.Errorf("save tag: %w", err)
		}
		v := string(data)
		intensity = &v
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (project_id, id, name, grp, intensity)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(project_id, id) DO UPDATE SET
			name = excluded.name,
			grp = excluded.grp,
			intensity = excluded.intensity
	`, projectID, def.ID, def.Name, def.Group, intensity)
	if err != nil {
		return fmt.Errorf("save tag: %w", err)
	}
	return nil
}

// SaveDailyLog upserts a daily log; the date is the natural key and the
// last write wins.
func (s *Store) SaveDailyLog(ctx context.Context, projectID string, log model.DailyLog) error {
	tagsJSON, err := json.Marshal(log.Tags)
	if err != nil {
		return fmt.Errorf("save daily log: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO daily_logs (project_id, date, outcome, tags, no_tags, note)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id, date) DO UPDATE SET
			outcome = excluded.outcome,
			tags = excluded.tags,
			no_tags = excluded.no_tags,
			note = excluded.note
	`, projectID, log.Date, log.Outcome, string(tagsJSON), boolInt(log.NoTags), log.Note)
	if err != nil {
		return fmt.Errorf("save daily log: %w", err)
	}
	return nil
}

// AppendEventLog inserts a new event record, minting the id when the
// caller left it empty. The collection is append-only: duplicate ids are
// rejected by the primary key, never overwritten.
func (s *Store) AppendEventLog(ctx context.Context, projectID string, log model.EventLog) (string, error) {
	if log.ID == "" {
		log.ID = "evt-" + uuid.NewString()
	}
	tagsJSON, err := json.Marshal(log.Tags)
	if err != nil {
		return "", fmt.Errorf("append event log: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO event_logs (project_id, id, timestamp, severity, tags, note)
		VALUES (?, ?, ?, ?, ?, ?)
	`, projectID, log.ID, log.Timestamp, log.Severity, string(tagsJSON), log.Note)
	if err != nil {
		return "", fmt.Errorf("append event log: %w", err)
	}
	return log.ID, nil
}

// MergeCache writes a cache delta back, replacing each project's entry
// wholesale. Runs in one transaction: the single read-modify-write the
// concurrency model asks of the caller.
func (s *Store) MergeCache(ctx context.Context, delta fingerprint.Cache) error {
	if delta == nil {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("merge cache: %w", err)
	}
	defer tx.Rollback()

	for projectID, entry := range delta {
		findingsJSON, err := json.Marshal(entry.Findings)
		if err != nil {
			return fmt.Errorf("merge cache: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO findings_cache (project_id, fingerprint, findings, computed_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(project_id) DO UPDATE SET
				fingerprint = excluded.fingerprint,
				findings = excluded.findings,
				computed_at = excluded.computed_at
		`, projectID, entry.Fingerprint, string(findingsJSON), entry.ComputedAt.UTC().Format(timeFormat))
		if err != nil {
			return fmt.Errorf("merge cache: %w", err)
		}
	}
	return tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
