// Package fingerprint computes the deterministic content hash that
// decides whether a project's cached findings are still valid, and holds
// the cache map operations.
//
// The fingerprint covers everything that can change analysis output:
// the analysis logic version, the project's mode and updated-at, every
// log's observable content, and every tag definition. Two snapshots with
// identical observable content always hash identically regardless of map
// iteration order or object identity; sorting neutralizes both.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/quietmind/lab/internal/model"
)

// AnalysisVersion names the current analysis logic. Bumping it is the
// designed invalidation mechanism after a method change: every project's
// fingerprint changes and the next analysis recomputes from scratch.
const AnalysisVersion = "lab/3"

// hashDomain separates project fingerprints from any other SHA-256 use.
// The null byte prevents domain/data boundary ambiguity.
const hashDomain = "lab/project-fingerprint/v1"

// hashWithDomain computes SHA-256 with domain separation:
// SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Project computes the content fingerprint for one project.
func Project(snap *model.Snapshot, projectID string) string {
	p, ok := snap.Project(projectID)
	if !ok {
		return hashWithDomain(hashDomain, []byte(AnalysisVersion+"\x00missing\x00"+canon(projectID)))
	}

	var logLines []string
	switch p.Mode {
	case model.ModeDaily:
		for _, log := range snap.DailyLogs[projectID] {
			logLines = append(logLines, dailyLogLine(log))
		}
	case model.ModeEvent:
		for _, log := range snap.EventLogs[projectID] {
			logLines = append(logLines, eventLogLine(log))
		}
	}
	sort.Strings(logLines)

	var tagLines []string
	for _, def := range snap.ProjectTags(projectID) {
		tagLines = append(tagLines, tagLine(def))
	}
	sort.Strings(tagLines)

	var b strings.Builder
	b.WriteString(AnalysisVersion)
	b.WriteString("\n")
	b.WriteString(string(p.Mode))
	b.WriteString("\n")
	b.WriteString(p.UpdatedAt.UTC().Format("2006-01-02T15:04:05.000Z"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "logs:%d\n", len(logLines))
	b.WriteString(strings.Join(logLines, "\n"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "tags:%d\n", len(tagLines))
	b.WriteString(strings.Join(tagLines, "\n"))

	return hashWithDomain(hashDomain, []byte(b.String()))
}

// canon NFC-normalizes user-entered text so visually identical content
// hashes identically.
func canon(s string) string {
	return norm.NFC.String(s)
}

// dailyLogLine renders one daily log's observable content:
// date : outcome : sorted tag uses : no-tags flag.
func dailyLogLine(log model.DailyLog) string {
	return fmt.Sprintf("%s:%s:%s:%t",
		canon(log.Date), optNum(log.Outcome), tagUses(log.Tags), log.NoTags)
}

// eventLogLine renders one event log's observable content:
// timestamp : severity : sorted tag uses.
func eventLogLine(log model.EventLog) string {
	return fmt.Sprintf("%s:%s:%s",
		canon(log.Timestamp), optNum(log.Severity), tagUses(log.Tags))
}

// tagLine renders one tag definition: id : name : intensity range : group.
// Name, intensity config, and group all change analysis output, so all
// participate.
func tagLine(def model.TagDef) string {
	intensity := "-"
	if def.Intensity != nil {
		intensity = fmt.Sprintf("%g..%g/%g", def.Intensity.Min, def.Intensity.Max, def.Intensity.Step)
	}
	return fmt.Sprintf("%s:%s:%s:%s",
		canon(def.ID), canon(def.Name), intensity, canon(strings.TrimSpace(def.Group)))
}

// tagUses renders "tagId" or "tagId@intensity" entries sorted, so tag
// order on the log record cannot perturb the fingerprint.
func tagUses(uses []model.TagUse) string {
	parts := make([]string, 0, len(uses))
	for _, use := range uses {
		if use.Intensity != nil {
			parts = append(parts, fmt.Sprintf("%s@%g", canon(use.TagID), *use.Intensity))
		} else {
			parts = append(parts, canon(use.TagID))
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// optNum renders an optional numeric field; absent is distinct from 0.
func optNum(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *v)
}
