package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/quietmind/lab/internal/model"
)

// displayName resolves a finding's tag key to the name shown to the
// user: the tag definition's name, or the group name for group keys.
func displayName(snap *model.Snapshot, projectID string, key model.TagKey) string {
	if key.IsGroup() {
		return key.Name()
	}
	if def, ok := snap.ProjectTags(projectID)[key.Name()]; ok && def.Name != "" {
		return def.Name
	}
	return key.Name()
}

// renderFindings formats findings per project as text, substituting the
// [TAG] placeholder summaries carry with display names.
func renderFindings(snap *model.Snapshot, byProject map[string][]model.Finding) string {
	if len(byProject) == 0 {
		return "No findings.\n"
	}

	projectIDs := make([]string, 0, len(byProject))
	for id := range byProject {
		projectIDs = append(projectIDs, id)
	}
	sort.Strings(projectIDs)

	var b strings.Builder
	for _, projectID := range projectIDs {
		name := projectID
		if p, ok := snap.Project(projectID); ok && p.Name != "" {
			name = p.Name
		}
		fmt.Fprintf(&b, "%s\n", name)

		for _, f := range byProject[projectID] {
			tag := displayName(snap, projectID, f.Tag)
			summary := strings.ReplaceAll(f.Summary, "[TAG]", tag)
			fmt.Fprintf(&b, "  %-40s %+6.2f  %-6s n=%-4d %s\n",
				f.Method+" · "+tag, f.Effect, f.Confidence, f.SampleSize, summary)
		}
		b.WriteString("\n")
	}
	return b.String()
}
