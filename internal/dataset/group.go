package dataset

import (
	"strings"

	"github.com/quietmind/lab/internal/model"
)

// groupMembers maps each virtual group key to the tag ids belonging to
// it, derived from every TagDef with a non-empty trimmed Group. Tags
// without a group belong to no bucket and vanish from the projection.
func groupMembers(defs map[string]model.TagDef) map[model.TagKey][]string {
	members := make(map[model.TagKey][]string)
	for id, def := range defs {
		name := strings.TrimSpace(def.Group)
		if name == "" {
			continue
		}
		key := model.GroupKey(name)
		members[key] = append(members[key], id)
	}
	return members
}

// BuildEventGroups materializes the group-projected event dataset: the
// same rows as BuildEvent, but each row's tag map re-keyed by virtual
// group keys. A group is present on a row iff any of its member tags is.
//
// Intensity does not survive the projection; group presence is boolean.
func BuildEventGroups(snap *model.Snapshot, projectID string) EventDataset {
	ds := BuildEvent(snap, projectID)
	members := groupMembers(snap.ProjectTags(projectID))

	ds.GroupNames = make(map[model.TagKey]string, len(members))
	for key := range members {
		ds.GroupNames[key] = key.Name()
	}

	for i, row := range ds.Rows {
		grouped := make(map[model.TagKey]TagMark, len(members))
		for key, tagIDs := range members {
			mark := TagMark{}
			for _, id := range tagIDs {
				if row.Tags[model.TagID(id)].Present {
					mark.Present = true
					break
				}
			}
			grouped[key] = mark
		}
		ds.Rows[i].Tags = grouped
	}
	return ds
}
