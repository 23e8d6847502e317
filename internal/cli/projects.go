package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quietmind/lab/internal/dataset"
	"github.com/quietmind/lab/internal/model"
)

// ProjectsOptions holds flags for the projects command.
type ProjectsOptions struct {
	Snapshot string
	DB       string
	Detail   bool
}

// projectInfo is the JSON payload per project.
type projectInfo struct {
	ID       string                   `json:"id"`
	Name     string                   `json:"name"`
	Mode     model.ProjectMode        `json:"mode"`
	Archived bool                     `json:"archived,omitempty"`
	Logs     int                      `json:"logs"`
	Tags     int                      `json:"tags"`
	Days     []dataset.DaySummary     `json:"days,omitempty"`
	Episodes []dataset.EpisodeSummary `json:"episodes,omitempty"`
}

// NewProjectsCommand creates the projects command.
func NewProjectsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProjectsOptions{}

	cmd := &cobra.Command{
		Use:           "projects",
		Short:         "List projects and their coverage",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjects(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Snapshot, "snapshot", "", "YAML snapshot file")
	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite state database")
	cmd.Flags().BoolVar(&opts.Detail, "detail", false, "include day and episode summaries for event projects")

	return cmd
}

func runProjects(rootOpts *RootOptions, opts *ProjectsOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	snap, _, st, err := loadState(opts.Snapshot, opts.DB)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	var infos []projectInfo
	for _, projectID := range snap.ProjectOrder {
		p, ok := snap.Project(projectID)
		if !ok {
			continue
		}
		info := projectInfo{
			ID:       p.ID,
			Name:     p.Name,
			Mode:     p.Mode,
			Archived: p.Archived,
			Tags:     len(snap.ProjectTags(projectID)),
		}
		switch p.Mode {
		case model.ModeDaily:
			info.Logs = len(snap.DailyLogs[projectID])
		case model.ModeEvent:
			info.Logs = len(snap.EventLogs[projectID])
			if opts.Detail {
				events := dataset.BuildEvent(snap, projectID)
				info.Days = dataset.SummarizeDays(&events)
				info.Episodes = dataset.SummarizeEpisodes(&events)
			}
		}
		infos = append(infos, info)
	}

	if rootOpts.Format == "json" {
		return formatter.Success(infos)
	}
	return formatter.Success(strings.TrimRight(renderProjects(infos), "\n"))
}

func renderProjects(infos []projectInfo) string {
	if len(infos) == 0 {
		return "No projects.\n"
	}
	var b strings.Builder
	for _, info := range infos {
		archived := ""
		if info.Archived {
			archived = " (archived)"
		}
		fmt.Fprintf(&b, "%-20s %-6s logs=%-5d tags=%d%s\n",
			info.Name, info.Mode, info.Logs, info.Tags, archived)
		for _, ep := range info.Episodes {
			fmt.Fprintf(&b, "  %-6s %s  events=%-3d duration=%s\n",
				ep.ID, ep.Start.Format("2006-01-02 15:04"), ep.Events, ep.Duration)
		}
	}
	return b.String()
}
