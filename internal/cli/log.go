package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/quietmind/lab/internal/model"
	"github.com/quietmind/lab/internal/store"
)

// LogOptions holds flags for the log command.
type LogOptions struct {
	DB          string
	Project     string
	Date        string // presence selects a daily log
	Outcome     float64
	HasOutcome  bool
	At          string // event timestamp, defaults to now
	Severity    float64
	HasSeverity bool
	Tags        []string // "tagId" or "tagId=intensity"
	Note        string
	NoTags      bool
}

// NewLogCommand creates the log command. With --date it records a daily
// log (last write per date wins); otherwise it appends an event record.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{}

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record a daily or event log in the state database",
		Long: `Record a log entry.

With --date, writes the daily log for that date (replacing any previous
entry for the same date). Without --date, appends an event record with a
generated id at --at (default: now).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.HasOutcome = cmd.Flags().Changed("outcome")
			opts.HasSeverity = cmd.Flags().Changed("severity")
			return runLog(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite state database (required)")
	cmd.Flags().StringVar(&opts.Project, "project", "", "project id (required)")
	cmd.Flags().StringVar(&opts.Date, "date", "", "daily log date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&opts.Outcome, "outcome", 0, "daily outcome value")
	cmd.Flags().StringVar(&opts.At, "at", "", "event timestamp (RFC 3339, default now)")
	cmd.Flags().Float64Var(&opts.Severity, "severity", 0, "event severity value")
	cmd.Flags().StringSliceVar(&opts.Tags, "tag", nil, "tag id, or tagId=intensity (repeatable)")
	cmd.Flags().StringVar(&opts.Note, "note", "", "free-form note")
	cmd.Flags().BoolVar(&opts.NoTags, "no-tags", false, "mark the daily log as explicitly tagless")
	cmd.MarkFlagRequired("db")
	cmd.MarkFlagRequired("project")

	return cmd
}

func runLog(rootOpts *RootOptions, opts *LogOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	uses, err := parseTagUses(opts.Tags)
	if err != nil {
		return WrapExitError(ExitCommandError, "parse tags", err)
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		return WrapExitError(ExitCommandError, "open state database", err)
	}
	defer st.Close()

	ctx := context.Background()
	if opts.Date != "" {
		log := model.DailyLog{Date: opts.Date, Tags: uses, NoTags: opts.NoTags, Note: opts.Note}
		if opts.HasOutcome {
			v := opts.Outcome
			log.Outcome = &v
		}
		if err := st.SaveDailyLog(ctx, opts.Project, log); err != nil {
			return WrapExitError(ExitCommandError, "save daily log", err)
		}
		return formatter.Success(fmt.Sprintf("logged %s for %s", opts.Date, opts.Project))
	}

	at := opts.At
	if at == "" {
		at = time.Now().Format(time.RFC3339)
	}
	log := model.EventLog{Timestamp: at, Tags: uses, Note: opts.Note}
	if opts.HasSeverity {
		v := opts.Severity
		log.Severity = &v
	}
	id, err := st.AppendEventLog(ctx, opts.Project, log)
	if err != nil {
		return WrapExitError(ExitCommandError, "append event log", err)
	}
	return formatter.Success(fmt.Sprintf("logged event %s for %s", id, opts.Project))
}

// parseTagUses parses "tagId" / "tagId=intensity" flag values.
func parseTagUses(raw []string) ([]model.TagUse, error) {
	var uses []model.TagUse
	for _, entry := range raw {
		id, intensity, found := strings.Cut(entry, "=")
		if id == "" {
			return nil, fmt.Errorf("empty tag id in %q", entry)
		}
		use := model.TagUse{TagID: id}
		if found {
			var v float64
			if _, err := fmt.Sscanf(intensity, "%g", &v); err != nil {
				return nil, fmt.Errorf("bad intensity in %q", entry)
			}
			use.Intensity = &v
		}
		uses = append(uses, use)
	}
	return uses, nil
}
