package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quietmind/lab/internal/config"
	"github.com/quietmind/lab/internal/engine"
	"github.com/quietmind/lab/internal/fingerprint"
	"github.com/quietmind/lab/internal/model"
	"github.com/quietmind/lab/internal/store"
)

// AnalyzeOptions holds flags for the analyze command.
type AnalyzeOptions struct {
	Snapshot string // YAML snapshot export
	DB       string // SQLite state database
	Project  string // analyze one project instead of all
	Tuning   string // optional tuning YAML
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the correlation analysis and print findings",
		Long: `Run the LAB analysis over a state snapshot and print findings.

State comes from either a YAML snapshot export (--snapshot) or the
application's SQLite database (--db). With --db, the prior findings
cache is loaded first and the cache delta is written back afterwards,
so repeated runs are cheap.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Snapshot, "snapshot", "", "YAML snapshot file")
	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite state database")
	cmd.Flags().StringVar(&opts.Project, "project", "", "analyze a single project id")
	cmd.Flags().StringVar(&opts.Tuning, "tuning", "", "tuning config file")

	return cmd
}

func runAnalyze(rootOpts *RootOptions, opts *AnalyzeOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	tuning, err := config.Load(opts.Tuning)
	if err != nil {
		return WrapExitError(ExitCommandError, "load tuning", err)
	}

	snap, cache, st, err := loadState(opts.Snapshot, opts.DB)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	engineOpts := []engine.Option{engine.WithTuning(tuning)}
	if rootOpts.Verbose {
		engineOpts = append(engineOpts, engine.WithLogger(
			slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	eng := engine.New(engineOpts...)

	byProject := make(map[string][]model.Finding)
	var delta fingerprint.Cache
	if opts.Project != "" {
		if _, ok := snap.Project(opts.Project); !ok {
			return NewExitError(ExitFailure, fmt.Sprintf("no such project: %s", opts.Project))
		}
		res := eng.AnalyzeProject(snap, cache, opts.Project)
		formatter.VerboseLog("project %s: cache_hit=%t findings=%d", opts.Project, res.CacheHit, len(res.Findings))
		if len(res.Findings) > 0 {
			byProject[opts.Project] = res.Findings
		}
		delta = res.UpdatedCache
	} else {
		all := eng.AnalyzeAll(snap, cache)
		byProject = all.FindingsByProject
		delta = all.UpdatedCache
	}

	if st != nil && delta != nil {
		if err := st.MergeCache(context.Background(), delta); err != nil {
			return WrapExitError(ExitCommandError, "write cache", err)
		}
		formatter.VerboseLog("cache updated (%d entries)", len(delta))
	}

	if rootOpts.Format == "json" {
		return formatter.Success(byProject)
	}
	return formatter.Success(strings.TrimRight(renderFindings(snap, byProject), "\n"))
}

// loadState resolves the state source: exactly one of snapshot or db.
// The returned store is non-nil only for db sources; the caller closes it.
func loadState(snapshotPath, dbPath string) (*model.Snapshot, fingerprint.Cache, *store.Store, error) {
	switch {
	case snapshotPath != "" && dbPath != "":
		return nil, nil, nil, NewExitError(ExitCommandError, "use either --snapshot or --db, not both")
	case snapshotPath != "":
		snap, err := LoadSnapshotFile(snapshotPath)
		if err != nil {
			return nil, nil, nil, WrapExitError(ExitCommandError, "load snapshot", err)
		}
		return snap, nil, nil, nil
	case dbPath != "":
		if _, err := os.Stat(dbPath); err != nil {
			return nil, nil, nil, WrapExitError(ExitCommandError, "state database", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return nil, nil, nil, WrapExitError(ExitCommandError, "open state database", err)
		}
		snap, err := st.LoadSnapshot(context.Background())
		if err != nil {
			st.Close()
			return nil, nil, nil, WrapExitError(ExitCommandError, "load state", err)
		}
		cache, err := st.LoadCache(context.Background())
		if err != nil {
			st.Close()
			return nil, nil, nil, WrapExitError(ExitCommandError, "load cache", err)
		}
		return snap, cache, st, nil
	default:
		return nil, nil, nil, NewExitError(ExitCommandError, "one of --snapshot or --db is required")
	}
}
