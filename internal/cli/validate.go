package cli

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
	"github.com/spf13/cobra"
)

//go:embed schema.cue
var snapshotSchema string

// ValidationIssue is one schema violation in a snapshot file.
type ValidationIssue struct {
	Position string `json:"position,omitempty"`
	Message  string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Issues []ValidationIssue `json:"issues,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <snapshot.yaml>",
		Short: "Validate a snapshot export against the schema",
		Long: `Validate a YAML snapshot export against the embedded CUE schema.

Catches shape problems (missing ids, bad modes, malformed dates) before
the loader silently degrades them.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(rootOpts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "read snapshot", err)
	}

	issues := validateSnapshotYAML(path, data)
	result := ValidationResult{Valid: len(issues) == 0, Issues: issues}

	if rootOpts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else if result.Valid {
		formatter.Success(fmt.Sprintf("%s: valid", path))
	} else {
		for _, issue := range issues {
			if issue.Position != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", issue.Position, issue.Message)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), issue.Message)
			}
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %d issue(s)", path, len(issues)))
	}
	return nil
}

// validateSnapshotYAML unifies the YAML document with the embedded
// schema and collects every violation.
func validateSnapshotYAML(path string, data []byte) []ValidationIssue {
	ctx := cuecontext.New()

	schema := ctx.CompileString(snapshotSchema)
	if err := schema.Err(); err != nil {
		return []ValidationIssue{{Message: fmt.Sprintf("internal schema error: %v", err)}}
	}

	file, err := cueyaml.Extract(path, data)
	if err != nil {
		return cueIssues(err)
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return cueIssues(err)
	}

	if err := schema.Unify(doc).Validate(); err != nil {
		return cueIssues(err)
	}
	return nil
}

// cueIssues flattens a CUE error into per-position issues.
func cueIssues(err error) []ValidationIssue {
	var issues []ValidationIssue
	for _, e := range cueerrors.Errors(err) {
		issue := ValidationIssue{Message: e.Error()}
		if pos := e.Position(); pos.IsValid() {
			issue.Position = fmt.Sprintf("%s:%d:%d", pos.Filename(), pos.Line(), pos.Column())
		}
		issues = append(issues, issue)
	}
	if len(issues) == 0 {
		issues = append(issues, ValidationIssue{Message: err.Error()})
	}
	return issues
}
