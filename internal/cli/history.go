package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/synth/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Latest bool // only the most recent run
}

// HistoryResult is the JSON payload of the history command.
type HistoryResult struct {
	Runs  []store.Run `json:"runs"`
	Count int         `json:"count"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history <db> [module-id]",
		Short: "List recorded evaluation runs",
		Long: `List the runs recorded by "synth eval --db" in log order.

With a module id only that module's runs are listed. Runs that produced
an identical document share a document hash.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			moduleID := ""
			if len(args) == 2 {
				moduleID = args[1]
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runHistory(ctx, opts, args[0], moduleID, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Latest, "latest", false, "show only the most recent run (requires module-id)")

	return cmd
}

func runHistory(ctx context.Context, opts *HistoryOptions, dbPath, moduleID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", dbPath), nil)
	}
	if opts.Latest && moduleID == "" {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "--latest requires a module id", nil)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}
	defer st.Close()

	var runs []store.Run
	if opts.Latest {
		run, err := st.LatestRun(ctx, moduleID)
		if err != nil {
			return formatter.Fail(ExitFailure, ErrCodeStore, fmt.Sprintf("no runs for module %q: %v", moduleID, err), nil)
		}
		runs = []store.Run{run}
	} else {
		runs, err = st.ListRuns(ctx, moduleID)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
	}
	formatter.VerboseLog("Read %d run(s) from %s", len(runs), dbPath)

	if opts.Format == "json" {
		return formatter.Success(HistoryResult{Runs: runs, Count: len(runs)})
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded.")
		return nil
	}
	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tRUN\tMODULE\tGEN\tDOCUMENT")
	for _, run := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", run.Seq, run.ID, run.ModuleID, run.Generation, shortHash(run.DocumentHash))
	}
	return tw.Flush()
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
