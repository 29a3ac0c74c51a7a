package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/roach88/synth/internal/engine"
	"github.com/roach88/synth/internal/store"
	"github.com/roach88/synth/internal/synthetic"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	DB       string // record the run into this database when set
	MaxDepth int
	Output   string // "tree" | "json"
	Metrics  bool   // dump evaluator metrics to stderr
}

// EvalResult is the JSON payload of the eval command.
type EvalResult struct {
	Module       string         `json:"module"`
	DocumentHash string         `json:"document_hash"`
	Run          *store.Run     `json:"run,omitempty"`
	Document     map[string]any `json:"document"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <modules-dir> <module-id>",
		Short: "Evaluate a module into its synthetic document",
		Long: `Evaluate one module of a CUE package into its synthetic document.

The document is printed as an indented tree (-o tree) or as canonical
JSON (-o json). With --db the document and a run record are appended to
a SQLite run log.

Exit codes:
  0 - Evaluation succeeded
  1 - Evaluation failed (unknown module, cyclic extension, etc.)
  2 - Command error (invalid paths, unreadable modules, database errors)

Examples:
  synth eval ./modules pages/home
  synth eval ./modules pages/home -o json
  synth eval ./modules pages/home --db runs.db --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd.Context(), opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "record the run into a SQLite database")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", engine.DefaultMaxDepth, "maximum nested instance depth")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "tree", "document rendering in text format (tree|json)")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "write evaluator metrics to stderr in Prometheus text format")

	return cmd
}

func runEval(ctx context.Context, opts *EvalOptions, dir, moduleID string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if opts.Output != "tree" && opts.Output != "json" {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("invalid output %q: must be tree or json", opts.Output), nil)
	}

	loaded, err := LoadModules(dir)
	if err != nil {
		return failLoad(formatter, err)
	}
	formatter.VerboseLog("Loaded %d module(s) from %d CUE file(s)", len(loaded.Graph.ModuleIDs()), loaded.FileCount)

	registry := prometheus.NewRegistry()
	evaluator := engine.New(
		engine.WithLogger(newLogger(opts.RootOptions, formatter.GetErrWriter())),
		engine.WithMaxDepth(opts.MaxDepth),
		engine.WithMetrics(engine.MetricsConfig{
			Namespace: "synth",
			Subsystem: "engine",
			Buckets:   prometheus.DefBuckets,
			Registry:  registry,
		}),
	)
	doc, err := evaluator.EvaluateModuleID(moduleID, loaded.Graph)
	if opts.Metrics {
		if err := writeMetrics(cmd.ErrOrStderr(), registry); err != nil {
			return err
		}
	}
	if err != nil {
		code := string(engine.ErrorCode(err))
		if code == "" {
			code = ErrCodeGeneric
		}
		return formatter.Fail(ExitFailure, code, err.Error(), nil)
	}

	hash, err := synthetic.DocumentHash(doc)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, err.Error(), nil)
	}

	var run *store.Run
	if opts.DB != "" {
		recorded, err := recordRun(ctx, opts.DB, moduleID, loaded, doc)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		formatter.VerboseLog("Recorded run %s (seq %d)", recorded.ID, recorded.Seq)
		run = &recorded
	}

	if opts.Format == "json" {
		return formatter.Success(EvalResult{
			Module:       moduleID,
			DocumentHash: hash,
			Run:          run,
			Document:     synthetic.ToCanonical(doc),
		})
	}

	w := cmd.OutOrStdout()
	if opts.Output == "json" {
		data, err := synthetic.MarshalCanonical(doc)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
		return nil
	}
	RenderTree(w, doc)
	return nil
}

func recordRun(ctx context.Context, dbPath, moduleID string, loaded *LoadResult, doc *synthetic.Document) (store.Run, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return store.Run{}, err
	}
	defer st.Close()

	dep, err := loaded.Graph.ResolveModule(moduleID)
	if err != nil {
		return store.Run{}, err
	}
	return st.RecordRun(ctx, store.Run{
		ModuleID:      moduleID,
		SourceURI:     dep.URI,
		Generation:    loaded.Graph.Generation(),
		EngineVersion: engine.Version,
	}, doc)
}

// writeMetrics writes every gathered family in the text exposition format.
func writeMetrics(w io.Writer, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

// failLoad reports a LoadModules failure as a command error.
func failLoad(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return formatter.Fail(ExitCommandError, loadErr.Code, loadErr.Error(), nil)
	}
	return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
}

// RenderTree writes doc as an indented outline, one node per line:
//
//	document ui
//	  div #page
//	    button #b1 [instance] style={"color":"red"}
//	      "Go" #label
func RenderTree(w io.Writer, doc *synthetic.Document) {
	fmt.Fprintf(w, "document %s\n", sourceID(doc.Source))
	for _, child := range doc.Children {
		renderNode(w, child, 1)
	}
}

func renderNode(w io.Writer, n synthetic.VisibleNode, depth int) {
	indent := strings.Repeat("  ", depth)
	switch node := n.(type) {
	case *synthetic.Element:
		var b strings.Builder
		fmt.Fprintf(&b, "%s%s #%s", indent, node.Is, sourceID(node.Source))
		writeFlags(&b, node.IsComponentInstance, node.IsCreatedFromComponent && !node.IsComponentInstance, node.Immutable)
		writeMap(&b, "style", node.Style)
		writeMap(&b, "attributes", node.Attributes)
		if node.Label != "" {
			fmt.Fprintf(&b, " label=%q", node.Label)
		}
		fmt.Fprintln(w, b.String())
		for _, child := range node.Children {
			renderNode(w, child, depth+1)
		}
	case *synthetic.Text:
		var b strings.Builder
		fmt.Fprintf(&b, "%s%q #%s", indent, node.Value, sourceID(node.Source))
		writeFlags(&b, false, false, node.Immutable)
		writeMap(&b, "style", node.Style)
		fmt.Fprintln(w, b.String())
	}
}

func writeFlags(b *strings.Builder, instance, fromComponent, immutable bool) {
	if instance {
		b.WriteString(" [instance]")
	}
	if fromComponent {
		b.WriteString(" [component]")
	}
	if immutable {
		b.WriteString(" [immutable]")
	}
}

func writeMap(b *strings.Builder, name string, m synthetic.KeyValue) {
	if len(m) == 0 {
		return
	}
	data, err := synthetic.MarshalCanonical(m)
	if err != nil {
		fmt.Fprintf(b, " %s=<%v>", name, err)
		return
	}
	fmt.Fprintf(b, " %s=%s", name, data)
}

func sourceID(s *synthetic.Source) string {
	if s == nil {
		return "-"
	}
	return s.NodeID
}
