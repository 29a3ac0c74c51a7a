package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/synth/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool                       `json:"valid"`
	Modules []string                   `json:"modules,omitempty"`
	Errors  []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <modules-dir>",
		Short: "Validate modules without evaluating them",
		Long: `Compile a CUE package of modules and check the resulting graph.

Reports unresolved component references, duplicate component ids,
duplicate node ids within a module and extension cycles. Every problem
is reported, not just the first.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	loaded, err := LoadModules(dir)
	if err != nil {
		return failLoad(formatter, err)
	}
	modules := loaded.Graph.ModuleIDs()
	formatter.VerboseLog("Found %d CUE file(s) in %s", loaded.FileCount, dir)
	for _, id := range modules {
		formatter.VerboseLog("Validating module: %s", id)
	}

	errs := compiler.Validate(loaded.Graph)
	if len(errs) > 0 {
		return outputValidationErrors(formatter, modules, errs)
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Modules: modules})
	}
	fmt.Fprintf(formatter.Writer, "%s %d module(s) valid\n", mark(true), len(modules))
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, modules []string, errs []compiler.ValidationError) error {
	failure := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))

	if formatter.Format == "json" {
		err := formatter.encode(CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Modules: modules, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		})
		if err != nil {
			return err
		}
		return failure
	}

	fmt.Fprintf(formatter.Writer, "%s Validation failed\n", mark(false))
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s\n", err.Error())
	}

	return failure
}
