package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/taxon/internal/catalog"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool                      `json:"valid"`
	Table      string                    `json:"table"`
	Categories int                       `json:"categories"`
	Errors     []catalog.ValidationError `json:"errors,omitempty"`
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	PrintDefault bool
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{}

	cmd := &cobra.Command{
		Use:   "validate [categories.cue]",
		Short: "Validate the category table",
		Long: `Compile the category table and check it for problems without
classifying anything: blank or duplicate slugs, missing titles, patterns
that do not compile, members listed twice and an overflow slug that clashes
with a category.

Without an argument the table named in the project file is checked, or the
built-in table when there is none.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.PrintDefault, "print-default", false, "print the built-in category table and exit")

	return cmd
}

func runValidate(rootOpts *RootOptions, opts *ValidateOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)
	log := newLogger(rootOpts, cmd)
	defer log.Sync() //nolint:errcheck

	if opts.PrintDefault {
		_, err := cmd.OutOrStdout().Write(catalog.DefaultTableSource())
		return err
	}

	var (
		tablePath string
		project   *Project
	)
	if len(args) > 0 {
		tablePath = args[0]
	} else {
		var err error
		project, err = loadConfig(rootOpts)
		if err != nil {
			return fail(formatter, err)
		}
		tablePath = project.TablePath
	}
	log.Infow("validating category table", "table", tableName(tablePath))

	table, err := catalog.LoadTable(tablePath)
	if err != nil {
		return fail(formatter, err)
	}

	// The project's overflow overrides apply only to the project's own table.
	checked := table
	if project != nil {
		project.Table = table
		project.Options = resolveOverflow(project.Config.Overflow, table)
		checked = project.resolvedTable()
	}

	if errs := catalog.ValidateTable(checked); len(errs) > 0 {
		return outputValidationErrors(formatter, tableName(tablePath), errs)
	}

	return outputValidateSuccess(formatter, tableName(tablePath), len(table.Categories))
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, table string, categories int) error {
	if formatter.JSON() {
		return formatter.Success(ValidationResult{Valid: true, Table: table, Categories: categories})
	}

	fmt.Fprintf(formatter.Writer, "✓ Category table valid (%d categories)\n", categories)
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, table string, errs []catalog.ValidationError) error {
	if formatter.JSON() {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:  false,
				Table:  table,
				Errors: errs,
			},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "%s\n", err.Field)
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
