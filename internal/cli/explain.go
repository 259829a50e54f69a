package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/taxon/internal/taxonomy"
)

// ExplainOutput is the JSON payload of the explain command.
type ExplainOutput struct {
	Chapters   string               `json:"chapters"`
	Placements []taxonomy.Placement `json:"placements"`
}

// NewExplainCommand creates the explain command.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain [chapters.yaml]",
		Short: "Show why each chapter landed where it did",
		Long: `Print every chapter with the group it was assigned to and the pass that
put it there: explicit membership, a title trigger (with the trigger that
fired), or overflow.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runExplain(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	log := newLogger(opts, cmd)
	defer log.Sync() //nolint:errcheck

	run, err := classifyProject(opts, args, log)
	if err != nil {
		return fail(formatter, err)
	}

	if formatter.JSON() {
		return formatter.Success(ExplainOutput{
			Chapters:   run.chapters,
			Placements: run.result.Placements,
		})
	}
	renderPlacements(formatter.Writer, run.result.Placements)
	return nil
}
