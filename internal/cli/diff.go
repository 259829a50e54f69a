package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/taxon/internal/catalog"
	"github.com/roach88/taxon/internal/store"
	"github.com/roach88/taxon/internal/taxonomy"
)

// DiffOptions holds flags for the diff command.
type DiffOptions struct {
	DBPath string
}

// DiffOutput is the JSON payload of the diff command.
type DiffOutput struct {
	Since        string          `json:"since"`
	SinceSeq     int64           `json:"since_seq"`
	TableChanged bool            `json:"table_changed"`
	Moves        []taxonomy.Move `json:"moves"`
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DiffOptions{}

	cmd := &cobra.Command{
		Use:   "diff [chapters.yaml]",
		Short: "Compare the current assignment with the latest snapshot",
		Long: `Classify the manifest and list every chapter whose heading differs from
the latest snapshot, including chapters added or removed since.

Exits with status 1 when anything moved, so it can gate a build.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(rootOpts, opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "snapshot database path (default from project file)")

	return cmd
}

func runDiff(rootOpts *RootOptions, opts *DiffOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)
	log := newLogger(rootOpts, cmd)
	defer log.Sync() //nolint:errcheck

	run, err := classifyProject(rootOpts, args, log)
	if err != nil {
		return fail(formatter, err)
	}

	st, err := openStore(run.project, opts.DBPath)
	if err != nil {
		return fail(formatter, err)
	}
	defer st.Close()

	latest, err := st.LatestSnapshot(cmd.Context())
	if errors.Is(err, store.ErrNotFound) {
		return fail(formatter, &catalog.LoadError{
			Code:    catalog.ErrCodeNotFound,
			Message: "no snapshot to compare against; run taxon snapshot first",
		})
	}
	if err != nil {
		return fail(formatter, err)
	}

	moves := taxonomy.Diff(latest.Placements, run.result.Placements)
	tableChanged := latest.TableHash != run.tableHash
	log.Infow("diff", "since", latest.ID, "moves", len(moves), "table_changed", tableChanged)

	if formatter.JSON() {
		if err := formatter.Success(DiffOutput{
			Since:        latest.ID,
			SinceSeq:     latest.Seq,
			TableChanged: tableChanged,
			Moves:        moves,
		}); err != nil {
			return err
		}
	} else {
		if len(moves) == 0 {
			fmt.Fprintf(formatter.Writer, "No changes since snapshot #%d\n", latest.Seq)
		} else {
			fmt.Fprintf(formatter.Writer, "%d change(s) since snapshot #%d\n", len(moves), latest.Seq)
			renderMoves(formatter.Writer, moves)
		}
		if tableChanged {
			fmt.Fprintln(formatter.Writer, "Category table changed")
		}
	}

	if len(moves) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d chapter(s) moved", len(moves)))
	}
	return nil
}
