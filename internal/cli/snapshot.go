package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/taxon/internal/store"
)

// SnapshotOptions holds flags for the snapshot command.
type SnapshotOptions struct {
	DBPath string
	Label  string
}

// SnapshotOutput is the JSON payload of the snapshot command.
type SnapshotOutput struct {
	Created  bool           `json:"created"`
	Snapshot store.Snapshot `json:"snapshot"`
}

// NewSnapshotCommand creates the snapshot command.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{}

	cmd := &cobra.Command{
		Use:   "snapshot [chapters.yaml]",
		Short: "Classify and record the result",
		Long: `Classify the manifest and store the placements in the snapshot database so
later runs can be diffed against them.

If nothing changed since the latest snapshot (same assignment, same table)
no new snapshot is written.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(rootOpts, opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "snapshot database path (default from project file)")
	cmd.Flags().StringVar(&opts.Label, "label", "", "free-form note stored with the snapshot")

	return cmd
}

func runSnapshot(rootOpts *RootOptions, opts *SnapshotOptions, args []string, cmd *cobra.Command) error {
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

	saved, created, err := st.SaveSnapshot(cmd.Context(), store.Snapshot{
		Label:       opts.Label,
		Fingerprint: run.fingerprint,
		TableHash:   run.tableHash,
		Placements:  run.result.Placements,
	})
	if err != nil {
		return fail(formatter, err)
	}
	log.Infow("snapshot", "id", saved.ID, "seq", saved.Seq, "created", created)

	if formatter.JSON() {
		saved.Placements = nil
		return formatter.Success(SnapshotOutput{Created: created, Snapshot: saved})
	}
	if created {
		fmt.Fprintf(formatter.Writer, "Saved snapshot #%d %s (%d chapters)\n", saved.Seq, saved.ID, saved.ItemCount)
	} else {
		fmt.Fprintf(formatter.Writer, "Unchanged since snapshot #%d %s\n", saved.Seq, saved.ID)
	}
	return nil
}

// openStore opens the snapshot database named by the flag, or the one from
// the project file.
func openStore(project *Project, flagPath string) (*store.Store, error) {
	path := flagPath
	if path == "" {
		path = project.Config.Database
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot database %s: %w", path, err)
	}
	return st, nil
}
