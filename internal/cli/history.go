package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/taxon/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	DBPath string
}

// HistoryOutput is the JSON payload of the history command.
type HistoryOutput struct {
	Snapshots []store.Snapshot `json:"snapshots"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:           "history",
		Short:         "List recorded snapshots",
		Long:          "List every snapshot in the database, oldest first.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "snapshot database path (default from project file)")

	return cmd
}

func runHistory(rootOpts *RootOptions, opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)
	log := newLogger(rootOpts, cmd)
	defer log.Sync() //nolint:errcheck

	project, err := loadConfig(rootOpts)
	if err != nil {
		return fail(formatter, err)
	}

	st, err := openStore(project, opts.DBPath)
	if err != nil {
		return fail(formatter, err)
	}
	defer st.Close()

	snaps, err := st.ListSnapshots(cmd.Context())
	if err != nil {
		return fail(formatter, err)
	}
	log.Debugw("history", "snapshots", len(snaps))

	if formatter.JSON() {
		return formatter.Success(HistoryOutput{Snapshots: snaps})
	}
	renderHistory(formatter.Writer, snaps)
	return nil
}
