package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/taxon/internal/watch"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	Debounce time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{}

	cmd := &cobra.Command{
		Use:   "watch [chapters.yaml]",
		Short: "Re-classify whenever the manifest or table changes",
		Long: `Classify once, then again every time the chapter manifest or the category
table file is saved. Runs until interrupted.

A failed run is reported and watching continues, so a half-edited file does
not end the session.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(rootOpts, opts, args, cmd)
		},
	}

	cmd.Flags().DurationVar(&opts.Debounce, "debounce", 0, "quiet period before re-running (default from project file)")

	return cmd
}

func runWatch(rootOpts *RootOptions, opts *WatchOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)
	log := newLogger(rootOpts, cmd)
	defer log.Sync() //nolint:errcheck

	// The watched paths come from the project file, which is read once. A
	// changed table path in the project file needs a restart.
	project, err := loadConfig(rootOpts)
	if err != nil {
		return fail(formatter, err)
	}
	chapters := project.Config.Chapters
	if len(args) > 0 {
		chapters = args[0]
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = project.Config.Watch.Debounce
	}

	runs := 0
	rerun := func(context.Context) error {
		runs++
		if !formatter.JSON() {
			if runs > 1 {
				fmt.Fprintln(formatter.Writer)
			}
			fmt.Fprintf(formatter.Writer, "--- run %d\n", runs)
		}
		run, err := classifyProject(rootOpts, []string{chapters}, log)
		if err != nil {
			code, message, _ := describe(err)
			_ = formatter.Error(code, message, nil)
			return err
		}
		return outputClassify(formatter, run)
	}

	if err := rerun(cmd.Context()); err != nil {
		log.Warnw("initial run failed", "error", err)
	}

	if err := watch.Watch(cmd.Context(), project.watchPaths(chapters), debounce, rerun, log); err != nil {
		return fail(formatter, err)
	}
	return nil
}
