package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/taxon/internal/taxonomy"
)

// ClassifyOutput is the JSON payload of the classify command.
type ClassifyOutput struct {
	Chapters    string      `json:"chapters"`
	Fingerprint string      `json:"fingerprint"`
	TableHash   string      `json:"table_hash"`
	Groups      []GroupView `json:"groups"`
}

// NewClassifyCommand creates the classify command.
func NewClassifyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [chapters.yaml]",
		Short: "Group chapters under the category headings",
		Long: `Classify the chapters of a manifest against the category table and print
the resulting groups in table order, overflow last.

The manifest defaults to the chapters path of the project file.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runClassify(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	log := newLogger(opts, cmd)
	defer log.Sync() //nolint:errcheck

	run, err := classifyProject(opts, args, log)
	if err != nil {
		return fail(formatter, err)
	}
	return outputClassify(formatter, run)
}

// projectRun is one classification of a manifest against a loaded project.
type projectRun struct {
	project     *Project
	chapters    string
	result      *taxonomy.Result
	fingerprint string
	tableHash   string
}

// classifyProject loads the project and manifest and classifies once.
func classifyProject(opts *RootOptions, args []string, log *zap.SugaredLogger) (*projectRun, error) {
	project, err := loadProject(opts, log)
	if err != nil {
		return nil, err
	}
	return project.classify(args, log)
}

func (p *Project) classify(args []string, log *zap.SugaredLogger) (*projectRun, error) {
	items, path, err := p.chapters(args, log)
	if err != nil {
		return nil, err
	}

	result, err := taxonomy.Run(items, p.Table.Categories, p.Options)
	if err != nil {
		return nil, err
	}
	for _, pl := range result.Placements {
		log.Debugw("placed", "item", pl.Item.Slug, "group", pl.Group, "via", pl.Via, "trigger", pl.Trigger)
	}

	fingerprint, err := result.Fingerprint()
	if err != nil {
		return nil, err
	}
	tableHash, err := taxonomy.TableHash(p.Table.Categories)
	if err != nil {
		return nil, err
	}
	log.Infow("classified", "groups", len(result.Groups), "fingerprint", fingerprint)

	return &projectRun{
		project:     p,
		chapters:    path,
		result:      result,
		fingerprint: fingerprint,
		tableHash:   tableHash,
	}, nil
}

func outputClassify(formatter *OutputFormatter, run *projectRun) error {
	if formatter.JSON() {
		return formatter.Success(ClassifyOutput{
			Chapters:    run.chapters,
			Fingerprint: run.fingerprint,
			TableHash:   run.tableHash,
			Groups:      groupViews(run.result.Groups),
		})
	}
	renderGroups(formatter.Writer, run.result.Groups)
	return nil
}
