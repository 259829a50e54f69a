package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/roach88/taxon/internal/catalog"
	"github.com/roach88/taxon/internal/config"
	"github.com/roach88/taxon/internal/taxonomy"
)

// Project is everything a command needs before it touches chapters.
type Project struct {
	Config *config.Config

	// TablePath is the category table file, empty for the built-in table.
	TablePath string
	Table     *catalog.Table
	Options   taxonomy.Options
}

// loadProject reads the project file and compiles the category table.
//
// The table is validated as well; commands refuse to classify against a
// table that has problems.
func loadProject(opts *RootOptions, log *zap.SugaredLogger) (*Project, error) {
	p, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	p.Table, err = catalog.LoadTable(p.TablePath)
	if err != nil {
		return nil, err
	}
	p.Options = resolveOverflow(p.Config.Overflow, p.Table)
	if errs := catalog.ValidateTable(p.resolvedTable()); len(errs) > 0 {
		return nil, &tableInvalidError{errs: errs}
	}
	log.Infow("loaded category table",
		"table", tableName(p.TablePath),
		"categories", len(p.Table.Categories),
		"overflow", p.Options.Overflow.Slug,
	)
	return p, nil
}

// loadConfig reads the project file without touching the category table.
// Relative paths in the file are resolved against its directory.
func loadConfig(opts *RootOptions) (*Project, error) {
	path := opts.Config
	if path == "" {
		path = config.DefaultPath
	}

	cfg, err := config.Load(path, !opts.configRequired)
	if err != nil {
		code := catalog.ErrCodeParseFailed
		if errors.Is(err, fs.ErrNotExist) {
			code = catalog.ErrCodeNotFound
		}
		return nil, &catalog.LoadError{Code: code, Message: err.Error()}
	}
	base := filepath.Dir(path)
	cfg.Chapters = resolvePath(base, cfg.Chapters)
	cfg.Database = resolvePath(base, cfg.Database)

	return &Project{
		Config:    cfg,
		TablePath: resolvePath(base, cfg.Categories),
	}, nil
}

// chapters loads the manifest named by args, or the configured default.
func (p *Project) chapters(args []string, log *zap.SugaredLogger) ([]taxonomy.Item, string, error) {
	path := p.Config.Chapters
	if len(args) > 0 {
		path = args[0]
	}
	items, err := catalog.LoadChapters(path)
	if err != nil {
		return nil, path, err
	}
	log.Infow("loaded chapters", "path", path, "count", len(items))
	return items, path, nil
}

// resolvedTable is the compiled table with the overflow group the run will
// actually use, so validation sees project file and environment overrides.
func (p *Project) resolvedTable() *catalog.Table {
	return &catalog.Table{Categories: p.Table.Categories, Overflow: p.Options.Overflow}
}

// watchPaths lists the files whose changes should trigger a re-run.
func (p *Project) watchPaths(chapters string) []string {
	paths := []string{chapters}
	if p.TablePath != "" {
		paths = append(paths, p.TablePath)
	}
	return paths
}

// resolveOverflow layers the overflow group: project file over table over
// the built-in default. Empty fields fall through individually.
func resolveOverflow(oc config.OverflowConfig, table *catalog.Table) taxonomy.Options {
	overflow := taxonomy.DefaultOverflow
	if table.Overflow.Slug != "" {
		overflow = table.Overflow
	}
	if oc.Slug != "" {
		overflow.Slug = oc.Slug
	}
	if oc.Title != "" {
		overflow.Title = oc.Title
	}
	if oc.Description != "" {
		overflow.Description = oc.Description
	}
	return taxonomy.Options{Overflow: overflow}
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func tableName(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}

// tableInvalidError carries every validation problem of a category table.
type tableInvalidError struct {
	errs []catalog.ValidationError
}

func (e *tableInvalidError) Error() string {
	return fmt.Sprintf("category table has %d problem(s), first: %s", len(e.errs), e.errs[0].Error())
}

// describe maps an error from loading or classifying to its error code,
// message and exit code. Problems with the data are validation failures;
// anything that stopped the command from running at all is a command error.
func describe(err error) (code, message string, exit int) {
	var (
		loadErr    *catalog.LoadError
		compileErr *catalog.CompileError
		invalid    *tableInvalidError
		inputErr   *taxonomy.InputError
		tableErr   *taxonomy.TableError
	)
	switch {
	case errors.As(err, &loadErr):
		return loadErr.Code, loadErr.Message, ExitCommandError
	case errors.As(err, &compileErr):
		if compileErr.Field == "match.patterns" {
			return catalog.ErrInvalidPattern, compileErr.Error(), ExitFailure
		}
		return catalog.ErrCodeBuildFailed, compileErr.Error(), ExitFailure
	case errors.As(err, &invalid):
		return invalid.errs[0].Code, invalid.Error(), ExitFailure
	case errors.As(err, &inputErr):
		return inputErr.Code, strings.TrimPrefix(inputErr.Error(), inputErr.Code+": "), ExitFailure
	case errors.As(err, &tableErr):
		return tableErr.Code, strings.TrimPrefix(tableErr.Error(), tableErr.Code+": "), ExitFailure
	default:
		return catalog.ErrCodeGeneric, err.Error(), ExitCommandError
	}
}

// fail reports err through the formatter and returns the matching ExitError.
func fail(f *OutputFormatter, err error) error {
	code, message, exit := describe(err)
	_ = f.Error(code, message, nil)
	return NewExitError(exit, fmt.Sprintf("%s: %s", code, message))
}
