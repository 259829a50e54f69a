package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/taxon/internal/taxonomy"
)

//go:embed schema.cue
var schemaCUE []byte

//go:embed categories.cue
var defaultTableCUE []byte

// DefaultTableName is the filename reported in positions for the built-in table.
const DefaultTableName = "categories.cue"

// Table is a compiled category table.
type Table struct {
	Categories []taxonomy.Category
	// Overflow is the zero Category when the table does not declare one.
	Overflow taxonomy.Category
}

// Options returns classification options honouring the table's overflow.
func (t *Table) Options() taxonomy.Options {
	return taxonomy.Options{Overflow: t.Overflow}
}

// DefaultTable compiles the category table built into the binary.
func DefaultTable() (*Table, error) {
	return CompileTable(defaultTableCUE, DefaultTableName)
}

// DefaultTableSource returns the CUE source of the built-in table.
func DefaultTableSource() []byte {
	return append([]byte(nil), defaultTableCUE...)
}

// LoadTable compiles the category table at path, or the built-in table when
// path is empty.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		return DefaultTable()
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading category table: %v", err)}
	}
	return CompileTable(src, path)
}

// CompileTable parses CUE source into a category table.
//
// The source is unified with the closed #Table definition of the built-in
// schema, so unknown fields at any level, a missing slug or title, or a
// non-string trigger are reported with their source position. Table order is
// list order.
//
//	categories: [
//		{slug: "security", title: "Security", match: keywords: ["tls", "auth"]},
//	]
func CompileTable(src []byte, filename string) (*Table, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling built-in schema: %w", err)
	}

	user := ctx.CompileBytes(src, cue.Filename(filename))
	if err := user.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	// The schema always supplies an empty list, so presence is checked on
	// the user's own value.
	if !user.LookupPath(cue.ParsePath("categories")).Exists() {
		return nil, &CompileError{Field: "categories", Message: "categories list is required", Pos: user.Pos()}
	}

	v := schema.LookupPath(cue.ParsePath("#Table")).Unify(user)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	table := &Table{}

	iter, err := v.LookupPath(cue.ParsePath("categories")).List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		cat, err := compileCategory(iter.Value())
		if err != nil {
			return nil, err
		}
		table.Categories = append(table.Categories, cat)
	}

	overflowVal := v.LookupPath(cue.ParsePath("overflow"))
	if overflowVal.Exists() {
		overflow, err := compileOverflow(overflowVal)
		if err != nil {
			return nil, err
		}
		table.Overflow = overflow
	}

	return table, nil
}

func compileCategory(v cue.Value) (taxonomy.Category, error) {
	var cat taxonomy.Category
	var err error

	if cat.Slug, err = requiredString(v, "slug"); err != nil {
		return cat, err
	}
	if cat.Title, err = requiredString(v, "title"); err != nil {
		return cat, err
	}
	if cat.Description, err = optionalString(v, "description"); err != nil {
		return cat, err
	}
	if cat.Members, err = stringList(v, "members"); err != nil {
		return cat, err
	}

	match := v.LookupPath(cue.ParsePath("match"))
	if match.Exists() {
		if cat.Match.Keywords, err = stringList(match, "keywords"); err != nil {
			return cat, err
		}
		if cat.Match.Words, err = stringList(match, "words"); err != nil {
			return cat, err
		}
		if cat.Match.Patterns, err = stringList(match, "patterns"); err != nil {
			return cat, err
		}
		for _, p := range cat.Match.Patterns {
			if _, err := taxonomy.CompilePattern(p); err != nil {
				return cat, &CompileError{
					Field:   "match.patterns",
					Message: fmt.Sprintf("category %q: %v", cat.Slug, err),
					Pos:     match.LookupPath(cue.ParsePath("patterns")).Pos(),
				}
			}
		}
	}

	return cat, nil
}

func compileOverflow(v cue.Value) (taxonomy.Category, error) {
	var cat taxonomy.Category
	var err error
	if cat.Slug, err = requiredString(v, "slug"); err != nil {
		return cat, err
	}
	if cat.Title, err = requiredString(v, "title"); err != nil {
		return cat, err
	}
	if cat.Description, err = optionalString(v, "description"); err != nil {
		return cat, err
	}
	return cat, nil
}

func requiredString(v cue.Value, field string) (string, error) {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() {
		return "", &CompileError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	s, err := f.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() || !f.IsConcrete() {
		return "", nil
	}
	s, err := f.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func stringList(v cue.Value, field string) ([]string, error) {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() {
		return nil, nil
	}
	iter, err := f.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

// CompileError is a table compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{Field: "cue", Message: first.Error(), Pos: positions[0]}
	}
	return &CompileError{Field: "cue", Message: first.Error()}
}
