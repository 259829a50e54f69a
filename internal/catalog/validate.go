package catalog

import (
	"fmt"
	"strings"

	"github.com/roach88/taxon/internal/taxonomy"
)

// Load error codes (E001-E009), shared with the CLI.
const (
	ErrCodeGeneric     = "E001" // generic/unknown error
	ErrCodeParseFailed = "E002" // manifest could not be parsed
	ErrCodeNotFound    = "E005" // file not found or unreadable
	ErrCodeBuildFailed = "E006" // CUE build or unification failed
)

// Table validation codes (E100-E109).
const (
	ErrEmptyCategorySlug     = "E101" // category slug is blank
	ErrDuplicateCategorySlug = "E102" // two categories share a slug
	ErrEmptyCategoryTitle    = "E103" // category title is blank
	ErrInvalidPattern        = "E104" // pattern does not compile
	ErrDuplicateMember       = "E105" // member listed twice in one category
	ErrOverflowSlugClash     = "E106" // overflow slug equals a category slug
)

// LoadError is an error reading a table or manifest from disk.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ValidationError is one problem found in a compiled table.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidateTable checks a compiled table and returns every problem found.
//
// An empty table and a category with neither members nor triggers are valid:
// they only mean more items reach the overflow group.
func ValidateTable(t *Table) []ValidationError {
	var errs []ValidationError
	slugs := make(map[string]int)

	for i, cat := range t.Categories {
		field := fmt.Sprintf("categories[%d]", i)

		if strings.TrimSpace(cat.Slug) == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".slug",
				Message: "category slug is required",
				Code:    ErrEmptyCategorySlug,
			})
		} else if first, dup := slugs[cat.Slug]; dup {
			errs = append(errs, ValidationError{
				Field:   field + ".slug",
				Message: fmt.Sprintf("duplicate category slug %q (first at categories[%d])", cat.Slug, first),
				Code:    ErrDuplicateCategorySlug,
			})
		} else {
			slugs[cat.Slug] = i
		}

		if strings.TrimSpace(cat.Title) == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".title",
				Message: fmt.Sprintf("category %q needs a title", cat.Slug),
				Code:    ErrEmptyCategoryTitle,
			})
		}

		for j, p := range cat.Match.Patterns {
			if _, err := taxonomy.CompilePattern(p); err != nil {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.match.patterns[%d]", field, j),
					Message: err.Error(),
					Code:    ErrInvalidPattern,
				})
			}
		}

		members := make(map[string]bool, len(cat.Members))
		for j, m := range cat.Members {
			if members[m] {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.members[%d]", field, j),
					Message: fmt.Sprintf("member %q listed twice in category %q", m, cat.Slug),
					Code:    ErrDuplicateMember,
				})
			}
			members[m] = true
		}
	}

	if t.Overflow.Slug != "" {
		if _, clash := slugs[t.Overflow.Slug]; clash {
			errs = append(errs, ValidationError{
				Field:   "overflow.slug",
				Message: fmt.Sprintf("overflow slug %q is also a category slug", t.Overflow.Slug),
				Code:    ErrOverflowSlugClash,
			})
		}
	}

	return errs
}
