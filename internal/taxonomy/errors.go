package taxonomy

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the sentinel wrapped by every InputError.
var ErrInvalidInput = errors.New("invalid input")

// ErrInvalidTable is returned when the engine cannot run against the
// category table it was given.
var ErrInvalidTable = errors.New("invalid category table")

// Input error codes (E200-E202).
const (
	ErrCodeEmptySlug     = "E201" // item has an empty slug
	ErrCodeDuplicateSlug = "E202" // two items share a slug
)

// Table error codes (E203-E209), carried by TableError.
const (
	ErrCodeBadTrigger    = "E203" // category pattern does not compile
	ErrCodeOverflowClash = "E204" // overflow slug equals a category slug
)

// InputError reports an item list the engine refuses to classify.
type InputError struct {
	Code    string
	Index   int    // position of the offending item in the input
	Slug    string // offending slug, empty for ErrCodeEmptySlug
	Message string
}

func (e *InputError) Error() string {
	if e.Slug != "" {
		return fmt.Sprintf("%s: items[%d] %q: %s", e.Code, e.Index, e.Slug, e.Message)
	}
	return fmt.Sprintf("%s: items[%d]: %s", e.Code, e.Index, e.Message)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// TableError reports a category the engine refuses to run with.
type TableError struct {
	Code     string
	Category string
	Err      error
}

func (e *TableError) Error() string {
	return fmt.Sprintf("%s: category %q: %v", e.Code, e.Category, e.Err)
}

func (e *TableError) Unwrap() []error {
	return []error{ErrInvalidTable, e.Err}
}
