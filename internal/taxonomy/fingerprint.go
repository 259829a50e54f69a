package taxonomy

import (
	"github.com/roach88/taxon/internal/canon"
)

// Fingerprint hashes the grouping: group slugs in order with their item
// slugs in order. Titles and category copy are not part of it, so renaming a
// heading does not count as a change in assignment.
func (r *Result) Fingerprint() (string, error) {
	groups := make([]any, len(r.Groups))
	for i, g := range r.Groups {
		groups[i] = map[string]any{
			"group": g.Category.Slug,
			"items": g.Slugs(),
		}
	}
	return canon.Hash(canon.DomainAssignment, map[string]any{"groups": groups})
}

// TableHash hashes everything in the category table that affects assignment:
// order, slugs, members and triggers.
func TableHash(categories []Category) (string, error) {
	table := make([]any, len(categories))
	for i, c := range categories {
		table[i] = map[string]any{
			"slug":     c.Slug,
			"members":  nonNil(c.Members),
			"keywords": nonNil(c.Match.Keywords),
			"words":    nonNil(c.Match.Words),
			"patterns": nonNil(c.Match.Patterns),
		}
	}
	return canon.Hash(canon.DomainTable, map[string]any{"categories": table})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
