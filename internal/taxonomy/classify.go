package taxonomy

import (
	"errors"
	"fmt"
	"strings"
)

// Result is the full outcome of one classification run.
type Result struct {
	Groups     []Group     `json:"groups"`
	Placements []Placement `json:"placements"`
}

// Classify partitions items into the groups of the ordered category table.
//
// Each category, in table order, first claims its explicit members in listed
// order and then every still-unassigned item whose title matches its
// triggers, in input order. Items nobody claims go to DefaultOverflow, which
// is always last. Categories that claim nothing are omitted, as is an empty
// overflow group. An empty item list yields an empty, non-nil slice.
//
// Returns an *InputError wrapping ErrInvalidInput for an empty or duplicate
// item slug, and a *TableError wrapping ErrInvalidTable for a pattern that
// does not compile or an overflow slug shared with a category. No groups are
// returned in either case.
func Classify(items []Item, categories []Category) ([]Group, error) {
	return ClassifyWith(items, categories, Options{})
}

// ClassifyWith is Classify with a custom overflow category.
func ClassifyWith(items []Item, categories []Category, opts Options) ([]Group, error) {
	res, err := Run(items, categories, opts)
	if err != nil {
		return nil, err
	}
	return res.Groups, nil
}

// Explain runs a classification and reports, in output order, where each
// item landed and which pass put it there.
func Explain(items []Item, categories []Category, opts Options) ([]Placement, error) {
	res, err := Run(items, categories, opts)
	if err != nil {
		return nil, err
	}
	return res.Placements, nil
}

// Run classifies items and returns both the groups and the placements.
func Run(items []Item, categories []Category, opts Options) (*Result, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}

	f := newFolder()
	matchers := make([]compiledMatcher, len(categories))
	for i, cat := range categories {
		cm, err := cat.Match.compile(f)
		if err != nil {
			return nil, &TableError{Code: ErrCodeBadTrigger, Category: cat.Slug, Err: err}
		}
		matchers[i] = cm
	}

	overflow := opts.overflow()
	for _, cat := range categories {
		if cat.Slug == overflow.Slug {
			return nil, &TableError{
				Code:     ErrCodeOverflowClash,
				Category: cat.Slug,
				Err:      errors.New("overflow group uses the same slug"),
			}
		}
	}

	res := &Result{
		Groups:     []Group{},
		Placements: []Placement{},
	}
	if len(items) == 0 {
		return res, nil
	}

	p := newPool(items)

	for i, cat := range categories {
		group := Group{Category: cat, Items: []Item{}}

		for _, slug := range cat.Members {
			item, ok := p.take(slug)
			if !ok {
				continue
			}
			group.Items = append(group.Items, item)
			res.Placements = append(res.Placements, Placement{Item: item, Group: cat.Slug, Via: ViaExplicit})
		}

		for _, pos := range p.remaining() {
			trig, ok := matchers[i].match(f, p.items[pos].Title)
			if !ok {
				continue
			}
			item := p.claim(pos)
			group.Items = append(group.Items, item)
			res.Placements = append(res.Placements, Placement{Item: item, Group: cat.Slug, Via: ViaPattern, Trigger: trig})
		}

		if len(group.Items) > 0 {
			res.Groups = append(res.Groups, group)
		}
	}

	if p.left > 0 {
		group := Group{Category: overflow, Items: make([]Item, 0, p.left)}
		for _, pos := range p.remaining() {
			item := p.claim(pos)
			group.Items = append(group.Items, item)
			res.Placements = append(res.Placements, Placement{Item: item, Group: overflow.Slug, Via: ViaOverflow})
		}
		res.Groups = append(res.Groups, group)
	}

	return res, nil
}

// validateItems rejects blank and duplicate slugs before any work is done.
func validateItems(items []Item) error {
	seen := make(map[string]int, len(items))
	for i, item := range items {
		if strings.TrimSpace(item.Slug) == "" {
			return &InputError{
				Code:    ErrCodeEmptySlug,
				Index:   i,
				Message: "item slug is required",
			}
		}
		if first, dup := seen[item.Slug]; dup {
			return &InputError{
				Code:    ErrCodeDuplicateSlug,
				Index:   i,
				Slug:    item.Slug,
				Message: fmt.Sprintf("duplicate item slug (first seen at items[%d])", first),
			}
		}
		seen[item.Slug] = i
	}
	return nil
}

// pool is the per-run set of unassigned items.
// Items keep their input positions; claiming marks a position instead of
// deleting it, so every pass can iterate a stable snapshot.
type pool struct {
	items   []Item
	claimed []bool
	index   map[string]int
	left    int
}

func newPool(items []Item) *pool {
	p := &pool{
		items:   items,
		claimed: make([]bool, len(items)),
		index:   make(map[string]int, len(items)),
		left:    len(items),
	}
	for i, item := range items {
		p.index[item.Slug] = i
	}
	return p
}

// take claims the item with the given slug if it is still unassigned.
func (p *pool) take(slug string) (Item, bool) {
	pos, ok := p.index[slug]
	if !ok || p.claimed[pos] {
		return Item{}, false
	}
	return p.claim(pos), true
}

func (p *pool) claim(pos int) Item {
	p.claimed[pos] = true
	p.left--
	return p.items[pos]
}

// remaining returns the unassigned positions in input order.
func (p *pool) remaining() []int {
	out := make([]int, 0, p.left)
	for pos, done := range p.claimed {
		if !done {
			out = append(out, pos)
		}
	}
	return out
}
