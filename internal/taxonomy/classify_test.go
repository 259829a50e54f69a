package taxonomy

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// groupSlugs flattens groups into category slug -> item slugs, in order.
func groupSlugs(groups []Group) [][2]any {
	out := make([][2]any, len(groups))
	for i, g := range groups {
		out[i] = [2]any{g.Category.Slug, g.Slugs()}
	}
	return out
}

func TestClassifyScenario(t *testing.T) {
	categories := []Category{
		{Slug: "persistence", Title: "Persistence", Members: []string{"databases"}},
		{Slug: "security", Title: "Security", Match: Matcher{Patterns: []string{"crypto|auth"}}},
	}
	items := []Item{
		{Slug: "databases", Title: "Databases"},
		{Slug: "crypto-101", Title: "Intro to Cryptography"},
		{Slug: "misc", Title: "Miscellaneous Notes"},
	}

	groups, err := Classify(items, categories)
	require.NoError(t, err)

	want := [][2]any{
		{"persistence", []string{"databases"}},
		{"security", []string{"crypto-101"}},
		{"more", []string{"misc"}},
	}
	if diff := cmp.Diff(want, groupSlugs(groups)); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "More", groups[2].Category.Title)
}

func TestClassifyExplicitBeatsLaterPattern(t *testing.T) {
	categories := []Category{
		{Slug: "persistence", Members: []string{"auth-logs"}},
		{Slug: "security", Match: Matcher{Keywords: []string{"auth"}}},
	}
	items := []Item{{Slug: "auth-logs", Title: "Auth Logs"}}

	groups, err := Classify(items, categories)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "persistence", groups[0].Category.Slug)
	assert.Equal(t, []string{"auth-logs"}, groups[0].Slugs())
}

func TestClassifyEarliestPatternWins(t *testing.T) {
	categories := []Category{
		{Slug: "networking", Match: Matcher{Keywords: []string{"network"}}},
		{Slug: "security", Match: Matcher{Keywords: []string{"security"}}},
	}
	items := []Item{
		{Slug: "netsec", Title: "Network Security"},
		{Slug: "appsec", Title: "Application Security"},
	}

	groups, err := Classify(items, categories)
	require.NoError(t, err)

	want := [][2]any{
		{"networking", []string{"netsec"}},
		{"security", []string{"appsec"}},
	}
	if diff := cmp.Diff(want, groupSlugs(groups)); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifyExplicitClaimedByEarlierCategoryIsSkipped(t *testing.T) {
	categories := []Category{
		{Slug: "first", Members: []string{"shared"}},
		{Slug: "second", Members: []string{"shared", "own"}},
	}
	items := []Item{
		{Slug: "own", Title: "Own"},
		{Slug: "shared", Title: "Shared"},
	}

	groups, err := Classify(items, categories)
	require.NoError(t, err)

	want := [][2]any{
		{"first", []string{"shared"}},
		{"second", []string{"own"}},
	}
	if diff := cmp.Diff(want, groupSlugs(groups)); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifyWithinGroupOrder(t *testing.T) {
	categories := []Category{
		{Slug: "c1", Members: []string{"c", "a", "missing"}, Match: Matcher{Keywords: []string{"x"}}},
	}
	items := []Item{
		{Slug: "a", Title: "A"},
		{Slug: "b", Title: "X-ray b"},
		{Slug: "c", Title: "C"},
		{Slug: "d", Title: "x d"},
	}

	groups, err := Classify(items, categories)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"c", "a", "b", "d"}, groups[0].Slugs())
}

func TestClassifyOmitsEmptyGroups(t *testing.T) {
	categories := []Category{
		{Slug: "empty", Match: Matcher{Keywords: []string{"nothing-matches-this"}}},
		{Slug: "no-triggers"},
		{Slug: "all", Match: Matcher{Patterns: []string{"."}}},
	}
	items := []Item{{Slug: "one", Title: "One"}, {Slug: "two", Title: "Two"}}

	groups, err := Classify(items, categories)
	require.NoError(t, err)

	want := [][2]any{{"all", []string{"one", "two"}}}
	if diff := cmp.Diff(want, groupSlugs(groups)); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifyEmptyInput(t *testing.T) {
	categories := []Category{{Slug: "any", Match: Matcher{Patterns: []string{"."}}}}

	groups, err := Classify(nil, categories)
	require.NoError(t, err)
	require.NotNil(t, groups)
	assert.Empty(t, groups)

	groups, err = Classify([]Item{}, nil)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestClassifyEmptyTableSendsEverythingToOverflow(t *testing.T) {
	items := []Item{
		{Slug: "b", Title: "B"},
		{Slug: "a", Title: "A"},
	}

	groups, err := Classify(items, nil)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, DefaultOverflow.Slug, groups[0].Category.Slug)
	assert.Equal(t, []string{"b", "a"}, groups[0].Slugs())
}

func TestClassifyCustomOverflow(t *testing.T) {
	other := Category{Slug: "other", Title: "Other", Description: "Unsorted."}

	groups, err := ClassifyWith([]Item{{Slug: "x", Title: "X"}}, nil, Options{Overflow: other})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, other, groups[0].Category)
}

func TestClassifyDuplicateSlug(t *testing.T) {
	items := []Item{
		{Slug: "a", Title: "A"},
		{Slug: "b", Title: "B"},
		{Slug: "a", Title: "A again"},
	}

	groups, err := Classify(items, nil)
	require.Error(t, err)
	assert.Nil(t, groups)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var inputErr *InputError
	require.True(t, errors.As(err, &inputErr))
	assert.Equal(t, ErrCodeDuplicateSlug, inputErr.Code)
	assert.Equal(t, "a", inputErr.Slug)
	assert.Equal(t, 2, inputErr.Index)
	assert.Contains(t, err.Error(), `"a"`)
	assert.Contains(t, err.Error(), "items[0]")
}

func TestClassifyEmptySlug(t *testing.T) {
	for _, slug := range []string{"", "   "} {
		t.Run(fmt.Sprintf("%q", slug), func(t *testing.T) {
			items := []Item{{Slug: "ok", Title: "Ok"}, {Slug: slug, Title: "Nameless"}}

			groups, err := Classify(items, nil)
			require.Error(t, err)
			assert.Nil(t, groups)

			var inputErr *InputError
			require.True(t, errors.As(err, &inputErr))
			assert.Equal(t, ErrCodeEmptySlug, inputErr.Code)
			assert.Equal(t, 1, inputErr.Index)
		})
	}
}

func TestClassifyBadPattern(t *testing.T) {
	categories := []Category{{Slug: "broken", Match: Matcher{Patterns: []string{"(unclosed"}}}}

	_, err := Classify([]Item{{Slug: "a", Title: "A"}}, categories)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTable))
	assert.False(t, errors.Is(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), "broken")
}

func TestClassifyOverflowSlugClash(t *testing.T) {
	categories := []Category{
		{Slug: "persistence", Match: Matcher{Keywords: []string{"database"}}},
	}
	items := []Item{
		{Slug: "db", Title: "Databases"},
		{Slug: "misc", Title: "Miscellany"},
	}

	tests := []struct {
		name       string
		categories []Category
		opts       Options
	}{
		{"custom overflow", categories, Options{Overflow: Category{Slug: "persistence", Title: "Other"}}},
		{"default overflow", []Category{{Slug: DefaultOverflow.Slug}}, Options{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Run(items, tt.categories, tt.opts)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, ErrInvalidTable))

			var tableErr *TableError
			require.True(t, errors.As(err, &tableErr))
			assert.Equal(t, ErrCodeOverflowClash, tableErr.Code)
		})
	}
}

func TestClassifyBadPatternCode(t *testing.T) {
	categories := []Category{{Slug: "broken", Match: Matcher{Patterns: []string{"(unclosed"}}}}

	_, err := Classify([]Item{{Slug: "a", Title: "A"}}, categories)
	var tableErr *TableError
	require.True(t, errors.As(err, &tableErr))
	assert.Equal(t, ErrCodeBadTrigger, tableErr.Code)
	assert.Equal(t, "broken", tableErr.Category)
}

func TestClassifyInputErrorWinsOverTableError(t *testing.T) {
	categories := []Category{{Slug: "broken", Match: Matcher{Patterns: []string{"(unclosed"}}}}

	_, err := Classify([]Item{{Slug: "", Title: "A"}}, categories)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestClassifyDoesNotMutateInput(t *testing.T) {
	categories := []Category{
		{Slug: "c1", Members: []string{"b"}, Match: Matcher{Keywords: []string{"a"}}},
	}
	items := []Item{{Slug: "a", Title: "Alpha"}, {Slug: "b", Title: "Beta"}, {Slug: "z", Title: "Zed"}}
	before := append([]Item(nil), items...)

	_, err := Classify(items, categories)
	require.NoError(t, err)
	assert.Equal(t, before, items)
}

func TestClassifyPartitionIsTotalAndDisjoint(t *testing.T) {
	titles := []string{
		"Databases", "Crypto Basics", "Networking", "Thread Pools", "Misc", "Auth Flows",
		"Hash Tables", "TLS Handshakes", "Caching", "Algorithms", "Garden Notes",
	}
	var items []Item
	for i := 0; i < 60; i++ {
		items = append(items, Item{
			Slug:  fmt.Sprintf("item-%02d", i),
			Title: fmt.Sprintf("%s %d", titles[i%len(titles)], i),
		})
	}
	categories := []Category{
		{Slug: "persistence", Members: []string{"item-07", "item-03"}, Match: Matcher{Keywords: []string{"database", "cach"}}},
		{Slug: "security", Match: Matcher{Keywords: []string{"crypto", "auth", "tls"}}},
		{Slug: "networking", Match: Matcher{Words: []string{"networking"}}},
		{Slug: "foundations", Members: []string{"item-03"}, Match: Matcher{Patterns: []string{`^(hash|algo)`}}},
	}

	groups, err := Classify(items, categories)
	require.NoError(t, err)

	seen := make(map[string]int)
	total := 0
	for _, g := range groups {
		assert.NotEmpty(t, g.Items, "group %s should not be empty", g.Category.Slug)
		for _, item := range g.Items {
			seen[item.Slug]++
			total++
		}
	}
	assert.Equal(t, len(items), total)
	for _, item := range items {
		assert.Equal(t, 1, seen[item.Slug], "item %s", item.Slug)
	}

	// Table order is preserved and overflow is last.
	var order []string
	for _, g := range groups {
		order = append(order, g.Category.Slug)
	}
	assert.Equal(t, []string{"persistence", "security", "networking", "foundations", "more"}, order)
	assert.Equal(t, []string{"item-07", "item-03"}, groups[0].Slugs()[:2])
}

func TestClassifyIsDeterministic(t *testing.T) {
	categories := []Category{
		{Slug: "a", Match: Matcher{Keywords: []string{"a"}}},
		{Slug: "b", Match: Matcher{Keywords: []string{"b"}}},
	}
	items := []Item{
		{Slug: "1", Title: "cab"}, {Slug: "2", Title: "bob"}, {Slug: "3", Title: "zzz"},
	}

	first, err := Run(items, categories, Options{})
	require.NoError(t, err)
	second, err := Run(items, categories, Options{})
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("runs differ (-first +second):\n%s", diff)
	}

	fp1, err := first.Fingerprint()
	require.NoError(t, err)
	fp2, err := second.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, fp1, fp2)
}

func TestExplain(t *testing.T) {
	categories := []Category{
		{Slug: "persistence", Members: []string{"databases"}},
		{Slug: "security", Match: Matcher{Keywords: []string{"crypto", "auth"}}},
	}
	items := []Item{
		{Slug: "misc", Title: "Miscellaneous"},
		{Slug: "authn", Title: "Authentication"},
		{Slug: "databases", Title: "Databases"},
	}

	placements, err := Explain(items, categories, Options{})
	require.NoError(t, err)

	want := []Placement{
		{Item: items[2], Group: "persistence", Via: ViaExplicit},
		{Item: items[1], Group: "security", Via: ViaPattern, Trigger: "auth"},
		{Item: items[0], Group: "more", Via: ViaOverflow},
	}
	if diff := cmp.Diff(want, placements); diff != "" {
		t.Errorf("placements mismatch (-want +got):\n%s", diff)
	}
}
