package taxonomy

// Item is a unit of catalogued content, usually a chapter.
// Slug must be unique within a single Classify call.
type Item struct {
	Slug  string `json:"slug" yaml:"slug"`
	Title string `json:"title" yaml:"title"`
}

// Category is one entry of the ordered category table.
//
// Members lists item slugs claimed before any pattern matching runs.
// Match is the title fallback applied to whatever is still unassigned.
type Category struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Members     []string `json:"members,omitempty"`
	Match       Matcher  `json:"match"`
}

// Group pairs a category with the items assigned to it.
type Group struct {
	Category Category `json:"category"`
	Items    []Item   `json:"items"`
}

// Slugs returns the slugs of the group's items in order.
func (g Group) Slugs() []string {
	slugs := make([]string, len(g.Items))
	for i, item := range g.Items {
		slugs[i] = item.Slug
	}
	return slugs
}

// Via records which pass placed an item.
type Via string

const (
	ViaExplicit Via = "explicit"
	ViaPattern  Via = "pattern"
	ViaOverflow Via = "overflow"
)

// Placement explains where one item ended up and why.
// Trigger is the keyword, word or pattern that fired for ViaPattern placements.
type Placement struct {
	Item    Item   `json:"item"`
	Group   string `json:"group"`
	Via     Via    `json:"via"`
	Trigger string `json:"trigger,omitempty"`
}

// DefaultOverflow is the synthetic trailing category for unmatched items.
var DefaultOverflow = Category{
	Slug:        "more",
	Title:       "More",
	Description: "Everything else.",
}

// Options tunes a classification run.
type Options struct {
	// Overflow replaces DefaultOverflow when its Slug is non-empty.
	Overflow Category
}

func (o Options) overflow() Category {
	if o.Overflow.Slug == "" {
		return DefaultOverflow
	}
	return o.Overflow
}
