package taxonomy

// MoveKind classifies a difference between two placement lists.
type MoveKind string

const (
	MoveChanged MoveKind = "moved"
	MoveAdded   MoveKind = "added"
	MoveRemoved MoveKind = "removed"
)

// Move is one item whose placement differs between two runs.
// From is empty for added items, To is empty for removed ones.
type Move struct {
	Slug  string   `json:"slug"`
	Title string   `json:"title"`
	Kind  MoveKind `json:"kind"`
	From  string   `json:"from,omitempty"`
	To    string   `json:"to,omitempty"`
}

// Diff compares two placement lists by item slug.
// Moved and added items come first in after's order, removed items follow in
// before's order. Identical lists produce an empty, non-nil slice.
func Diff(before, after []Placement) []Move {
	prev := make(map[string]Placement, len(before))
	for _, p := range before {
		prev[p.Item.Slug] = p
	}

	moves := []Move{}
	seen := make(map[string]bool, len(after))
	for _, p := range after {
		seen[p.Item.Slug] = true
		old, ok := prev[p.Item.Slug]
		switch {
		case !ok:
			moves = append(moves, Move{Slug: p.Item.Slug, Title: p.Item.Title, Kind: MoveAdded, To: p.Group})
		case old.Group != p.Group:
			moves = append(moves, Move{Slug: p.Item.Slug, Title: p.Item.Title, Kind: MoveChanged, From: old.Group, To: p.Group})
		}
	}
	for _, p := range before {
		if !seen[p.Item.Slug] {
			moves = append(moves, Move{Slug: p.Item.Slug, Title: p.Item.Title, Kind: MoveRemoved, From: p.Group})
		}
	}
	return moves
}
