package cli

import (
	"fmt"
	"io"

	"github.com/roach88/taxon/internal/store"
	"github.com/roach88/taxon/internal/taxonomy"
)

// GroupView is the JSON shape of one output group.
type GroupView struct {
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Items       []taxonomy.Item `json:"items"`
}

func groupViews(groups []taxonomy.Group) []GroupView {
	views := make([]GroupView, len(groups))
	for i, g := range groups {
		views[i] = GroupView{
			Slug:        g.Category.Slug,
			Title:       g.Category.Title,
			Description: g.Category.Description,
			Items:       g.Items,
		}
	}
	return views
}

// renderGroups writes one block per group, separated by blank lines, and a
// closing count.
//
//	Security [security]
//	  tls-handshake: The TLS Handshake
func renderGroups(w io.Writer, groups []taxonomy.Group) {
	total := 0
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s [%s]\n", g.Category.Title, g.Category.Slug)
		for _, item := range g.Items {
			fmt.Fprintf(w, "  %s: %s\n", item.Slug, item.Title)
		}
		total += len(g.Items)
	}
	if len(groups) > 0 {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%d chapter(s) in %d group(s)\n", total, len(groups))
}

// renderPlacements writes one line per item in output order.
func renderPlacements(w io.Writer, placements []taxonomy.Placement) {
	for _, p := range placements {
		switch p.Via {
		case taxonomy.ViaPattern:
			fmt.Fprintf(w, "%s -> %s (pattern %q)\n", p.Item.Slug, p.Group, p.Trigger)
		default:
			fmt.Fprintf(w, "%s -> %s (%s)\n", p.Item.Slug, p.Group, p.Via)
		}
	}
}

// renderMoves writes one line per drifted item.
func renderMoves(w io.Writer, moves []taxonomy.Move) {
	for _, m := range moves {
		switch m.Kind {
		case taxonomy.MoveAdded:
			fmt.Fprintf(w, "  + %s -> %s\n", m.Slug, m.To)
		case taxonomy.MoveRemoved:
			fmt.Fprintf(w, "  - %s (was %s)\n", m.Slug, m.From)
		default:
			fmt.Fprintf(w, "  ~ %s: %s -> %s\n", m.Slug, m.From, m.To)
		}
	}
}

// renderHistory writes one line per snapshot, oldest first.
func renderHistory(w io.Writer, snaps []store.Snapshot) {
	if len(snaps) == 0 {
		fmt.Fprintln(w, "No snapshots yet")
		return
	}
	for _, s := range snaps {
		line := fmt.Sprintf("#%d  %s  %s  %d chapter(s)", s.Seq, s.ID, shortHash(s.Fingerprint), s.ItemCount)
		if s.Label != "" {
			line += "  " + s.Label
		}
		fmt.Fprintln(w, line)
	}
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
