package dashboard

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Kind groups search results.
type Kind string

const (
	KindJob     Kind = "job"
	KindBuilder Kind = "builder"
	KindPage    Kind = "page"
)

// Item is one searchable entry.
type Item struct {
	Kind  Kind
	Title string
}

// DefaultItems are the entries searchable from the header before any
// backend data is loaded.
var DefaultItems = []Item{
	{KindPage, "Jobs"},
	{KindPage, "Builders"},
	{KindPage, "Bids"},
	{KindPage, "Invoices"},
	{KindPage, "Documents"},
	{KindPage, "Team"},
	{KindPage, "Settings"},
}

type scored struct {
	item  Item
	tier  int
	score int
}

// Search ranks items against query. Case-insensitive substring matches come
// first, ordered by match position; then items with a word within a small
// edit distance of the query. Everything else is dropped. An empty query
// returns items unchanged.
func Search(query string, items []Item) []Item {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		out := make([]Item, len(items))
		copy(out, items)
		return out
	}
	limit := max(1, len([]rune(q))/3)

	var hits []scored
	for _, it := range items {
		title := strings.ToLower(it.Title)
		if i := strings.Index(title, q); i >= 0 {
			hits = append(hits, scored{item: it, tier: 0, score: i})
			continue
		}
		best := -1
		for _, w := range strings.Fields(title) {
			d := levenshtein.ComputeDistance(q, w)
			if best < 0 || d < best {
				best = d
			}
		}
		if best >= 0 && best <= limit {
			hits = append(hits, scored{item: it, tier: 1, score: best})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].tier != hits[j].tier {
			return hits[i].tier < hits[j].tier
		}
		return hits[i].score < hits[j].score
	})
	out := make([]Item, len(hits))
	for i, h := range hits {
		out[i] = h.item
	}
	return out
}
