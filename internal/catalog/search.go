package catalog

import (
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"

	"masquerade/internal/domain"
)

// maxTypoDistance bounds the fuzzy fallback so unrelated names never match.
const maxTypoDistance = 2

// SearchPalette filters a palette tab by case-insensitive substring on the
// component name. When nothing matches it falls back to names within a small
// edit distance of the query, closest first.
func (c *Catalog) SearchPalette(tab domain.ComponentCategory, query string) []domain.PaletteComponent {
	items := c.palette[tab]
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return slices.Clone(items)
	}

	var out []domain.PaletteComponent
	for _, p := range items {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	if len(out) > 0 {
		return out
	}

	type scored struct {
		comp domain.PaletteComponent
		dist int
	}
	var near []scored
	for _, p := range items {
		d := closestWordDistance(strings.ToLower(p.Name), q)
		if d <= maxTypoDistance {
			near = append(near, scored{p, d})
		}
	}
	slices.SortStableFunc(near, func(a, b scored) int { return a.dist - b.dist })
	for _, s := range near {
		out = append(out, s.comp)
	}
	return out
}

// closestWordDistance compares the query with the whole name and with each
// word of it, so "chater" still finds "Chatter Feed".
func closestWordDistance(name, q string) int {
	best := levenshtein.ComputeDistance(name, q)
	for _, w := range strings.Fields(name) {
		if d := levenshtein.ComputeDistance(w, q); d < best {
			best = d
		}
	}
	return best
}

// SearchObjects matches standard objects plus the given custom ones by name
// or plural label.
func (c *Catalog) SearchObjects(query string, custom []domain.SalesforceObject) []domain.SalesforceObject {
	all := slices.Concat(c.objects, custom)
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return all
	}
	var out []domain.SalesforceObject
	for _, o := range all {
		if strings.Contains(strings.ToLower(o.Name), q) || strings.Contains(strings.ToLower(o.PluralLabel), q) {
			out = append(out, o)
		}
	}
	return out
}
