package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type RegionType string

const (
	RegionHeader  RegionType = "header"
	RegionMain    RegionType = "main"
	RegionSidebar RegionType = "sidebar"
	RegionFooter  RegionType = "footer"
	RegionFull    RegionType = "full"
)

// Unbounded is the MaxComponents sentinel for regions without a cap.
const Unbounded = -1

// Track is a CSS grid line range [Start, End). It serializes to the
// "start / end" form the frontend feeds into grid-column / grid-row.
type Track struct {
	Start int
	End   int
}

// ParseTrack accepts "1 / 13" or a single line number such as "2".
func ParseTrack(s string) (Track, error) {
	parts := strings.Split(s, "/")
	switch len(parts) {
	case 1:
		n, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return Track{}, fmt.Errorf("parse track %q: %w", s, err)
		}
		return Track{Start: n, End: n + 1}, nil
	case 2:
		start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return Track{}, fmt.Errorf("parse track %q: %w", s, err)
		}
		end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return Track{}, fmt.Errorf("parse track %q: %w", s, err)
		}
		if end <= start {
			return Track{}, fmt.Errorf("parse track %q: end before start", s)
		}
		return Track{Start: start, End: end}, nil
	default:
		return Track{}, fmt.Errorf("parse track %q: too many separators", s)
	}
}

// Span is the number of grid tracks covered.
func (t Track) Span() int { return t.End - t.Start }

func (t Track) String() string {
	if t.Span() == 1 {
		return strconv.Itoa(t.Start)
	}
	return fmt.Sprintf("%d / %d", t.Start, t.End)
}

func (t Track) overlaps(o Track) bool {
	return t.Start < o.End && o.Start < t.End
}

func (t Track) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Track) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTrack(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// UnmarshalYAML lets template packs use the same "1 / 13" notation.
func (t *Track) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseTrack(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

type RegionDefinition struct {
	ID               string     `json:"id" yaml:"id"`
	Name             string     `json:"name" yaml:"name"`
	Type             RegionType `json:"type" yaml:"type"`
	Column           Track      `json:"gridColumn" yaml:"gridColumn"`
	Row              *Track     `json:"gridRow,omitempty" yaml:"gridRow,omitempty"`
	MinHeight        int        `json:"minHeight,omitempty" yaml:"minHeight,omitempty"`
	MaxComponents    int        `json:"maxComponents,omitempty" yaml:"maxComponents,omitempty"`
	Collapsible      bool       `json:"collapsible,omitempty" yaml:"collapsible,omitempty"`
	EmptyPlaceholder string     `json:"emptyPlaceholder" yaml:"emptyPlaceholder"`
}

// Accepts reports whether a region holding n elements can take one more.
// Zero and Unbounded both mean no cap.
func (r RegionDefinition) Accepts(n int) bool {
	return r.MaxComponents <= 0 || n < r.MaxComponents
}

func (r RegionDefinition) rowTrack() Track {
	if r.Row == nil {
		return Track{Start: 1, End: 2}
	}
	return *r.Row
}

type LayoutDefinition struct {
	ID          string             `json:"id" yaml:"id"`
	Name        string             `json:"name" yaml:"name"`
	Description string             `json:"description" yaml:"description"`
	GridColumns int                `json:"gridColumns" yaml:"gridColumns"`
	Regions     []RegionDefinition `json:"regions" yaml:"regions"`
}

// Region returns the region definition with the given id.
func (l LayoutDefinition) Region(id string) (RegionDefinition, bool) {
	for _, r := range l.Regions {
		if r.ID == id {
			return r, true
		}
	}
	return RegionDefinition{}, false
}

// RegionIDs returns region ids in declaration order.
func (l LayoutDefinition) RegionIDs() []string {
	ids := make([]string, len(l.Regions))
	for i, r := range l.Regions {
		ids[i] = r.ID
	}
	return ids
}

// Validate checks region ids are unique, column tracks stay inside the grid
// and regions sharing a row do not overlap.
func (l LayoutDefinition) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("layout: missing id")
	}
	if l.GridColumns <= 0 {
		return fmt.Errorf("layout %s: grid columns must be positive", l.ID)
	}
	if len(l.Regions) == 0 {
		return fmt.Errorf("layout %s: no regions", l.ID)
	}
	seen := make(map[string]bool, len(l.Regions))
	for i, r := range l.Regions {
		if r.ID == "" {
			return fmt.Errorf("layout %s: region %d has no id", l.ID, i)
		}
		if seen[r.ID] {
			return fmt.Errorf("layout %s: duplicate region %q", l.ID, r.ID)
		}
		seen[r.ID] = true

		if r.Column.Start < 1 || r.Column.End > l.GridColumns+1 || r.Column.Span() < 1 {
			return fmt.Errorf("layout %s: region %q column %s outside 1..%d", l.ID, r.ID, r.Column, l.GridColumns+1)
		}
		for _, prev := range l.Regions[:i] {
			if r.Column.overlaps(prev.Column) && r.rowTrack().overlaps(prev.rowTrack()) {
				return fmt.Errorf("layout %s: region %q overlaps %q", l.ID, r.ID, prev.ID)
			}
		}
	}
	return nil
}
