package domain

import (
	"maps"
	"slices"
	"sort"
)

type PageType string

const (
	PageTypeRecord PageType = "record"
	PageTypeHome   PageType = "home"
	PageTypeApp    PageType = "app"
)

// Valid reports whether p is one of the known page types.
func (p PageType) Valid() bool {
	switch p {
	case PageTypeRecord, PageTypeHome, PageTypeApp:
		return true
	}
	return false
}

// Properties is the free-form property bag of a placed element. Its shape is
// described per component type by a ComponentSchema.
type Properties map[string]any

// Clone deep-copies nested maps and slices so callers may edit the result.
// Nested mappings come back as map[string]any.
func (p Properties) Clone() Properties {
	if p == nil {
		return Properties{}
	}
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, inner := range t {
			m[k] = cloneValue(inner)
		}
		return m
	case Properties:
		// nested bags are plain maps, whatever decoder produced them
		return map[string]any(t.Clone())
	case []any:
		s := make([]any, len(t))
		for i, inner := range t {
			s[i] = cloneValue(inner)
		}
		return s
	case []string:
		return slices.Clone(t)
	default:
		return v
	}
}

type CanvasElement struct {
	ID          string     `json:"id"`
	ComponentID string     `json:"componentId"`
	Type        string     `json:"type"`
	Name        string     `json:"name"`
	Properties  Properties `json:"properties"`
	Order       int        `json:"order"`
}

type DesignMetadata struct {
	CreatedAt int64    `json:"createdAt"` // epoch ms
	UpdatedAt int64    `json:"updatedAt"` // epoch ms
	Thumbnail string   `json:"thumbnail,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Version   int      `json:"version"`
}

type PageDesign struct {
	ID         string                     `json:"id"`
	Name       string                     `json:"name"`
	PageType   PageType                   `json:"pageType"`
	ObjectName string                     `json:"objectName,omitempty"`
	TemplateID string                     `json:"templateId,omitempty"`
	Layout     LayoutDefinition           `json:"layout"`
	Regions    map[string][]CanvasElement `json:"regions"`
	Metadata   DesignMetadata             `json:"metadata"`
}

// RegionKeys returns the region map keys in a stable order: layout regions
// first in declaration order, then any extra keys sorted.
func (d *PageDesign) RegionKeys() []string {
	keys := make([]string, 0, len(d.Regions))
	seen := make(map[string]bool, len(d.Regions))
	for _, r := range d.Layout.Regions {
		if _, ok := d.Regions[r.ID]; ok && !seen[r.ID] {
			keys = append(keys, r.ID)
			seen[r.ID] = true
		}
	}
	var extra []string
	for k := range d.Regions {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

// FindElement locates the first element with id, scanning regions in
// RegionKeys order.
func (d *PageDesign) FindElement(id string) (regionID string, index int, ok bool) {
	for _, key := range d.RegionKeys() {
		for i, el := range d.Regions[key] {
			if el.ID == id {
				return key, i, true
			}
		}
	}
	return "", -1, false
}

// ElementCount is the total number of placed elements across all regions.
func (d *PageDesign) ElementCount() int {
	n := 0
	for _, els := range d.Regions {
		n += len(els)
	}
	return n
}

// Clone returns a copy whose region lists and property bags can be edited
// without touching d.
func (d *PageDesign) Clone() *PageDesign {
	if d == nil {
		return nil
	}
	out := *d
	out.Layout.Regions = slices.Clone(d.Layout.Regions)
	out.Metadata.Tags = slices.Clone(d.Metadata.Tags)
	out.Regions = make(map[string][]CanvasElement, len(d.Regions))
	for k, els := range d.Regions {
		cp := make([]CanvasElement, len(els))
		for i, el := range els {
			el.Properties = el.Properties.Clone()
			cp[i] = el
		}
		out.Regions[k] = cp
	}
	return &out
}

// ShallowRegions copies the region map but shares the element slices.
// Callers must replace, not edit, any slice they change.
func (d *PageDesign) ShallowRegions() map[string][]CanvasElement {
	return maps.Clone(d.Regions)
}
