// Package catalog holds the static data the page builder is driven by:
// wizard layouts, template layouts, page templates, component schemas, the
// palette and the standard objects. A Catalog is constructed once and passed
// to whoever needs it.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"iter"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"masquerade/internal/domain"
)

//go:embed data/components.yaml
var componentsYAML []byte

//go:embed data/templates.yaml
var templatesYAML []byte

// Catalog is read-only after construction except for template packs, which
// may be added at runtime; all lookups are safe for concurrent use.
type Catalog struct {
	layouts         []domain.LayoutDefinition
	templateLayouts []domain.LayoutDefinition
	layoutIndex     map[string]domain.LayoutDefinition

	schemas     []domain.ComponentSchema
	schemaIndex map[string]domain.ComponentSchema

	palette map[domain.ComponentCategory][]domain.PaletteComponent
	objects []domain.SalesforceObject
	types   []domain.PageTypeOption

	mu            sync.RWMutex
	templates     []domain.PageTemplate
	templateIndex map[string]int
}

// New builds the catalog from the compiled-in tables and embedded YAML.
func New() (*Catalog, error) {
	c := &Catalog{
		layouts:         wizardLayouts(),
		templateLayouts: templateLayouts(),
		layoutIndex:     make(map[string]domain.LayoutDefinition),
		schemaIndex:     make(map[string]domain.ComponentSchema),
		palette: map[domain.ComponentCategory][]domain.PaletteComponent{
			domain.CategoryStandard: standardComponents(),
			domain.CategoryBase:     baseComponents(),
			domain.CategoryCustom:   nil,
		},
		objects:       standardObjects(),
		types:         pageTypes(),
		templateIndex: make(map[string]int),
	}

	for _, l := range slices.Concat(c.layouts, c.templateLayouts) {
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		if _, dup := c.layoutIndex[l.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate layout %q", l.ID)
		}
		c.layoutIndex[l.ID] = l
	}

	if err := yaml.Unmarshal(componentsYAML, &c.schemas); err != nil {
		return nil, fmt.Errorf("catalog: parse component schemas: %w", err)
	}
	for i := range c.schemas {
		// yaml.v3 reuses the named map type for nested mappings
		c.schemas[i].DefaultProperties = c.schemas[i].DefaultProperties.Clone()
		c.schemaIndex[c.schemas[i].ID] = c.schemas[i]
	}

	if err := c.LoadTemplatePack(bytes.NewReader(templatesYAML)); err != nil {
		return nil, fmt.Errorf("catalog: built-in templates: %w", err)
	}
	return c, nil
}

// MustNew is New for callers that treat a broken embedded catalog as fatal.
func MustNew() *Catalog {
	c, err := New()
	if err != nil {
		panic(err)
	}
	return c
}

// ── Layouts ────────────────────────────────────────────────

// LookupLayout finds a wizard or template layout by id.
func (c *Catalog) LookupLayout(id string) (domain.LayoutDefinition, bool) {
	l, ok := c.layoutIndex[id]
	return l, ok
}

// ListLayouts returns the wizard layouts in their fixed order.
func (c *Catalog) ListLayouts() []domain.LayoutDefinition {
	return slices.Clone(c.layouts)
}

// All iterates the wizard layouts; each call restarts from the first entry.
func (c *Catalog) All() iter.Seq[domain.LayoutDefinition] {
	return func(yield func(domain.LayoutDefinition) bool) {
		for _, l := range c.layouts {
			if !yield(l) {
				return
			}
		}
	}
}

// TemplateLayouts returns the layouts used by page templates.
func (c *Catalog) TemplateLayouts() []domain.LayoutDefinition {
	return slices.Clone(c.templateLayouts)
}

// ── Components ─────────────────────────────────────────────

func (c *Catalog) ComponentSchema(id string) (domain.ComponentSchema, bool) {
	s, ok := c.schemaIndex[id]
	return s, ok
}

func (c *Catalog) SchemasByCategory(cat domain.ComponentCategory) []domain.ComponentSchema {
	var out []domain.ComponentSchema
	for _, s := range c.schemas {
		if s.Category == cat {
			out = append(out, s)
		}
	}
	return out
}

// DefaultProperties returns a fresh copy of the schema defaults, or an empty
// bag for components without a schema.
func (c *Catalog) DefaultProperties(componentID string) domain.Properties {
	s, ok := c.schemaIndex[componentID]
	if !ok {
		return domain.Properties{}
	}
	return s.DefaultProperties.Clone()
}

// Palette lists one palette tab. Unknown tabs are empty.
func (c *Catalog) Palette(tab domain.ComponentCategory) []domain.PaletteComponent {
	return slices.Clone(c.palette[tab])
}

// PaletteComponent looks up a palette entry across all tabs.
func (c *Catalog) PaletteComponent(id string) (domain.PaletteComponent, bool) {
	for _, tab := range []domain.ComponentCategory{domain.CategoryStandard, domain.CategoryBase, domain.CategoryCustom} {
		for _, p := range c.palette[tab] {
			if p.ID == id {
				return p, true
			}
		}
	}
	return domain.PaletteComponent{}, false
}

// ── Objects & page types ───────────────────────────────────

func (c *Catalog) StandardObjects() []domain.SalesforceObject {
	return slices.Clone(c.objects)
}

// StandardObject finds a standard object by API name.
func (c *Catalog) StandardObject(apiName string) (domain.SalesforceObject, bool) {
	for _, o := range c.objects {
		if o.APIName == apiName {
			return o, true
		}
	}
	return domain.SalesforceObject{}, false
}

func (c *Catalog) PageTypes() []domain.PageTypeOption {
	return slices.Clone(c.types)
}

// ── Templates ──────────────────────────────────────────────

func (c *Catalog) Template(id string) (domain.PageTemplate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.templateIndex[id]
	if !ok {
		return domain.PageTemplate{}, false
	}
	return c.templates[i], true
}

func (c *Catalog) Templates() []domain.PageTemplate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.templates)
}

func (c *Catalog) TemplatesByCategory(cat domain.TemplateCategory) []domain.PageTemplate {
	return c.filterTemplates(func(t domain.PageTemplate) bool { return t.Category == cat })
}

func (c *Catalog) TemplatesByPageType(pt domain.PageType) []domain.PageTemplate {
	return c.filterTemplates(func(t domain.PageTemplate) bool { return t.PageType == pt })
}

func (c *Catalog) filterTemplates(keep func(domain.PageTemplate) bool) []domain.PageTemplate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []domain.PageTemplate
	for _, t := range c.templates {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
