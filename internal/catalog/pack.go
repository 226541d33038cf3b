package catalog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"masquerade/internal/domain"
)

// LoadTemplatePack reads a YAML list of templates and adds them to the
// catalog. The whole pack is rejected if any template is invalid.
func (c *Catalog) LoadTemplatePack(r io.Reader) error {
	var pack []domain.PageTemplate
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&pack); err != nil && err != io.EOF {
		return fmt.Errorf("decode template pack: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[string]bool, len(pack))
	for i := range pack {
		t := &pack[i]
		for j := range t.DefaultComponents {
			if t.DefaultComponents[j].Properties != nil {
				t.DefaultComponents[j].Properties = t.DefaultComponents[j].Properties.Clone()
			}
		}
		if err := c.resolveTemplate(t); err != nil {
			return err
		}
		if _, dup := c.templateIndex[t.ID]; dup || seen[t.ID] {
			return fmt.Errorf("template %q: duplicate id", t.ID)
		}
		seen[t.ID] = true
	}
	for _, t := range pack {
		c.templateIndex[t.ID] = len(c.templates)
		c.templates = append(c.templates, t)
	}
	return nil
}

// LoadTemplateDir loads every *.yaml / *.yml file in dir and returns how many
// templates were added. A missing directory is not an error.
func (c *Catalog) LoadTemplateDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read template dir: %w", err)
	}

	before := len(c.Templates())
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		f, err := os.Open(filepath.Join(dir, e.Name()))
		if err != nil {
			return 0, fmt.Errorf("open template pack: %w", err)
		}
		err = c.LoadTemplatePack(f)
		f.Close()
		if err != nil {
			return 0, fmt.Errorf("%s: %w", e.Name(), err)
		}
	}
	return len(c.Templates()) - before, nil
}

func (c *Catalog) resolveTemplate(t *domain.PageTemplate) error {
	if t.ID == "" {
		return fmt.Errorf("template: missing id")
	}
	if !t.PageType.Valid() {
		return fmt.Errorf("template %q: unknown page type %q", t.ID, t.PageType)
	}
	layout, ok := c.layoutIndex[t.LayoutID]
	if !ok {
		return fmt.Errorf("template %q: unknown layout %q", t.ID, t.LayoutID)
	}
	t.Layout = layout
	for i, comp := range t.DefaultComponents {
		if _, ok := layout.Region(comp.RegionID); !ok {
			return fmt.Errorf("template %q: component %d targets unknown region %q", t.ID, i, comp.RegionID)
		}
		if comp.ComponentID == "" {
			return fmt.Errorf("template %q: component %d has no component id", t.ID, i)
		}
		if comp.Type == "" {
			t.DefaultComponents[i].Type = comp.ComponentID
		}
	}
	return nil
}
