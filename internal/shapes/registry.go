// Package shapes describes the free-form canvas shapes (SLDS buttons, inputs,
// cards) and the generic property editor contract used to edit them.
package shapes

import (
	"fmt"
	"slices"
	"sync"

	"masquerade/internal/domain"
)

type Category string

const (
	CategoryButtons    Category = "buttons"
	CategoryInputs     Category = "inputs"
	CategoryData       Category = "data"
	CategoryContainers Category = "containers"
	CategoryNavigation Category = "navigation"
	CategoryFeedback   Category = "feedback"
	CategoryLayouts    Category = "layouts"
)

// Registration is the sidebar metadata for one shape type. DefaultProps
// always carries w and h.
type Registration struct {
	Type         string            `json:"type"`
	Name         string            `json:"name"`
	Category     Category          `json:"category"`
	Icon         string            `json:"icon"`
	DefaultProps domain.Properties `json:"defaultProps"`
}

// Registry manages registered shape types.
type Registry struct {
	mu         sync.RWMutex
	order      []string
	shapes     map[string]Registration
	categories []Category
	byCategory map[Category][]string
}

func NewRegistry() *Registry {
	return &Registry{
		shapes:     make(map[string]Registration),
		byCategory: make(map[Category][]string),
	}
}

// Register adds a shape type. Registering the same type twice is an error.
func (r *Registry) Register(reg Registration) error {
	if reg.Type == "" {
		return fmt.Errorf("shape registry: missing type")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.shapes[reg.Type]; exists {
		return fmt.Errorf("shape registry: duplicate registration for %q", reg.Type)
	}
	reg.DefaultProps = reg.DefaultProps.Clone()
	r.shapes[reg.Type] = reg
	r.order = append(r.order, reg.Type)
	if _, seen := r.byCategory[reg.Category]; !seen {
		r.categories = append(r.categories, reg.Category)
	}
	r.byCategory[reg.Category] = append(r.byCategory[reg.Category], reg.Type)
	return nil
}

// Shape returns a registration with a private copy of its defaults.
func (r *Registry) Shape(shapeType string) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.shapes[shapeType]
	if !ok {
		return Registration{}, false
	}
	reg.DefaultProps = reg.DefaultProps.Clone()
	return reg, true
}

func (r *Registry) ByCategory(cat Category) []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(r.byCategory[cat])
}

// Categories lists categories in the order they were first registered.
func (r *Registry) Categories() []Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.categories)
}

// All lists every registration in registration order.
func (r *Registry) All() []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(r.order)
}

func (r *Registry) collect(types []string) []Registration {
	out := make([]Registration, 0, len(types))
	for _, t := range types {
		reg := r.shapes[t]
		reg.DefaultProps = reg.DefaultProps.Clone()
		out = append(out, reg)
	}
	return out
}

// NewDefaultRegistry returns a registry holding the built-in SLDS shapes.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, reg := range builtinShapes() {
		if err := r.Register(reg); err != nil {
			panic(err)
		}
	}
	return r
}

func builtinShapes() []Registration {
	return []Registration{
		{
			Type: "slds-button", Name: "Button", Category: CategoryButtons, Icon: "🔘",
			DefaultProps: domain.Properties{
				"w": 120.0, "h": 32.0,
				"label":    "Button",
				"variant":  "brand",
				"size":     "medium",
				"disabled": false,
				"iconName": "",
			},
		},
		{
			Type: "slds-input", Name: "Text Input", Category: CategoryInputs, Icon: "📝",
			DefaultProps: domain.Properties{
				"w": 280.0, "h": 62.0,
				"label":        "Label",
				"placeholder":  "Enter text...",
				"value":        "",
				"type":         "text",
				"disabled":     false,
				"required":     false,
				"error":        false,
				"errorMessage": "",
			},
		},
		{
			Type: "slds-card", Name: "Card", Category: CategoryContainers, Icon: "📋",
			DefaultProps: domain.Properties{
				"w": 320.0, "h": 200.0,
				"title":      "Card Title",
				"showHeader": true,
				"showFooter": false,
				"bodyText":   "Card content goes here. Add components inside this card.",
			},
		},
	}
}
