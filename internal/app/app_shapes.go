package app

import (
	"fmt"
	"sort"

	"masquerade/internal/domain"
	"masquerade/internal/shapes"
)

// ShapeField is one row of the shape property panel.
type ShapeField struct {
	Key    string        `json:"key"`
	Group  string        `json:"group"`
	Value  any           `json:"value"`
	Editor shapes.Editor `json:"editor"`
}

// ListShapes returns every registered canvas shape in registration order.
func (a *App) ListShapes() []shapes.Registration {
	return a.core.Shapes.All()
}

// ShapeCategories returns the shape sidebar sections.
func (a *App) ShapeCategories() []shapes.Category {
	return a.core.Shapes.Categories()
}

// ShapeFields lays out the property panel for a shape's current props,
// sorted by key within each group.
func (a *App) ShapeFields(shapeType string, props domain.Properties) ([]ShapeField, error) {
	if _, ok := a.core.Shapes.Shape(shapeType); !ok {
		return nil, fmt.Errorf("shape %s: %w", shapeType, domain.ErrNotFound)
	}
	fields := make([]ShapeField, 0, len(props))
	for k, v := range props {
		fields = append(fields, ShapeField{
			Key:    k,
			Group:  shapes.Group(k),
			Value:  v,
			Editor: shapes.EditorFor(shapeType, k, v),
		})
	}
	sort.Slice(fields, func(i, j int) bool {
		if fields[i].Group != fields[j].Group {
			return fields[i].Group == shapes.GroupSize
		}
		return fields[i].Key < fields[j].Key
	})
	return fields, nil
}

// SetShapeProperty applies raw panel input to a shape's props.
func (a *App) SetShapeProperty(shapeType string, props domain.Properties, key, raw string) (domain.Properties, error) {
	return shapes.SetProperty(shapeType, props, key, raw)
}
