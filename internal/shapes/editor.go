package shapes

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"masquerade/internal/domain"
)

type EditorKind string

const (
	EditorToggle EditorKind = "toggle"
	EditorNumber EditorKind = "number"
	EditorSelect EditorKind = "select"
	EditorText   EditorKind = "text"
)

// Editor tells the property panel which control to render for a key.
type Editor struct {
	Kind    EditorKind `json:"kind"`
	Options []string   `json:"options,omitempty"`
}

const (
	GroupSize       = "Size"
	GroupProperties = "Properties"
)

var (
	buttonVariants = []string{"brand", "neutral", "destructive", "outline-brand", "text-destructive", "success"}
	otherVariants  = []string{"default"}
	sizes          = []string{"small", "medium", "large"}
)

// EditorFor picks the control for a property. The value's runtime type wins
// over the key, so a boolean "size" is still a toggle.
func EditorFor(shapeType, key string, value any) Editor {
	switch value.(type) {
	case bool:
		return Editor{Kind: EditorToggle}
	case int, int32, int64, float32, float64:
		return Editor{Kind: EditorNumber}
	}
	switch key {
	case "variant":
		if shapeType == "slds-button" {
			return Editor{Kind: EditorSelect, Options: slices.Clone(buttonVariants)}
		}
		return Editor{Kind: EditorSelect, Options: slices.Clone(otherVariants)}
	case "size":
		return Editor{Kind: EditorSelect, Options: slices.Clone(sizes)}
	}
	return Editor{Kind: EditorText}
}

// Group returns the panel section a key is shown under.
func Group(key string) string {
	if key == "w" || key == "h" {
		return GroupSize
	}
	return GroupProperties
}

// SetProperty parses raw as the type of the key's current value and returns
// an updated copy of props. Keys not yet present are stored as text.
func SetProperty(shapeType string, props domain.Properties, key, raw string) (domain.Properties, error) {
	current := props[key]
	var next any
	switch current.(type) {
	case bool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("set %s: %q is not a boolean", key, raw)
		}
		next = b
	case int, int32, int64, float32, float64:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("set %s: %q is not a number", key, raw)
		}
		if (key == "w" || key == "h") && n <= 0 {
			return nil, fmt.Errorf("set %s: must be positive", key)
		}
		next = n
	default:
		ed := EditorFor(shapeType, key, current)
		if ed.Kind == EditorSelect && !slices.Contains(ed.Options, raw) {
			return nil, fmt.Errorf("set %s: %q is not one of %s", key, raw, strings.Join(ed.Options, ", "))
		}
		next = raw
	}
	out := props.Clone()
	out[key] = next
	return out, nil
}
