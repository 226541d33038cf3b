package domain

type ComponentCategory string

const (
	CategoryStandard ComponentCategory = "standard"
	CategoryBase     ComponentCategory = "base"
	CategoryCustom   ComponentCategory = "custom"
)

// Valid reports whether c names one of the palette tabs.
func (c ComponentCategory) Valid() bool {
	switch c {
	case CategoryStandard, CategoryBase, CategoryCustom:
		return true
	}
	return false
}

// PaletteComponent is an entry in the drag-and-drop palette.
type PaletteComponent struct {
	ID            string            `json:"id" yaml:"id"`
	Type          string            `json:"type" yaml:"type"`
	Name          string            `json:"name" yaml:"name"`
	Icon          string            `json:"icon" yaml:"icon"`
	Category      ComponentCategory `json:"category" yaml:"category"`
	DefaultWidth  string            `json:"defaultWidth,omitempty" yaml:"defaultWidth,omitempty"`
	DefaultHeight string            `json:"defaultHeight,omitempty" yaml:"defaultHeight,omitempty"`
}

type PropertyType string

const (
	PropText        PropertyType = "text"
	PropTextarea    PropertyType = "textarea"
	PropNumber      PropertyType = "number"
	PropBoolean     PropertyType = "boolean"
	PropSelect      PropertyType = "select"
	PropMultiselect PropertyType = "multiselect"
	PropColor       PropertyType = "color"
	PropIcon        PropertyType = "icon"
	PropArray       PropertyType = "array"
)

type PropertyOption struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

type ShowWhen struct {
	Key   string `json:"key" yaml:"key"`
	Value any    `json:"value" yaml:"value"`
}

type PropertySchema struct {
	Key          string           `json:"key" yaml:"key"`
	Label        string           `json:"label" yaml:"label"`
	Type         PropertyType     `json:"type" yaml:"type"`
	Description  string           `json:"description,omitempty" yaml:"description,omitempty"`
	DefaultValue any              `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Required     bool             `json:"required,omitempty" yaml:"required,omitempty"`
	Options      []PropertyOption `json:"options,omitempty" yaml:"options,omitempty"`
	Min          *float64         `json:"min,omitempty" yaml:"min,omitempty"`
	Max          *float64         `json:"max,omitempty" yaml:"max,omitempty"`
	Step         *float64         `json:"step,omitempty" yaml:"step,omitempty"`
	ItemSchema   []PropertySchema `json:"itemSchema,omitempty" yaml:"itemSchema,omitempty"`
	ShowWhen     *ShowWhen        `json:"showWhen,omitempty" yaml:"showWhen,omitempty"`
}

// HasOption reports whether v is one of the declared option values.
func (p PropertySchema) HasOption(v string) bool {
	for _, o := range p.Options {
		if o.Value == v {
			return true
		}
	}
	return false
}

type ComponentSchema struct {
	ID                string            `json:"id" yaml:"id"`
	Name              string            `json:"name" yaml:"name"`
	Description       string            `json:"description" yaml:"description"`
	Category          ComponentCategory `json:"category" yaml:"category"`
	Icon              string            `json:"icon,omitempty" yaml:"icon,omitempty"`
	Properties        []PropertySchema  `json:"properties" yaml:"properties"`
	DefaultProperties Properties        `json:"defaultProperties" yaml:"defaultProperties"`
}

// Property returns the schema for key.
func (c ComponentSchema) Property(key string) (PropertySchema, bool) {
	for _, p := range c.Properties {
		if p.Key == key {
			return p, true
		}
	}
	return PropertySchema{}, false
}
