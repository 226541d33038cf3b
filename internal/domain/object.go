package domain

type ObjectKind string

const (
	ObjectStandard ObjectKind = "standard"
	ObjectCustom   ObjectKind = "custom"
)

// SalesforceObject is either a fixed catalog entry (standard) or an object the
// user authored in the wizard (custom). Label and Description are only set for
// custom objects; Icon only for standard ones.
type SalesforceObject struct {
	Kind        ObjectKind `json:"type" yaml:"type"`
	Name        string     `json:"name" yaml:"name"`
	APIName     string     `json:"apiName" yaml:"apiName"`
	PluralLabel string     `json:"pluralLabel" yaml:"pluralLabel"`
	Icon        string     `json:"icon,omitempty" yaml:"icon,omitempty"`
	Label       string     `json:"label,omitempty" yaml:"label,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
}

func (o SalesforceObject) IsCustom() bool { return o.Kind == ObjectCustom }

// PageTypeOption describes one card on the wizard's first step.
type PageTypeOption struct {
	Type        PageType `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Enabled     bool     `json:"enabled"`
}
