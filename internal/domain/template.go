package domain

type TemplateCategory string

const (
	TemplateSales      TemplateCategory = "sales"
	TemplateService    TemplateCategory = "service"
	TemplateExperience TemplateCategory = "experience"
	TemplateBlank      TemplateCategory = "blank"
)

// TemplateComponent is a component pre-placed by a template.
type TemplateComponent struct {
	RegionID    string     `json:"regionId" yaml:"regionId"`
	ComponentID string     `json:"componentId" yaml:"componentId"`
	Type        string     `json:"type" yaml:"type"`
	Name        string     `json:"name" yaml:"name"`
	Properties  Properties `json:"properties,omitempty" yaml:"properties,omitempty"`
}

type PageTemplate struct {
	ID                string              `json:"id" yaml:"id"`
	Name              string              `json:"name" yaml:"name"`
	Description       string              `json:"description" yaml:"description"`
	Category          TemplateCategory    `json:"category" yaml:"category"`
	PageType          PageType            `json:"pageType" yaml:"pageType"`
	ObjectName        string              `json:"objectName,omitempty" yaml:"objectName,omitempty"`
	Thumbnail         string              `json:"thumbnail" yaml:"thumbnail"`
	Layout            LayoutDefinition    `json:"layout" yaml:"-"`
	LayoutID          string              `json:"-" yaml:"layout"`
	DefaultComponents []TemplateComponent `json:"defaultComponents" yaml:"defaultComponents"`
}
