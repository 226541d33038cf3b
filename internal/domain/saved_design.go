package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrNoDesign        = errors.New("no active design")
	ErrInvalidEnvelope = errors.New("invalid design envelope")
)

// SavedDesign is the persisted form of a design. Data is the serialized
// PageDesign and is opaque to the stores.
type SavedDesign struct {
	ID        string `json:"id" bson:"_id"`
	Name      string `json:"name" bson:"name"`
	Data      string `json:"data" bson:"data"`
	Thumbnail string `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
	CreatedAt int64  `json:"createdAt" bson:"createdAt"` // epoch ms
	UpdatedAt int64  `json:"updatedAt" bson:"updatedAt"` // epoch ms
}

// SavedTemplate is a user-saved starting point, kept apart from the built-in
// catalog templates.
type SavedTemplate struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Data      string `json:"data"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

type DesignStore interface {
	SaveDesign(d *SavedDesign) error
	GetDesign(id string) (*SavedDesign, error)
	ListDesigns() ([]SavedDesign, error)
	DeleteDesign(id string) error
}

type TemplateStore interface {
	SaveTemplate(t *SavedTemplate) error
	ListTemplates() ([]SavedTemplate, error)
	DeleteTemplate(id string) error
}

type SettingsStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}
