package design

import (
	"errors"
	"strings"
	"unicode"

	"masquerade/internal/domain"
)

// NewElement builds a canvas element for a palette component. Only the id,
// type and name of the component are used.
func NewElement(c domain.PaletteComponent, id string) domain.CanvasElement {
	return domain.CanvasElement{
		ID:          id,
		ComponentID: c.ID,
		Type:        c.Type,
		Name:        c.Name,
		Properties:  domain.Properties{},
	}
}

// DeriveAPIName turns a label into a custom object API name:
// "My Object" becomes "My_Object__c".
func DeriveAPIName(label string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(label) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r)) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), "_") + "__c"
}

func DerivePluralLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" || strings.HasSuffix(label, "s") {
		return label
	}
	return label + "s"
}

// NewCustomObject validates the wizard's new-object form. Empty plural and
// API name fields are derived from the label.
func NewCustomObject(label, plural, apiName, description string) (domain.SalesforceObject, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return domain.SalesforceObject{}, errors.New("custom object: label is required")
	}
	plural = strings.TrimSpace(plural)
	if plural == "" {
		plural = DerivePluralLabel(label)
	}
	apiName = strings.TrimSpace(apiName)
	if apiName == "" {
		apiName = DeriveAPIName(label)
	}
	if !strings.HasSuffix(apiName, "__c") {
		return domain.SalesforceObject{}, errors.New("custom object: api name must end in __c")
	}
	return domain.SalesforceObject{
		Kind:        domain.ObjectCustom,
		Name:        label,
		Label:       label,
		PluralLabel: plural,
		APIName:     apiName,
		Description: strings.TrimSpace(description),
	}, nil
}
