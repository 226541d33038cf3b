package catalog

import (
	"errors"
	"fmt"

	"masquerade/internal/domain"
)

// ValidateProperties checks a property bag against the component's schema.
// With partial set only the keys present are checked; otherwise required keys
// must also be present. Components without a schema accept any bag, and keys
// a schema does not declare are left alone.
func (c *Catalog) ValidateProperties(componentID string, props domain.Properties, partial bool) error {
	schema, ok := c.schemaIndex[componentID]
	if !ok {
		return nil
	}

	var errs []error
	for _, p := range schema.Properties {
		v, present := props[p.Key]
		if !present {
			if p.Required && !partial {
				errs = append(errs, fmt.Errorf("%s: %s is required", componentID, p.Key))
			}
			continue
		}
		if v == nil {
			continue
		}
		if err := checkValue(p, v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %s: %w", componentID, p.Key, err))
		}
	}
	return errors.Join(errs...)
}

func checkValue(p domain.PropertySchema, v any) error {
	switch p.Type {
	case domain.PropText, domain.PropTextarea, domain.PropColor, domain.PropIcon:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("want string, got %T", v)
		}
	case domain.PropSelect:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("want string, got %T", v)
		}
		if len(p.Options) > 0 && !p.HasOption(s) {
			return fmt.Errorf("%q is not one of the allowed options", s)
		}
	case domain.PropBoolean:
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("want boolean, got %T", v)
		}
	case domain.PropNumber:
		n, ok := AsFloat(v)
		if !ok {
			return fmt.Errorf("want number, got %T", v)
		}
		if p.Min != nil && n < *p.Min {
			return fmt.Errorf("%v is below minimum %v", n, *p.Min)
		}
		if p.Max != nil && n > *p.Max {
			return fmt.Errorf("%v is above maximum %v", n, *p.Max)
		}
	case domain.PropMultiselect:
		switch t := v.(type) {
		case []string:
		case []any:
			for i, item := range t {
				if _, ok := item.(string); !ok {
					return fmt.Errorf("item %d: want string, got %T", i, item)
				}
			}
		default:
			return fmt.Errorf("want list of strings, got %T", v)
		}
	case domain.PropArray:
		switch v.(type) {
		case []any, []string, []map[string]any:
		default:
			return fmt.Errorf("want list, got %T", v)
		}
	}
	return nil
}

// AsFloat converts the numeric kinds produced by JSON and YAML decoding.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
