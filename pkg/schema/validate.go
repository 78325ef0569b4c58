package schema

import "sort"

// Schema maps argument names to their types.
// Example: {"dim": Int(), "a": PositiveQuantity(units.Length)}
type Schema map[string]Type

// Validate checks already typed data against the schema. Optional fields
// may be missing; every other field is required.
func Validate(s Schema, data map[string]any) error {
	var errs Errors
	for _, field := range s.Keys() {
		typ := s[field]
		value, ok := data[field]
		if !ok {
			if !isOptional(typ) {
				errs = append(errs, &FieldError{Field: field, Reason: "required"})
			}
			continue
		}
		if err := typ.Validate(value); err != nil {
			errs = append(errs, &FieldError{Field: field, Reason: err.Error(), Value: value})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Coerce converts every field of data named by the schema into the
// canonical representation of its type. Missing optional fields are set to
// nil. Fields not named by the schema are copied through untouched.
func Coerce(s Schema, data map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}

	var errs Errors
	for _, field := range s.Keys() {
		typ := s[field]
		value, ok := data[field]
		if !ok {
			if isOptional(typ) {
				out[field] = nil
				continue
			}
			errs = append(errs, &FieldError{Field: field, Reason: "required"})
			continue
		}

		coerced, err := typ.Coerce(value)
		if err != nil {
			errs = append(errs, &FieldError{Field: field, Reason: err.Error(), Value: value})
			continue
		}
		out[field] = coerced
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

// Keys returns the field names of the schema in sorted order.
func (s Schema) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isOptional(t Type) bool {
	_, ok := t.(*OptionalType)
	return ok
}
