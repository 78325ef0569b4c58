package schema

import (
	"encoding/json"
	"fmt"
)

// Describe returns the type name of every field, the form used by kind
// listings and by ParseTypeMap.
func (s Schema) Describe() map[string]string {
	if len(s) == 0 {
		return nil
	}
	out := make(map[string]string, len(s))
	for field, typ := range s {
		out[field] = typ.Name()
	}
	return out
}

// MarshalJSON encodes the schema as its Describe map.
func (s Schema) MarshalJSON() ([]byte, error) {
	for field, typ := range s {
		if typ == nil {
			return nil, fmt.Errorf("field %s: type is nil", field)
		}
	}
	return json.Marshal(s.Describe())
}

// UnmarshalJSON parses a map of field names to type strings.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	if raw == nil {
		*s = nil
		return nil
	}
	parsed, err := ParseTypeMap(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
