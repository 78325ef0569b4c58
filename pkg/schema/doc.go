// Package schema provides value types used to validate and coerce entity
// attributes.
//
// It defines a small type system with built-in types (string, int, float,
// bool), containers (slices, string keyed maps), optionals, enums, physical
// quantities and custom validators. Schemas map field names to types and
// describe the constructor arguments a registry entry requires.
//
// Validate checks values that are already typed; Coerce also accepts the
// textual forms that appear in documents and on the command line:
//
//	s := schema.Schema{
//	    "dim": schema.Int(),
//	    "a":   schema.PositiveQuantity(units.Length),
//	}
//
//	args, err := schema.Coerce(s, map[string]any{"dim": "2", "a": "20 mm"})
//	// args["dim"] == 2, args["a"].(units.Quantity).String() == "0.02 m"
//
// Schemas can be created programmatically or parsed from type strings:
//
//	s, err := schema.ParseTypeMap(map[string]string{
//	    "dim":       "int",
//	    "a":         "positive_quantity(length)",
//	    "char_size": "quantity(length)?",
//	})
//
// Custom validators can be registered for domain-specific validation:
//
//	axis := schema.Custom("axis", func(v any) error {
//	    s, ok := v.(string)
//	    if !ok || (s != "x" && s != "y" && s != "z") {
//	        return fmt.Errorf("expected x, y or z")
//	    }
//	    return nil
//	})
package schema
