package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/femtree/pkg/units"
)

// Type defines the contract for field validation and coercion.
// Implementations determine how values are validated against a type.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "int").
	Name() string
	// Validate checks if a value already conforms to this type.
	Validate(value any) error
	// Coerce converts value into the canonical Go representation of the type
	// (string, int, float64, bool, units.Quantity, []any, map[string]any),
	// accepting the textual forms produced by a snapshot or a command line.
	Coerce(value any) (any, error)
}

// --- Built-in Type Implementations ---

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(value any) error {
	_, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

func (t *StringType) Coerce(value any) (any, error) {
	if err := t.Validate(value); err != nil {
		return nil, err
	}
	return value, nil
}

// IntType validates integer values.
type IntType struct{}

func (t *IntType) Name() string { return "int" }

func (t *IntType) Validate(value any) error {
	switch v := value.(type) {
	case int, int8, int16, int32, int64:
		return nil
	case float64:
		// Accept floats that are whole numbers (from JSON unmarshaling)
		if v == float64(int64(v)) {
			return nil
		}
		return fmt.Errorf("expected int, got float (not a whole number)")
	default:
		return fmt.Errorf("expected int, got %T", value)
	}
}

func (t *IntType) Coerce(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int8, int16, int32, int64:
		return int(reflect.ValueOf(v).Int()), nil
	case float32:
		return t.Coerce(float64(v))
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("expected int, got %v", v)
		}
		if v >= math.MaxInt64 || v < math.MinInt64 {
			return nil, fmt.Errorf("int %v out of range", v)
		}
		return int(v), nil
	case json.Number:
		return t.Coerce(string(v))
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("expected int, got %q", v)
		}
		return i, nil
	default:
		return nil, fmt.Errorf("expected int, got %T", value)
	}
}

// PositiveIntType validates integers greater than zero.
type PositiveIntType struct{}

func (t *PositiveIntType) Name() string { return "positive_int" }

func (t *PositiveIntType) Validate(value any) error {
	_, err := t.Coerce(value)
	return err
}

func (t *PositiveIntType) Coerce(value any) (any, error) {
	v, err := (&IntType{}).Coerce(value)
	if err != nil {
		return nil, err
	}
	if v.(int) <= 0 {
		return nil, fmt.Errorf("must be positive, got %d", v)
	}
	return v, nil
}

// FloatType validates floating-point values.
type FloatType struct{}

func (t *FloatType) Name() string { return "float" }

func (t *FloatType) Validate(value any) error {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("expected finite float, got %v", v)
		}
		return nil
	case float32, int, int8, int16, int32, int64:
		return nil
	default:
		return fmt.Errorf("expected float, got %T", value)
	}
}

func (t *FloatType) Coerce(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("expected finite float, got %v", v)
		}
		return v, nil
	case float32:
		return t.Coerce(float64(v))
	case int, int8, int16, int32, int64:
		return float64(reflect.ValueOf(v).Int()), nil
	case json.Number:
		return t.Coerce(string(v))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("expected float, got %q", v)
		}
		return t.Coerce(f)
	default:
		return nil, fmt.Errorf("expected float, got %T", value)
	}
}

// BoolType validates boolean values.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) Validate(value any) error {
	_, ok := value.(bool)
	if !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

func (t *BoolType) Coerce(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("expected bool, got %q", v)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("expected bool, got %T", value)
	}
}

// SliceType validates slices of a specific element type.
type SliceType struct {
	elemType Type
}

func (t *SliceType) Name() string {
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *SliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected slice, got %T", value)
	}

	// Validate each element
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		if err := t.elemType.Validate(elem); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

func (t *SliceType) Coerce(value any) (any, error) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected slice, got %T", value)
	}
	out := make([]any, rv.Len())
	for i := range out {
		elem, err := t.elemType.Coerce(rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = elem
	}
	return out, nil
}

// MapType validates string keyed maps whose values share one type.
type MapType struct {
	elemType Type
}

func (t *MapType) Name() string {
	return fmt.Sprintf("{%s}", t.elemType.Name())
}

func (t *MapType) Validate(value any) error {
	_, err := t.Coerce(value)
	return err
}

func (t *MapType) Coerce(value any) (any, error) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("expected map with string keys, got %T", value)
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key := iter.Key().String()
		elem, err := t.elemType.Coerce(iter.Value().Interface())
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		out[key] = elem
	}
	return out, nil
}

// VectorType validates fixed length sequences of one element type.
type VectorType struct {
	elemType Type
	size     int
}

func (t *VectorType) Name() string {
	return fmt.Sprintf("[%s;%d]", t.elemType.Name(), t.size)
}

func (t *VectorType) Validate(value any) error {
	_, err := t.Coerce(value)
	return err
}

func (t *VectorType) Coerce(value any) (any, error) {
	if s, ok := value.(string); ok {
		parts := strings.Split(strings.Trim(s, "()[] "), ",")
		elems := make([]any, len(parts))
		for i, p := range parts {
			elems[i] = strings.TrimSpace(p)
		}
		value = elems
	}
	out, err := (&SliceType{elemType: t.elemType}).Coerce(value)
	if err != nil {
		return nil, err
	}
	if n := len(out.([]any)); n != t.size {
		return nil, fmt.Errorf("expected %d elements, got %d", t.size, n)
	}
	return out, nil
}

// RecordType validates string keyed maps with a fixed set of typed fields.
// Missing optional fields are filled with nil; unknown fields are rejected.
type RecordType struct {
	fields Schema
}

func (t *RecordType) Name() string {
	parts := make([]string, 0, len(t.fields))
	for _, k := range t.fields.Keys() {
		parts = append(parts, k+":"+t.fields[k].Name())
	}
	return "record(" + strings.Join(parts, ",") + ")"
}

func (t *RecordType) Validate(value any) error {
	_, err := t.Coerce(value)
	return err
}

func (t *RecordType) Coerce(value any) (any, error) {
	m, err := (&MapType{elemType: &anyType{}}).Coerce(value)
	if err != nil {
		return nil, err
	}
	data := m.(map[string]any)
	for k := range data {
		if _, ok := t.fields[k]; !ok {
			return nil, fmt.Errorf("unknown field %q", k)
		}
	}
	return Coerce(t.fields, data)
}

// anyType accepts every value unchanged.
type anyType struct{}

func (t *anyType) Name() string                  { return "any" }
func (t *anyType) Validate(any) error            { return nil }
func (t *anyType) Coerce(value any) (any, error) { return value, nil }

// QuantityType validates physical quantities of a given dimension.
// Bare numbers are read as magnitudes in SI base units.
type QuantityType struct {
	dim      units.Dimension
	positive bool
}

func (t *QuantityType) Name() string {
	if t.positive {
		return fmt.Sprintf("positive_quantity(%s)", t.dim)
	}
	return fmt.Sprintf("quantity(%s)", t.dim)
}

func (t *QuantityType) Validate(value any) error {
	q, ok := value.(units.Quantity)
	if !ok {
		return fmt.Errorf("expected quantity, got %T", value)
	}
	return t.check(q)
}

func (t *QuantityType) check(q units.Quantity) error {
	if math.IsNaN(q.Value) || math.IsInf(q.Value, 0) {
		return fmt.Errorf("magnitude out of range")
	}
	if !q.Dim.Is(t.dim) {
		return fmt.Errorf("expected %s, got %s", t.dim, q.Dim)
	}
	if t.positive && q.Value <= 0 {
		return fmt.Errorf("must be positive, got %s", q)
	}
	return nil
}

func (t *QuantityType) Coerce(value any) (any, error) {
	var q units.Quantity
	switch v := value.(type) {
	case units.Quantity:
		q = v
	case *units.Quantity:
		if v == nil {
			return nil, fmt.Errorf("expected quantity, got nil")
		}
		q = *v
	case string:
		parsed, err := units.Parse(v)
		if err != nil {
			return nil, err
		}
		q = parsed
	default:
		f, err := Float().Coerce(value)
		if err != nil {
			return nil, fmt.Errorf("expected quantity, got %T", value)
		}
		q = units.Quantity{Value: f.(float64), Dim: t.dim}
	}
	if err := t.check(q); err != nil {
		return nil, err
	}
	return q, nil
}

// OptionalType accepts nil as the explicit "unset" value in addition to the
// values of its element type. The string "None" is read as unset too, which
// is how older documents spell it.
type OptionalType struct {
	elemType Type
}

func (t *OptionalType) Name() string { return t.elemType.Name() + "?" }

func (t *OptionalType) Validate(value any) error {
	if value == nil {
		return nil
	}
	return t.elemType.Validate(value)
}

func (t *OptionalType) Coerce(value any) (any, error) {
	if IsUnset(value) {
		return nil, nil
	}
	return t.elemType.Coerce(value)
}

// IsUnset reports whether value is the unset sentinel.
func IsUnset(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && (s == "None" || s == "")
}

// EnumType validates strings drawn from a fixed set.
type EnumType struct {
	values []string
}

func (t *EnumType) Name() string {
	return fmt.Sprintf("enum(%s)", strings.Join(t.values, "|"))
}

func (t *EnumType) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	for _, v := range t.values {
		if v == s {
			return nil
		}
	}
	return fmt.Errorf("%q is not one of %s", s, strings.Join(t.values, ", "))
}

func (t *EnumType) Coerce(value any) (any, error) {
	if err := t.Validate(value); err != nil {
		return nil, err
	}
	return value, nil
}

// CustomType applies a user-defined validation function.
type CustomType struct {
	name     string
	validate func(any) error
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Validate(value any) error {
	return t.validate(value)
}

func (t *CustomType) Coerce(value any) (any, error) {
	if err := t.validate(value); err != nil {
		return nil, err
	}
	return value, nil
}

// --- Factory Functions ---

// String creates a string type validator.
func String() Type { return &StringType{} }

// Int creates an integer type validator.
func Int() Type { return &IntType{} }

// PositiveInt creates a validator for integers greater than zero.
func PositiveInt() Type { return &PositiveIntType{} }

// Float creates a float type validator.
func Float() Type { return &FloatType{} }

// Bool creates a boolean type validator.
func Bool() Type { return &BoolType{} }

// Slice creates a slice type validator for elements of the given type.
func Slice(elemType Type) Type {
	return &SliceType{elemType: elemType}
}

// Vector creates a validator for sequences of exactly size elements. A
// comma separated string such as "0 m, 1 mm, 0 m" is accepted too.
func Vector(elemType Type, size int) Type {
	return &VectorType{elemType: elemType, size: size}
}

// Record creates a validator for maps with the given fields.
func Record(fields Schema) Type {
	return &RecordType{fields: fields}
}

// Map creates a validator for string keyed maps of the given element type.
func Map(elemType Type) Type {
	return &MapType{elemType: elemType}
}

// Quantity creates a validator for quantities of dimension dim.
func Quantity(dim units.Dimension) Type {
	return &QuantityType{dim: dim}
}

// PositiveQuantity creates a validator for strictly positive quantities of dimension dim.
func PositiveQuantity(dim units.Dimension) Type {
	return &QuantityType{dim: dim, positive: true}
}

// Optional wraps elemType so that nil is accepted as "unset".
func Optional(elemType Type) Type {
	return &OptionalType{elemType: elemType}
}

// Enum creates a validator for strings drawn from values.
func Enum(values ...string) Type {
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	return &EnumType{values: sorted}
}

// Custom creates a custom type validator with a user-defined function.
func Custom(name string, validate func(any) error) Type {
	return &CustomType{name: name, validate: validate}
}

// ParseType converts a string type name to a Type.
// Supports basic types ("string", "int", "float", "bool"), slices ("[int]"),
// maps ("{string}"), optionals ("float?"), enums ("enum(a|b)") and
// quantities ("quantity(length)", "positive_quantity(pressure)").
func ParseType(typeStr string) (Type, error) {
	if n := len(typeStr); n > 1 && typeStr[n-1] == '?' {
		elem, err := ParseType(typeStr[:n-1])
		if err != nil {
			return nil, err
		}
		return Optional(elem), nil
	}

	// Handle slice types: [string], [int], etc.
	if len(typeStr) > 2 && typeStr[0] == '[' && typeStr[len(typeStr)-1] == ']' {
		elemTypeStr := typeStr[1 : len(typeStr)-1]
		if semi := strings.LastIndexByte(elemTypeStr, ';'); semi > 0 {
			size, err := strconv.Atoi(elemTypeStr[semi+1:])
			if err != nil || size <= 0 {
				return nil, fmt.Errorf("unsupported type: %s", typeStr)
			}
			elemType, err := ParseType(elemTypeStr[:semi])
			if err != nil {
				return nil, err
			}
			return Vector(elemType, size), nil
		}
		elemType, err := ParseType(elemTypeStr)
		if err != nil {
			return nil, err
		}
		return Slice(elemType), nil
	}

	if len(typeStr) > 2 && typeStr[0] == '{' && typeStr[len(typeStr)-1] == '}' {
		elemType, err := ParseType(typeStr[1 : len(typeStr)-1])
		if err != nil {
			return nil, err
		}
		return Map(elemType), nil
	}

	if name, arg, ok := call(typeStr); ok {
		switch name {
		case "enum":
			return Enum(strings.Split(arg, "|")...), nil
		case "quantity", "positive_quantity":
			dim, err := units.ParseDimension(arg)
			if err != nil {
				return nil, err
			}
			if name == "positive_quantity" {
				return PositiveQuantity(dim), nil
			}
			return Quantity(dim), nil
		}
	}

	// Handle built-in types
	switch typeStr {
	case "string":
		return String(), nil
	case "int":
		return Int(), nil
	case "positive_int":
		return PositiveInt(), nil
	case "float":
		return Float(), nil
	case "bool":
		return Bool(), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", typeStr)
	}
}

// call splits "name(arg)".
func call(s string) (name, arg string, ok bool) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || s[len(s)-1] != ')' {
		return "", "", false
	}
	return s[:open], s[open+1 : len(s)-1], true
}

// ParseTypeMap converts a map of field names to type strings into a Schema.
// Example: {"dim": "int", "a": "positive_quantity(length)"}
func ParseTypeMap(typeMap map[string]string) (Schema, error) {
	result := make(Schema)
	for key, typeStr := range typeMap {
		t, err := ParseType(typeStr)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		result[key] = t
	}
	return result, nil
}
