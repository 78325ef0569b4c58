package schema

import (
	"errors"
	"math"
	"testing"

	"github.com/aretw0/femtree/pkg/units"
)

func TestValidate_Types(t *testing.T) {
	tests := []struct {
		typ     Type
		value   any
		wantErr bool
	}{
		{String(), "all", false},
		{String(), 42, true},
		{String(), nil, true},
		{Int(), 2, false},
		{Int(), int64(3), false},
		{Int(), float64(2), false},
		{Int(), 2.5, true},
		{Int(), "2", true},
		{PositiveInt(), 5, false},
		{PositiveInt(), 0, true},
		{Float(), 0.001, false},
		{Float(), 10, false},
		{Float(), "0.001", true},
		{Bool(), true, false},
		{Bool(), "true", true},
		{Slice(String()), []string{"inflow", "outflow"}, false},
		{Slice(String()), []any{"wall", "axis"}, false},
		{Slice(Int()), []any{1, "2"}, true},
		{Slice(String()), "wall", true},
		{Optional(Bool()), nil, false},
		{Optional(Bool()), false, false},
		{Quantity(units.Pressure), units.MustParse("8 Pa"), false},
		{Quantity(units.Pressure), units.MustParse("8 m"), true},
		{Quantity(units.Pressure), 8.0, true},
		{Enum("ipcs", "chorin"), "ipcs", false},
		{Enum("ipcs", "chorin"), "euler", true},
	}

	for _, tt := range tests {
		err := tt.typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s.Validate(%v) error = %v, wantErr %v", tt.typ.Name(), tt.value, err, tt.wantErr)
		}
	}
}

func TestCustomType(t *testing.T) {
	axis := Custom("axis", func(v any) error {
		s, ok := v.(string)
		if !ok || (s != "x" && s != "y" && s != "z") {
			return errors.New("expected x, y or z")
		}
		return nil
	})

	if axis.Name() != "axis" {
		t.Errorf("Name() = %q, want %q", axis.Name(), "axis")
	}
	for _, ok := range []any{"x", "z"} {
		if err := axis.Validate(ok); err != nil {
			t.Errorf("Validate(%v) error = %v", ok, err)
		}
	}
	for _, bad := range []any{"w", 1, nil} {
		if _, err := axis.Coerce(bad); err == nil {
			t.Errorf("Coerce(%v) should fail", bad)
		}
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		input    string
		wantErr  bool
		wantName string
	}{
		{"string", false, "string"},
		{"int", false, "int"},
		{"float", false, "float"},
		{"bool", false, "bool"},
		{"[string]", false, "[string]"},
		{"[int]", false, "[int]"},
		{"[[string]]", false, "[[string]]"},
		{"{float}", false, "{float}"},
		{"float?", false, "float?"},
		{"enum(b|a)", false, "enum(a|b)"},
		{"quantity(length)", false, "quantity(length)"},
		{"positive_quantity(viscosity)?", false, "positive_quantity(viscosity)?"},
		{"quantity(furlongs)", true, ""},
		{"[quantity(length);3]", false, "[quantity(length);3]"},
		{"[int;x]", true, ""},
		{"invalid", true, ""},
		{"[invalid]", true, ""},
	}

	for _, tt := range tests {
		typ, err := ParseType(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && typ.Name() != tt.wantName {
			t.Errorf("ParseType(%q) Name() = %q, want %q", tt.input, typ.Name(), tt.wantName)
		}
	}
}

func TestParseTypeMap(t *testing.T) {
	s, err := ParseTypeMap(map[string]string{
		"dim":       "int",
		"a":         "positive_quantity(length)",
		"char_size": "quantity(length)?",
		"x0":        "[quantity(length);3]",
	})
	if err != nil {
		t.Fatalf("ParseTypeMap() error = %v", err)
	}
	if len(s) != 4 {
		t.Errorf("ParseTypeMap() len = %d, want 4", len(s))
	}
	if _, ok := s["char_size"].(*OptionalType); !ok {
		t.Errorf("char_size = %T, want optional", s["char_size"])
	}
	if got := s["x0"].Name(); got != "[quantity(length);3]" {
		t.Errorf("x0 = %q", got)
	}

	if _, err := ParseTypeMap(map[string]string{"dim": "matrix"}); err == nil {
		t.Fatal("ParseTypeMap() should return error for invalid type")
	}
}

func TestCoerce_Scalars(t *testing.T) {
	tests := []struct {
		typ     Type
		value   any
		want    any
		wantErr bool
	}{
		{Int(), "42", 42, false},
		{Int(), float64(7), 7, false},
		{Int(), int64(3), 3, false},
		{Int(), 2.5, nil, true},
		{Int(), 1e20, nil, true},
		{Int(), -1e20, nil, true},
		{PositiveInt(), "3", 3, false},
		{PositiveInt(), 0, nil, true},
		{Float(), "3.5", 3.5, false},
		{Float(), 2, 2.0, false},
		{Float(), "NaN", nil, true},
		{Float(), "Inf", nil, true},
		{Float(), math.Inf(-1), nil, true},
		{Bool(), "true", true, false},
		{Bool(), "nope", nil, true},
		{String(), "x", "x", false},
		{String(), 1, nil, true},
		{Enum("x", "y"), "y", "y", false},
		{Enum("x", "y"), "z", nil, true},
		{Optional(Int()), nil, nil, false},
		{Optional(Int()), "None", nil, false},
		{Optional(Int()), "5", 5, false},
	}

	for _, tt := range tests {
		got, err := tt.typ.Coerce(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s.Coerce(%v) error = %v, wantErr %v", tt.typ.Name(), tt.value, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("%s.Coerce(%v) = %v (%T), want %v (%T)", tt.typ.Name(), tt.value, got, got, tt.want, tt.want)
		}
	}
}

func TestCoerce_Quantity(t *testing.T) {
	length := PositiveQuantity(units.Length)

	got, err := length.Coerce("20 mm")
	if err != nil {
		t.Fatalf("Coerce() error = %v", err)
	}
	if q := got.(units.Quantity); q.String() != "0.02 m" {
		t.Errorf("Coerce() = %s, want 0.02 m", q)
	}

	got, err = length.Coerce(0.5)
	if err != nil {
		t.Fatalf("Coerce(0.5) error = %v", err)
	}
	if q := got.(units.Quantity); q.String() != "0.5 m" {
		t.Errorf("Coerce(0.5) = %s, want 0.5 m", q)
	}

	for _, bad := range []any{"-1 mm", "0 m", "1 s", "wide", true} {
		if _, err := length.Coerce(bad); err == nil {
			t.Errorf("Coerce(%v) should fail", bad)
		}
	}

	if _, err := Quantity(units.Length).Coerce("-1 mm"); err != nil {
		t.Errorf("signed quantity should accept negative values: %v", err)
	}
}

func TestCoerce_Containers(t *testing.T) {
	got, err := Map(Float()).Coerce(map[string]any{"a": "1.5", "b": 2})
	if err != nil {
		t.Fatalf("Map.Coerce() error = %v", err)
	}
	m := got.(map[string]any)
	if m["a"] != 1.5 || m["b"] != 2.0 {
		t.Errorf("Map.Coerce() = %v", m)
	}

	if _, err := Map(Float()).Coerce(map[string]any{"a": "x"}); err == nil {
		t.Error("Map.Coerce() should reject bad element")
	}

	got, err = Slice(Int()).Coerce([]string{"1", "2"})
	if err != nil {
		t.Fatalf("Slice.Coerce() error = %v", err)
	}
	if s := got.([]any); len(s) != 2 || s[1] != 2 {
		t.Errorf("Slice.Coerce() = %v", s)
	}
}

func TestCoerce_VectorAndRecord(t *testing.T) {
	vec := Vector(Quantity(units.Length), 3)

	got, err := vec.Coerce("0 m, 20 mm, 0 m")
	if err != nil {
		t.Fatalf("Vector.Coerce() error = %v", err)
	}
	if q := got.([]any)[1].(units.Quantity); q.String() != "0.02 m" {
		t.Errorf("element 1 = %s, want 0.02 m", q)
	}
	if _, err := vec.Coerce([]any{"1 m"}); err == nil {
		t.Error("Vector.Coerce() should reject wrong length")
	}

	rec := Record(Schema{
		"selection": String(),
		"density":   Optional(PositiveQuantity(units.Density)),
	})
	got, err = rec.Coerce(map[string]any{"selection": "all"})
	if err != nil {
		t.Fatalf("Record.Coerce() error = %v", err)
	}
	if m := got.(map[string]any); m["selection"] != "all" || m["density"] != nil {
		t.Errorf("Record.Coerce() = %v", m)
	}
	if _, err := rec.Coerce(map[string]any{"selection": "all", "colour": "red"}); err == nil {
		t.Error("Record.Coerce() should reject unknown fields")
	}
	if _, err := rec.Coerce(map[string]any{}); err == nil {
		t.Error("Record.Coerce() should require non-optional fields")
	}
}
