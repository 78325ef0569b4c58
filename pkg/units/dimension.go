package units

import (
	"fmt"
	"strings"
)

// Dimension holds the exponents of the SI base dimensions a quantity is made of.
type Dimension struct {
	L int8 // length
	M int8 // mass
	T int8 // time
	K int8 // temperature
}

// Named dimensions.
var (
	Dimensionless = Dimension{}
	Length        = Dimension{L: 1}
	Area          = Dimension{L: 2}
	Volume        = Dimension{L: 3}
	Mass          = Dimension{M: 1}
	Time          = Dimension{T: 1}
	Temperature   = Dimension{K: 1}
	Velocity      = Dimension{L: 1, T: -1}
	Force         = Dimension{L: 1, M: 1, T: -2}
	Pressure      = Dimension{L: -1, M: 1, T: -2}
	Viscosity     = Dimension{L: -1, M: 1, T: -1}
	Density       = Dimension{L: -3, M: 1}
)

var dimensionNames = map[Dimension]string{
	Dimensionless: "dimensionless",
	Length:        "length",
	Area:          "area",
	Volume:        "volume",
	Mass:          "mass",
	Time:          "time",
	Temperature:   "temperature",
	Velocity:      "velocity",
	Force:         "force",
	Pressure:      "pressure",
	Viscosity:     "viscosity",
	Density:       "density",
}

// Is reports whether d equals other.
func (d Dimension) Is(other Dimension) bool { return d == other }

func (d Dimension) mul(other Dimension) Dimension {
	return Dimension{L: d.L + other.L, M: d.M + other.M, T: d.T + other.T, K: d.K + other.K}
}

func (d Dimension) pow(e int8) Dimension {
	return Dimension{L: d.L * e, M: d.M * e, T: d.T * e, K: d.K * e}
}

// String returns the dimension name, or its base exponents when unnamed.
func (d Dimension) String() string {
	if name, ok := dimensionNames[d]; ok {
		return name
	}
	var parts []string
	for _, p := range []struct {
		sym string
		e   int8
	}{{"L", d.L}, {"M", d.M}, {"T", d.T}, {"K", d.K}} {
		if p.e != 0 {
			parts = append(parts, fmt.Sprintf("%s^%d", p.sym, p.e))
		}
	}
	return strings.Join(parts, " ")
}

// ParseDimension resolves a dimension name produced by Dimension.String.
func ParseDimension(name string) (Dimension, error) {
	for d, n := range dimensionNames {
		if n == name {
			return d, nil
		}
	}
	return Dimension{}, fmt.Errorf("unknown dimension %q", name)
}

// canonicalUnit is the SI symbol a dimension renders with.
func (d Dimension) canonicalUnit() string {
	switch d {
	case Dimensionless:
		return ""
	case Length:
		return "m"
	case Area:
		return "m^2"
	case Volume:
		return "m^3"
	case Mass:
		return "kg"
	case Time:
		return "s"
	case Temperature:
		return "K"
	case Velocity:
		return "m/s"
	case Force:
		return "N"
	case Pressure:
		return "Pa"
	case Viscosity:
		return "Pa*s"
	case Density:
		return "kg/m^3"
	}

	var num, den []string
	for _, p := range []struct {
		sym string
		e   int8
	}{{"kg", d.M}, {"m", d.L}, {"s", d.T}, {"K", d.K}} {
		switch {
		case p.e == 1:
			num = append(num, p.sym)
		case p.e > 1:
			num = append(num, fmt.Sprintf("%s^%d", p.sym, p.e))
		case p.e == -1:
			den = append(den, p.sym)
		case p.e < -1:
			den = append(den, fmt.Sprintf("%s^%d", p.sym, -p.e))
		}
	}
	out := strings.Join(num, "*")
	if out == "" {
		out = "1"
	}
	for _, s := range den {
		out += "/" + s
	}
	return out
}
