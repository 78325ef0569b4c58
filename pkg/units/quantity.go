package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Quantity is a magnitude in SI base units with its dimension.
type Quantity struct {
	Value float64
	Dim   Dimension
}

// New builds a quantity from a magnitude expressed in unit.
func New(magnitude float64, unitExpr string) (Quantity, error) {
	u, err := parseUnit(unitExpr)
	if err != nil {
		return Quantity{}, err
	}
	value := magnitude * u.num / u.den
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Quantity{}, fmt.Errorf("quantity %g %s: magnitude out of range", magnitude, unitExpr)
	}
	return Quantity{Value: value, Dim: u.dim}, nil
}

// Must panics if err is not nil. Intended for package level templates.
func Must(q Quantity, err error) Quantity {
	if err != nil {
		panic(err)
	}
	return q
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Quantity {
	return Must(Parse(s))
}

// Parse reads a "<magnitude> <unit>" string. The space is optional ("20mm")
// and a missing unit yields a dimensionless quantity.
func Parse(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Quantity{}, fmt.Errorf("empty quantity")
	}

	split := numberPrefix(s)
	if split == 0 {
		return Quantity{}, fmt.Errorf("quantity %q: missing magnitude", s)
	}
	mag, err := strconv.ParseFloat(s[:split], 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("quantity %q: %w", s, err)
	}
	if math.IsNaN(mag) || math.IsInf(mag, 0) {
		return Quantity{}, fmt.Errorf("quantity %q: magnitude must be finite", s)
	}

	q, err := New(mag, strings.TrimSpace(s[split:]))
	if err != nil {
		return Quantity{}, fmt.Errorf("quantity %q: %w", s, err)
	}
	return q, nil
}

// numberPrefix returns the length of the leading float literal of s.
func numberPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := false
	for i < len(s) && (isDigit(s[i]) || s[i] == '.') {
		digits = digits || isDigit(s[i])
		i++
	}
	if !digits {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// parseUnit evaluates a unit expression such as "kg/m^3", "Pa*s" or "m**2".
// A "/" divides by the factor that follows it only.
func parseUnit(expr string) (unit, error) {
	expr = strings.ReplaceAll(strings.TrimSpace(expr), "**", "^")
	out := si(Dimensionless)
	if expr == "" {
		return out, nil
	}

	divide := false
	i := 0
	for i < len(expr) {
		r, size := utf8.DecodeRuneInString(expr[i:])
		switch {
		case r == ' ' || r == '*' || r == '·':
			i += size
			continue
		case r == '/':
			divide = true
			i += size
			continue
		case r == '1' && !divide && i == 0:
			// "1/s"
			i += size
			continue
		}

		j := i
		for j < len(expr) {
			r, size := utf8.DecodeRuneInString(expr[j:])
			if !unicode.IsLetter(r) && r != '_' {
				break
			}
			j += size
		}
		if j == i {
			return unit{}, fmt.Errorf("unexpected %q in unit %q", r, expr)
		}
		name := expr[i:j]

		exp := 1
		if j < len(expr) && expr[j] == '^' {
			k := j + 1
			if k < len(expr) && (expr[k] == '-' || expr[k] == '+') {
				k++
			}
			for k < len(expr) && isDigit(expr[k]) {
				k++
			}
			n, err := strconv.Atoi(expr[j+1 : k])
			if err != nil {
				return unit{}, fmt.Errorf("bad exponent in unit %q", expr)
			}
			exp = n
			j = k
		}

		u, ok := unitTable[name]
		if !ok {
			return unit{}, fmt.Errorf("unknown unit %q", name)
		}
		if divide {
			exp = -exp
			divide = false
		}
		out = combine(out, u, exp)
		i = j
	}
	if divide {
		return unit{}, fmt.Errorf("dangling '/' in unit %q", expr)
	}
	return out, nil
}

func combine(acc, u unit, exp int) unit {
	num, den := u.num, u.den
	if exp < 0 {
		num, den = den, num
	}
	e := float64(exp)
	if e < 0 {
		e = -e
	}
	return unit{
		num: acc.num * math.Pow(num, e),
		den: acc.den * math.Pow(den, e),
		dim: acc.dim.mul(u.dim.pow(int8(exp))),
	}
}

// In returns the magnitude of q expressed in unitExpr.
func (q Quantity) In(unitExpr string) (float64, error) {
	u, err := parseUnit(unitExpr)
	if err != nil {
		return 0, err
	}
	if u.dim != q.Dim {
		return 0, fmt.Errorf("cannot express %s as %s", q.Dim, u.dim)
	}
	return q.Value * u.den / u.num, nil
}

// String renders the canonical "<magnitude> <unit>" form in SI units.
func (q Quantity) String() string {
	mag := strconv.FormatFloat(q.Value, 'g', -1, 64)
	if u := q.Dim.canonicalUnit(); u != "" {
		return mag + " " + u
	}
	return mag
}

// MarshalText implements encoding.TextMarshaler.
func (q Quantity) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (q *Quantity) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}
