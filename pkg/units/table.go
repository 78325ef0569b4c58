package units

// unit converts a magnitude to SI by multiplying with num and dividing by den.
// Keeping the two factors apart lets "20 mm" become exactly 20/1000.
type unit struct {
	num float64
	den float64
	dim Dimension
}

func si(dim Dimension) unit                       { return unit{num: 1, den: 1, dim: dim} }
func scaled(num, den float64, dim Dimension) unit { return unit{num: num, den: den, dim: dim} }

var unitTable = map[string]unit{
	// length
	"m":          si(Length),
	"meter":      si(Length),
	"metre":      si(Length),
	"km":         scaled(1000, 1, Length),
	"cm":         scaled(1, 100, Length),
	"mm":         scaled(1, 1000, Length),
	"millimeter": scaled(1, 1000, Length),
	"um":         scaled(1, 1e6, Length),
	"µm":         scaled(1, 1e6, Length),
	"in":         scaled(0.0254, 1, Length),
	"ft":         scaled(0.3048, 1, Length),

	// mass
	"kg":       si(Mass),
	"kilogram": si(Mass),
	"g":        scaled(1, 1000, Mass),
	"gram":     scaled(1, 1000, Mass),

	// time
	"s":      si(Time),
	"sec":    si(Time),
	"second": si(Time),
	"ms":     scaled(1, 1000, Time),
	"min":    scaled(60, 1, Time),
	"minute": scaled(60, 1, Time),
	"h":      scaled(3600, 1, Time),
	"hour":   scaled(3600, 1, Time),

	// temperature
	"K":      si(Temperature),
	"kelvin": si(Temperature),

	// derived
	"N":      si(Force),
	"newton": si(Force),
	"Pa":     si(Pressure),
	"pascal": si(Pressure),
	"kPa":    scaled(1000, 1, Pressure),
	"MPa":    scaled(1e6, 1, Pressure),
	"bar":    scaled(1e5, 1, Pressure),
	"L":      scaled(1, 1000, Volume),
	"l":      scaled(1, 1000, Volume),
}
