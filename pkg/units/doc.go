// Package units implements physical quantities for model attributes.
//
// A Quantity stores its magnitude in SI base units together with its
// dimension. Quantities are parsed from strings such as "20 mm",
// "8.548e-4 Pa*s" or "996.534 kg/m**3" and always render in the canonical
// "<magnitude> <unit>" form using SI units ("0.02 m"), so a rendered value
// parses back to an identical Quantity.
//
// Basic usage:
//
//	q, err := units.Parse("20 mm")
//	// q.String() == "0.02 m"
//	if !q.Dim.Is(units.Length) {
//	    // reject
//	}
package units
