// Package units converts package quantities into the base units used for
// price-per-unit comparisons: kilogram, liter and piece.
package units

import (
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Base units
const (
	Kilogram = "kg"
	Liter    = "l"
	Piece    = "pcs"
)

type conversion struct {
	base    string
	divisor decimal.Decimal
}

var conversions = map[string]conversion{
	"mg":  {Kilogram, decimal.NewFromInt(1_000_000)},
	"g":   {Kilogram, decimal.NewFromInt(1000)},
	"gr":  {Kilogram, decimal.NewFromInt(1000)},
	"kg":  {Kilogram, decimal.NewFromInt(1)},
	"ml":  {Liter, decimal.NewFromInt(1000)},
	"cl":  {Liter, decimal.NewFromInt(100)},
	"l":   {Liter, decimal.NewFromInt(1)},
	"ltr": {Liter, decimal.NewFromInt(1)},
	"pcs": {Piece, decimal.NewFromInt(1)},
	"pc":  {Piece, decimal.NewFromInt(1)},
	"buc": {Piece, decimal.NewFromInt(1)},
}

// warnedUnits keeps the unknown-unit warning to one line per unit string.
var warnedUnits sync.Map

// Normalize lower-cases and trims a unit string
func Normalize(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

// IsKnown reports whether the unit belongs to the supported vocabulary
func IsKnown(unit string) bool {
	_, ok := conversions[Normalize(unit)]
	return ok
}

// BaseUnit returns the base unit a package unit converts to.
// Unknown units are their own base unit.
func BaseUnit(unit string) string {
	if c, ok := conversions[Normalize(unit)]; ok {
		return c.base
	}
	return Normalize(unit)
}

// QuantityInBaseUnit converts quantity of unit into kg, l or pcs.
// Unrecognized units use a multiplier of 1 so one odd unit string cannot break a ranking.
func QuantityInBaseUnit(unit string, quantity decimal.Decimal) decimal.Decimal {
	c, ok := conversions[Normalize(unit)]
	if !ok {
		if _, seen := warnedUnits.LoadOrStore(Normalize(unit), struct{}{}); !seen {
			log.Warn().Str("component", "units").Str("unit", unit).Msg("Unknown package unit, using multiplier 1")
		}
		return quantity
	}
	return quantity.Div(c.divisor)
}
