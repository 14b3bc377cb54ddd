package units

import (
	"math"

	"github.com/shopspring/decimal"
)

// UnitPrice is a price per base unit. When the base quantity is zero the price is
// unbounded: it compares greater than every bounded price and never wins a ranking.
type UnitPrice struct {
	Amount    decimal.Decimal
	Unbounded bool
}

// PerBaseUnit divides amount by the package quantity expressed in base units.
func PerBaseUnit(amount decimal.Decimal, unit string, quantity decimal.Decimal) UnitPrice {
	base := QuantityInBaseUnit(unit, quantity)
	if !base.IsPositive() {
		return UnitPrice{Unbounded: true}
	}
	return UnitPrice{Amount: amount.Div(base)}
}

// Compare returns -1, 0 or +1. Two unbounded prices are equal.
func (u UnitPrice) Compare(other UnitPrice) int {
	switch {
	case u.Unbounded && other.Unbounded:
		return 0
	case u.Unbounded:
		return 1
	case other.Unbounded:
		return -1
	}
	return u.Amount.Cmp(other.Amount)
}

// Less reports whether u is strictly cheaper than other
func (u UnitPrice) Less(other UnitPrice) bool {
	return u.Compare(other) < 0
}

// Float64 returns the amount as a float, +Inf when unbounded.
func (u UnitPrice) Float64() float64 {
	if u.Unbounded {
		return math.Inf(1)
	}
	f, _ := u.Amount.Float64()
	return f
}

func (u UnitPrice) String() string {
	if u.Unbounded {
		return "+Inf"
	}
	return u.Amount.StringFixed(2)
}

// MarshalJSON writes the amount rounded to 4 places, or null when unbounded.
func (u UnitPrice) MarshalJSON() ([]byte, error) {
	if u.Unbounded {
		return []byte("null"), nil
	}
	return []byte(u.Amount.Round(4).String()), nil
}
