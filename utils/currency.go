package utils

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("amount must be greater than zero")

var minorUnitsPerMajor = decimal.NewFromInt(100)

// ToMinorUnits converts a major-unit amount (rupees) to minor units (paise), rounding half away from zero.
func ToMinorUnits(amount float64) (int64, error) {
	d := decimal.NewFromFloat(amount)
	if !d.IsPositive() {
		return 0, ErrInvalidAmount
	}
	return d.Mul(minorUnitsPerMajor).Round(0).IntPart(), nil
}

// FromMinorUnits is the inverse of ToMinorUnits.
func FromMinorUnits(minor int64) float64 {
	f, _ := decimal.NewFromInt(minor).Div(minorUnitsPerMajor).Float64()
	return f
}
