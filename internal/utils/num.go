package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

// SafeDiv is the ratio zero guard: a zero or non-finite denominator, or a
// non-finite quotient, resolves to 0.
func SafeDiv(a, b float64) float64 {
	if b == 0 || !Finite(b) {
		return 0
	}
	v := a / b
	if !Finite(v) {
		return 0
	}
	return v
}

func Finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Clip0 clamps negatives to zero.
func Clip0(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}

// Round rounds half away from zero to places decimals. Non-finite input gives 0.
func Round(f float64, places int32) float64 {
	if !Finite(f) {
		return 0
	}
	return decimal.NewFromFloat(f).Round(places).InexactFloat64()
}

func Round2(f float64) float64 { return Round(f, 2) }
func Round3(f float64) float64 { return Round(f, 3) }
