package report

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/marketing_analytics/internal/utils"
)

// FormatCurrency renders v as dollars with thousands separators, e.g. $1,234.50.
func FormatCurrency(v float64) string {
	if !utils.Finite(v) {
		v = 0
	}
	s := decimal.NewFromFloat(v).StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	whole, frac, _ := strings.Cut(s, ".")
	out := "$" + group(whole) + "." + frac
	if neg {
		return "-" + out
	}
	return out
}

// FormatPercent renders a fraction as a percentage with two decimals.
func FormatPercent(v float64) string {
	if !utils.Finite(v) {
		v = 0
	}
	return decimal.NewFromFloat(v).Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

// FormatNumber abbreviates large counts: 1.2M, 3.4K, 512.
func FormatNumber(v float64) string {
	if !utils.Finite(v) {
		v = 0
	}
	d := decimal.NewFromFloat(v)
	switch {
	case v >= 1e6:
		return d.Div(decimal.NewFromInt(1_000_000)).StringFixed(1) + "M"
	case v >= 1e3:
		return d.Div(decimal.NewFromInt(1_000)).StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
