package models

import (
	"fmt"
	"strings"
)

// Field is a canonical numeric column of the daily dataset. Every alias found
// in a source file resolves to exactly one Field at ingestion time.
type Field int

const (
	TotalRevenue Field = iota
	GrossProfit
	COGS
	Orders
	NewOrders
	NewCustomers
	Spend
	AttributedRevenue
	AttributionRate
	MarketingROAS
	ProfitMargin
	Clicks
	Impressions

	platformFieldBase
)

// PlatformMetric is one of the per-platform columns.
type PlatformMetric int

const (
	PlatformSpend PlatformMetric = iota
	PlatformAttributedRevenue
	PlatformClicks
	PlatformImpressions

	NumPlatformMetrics = 4
)

// NumFields is the total count of canonical numeric fields.
const NumFields = int(platformFieldBase) + NumPlatforms*NumPlatformMetrics

var baseFieldNames = [...]string{
	TotalRevenue:      "total_revenue",
	GrossProfit:       "gross_profit",
	COGS:              "cogs",
	Orders:            "orders",
	NewOrders:         "new_orders",
	NewCustomers:      "new_customers",
	Spend:             "spend",
	AttributedRevenue: "attributed_revenue",
	AttributionRate:   "attribution_rate",
	MarketingROAS:     "marketing_roas",
	ProfitMargin:      "profit_margin",
	Clicks:            "clicks",
	Impressions:       "impressions",
}

var platformMetricNames = [NumPlatformMetrics]string{
	PlatformSpend:             "spend",
	PlatformAttributedRevenue: "attributed_revenue",
	PlatformClicks:            "clicks",
	PlatformImpressions:       "impressions",
}

// PlatformField returns the canonical field holding metric m for platform p.
func PlatformField(p Platform, m PlatformMetric) Field {
	return platformFieldBase + Field(int(p)*NumPlatformMetrics+int(m))
}

// IsPlatform reports whether f is a per-platform column and which one.
func (f Field) IsPlatform() (Platform, PlatformMetric, bool) {
	if f < platformFieldBase || int(f) >= NumFields {
		return 0, 0, false
	}
	off := int(f - platformFieldBase)
	return Platform(off / NumPlatformMetrics), PlatformMetric(off % NumPlatformMetrics), true
}

func (f Field) String() string {
	if f >= 0 && f < platformFieldBase {
		return baseFieldNames[f]
	}
	if p, m, ok := f.IsPlatform(); ok {
		return p.Key() + "_" + platformMetricNames[m]
	}
	return fmt.Sprintf("field(%d)", int(f))
}

func (f Field) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *Field) UnmarshalText(b []byte) error {
	v, ok := ParseField(string(b))
	if !ok {
		return fmt.Errorf("unknown field %q", string(b))
	}
	*f = v
	return nil
}

// AllFields lists every canonical field in declaration order.
func AllFields() []Field {
	out := make([]Field, NumFields)
	for i := range out {
		out[i] = Field(i)
	}
	return out
}

// ParseField accepts a canonical name or any known alias.
func ParseField(s string) (Field, bool) {
	f, ok := aliasIndex[normalizeHeader(s)]
	return f, ok
}

// FinancialFields are clipped at zero during cleaning.
func FinancialFields() []Field {
	fs := []Field{TotalRevenue, GrossProfit, COGS, Spend, AttributedRevenue}
	for _, p := range Platforms {
		fs = append(fs, PlatformField(p, PlatformSpend), PlatformField(p, PlatformAttributedRevenue))
	}
	return fs
}

// RequiredFields must be present in any loaded table.
func RequiredFields() []Field { return []Field{TotalRevenue, Orders} }

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	var b strings.Builder
	sep := false
	for _, r := range h {
		switch r {
		case ' ', '\t', '_', '-':
			sep = true
			continue
		}
		if sep && b.Len() > 0 {
			b.WriteByte('_')
		}
		sep = false
		b.WriteRune(r)
	}
	return b.String()
}
