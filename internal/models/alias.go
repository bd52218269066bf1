package models

// fieldAliases lists every spelling seen in exported datasets. Keys are
// normalised with normalizeHeader before lookup, so "total revenue" and
// "total_revenue" collapse to the same entry.
var fieldAliases = map[Field][]string{
	TotalRevenue:      {"total revenue", "total_revenue", "revenue"},
	GrossProfit:       {"gross profit", "gross_profit"},
	COGS:              {"COGS", "cost of goods sold"},
	Orders:            {"# of orders", "orders", "num_orders"},
	NewOrders:         {"# of new orders", "new orders", "new_orders"},
	NewCustomers:      {"new customers", "new_customers"},
	Spend:             {"spend", "total spend", "marketing spend"},
	AttributedRevenue: {"attributed revenue", "attributed_revenue"},
	AttributionRate:   {"attribution_rate", "attribution rate"},
	MarketingROAS:     {"marketing_roas", "roas"},
	ProfitMargin:      {"profit_margin", "profit margin"},
	Clicks:            {"clicks"},
	Impressions:       {"impression", "impressions"},
}

var platformAliases = map[PlatformMetric][]string{
	PlatformSpend:             {"spend"},
	PlatformAttributedRevenue: {"attributed revenue", "attributed_revenue", "revenue"},
	PlatformClicks:            {"clicks"},
	PlatformImpressions:       {"impression", "impressions"},
}

var dateAliases = []string{"date", "day", "report date"}

var aliasIndex = buildAliasIndex()

func buildAliasIndex() map[string]Field {
	idx := make(map[string]Field)
	for f, names := range fieldAliases {
		idx[normalizeHeader(f.String())] = f
		for _, n := range names {
			idx[normalizeHeader(n)] = f
		}
	}
	for _, p := range Platforms {
		for m, names := range platformAliases {
			f := PlatformField(p, m)
			idx[normalizeHeader(f.String())] = f
			for _, n := range names {
				idx[normalizeHeader(p.Key()+"_"+n)] = f
			}
		}
	}
	return idx
}

// ResolveHeader maps a source column header to its canonical field.
func ResolveHeader(h string) (Field, bool) {
	f, ok := aliasIndex[normalizeHeader(h)]
	return f, ok
}

// IsDateHeader reports whether h names the date column.
func IsDateHeader(h string) bool {
	n := normalizeHeader(h)
	for _, d := range dateAliases {
		if n == normalizeHeader(d) {
			return true
		}
	}
	return false
}
