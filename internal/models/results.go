package models

import "time"

// PlatformRates holds per-row platform ratios. A nil field means the source
// lacked the columns needed to compute it.
type PlatformRates struct {
	CTR  *float64 `json:"ctr,omitempty"`
	CPC  *float64 `json:"cpc,omitempty"`
	ROAS *float64 `json:"roas,omitempty"`
}

// DerivedRow extends a Record with computed per-row metrics.
type DerivedRow struct {
	Date   time.Time          `json:"date"`
	Record Record             `json:"-"`
	Values map[string]float64 `json:"values"`

	CAC                  float64 `json:"cac"`
	AOV                  float64 `json:"aov"`
	CTR                  float64 `json:"ctr"`
	CPC                  float64 `json:"cpc"`
	ConversionRate       float64 `json:"conversion_rate"`
	RevenuePerImpression float64 `json:"revenue_per_impression"`
	DailyROAS            float64 `json:"daily_roas"`

	Platforms map[Platform]PlatformRates `json:"platforms,omitempty"`

	DayOfWeek string `json:"day_of_week"`
	ISOWeek   int    `json:"week_number"`
	Month     int    `json:"month"`

	Revenue7dMA float64 `json:"revenue_7d_ma"`
	ROAS7dMA    float64 `json:"roas_7d_ma"`
	Orders7dMA  float64 `json:"orders_7d_ma"`
	Spend7dMA   float64 `json:"spend_7d_ma"`
}

type KPISet struct {
	Days                   int     `json:"days"`
	TotalRevenue           float64 `json:"total_revenue"`
	TotalOrders            float64 `json:"total_orders"`
	TotalSpend             float64 `json:"total_spend"`
	TotalNewCustomers      float64 `json:"total_new_customers"`
	TotalAttributedRevenue float64 `json:"total_attributed_revenue"`

	AvgROAS         float64 `json:"avg_roas"`
	AvgProfitMargin float64 `json:"avg_profit_margin"`
	AttributionRate float64 `json:"attribution_rate"`

	CAC         float64 `json:"cac"`
	AOV         float64 `json:"aov"`
	LTVCACRatio float64 `json:"ltv_cac_ratio"`

	RevenueGrowth  float64 `json:"revenue_growth"`
	OrderGrowth    float64 `json:"order_growth"`
	CustomerGrowth float64 `json:"customer_growth"`
	ROASTrend      float64 `json:"roas_trend"`
	MarginTrend    float64 `json:"margin_trend"`

	AvgDailyRevenue float64   `json:"avg_daily_revenue"`
	PeakRevenue     float64   `json:"peak_revenue"`
	PeakDate        time.Time `json:"peak_date"`
}

type PlatformMetrics struct {
	Platform         Platform `json:"platform"`
	TotalSpend       float64  `json:"total_spend"`
	TotalRevenue     float64  `json:"total_revenue"`
	TotalClicks      float64  `json:"total_clicks"`
	TotalImpressions float64  `json:"total_impressions"`
	ROAS             float64  `json:"roas"`
	CTR              float64  `json:"ctr"`
	CPC              float64  `json:"cpc"`
	CPM              float64  `json:"cpm"`
	RevenueShare     float64  `json:"revenue_share"`
	SpendShare       float64  `json:"spend_share"`
	EfficiencyRatio  float64  `json:"efficiency_ratio"`
}

// Model names an attribution heuristic.
type Model string

const (
	LastClick  Model = "last_click"
	SpendBased Model = "spend_based"
	Linear     Model = "linear"
	TimeDecay  Model = "time_decay"
)

var Models = []Model{LastClick, SpendBased, Linear, TimeDecay}

// Allocation maps each platform to attributed revenue dollars.
type Allocation map[Platform]float64

func (a Allocation) Total() float64 {
	var s float64
	for _, v := range a {
		s += v
	}
	return s
}

type Attribution map[Model]Allocation

type Direction string

const (
	Increasing Direction = "increasing"
	Decreasing Direction = "decreasing"
	Stable     Direction = "stable"
)

type Trend struct {
	Field     string    `json:"field,omitempty"`
	Direction Direction `json:"direction"`
	Slope     float64   `json:"slope"`
	Method    string    `json:"method"`
}

// CohortWeek aggregates one Monday-starting week.
type CohortWeek struct {
	WeekStart           time.Time `json:"week"`
	NewCustomers        float64   `json:"new_customers"`
	Orders              float64   `json:"orders"`
	Revenue             float64   `json:"revenue"`
	Spend               float64   `json:"spend"`
	CumulativeCustomers float64   `json:"cumulative_customers"`
	CumulativeRevenue   float64   `json:"cumulative_revenue"`
	CumulativeSpend     float64   `json:"cumulative_spend"`
	RetentionRate       float64   `json:"retention_rate"`
}

type DayOfWeekStats struct {
	Day     string  `json:"day"`
	Revenue float64 `json:"revenue"`
	Orders  float64 `json:"orders"`
	Spend   float64 `json:"spend"`
	ROAS    float64 `json:"roas"`
}

type WeekStats struct {
	Week    int     `json:"week"`
	Revenue float64 `json:"revenue"`
	Orders  float64 `json:"orders"`
	Spend   float64 `json:"spend"`
	ROAS    float64 `json:"roas"`
}

type Seasonality struct {
	DayOfWeek         []DayOfWeekStats `json:"day_of_week_analysis"`
	Weekly            []WeekStats      `json:"weekly_analysis"`
	BestDay           string           `json:"best_performing_day"`
	WorstDay          string           `json:"worst_performing_day"`
	BestWeek          int              `json:"best_performing_week"`
	WorstWeek         int              `json:"worst_performing_week"`
	RevenueVolatility float64          `json:"revenue_volatility"`
}

type Efficiency struct {
	RevenuePerDollar     float64 `json:"revenue_per_dollar"`
	OrdersPerDollar      float64 `json:"orders_per_dollar"`
	CustomersPerDollar   float64 `json:"customers_per_dollar"`
	RevenuePerClick      float64 `json:"revenue_per_click"`
	OrdersPerClick       float64 `json:"orders_per_click"`
	RevenuePerImpression float64 `json:"revenue_per_impression"`
	OverallScore         float64 `json:"overall_efficiency_score"`
}

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Days  int       `json:"days"`
}

type Summary struct {
	Range             DateRange                    `json:"date_range"`
	TotalRevenue      float64                      `json:"total_revenue"`
	TotalOrders       float64                      `json:"total_orders"`
	AvgAOV            float64                      `json:"avg_aov"`
	AvgProfitMargin   float64                      `json:"avg_profit_margin"`
	TotalSpend        float64                      `json:"total_spend"`
	AvgROAS           float64                      `json:"avg_roas"`
	TotalClicks       float64                      `json:"total_clicks"`
	AvgCTR            float64                      `json:"avg_ctr"`
	PlatformBreakdown map[Platform]PlatformSummary `json:"platform_breakdown"`
}

type PlatformSummary struct {
	Spend             float64 `json:"spend"`
	AttributedRevenue float64 `json:"attributed_revenue"`
	Clicks            float64 `json:"clicks"`
	ROAS              float64 `json:"roas"`
}

// CleanReport describes what the cleaner changed.
type CleanReport struct {
	RowsIn         int            `json:"rows_in"`
	RowsOut        int            `json:"rows_out"`
	Missing        map[string]int `json:"missing_values"`
	Clipped        map[string]int `json:"clipped_values"`
	Outliers       map[string]int `json:"outliers_dropped"`
	ROASMismatches int            `json:"roas_mismatches"`
	MaxROASDiff    float64        `json:"max_roas_diff"`
}

type DataQuality struct {
	Rows           int            `json:"rows"`
	Columns        ColumnSet      `json:"columns"`
	MissingValues  map[string]int `json:"missing_values"`
	DuplicateDates int            `json:"duplicate_dates"`
	Range          DateRange      `json:"date_range"`
	Cleaning       CleanReport    `json:"cleaning"`
	Warnings       []string       `json:"warnings"`
}

type Insights struct {
	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
}

// Dashboard bundles every view the presentation layer renders for one filter.
type Dashboard struct {
	Range        DateRange         `json:"date_range"`
	Platforms    []Platform        `json:"platforms"`
	KPIs         KPISet            `json:"kpis"`
	PlatformKPIs []PlatformMetrics `json:"platform_metrics"`
	Attribution  Attribution       `json:"attribution"`
	Cohorts      []CohortWeek      `json:"cohorts"`
	Seasonality  Seasonality       `json:"seasonality"`
	Efficiency   Efficiency        `json:"efficiency"`
	RevenueTrend Trend             `json:"revenue_trend"`
	ROASTrend    Trend             `json:"roas_trend"`
	Insights     Insights          `json:"insights"`
}
