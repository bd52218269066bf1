// Package kpi reduces a table to scalar business KPIs and grouped views.
package kpi

import (
	"time"

	"github.com/AngelCh415/marketing_analytics/internal/models"
	"github.com/AngelCh415/marketing_analytics/internal/observability"
	"github.com/AngelCh415/marketing_analytics/internal/utils"
)

// purchasesPerCustomer is the lifetime multiplier behind the LTV:CAC ratio.
const purchasesPerCustomer = 3

func Compute(t models.Table) models.KPISet {
	start := time.Now()
	defer func() { observability.RecordStage("kpi", time.Since(start).Seconds()) }()

	k := models.KPISet{
		Days:                   t.Len(),
		TotalRevenue:           t.Sum(models.TotalRevenue),
		TotalOrders:            t.Sum(models.Orders),
		TotalSpend:             t.Sum(models.Spend),
		TotalNewCustomers:      t.Sum(models.NewCustomers),
		TotalAttributedRevenue: t.Sum(models.AttributedRevenue),
		AvgROAS:                t.Mean(models.MarketingROAS),
		AvgProfitMargin:        t.Mean(models.ProfitMargin),
		AttributionRate:        t.Mean(models.AttributionRate),
		AvgDailyRevenue:        t.Mean(models.TotalRevenue),
	}
	k.CAC = utils.SafeDiv(k.TotalSpend, k.TotalNewCustomers)
	k.AOV = utils.SafeDiv(k.TotalRevenue, k.TotalOrders)
	k.LTVCACRatio = utils.SafeDiv(k.AOV*purchasesPerCustomer, k.CAC)

	first, second := SplitHalves(t)
	k.RevenueGrowth = SumGrowth(first, second, models.TotalRevenue)
	k.OrderGrowth = SumGrowth(first, second, models.Orders)
	k.CustomerGrowth = SumGrowth(first, second, models.NewCustomers)
	k.ROASTrend = MeanChange(first, second, models.MarketingROAS)
	k.MarginTrend = MeanChange(first, second, models.ProfitMargin)

	for i, r := range t.Rows {
		if v := r.Get(models.TotalRevenue); i == 0 || v > k.PeakRevenue {
			k.PeakRevenue = v
			k.PeakDate = r.Date
		}
	}
	return k
}

// SplitHalves sorts t by date and splits it at len/2; the first half gets
// the smaller share when the length is odd.
func SplitHalves(t models.Table) (models.Table, models.Table) {
	s := t.SortedByDate()
	mid := s.Len() / 2
	return s.WithRows(s.Rows[:mid]), s.WithRows(s.Rows[mid:])
}

// SumGrowth is the percentage change of f's sum from first to second, 0 when
// the first half sums to zero.
func SumGrowth(first, second models.Table, f models.Field) float64 {
	a := first.Sum(f)
	return utils.SafeDiv(second.Sum(f)-a, a) * 100
}

// MeanChange is the plain difference of f's mean between halves, used for
// metrics that are already rates. 0 when either half is empty.
func MeanChange(first, second models.Table, f models.Field) float64 {
	if first.Len() == 0 || second.Len() == 0 {
		return 0
	}
	return second.Mean(f) - first.Mean(f)
}
