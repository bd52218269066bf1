package kpi

import (
	"github.com/AngelCh415/marketing_analytics/internal/models"
	"github.com/AngelCh415/marketing_analytics/internal/utils"
)

// Efficiency reports output per marketing dollar and per click. The overall
// score is the mean of the three per-dollar ratios.
func Efficiency(t models.Table) models.Efficiency {
	spend := t.Sum(models.Spend)
	clicks := t.Sum(models.Clicks)
	revenue := t.Sum(models.TotalRevenue)
	orders := t.Sum(models.Orders)

	e := models.Efficiency{
		RevenuePerDollar:     utils.SafeDiv(revenue, spend),
		OrdersPerDollar:      utils.SafeDiv(orders, spend),
		CustomersPerDollar:   utils.SafeDiv(t.Sum(models.NewCustomers), spend),
		RevenuePerClick:      utils.SafeDiv(revenue, clicks),
		OrdersPerClick:       utils.SafeDiv(orders, clicks),
		RevenuePerImpression: utils.SafeDiv(revenue, t.Sum(models.Impressions)),
	}
	e.OverallScore = (e.RevenuePerDollar + e.OrdersPerDollar + e.CustomersPerDollar) / 3
	return e
}
