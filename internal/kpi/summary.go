package kpi

import (
	"time"

	"github.com/AngelCh415/marketing_analytics/internal/models"
	"github.com/AngelCh415/marketing_analytics/internal/utils"
)

// Range reports the first and last date of t and the inclusive day span.
func Range(t models.Table) models.DateRange {
	start, end := t.DateRange()
	if start.IsZero() {
		return models.DateRange{}
	}
	return models.DateRange{
		Start: start,
		End:   end,
		Days:  int(end.Sub(start)/(24*time.Hour)) + 1,
	}
}

// Summary is the compact overview used by the summary endpoint and the CLI
// report. rows supply the per-row AOV and CTR averages.
func Summary(t models.Table, rows []models.DerivedRow) models.Summary {
	s := models.Summary{
		Range:           Range(t),
		TotalRevenue:    t.Sum(models.TotalRevenue),
		TotalOrders:     t.Sum(models.Orders),
		AvgProfitMargin: t.Mean(models.ProfitMargin),
		TotalSpend:      t.Sum(models.Spend),
		AvgROAS:         t.Mean(models.MarketingROAS),
		TotalClicks:     t.Sum(models.Clicks),
	}
	if len(rows) > 0 {
		var aov, ctr float64
		for _, r := range rows {
			aov += r.AOV
			ctr += r.CTR
		}
		n := float64(len(rows))
		s.AvgAOV = aov / n
		s.AvgCTR = ctr / n
	}

	s.PlatformBreakdown = make(map[models.Platform]models.PlatformSummary, models.NumPlatforms)
	for _, p := range models.Platforms {
		if !t.HasPlatform(p, models.PlatformSpend, models.PlatformAttributedRevenue, models.PlatformClicks) {
			continue
		}
		ps := models.PlatformSummary{
			Spend:             t.Sum(models.PlatformField(p, models.PlatformSpend)),
			AttributedRevenue: t.Sum(models.PlatformField(p, models.PlatformAttributedRevenue)),
			Clicks:            t.Sum(models.PlatformField(p, models.PlatformClicks)),
		}
		ps.ROAS = utils.SafeDiv(ps.AttributedRevenue, ps.Spend)
		s.PlatformBreakdown[p] = ps
	}
	return s
}
