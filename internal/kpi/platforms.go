package kpi

import (
	"github.com/AngelCh415/marketing_analytics/internal/models"
	"github.com/AngelCh415/marketing_analytics/internal/utils"
)

// Platforms breaks spend and attributed revenue down per platform. Shares
// are percentages: revenue share is against the three platforms' attributed
// revenue, spend share against overall spend. Absent columns sum to 0.
func Platforms(t models.Table, platforms []models.Platform) []models.PlatformMetrics {
	if len(platforms) == 0 {
		platforms = models.Platforms
	}
	var totalAttributed float64
	for _, p := range models.Platforms {
		totalAttributed += t.Sum(models.PlatformField(p, models.PlatformAttributedRevenue))
	}
	overallSpend := t.Sum(models.Spend)

	out := make([]models.PlatformMetrics, 0, len(platforms))
	for _, p := range platforms {
		m := models.PlatformMetrics{
			Platform:         p,
			TotalSpend:       t.Sum(models.PlatformField(p, models.PlatformSpend)),
			TotalRevenue:     t.Sum(models.PlatformField(p, models.PlatformAttributedRevenue)),
			TotalClicks:      t.Sum(models.PlatformField(p, models.PlatformClicks)),
			TotalImpressions: t.Sum(models.PlatformField(p, models.PlatformImpressions)),
		}
		m.ROAS = utils.SafeDiv(m.TotalRevenue, m.TotalSpend)
		m.CTR = utils.SafeDiv(m.TotalClicks, m.TotalImpressions)
		m.CPC = utils.SafeDiv(m.TotalSpend, m.TotalClicks)
		m.CPM = utils.SafeDiv(m.TotalSpend, m.TotalImpressions) * 1000
		m.RevenueShare = utils.SafeDiv(m.TotalRevenue, totalAttributed) * 100
		m.SpendShare = utils.SafeDiv(m.TotalSpend, overallSpend) * 100
		m.EfficiencyRatio = utils.SafeDiv(m.RevenueShare, m.SpendShare)
		out = append(out, m)
	}
	return out
}

// Best returns the platform with the highest ROAS and the one with the
// lowest. ok is false for an empty slice.
func Best(ms []models.PlatformMetrics) (best, worst models.PlatformMetrics, ok bool) {
	if len(ms) == 0 {
		return best, worst, false
	}
	best, worst = ms[0], ms[0]
	for _, m := range ms[1:] {
		if m.ROAS > best.ROAS {
			best = m
		}
		if m.ROAS < worst.ROAS {
			worst = m
		}
	}
	return best, worst, true
}
