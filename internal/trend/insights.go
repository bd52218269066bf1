package trend

import (
	"fmt"

	"github.com/AngelCh415/marketing_analytics/internal/kpi"
	"github.com/AngelCh415/marketing_analytics/internal/models"
)

// InsightCount is how many insights and recommendations Insights returns.
const InsightCount = 5

var (
	fallbackInsights = []string{
		"Marketing performance shows consistent patterns across platforms",
		"Data tracking captures significant portion of customer journey",
		"Campaign performance varies across different time periods",
		"Attribution data indicates multi-channel customer behavior",
		"Daily revenue follows the overall marketing investment level",
	}
	fallbackRecommendations = []string{
		"Continue monitoring key performance indicators regularly",
		"Implement A/B testing for continuous improvement",
		"Review and optimize underperforming campaigns weekly",
		"Focus on customer lifetime value optimization",
		"Revisit attribution settings after major campaign changes",
	}
)

// Insights derives rule-based observations from revenue and ROAS trends,
// platform ROAS, the attribution rate and profit margin. Both lists are
// padded from a fixed fallback set and capped at InsightCount.
func Insights(t models.Table) models.Insights {
	var ins, recs []string

	revenue := ClassifyField(t, models.TotalRevenue)
	ins = append(ins, fmt.Sprintf("Revenue trend is %s", revenue.Direction))
	switch revenue.Direction {
	case models.Decreasing:
		recs = append(recs,
			"Consider increasing marketing spend or optimizing campaign performance",
			"Review underperforming campaigns and reallocate budget")
	case models.Increasing:
		recs = append(recs,
			"Scale successful campaigns while maintaining efficiency",
			"Invest more in top-performing platforms")
	default:
		recs = append(recs,
			"Focus on optimization to break through revenue plateau",
			"Test new creative formats and targeting strategies")
	}

	if t.Has(models.MarketingROAS) {
		avg := t.Mean(models.MarketingROAS)
		roas := ClassifyField(t, models.MarketingROAS)
		ins = append(ins, fmt.Sprintf("Average ROAS is %.2f with %s trend", avg, roas.Direction))
		switch {
		case avg < 2:
			recs = append(recs, "ROAS below 2.0 - Review targeting and creative performance immediately")
		case avg > 4:
			recs = append(recs, "Excellent ROAS - Consider scaling budget allocation")
		default:
			recs = append(recs, "Good ROAS performance - Focus on incremental improvements")
		}
	}

	var tracked []models.Platform
	for _, p := range models.Platforms {
		if t.HasPlatform(p, models.PlatformSpend, models.PlatformAttributedRevenue) {
			tracked = append(tracked, p)
		}
	}
	if len(tracked) > 0 {
		best, worst, _ := kpi.Best(kpi.Platforms(t, tracked))
		ins = append(ins,
			fmt.Sprintf("Best performing platform: %s (ROAS: %.2f)", best.Platform, best.ROAS),
			fmt.Sprintf("Lowest performing platform: %s (ROAS: %.2f)", worst.Platform, worst.ROAS))
		recs = append(recs, fmt.Sprintf("Increase budget allocation to %s", best.Platform))
		if worst.ROAS < 1.5 {
			recs = append(recs, fmt.Sprintf("Consider optimizing %s campaigns", worst.Platform))
		}
	}

	if t.Has(models.AttributionRate) {
		rate := t.Mean(models.AttributionRate)
		ins = append(ins, fmt.Sprintf("Average attribution rate: %.1f%%", rate*100))
		switch {
		case rate < 0.4:
			recs = append(recs, "Low attribution rate - Implement better tracking systems")
		case rate > 0.6:
			recs = append(recs, "High attribution rate - Leverage this data for optimization")
		default:
			recs = append(recs, "Good attribution tracking - Continue monitoring")
		}
	}

	if t.Has(models.ProfitMargin) && t.Mean(models.ProfitMargin) < 0.3 {
		recs = append(recs, "Consider reviewing COGS to improve profit margins")
	}

	return models.Insights{
		Insights:        pad(ins, fallbackInsights),
		Recommendations: pad(recs, fallbackRecommendations),
	}
}

func pad(xs, fallback []string) []string {
	seen := make(map[string]bool, len(xs))
	for _, x := range xs {
		seen[x] = true
	}
	for _, f := range fallback {
		if len(xs) >= InsightCount {
			break
		}
		if !seen[f] {
			xs = append(xs, f)
		}
	}
	if len(xs) > InsightCount {
		xs = xs[:InsightCount]
	}
	return xs
}
