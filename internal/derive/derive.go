// Package derive computes per-row derived metrics: unit economics, funnel
// ratios, per-platform rates, calendar fields and rolling means.
package derive

import (
	"time"

	"github.com/AngelCh415/marketing_analytics/internal/models"
	"github.com/AngelCh415/marketing_analytics/internal/observability"
	"github.com/AngelCh415/marketing_analytics/internal/utils"
)

const DefaultWindow = 7

// Rows derives metrics for every row of t, ordered by date. No row is
// dropped. window <= 0 uses DefaultWindow.
func Rows(t models.Table, window int) []models.DerivedRow {
	start := time.Now()
	defer func() { observability.RecordStage("derive", time.Since(start).Seconds()) }()

	if window <= 0 {
		window = DefaultWindow
	}
	sorted := t.SortedByDate()
	present := sorted.Columns.List()
	out := make([]models.DerivedRow, len(sorted.Rows))

	for i, r := range sorted.Rows {
		spend := r.Get(models.Spend)
		clicks := r.Get(models.Clicks)
		impressions := r.Get(models.Impressions)
		revenue := r.Get(models.TotalRevenue)
		orders := r.Get(models.Orders)

		d := models.DerivedRow{
			Date:                 r.Date,
			Record:               r,
			Values:               valueMap(r, present),
			CAC:                  utils.SafeDiv(spend, r.Get(models.NewCustomers)),
			AOV:                  utils.SafeDiv(revenue, orders),
			CTR:                  utils.SafeDiv(clicks, impressions),
			CPC:                  utils.SafeDiv(spend, clicks),
			ConversionRate:       utils.SafeDiv(orders, clicks),
			RevenuePerImpression: utils.SafeDiv(revenue, impressions),
			DailyROAS:            utils.SafeDiv(r.Get(models.AttributedRevenue), spend),
			DayOfWeek:            r.Date.Weekday().String(),
			Month:                int(r.Date.Month()),
		}
		_, d.ISOWeek = r.Date.ISOWeek()
		d.Platforms = platformRates(sorted, r)
		out[i] = d
	}

	// The rolling ROAS follows the stored marketing ROAS when the source has
	// one and the computed daily ROAS otherwise.
	roas := make([]float64, len(out))
	for i := range out {
		if sorted.Has(models.MarketingROAS) {
			roas[i] = out[i].Record.Get(models.MarketingROAS)
		} else {
			roas[i] = out[i].DailyROAS
		}
	}
	revMA := RollingMean(sorted.Series(models.TotalRevenue), window)
	ordMA := RollingMean(sorted.Series(models.Orders), window)
	spendMA := RollingMean(sorted.Series(models.Spend), window)
	roasMA := RollingMean(roas, window)
	for i := range out {
		out[i].Revenue7dMA = revMA[i]
		out[i].Orders7dMA = ordMA[i]
		out[i].Spend7dMA = spendMA[i]
		out[i].ROAS7dMA = roasMA[i]
	}
	return out
}

// platformRates computes each ratio only when the platform carries the
// columns it needs.
func platformRates(t models.Table, r models.Record) map[models.Platform]models.PlatformRates {
	out := make(map[models.Platform]models.PlatformRates, models.NumPlatforms)
	for _, p := range models.Platforms {
		var pr models.PlatformRates
		spend := r.Platform(p, models.PlatformSpend)
		clicks := r.Platform(p, models.PlatformClicks)
		if t.HasPlatform(p, models.PlatformClicks, models.PlatformImpressions) {
			v := utils.SafeDiv(clicks, r.Platform(p, models.PlatformImpressions))
			pr.CTR = &v
		}
		if t.HasPlatform(p, models.PlatformSpend, models.PlatformClicks) {
			v := utils.SafeDiv(spend, clicks)
			pr.CPC = &v
		}
		if t.HasPlatform(p, models.PlatformSpend, models.PlatformAttributedRevenue) {
			v := utils.SafeDiv(r.Platform(p, models.PlatformAttributedRevenue), spend)
			pr.ROAS = &v
		}
		if pr.CTR != nil || pr.CPC != nil || pr.ROAS != nil {
			out[p] = pr
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func valueMap(r models.Record, present []models.Field) map[string]float64 {
	m := make(map[string]float64, len(present))
	for _, f := range present {
		m[f.String()] = r.Get(f)
	}
	return m
}

// RollingMean is a trailing mean over up to window values. The window
// shrinks at the start of the series, so out[0] == xs[0].
func RollingMean(xs []float64, window int) []float64 {
	out := make([]float64, len(xs))
	if window <= 0 {
		window = 1
	}
	for i := range xs {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		var sum float64
		for _, x := range xs[lo : i+1] {
			sum += x
		}
		out[i] = sum / float64(i+1-lo)
	}
	return out
}
