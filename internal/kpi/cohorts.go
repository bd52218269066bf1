package kpi

import (
	"sort"
	"time"

	"github.com/AngelCh415/marketing_analytics/internal/models"
)

// WeekStart returns the Monday opening d's week.
func WeekStart(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	y, m, dd := d.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, d.Location())
}

// Cohorts groups t into Monday-starting weeks with running totals. Retention
// is a simplified ratio of this week's orders to last week's new customers
// (1 for the first week), clipped to [0, 1].
func Cohorts(t models.Table) []models.CohortWeek {
	byWeek := map[time.Time]*models.CohortWeek{}
	for _, r := range t.Rows {
		ws := WeekStart(r.Date)
		w, ok := byWeek[ws]
		if !ok {
			w = &models.CohortWeek{WeekStart: ws}
			byWeek[ws] = w
		}
		w.NewCustomers += r.Get(models.NewCustomers)
		w.Orders += r.Get(models.Orders)
		w.Revenue += r.Get(models.TotalRevenue)
		w.Spend += r.Get(models.Spend)
	}

	out := make([]models.CohortWeek, 0, len(byWeek))
	for _, w := range byWeek {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart.Before(out[j].WeekStart) })

	var cumCust, cumRev, cumSpend float64
	for i := range out {
		cumCust += out[i].NewCustomers
		cumRev += out[i].Revenue
		cumSpend += out[i].Spend
		out[i].CumulativeCustomers = cumCust
		out[i].CumulativeRevenue = cumRev
		out[i].CumulativeSpend = cumSpend

		prev := 1.0
		if i > 0 {
			prev = out[i-1].NewCustomers
		}
		out[i].RetentionRate = retention(out[i].Orders, prev)
	}
	return out
}

// retention clips orders/prev to [0, 1]. Orders after a week without new
// customers count as full retention.
func retention(orders, prev float64) float64 {
	if prev == 0 {
		if orders > 0 {
			return 1
		}
		return 0
	}
	return clamp01(orders / prev)
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
