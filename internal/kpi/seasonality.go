package kpi

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/AngelCh415/marketing_analytics/internal/models"
	"github.com/AngelCh415/marketing_analytics/internal/utils"
)

type acc struct {
	revenue, orders, spend, roas float64
	n                            int
}

func (a *acc) add(r models.Record) {
	a.revenue += r.Get(models.TotalRevenue)
	a.orders += r.Get(models.Orders)
	a.spend += r.Get(models.Spend)
	a.roas += r.Get(models.MarketingROAS)
	a.n++
}

// Seasonality averages each weekday and sums each ISO week. Values are
// rounded to cents; best/worst are picked on the rounded revenue.
func Seasonality(t models.Table) models.Seasonality {
	var s models.Seasonality
	if t.Len() == 0 {
		return s
	}

	days := map[time.Weekday]*acc{}
	weeks := map[int]*acc{}
	for _, r := range t.Rows {
		wd := r.Date.Weekday()
		if days[wd] == nil {
			days[wd] = &acc{}
		}
		days[wd].add(r)
		_, w := r.Date.ISOWeek()
		if weeks[w] == nil {
			weeks[w] = &acc{}
		}
		weeks[w].add(r)
	}

	for i := 1; i <= 7; i++ {
		wd := time.Weekday(i % 7)
		a, ok := days[wd]
		if !ok {
			continue
		}
		n := float64(a.n)
		s.DayOfWeek = append(s.DayOfWeek, models.DayOfWeekStats{
			Day:     wd.String(),
			Revenue: utils.Round2(a.revenue / n),
			Orders:  utils.Round2(a.orders / n),
			Spend:   utils.Round2(a.spend / n),
			ROAS:    utils.Round2(a.roas / n),
		})
	}

	for w, a := range weeks {
		s.Weekly = append(s.Weekly, models.WeekStats{
			Week:    w,
			Revenue: utils.Round2(a.revenue),
			Orders:  utils.Round2(a.orders),
			Spend:   utils.Round2(a.spend),
			ROAS:    utils.Round2(a.roas / float64(a.n)),
		})
	}
	sort.Slice(s.Weekly, func(i, j int) bool { return s.Weekly[i].Week < s.Weekly[j].Week })

	best, worst := s.DayOfWeek[0], s.DayOfWeek[0]
	for _, d := range s.DayOfWeek[1:] {
		if d.Revenue > best.Revenue {
			best = d
		}
		if d.Revenue < worst.Revenue {
			worst = d
		}
	}
	s.BestDay, s.WorstDay = best.Day, worst.Day

	bw, ww := s.Weekly[0], s.Weekly[0]
	for _, w := range s.Weekly[1:] {
		if w.Revenue > bw.Revenue {
			bw = w
		}
		if w.Revenue < ww.Revenue {
			ww = w
		}
	}
	s.BestWeek, s.WorstWeek = bw.Week, ww.Week

	s.RevenueVolatility = volatility(t.Series(models.TotalRevenue))
	return s
}

// volatility is the coefficient of variation using the sample standard
// deviation; 0 when fewer than two values or a zero mean.
func volatility(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean, std := stat.MeanStdDev(xs, nil)
	if math.IsNaN(std) {
		return 0
	}
	return utils.SafeDiv(std, mean)
}
