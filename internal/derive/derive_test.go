package derive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/marketing_analytics/internal/models"
)

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func TestRowsZeroGuard(t *testing.T) {
	var tbl models.Table
	for _, f := range []models.Field{models.TotalRevenue, models.Orders, models.Spend, models.Clicks, models.Impressions, models.NewCustomers} {
		tbl.Columns.Add(f)
	}
	r := models.Record{Date: day(1)}
	r.Set(models.TotalRevenue, 500)
	r.Set(models.Orders, 0)
	r.Set(models.Spend, 100)
	r.Set(models.Clicks, 0)
	r.Set(models.Impressions, 0)
	r.Set(models.NewCustomers, 0)
	tbl.Rows = []models.Record{r}

	rows := Rows(tbl, 0)
	require.Len(t, rows, 1)
	got := rows[0]
	assert.Equal(t, 0.0, got.CTR)
	assert.Equal(t, 0.0, got.CPC)
	assert.Equal(t, 0.0, got.ConversionRate)
	assert.Equal(t, 0.0, got.AOV)
	assert.Equal(t, 0.0, got.CAC)
	assert.Equal(t, 0.0, got.RevenuePerImpression)
	assert.Equal(t, 0.0, got.DailyROAS)
	assert.Nil(t, got.Platforms, "no platform columns, no platform rates")
}

func TestRowsRatiosAndCalendar(t *testing.T) {
	var tbl models.Table
	fbSpend := models.PlatformField(models.Facebook, models.PlatformSpend)
	fbRev := models.PlatformField(models.Facebook, models.PlatformAttributedRevenue)
	for _, f := range []models.Field{models.TotalRevenue, models.Orders, models.Spend, models.Clicks, models.Impressions, fbSpend, fbRev} {
		tbl.Columns.Add(f)
	}
	r := models.Record{Date: day(3)}
	r.Set(models.TotalRevenue, 1000)
	r.Set(models.Orders, 20)
	r.Set(models.Spend, 200)
	r.Set(models.Clicks, 50)
	r.Set(models.Impressions, 1000)
	r.Set(fbSpend, 100)
	r.Set(fbRev, 250)
	tbl.Rows = []models.Record{r}

	got := Rows(tbl, 7)[0]
	assert.Equal(t, 50.0, got.AOV)
	assert.Equal(t, 0.05, got.CTR)
	assert.Equal(t, 4.0, got.CPC)
	assert.Equal(t, 0.4, got.ConversionRate)
	assert.Equal(t, 1.0, got.RevenuePerImpression)
	assert.Equal(t, "Wednesday", got.DayOfWeek)
	assert.Equal(t, 1, got.ISOWeek)
	assert.Equal(t, 1, got.Month)

	fb, ok := got.Platforms[models.Facebook]
	require.True(t, ok)
	require.NotNil(t, fb.ROAS)
	assert.Equal(t, 2.5, *fb.ROAS)
	assert.Nil(t, fb.CTR, "facebook clicks and impressions are absent")
	_, ok = got.Platforms[models.Google]
	assert.False(t, ok)
}

func TestRollingMeanBoundary(t *testing.T) {
	xs := []float64{10, 20, 30, 40, 50, 60, 70, 80}
	ma := RollingMean(xs, 7)
	require.Len(t, ma, len(xs))
	assert.Equal(t, 10.0, ma[0])
	assert.Equal(t, 15.0, ma[1])
	assert.Equal(t, 40.0, ma[6])
	assert.Equal(t, 50.0, ma[7])
}

func TestRowsSortsByDateAndKeepsEveryRow(t *testing.T) {
	var tbl models.Table
	tbl.Columns.Add(models.TotalRevenue)
	tbl.Columns.Add(models.Orders)
	for _, d := range []int{5, 1, 3, 3} {
		r := models.Record{Date: day(d)}
		r.Set(models.TotalRevenue, float64(d))
		tbl.Rows = append(tbl.Rows, r)
	}
	rows := Rows(tbl, 7)
	require.Len(t, rows, 4)
	assert.Equal(t, day(1), rows[0].Date)
	assert.Equal(t, day(5), rows[3].Date)
	assert.Equal(t, 1.0, rows[0].Revenue7dMA)
	assert.InDelta(t, 3.0, rows[3].Revenue7dMA, 1e-12)
	assert.Equal(t, 5.0, rows[3].Values["total_revenue"])
}
