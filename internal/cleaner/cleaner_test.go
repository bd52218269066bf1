package cleaner

import (
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/marketing_analytics/internal/models"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// table builds n consecutive days starting 2024-01-01 over cols.
func table(n int, cols []models.Field, fill func(i int, r *models.Record)) models.Table {
	var t models.Table
	for _, f := range cols {
		t.Columns.Add(f)
	}
	for i := 0; i < n; i++ {
		r := models.Record{Date: time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC)}
		fill(i, &r)
		t.Rows = append(t.Rows, r)
	}
	return t
}

func TestCleanZeroFillsAndClips(t *testing.T) {
	cols := []models.Field{models.TotalRevenue, models.Orders, models.Spend, models.Clicks}
	in := table(3, cols, func(i int, r *models.Record) {
		r.Set(models.TotalRevenue, 100)
		r.Set(models.Orders, 1)
		r.Set(models.Spend, 10)
		r.Set(models.Clicks, 5)
		switch i {
		case 0:
			r.Set(models.Spend, -4)
		case 1:
			r.Set(models.Clicks, math.NaN())
		}
	})

	out, rep := New(quiet(), DefaultOptions()).Clean(in)
	require.Equal(t, 3, out.Len())
	assert.Equal(t, 0.0, out.Rows[0].Get(models.Spend))
	assert.Equal(t, 0.0, out.Rows[1].Get(models.Clicks))
	assert.Equal(t, 1, rep.Clipped["spend"])
	assert.Equal(t, 1, rep.Missing["clicks"])

	assert.Equal(t, -4.0, in.Rows[0].Get(models.Spend), "input is not mutated")
	assert.True(t, math.IsNaN(in.Rows[1].Get(models.Clicks)))
}

func TestCleanNeverAddsRows(t *testing.T) {
	cols := []models.Field{models.TotalRevenue, models.Orders, models.MarketingROAS}
	in := table(30, cols, func(i int, r *models.Record) {
		r.Set(models.TotalRevenue, 1000+float64(i%5)*10)
		r.Set(models.Orders, 10)
		r.Set(models.MarketingROAS, 3)
		if i == 17 {
			r.Set(models.TotalRevenue, 100000)
		}
	})

	out, rep := New(quiet(), DefaultOptions()).Clean(in)
	assert.LessOrEqual(t, out.Len(), in.Len())
	assert.Equal(t, 29, out.Len())
	assert.Equal(t, 1, rep.Outliers["total_revenue"])
	for _, r := range out.Rows {
		assert.NotEqual(t, 100000.0, r.Get(models.TotalRevenue))
	}
}

func TestCleanConstantColumnKeepsEveryRow(t *testing.T) {
	cols := []models.Field{models.TotalRevenue, models.Orders}
	in := table(10, cols, func(_ int, r *models.Record) {
		r.Set(models.TotalRevenue, 500)
		r.Set(models.Orders, 5)
	})
	out, rep := New(quiet(), DefaultOptions()).Clean(in)
	assert.Equal(t, 10, out.Len())
	assert.Empty(t, rep.Outliers)
}

func TestCleanROASCrossCheckIsAdvisory(t *testing.T) {
	cols := []models.Field{models.TotalRevenue, models.Orders, models.Spend, models.AttributedRevenue, models.MarketingROAS}
	in := table(4, cols, func(i int, r *models.Record) {
		r.Set(models.TotalRevenue, 500)
		r.Set(models.Orders, 5)
		r.Set(models.Spend, 100)
		r.Set(models.AttributedRevenue, 300)
		r.Set(models.MarketingROAS, 3)
		if i == 2 {
			r.Set(models.MarketingROAS, 3.5)
		}
	})
	out, rep := New(quiet(), DefaultOptions()).Clean(in)
	assert.Equal(t, 4, out.Len())
	assert.Equal(t, 1, rep.ROASMismatches)
	assert.InDelta(t, 0.5, rep.MaxROASDiff, 1e-9)
}

func TestOutlierBasis(t *testing.T) {
	// Orders carries one extreme value only visible once the revenue outlier
	// has been removed from the population.
	cols := []models.Field{models.TotalRevenue, models.Orders}
	build := func() models.Table {
		return table(40, cols, func(i int, r *models.Record) {
			r.Set(models.TotalRevenue, 1000)
			r.Set(models.Orders, 10)
			switch i {
			case 0:
				r.Set(models.TotalRevenue, 1e6)
				r.Set(models.Orders, 10000)
			case 1:
				r.Set(models.Orders, 60)
			}
		})
	}

	progressive, _ := New(quiet(), Options{Basis: Progressive}).Clean(build())
	original, _ := New(quiet(), Options{Basis: Original}).Clean(build())

	assert.Equal(t, 38, progressive.Len())
	assert.Equal(t, 39, original.Len())
}
