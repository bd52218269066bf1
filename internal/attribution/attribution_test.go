package attribution

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/marketing_analytics/internal/models"
)

// scenario is ten days of 500 revenue with Facebook spending 60 for 300
// tracked, Google 40 for 150 and TikTok nothing.
func scenario() models.Table {
	var t models.Table
	t.Columns.Add(models.TotalRevenue)
	t.Columns.Add(models.Orders)
	for _, p := range models.Platforms {
		t.Columns.Add(models.PlatformField(p, models.PlatformSpend))
		t.Columns.Add(models.PlatformField(p, models.PlatformAttributedRevenue))
	}
	for i := 0; i < 10; i++ {
		r := models.Record{Date: time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC)}
		r.Set(models.TotalRevenue, 500)
		r.Set(models.Orders, 5)
		r.Set(models.PlatformField(models.Facebook, models.PlatformSpend), 60)
		r.Set(models.PlatformField(models.Facebook, models.PlatformAttributedRevenue), 300)
		r.Set(models.PlatformField(models.Google, models.PlatformSpend), 40)
		r.Set(models.PlatformField(models.Google, models.PlatformAttributedRevenue), 150)
		t.Rows = append(t.Rows, r)
	}
	return t
}

func TestComputeScenario(t *testing.T) {
	a := Compute(scenario(), Options{})
	require.Len(t, a, len(models.Models))

	sb := a[models.SpendBased]
	assert.InDelta(t, 3000, sb[models.Facebook], 1e-9)
	assert.InDelta(t, 2000, sb[models.Google], 1e-9)
	assert.Equal(t, 0.0, sb[models.TikTok])

	lc := a[models.LastClick]
	assert.Equal(t, 3000.0, lc[models.Facebook])
	assert.Equal(t, 1500.0, lc[models.Google])
	assert.Equal(t, 0.0, lc[models.TikTok])

	for _, p := range models.Platforms {
		assert.InDelta(t, 1666.67, a[models.Linear][p], 0.01)
	}
}

func TestSumLaw(t *testing.T) {
	a := Compute(scenario(), Options{NormalizeTimeDecay: true})
	for _, m := range []models.Model{models.SpendBased, models.Linear, models.TimeDecay} {
		assert.InDelta(t, 5000, a[m].Total(), 1e-6, "model %s", m)
	}
}

func TestSpendBasedWithoutSpend(t *testing.T) {
	var tbl models.Table
	tbl.Columns.Add(models.TotalRevenue)
	tbl.Rows = []models.Record{{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}}
	tbl.Rows[0].Set(models.TotalRevenue, 100)

	a := Compute(tbl, Options{})
	for _, p := range models.Platforms {
		assert.Equal(t, 0.0, a[models.SpendBased][p])
		assert.Equal(t, 0.0, a[models.LastClick][p])
		assert.Equal(t, 0.0, a[models.TimeDecay][p])
		assert.InDelta(t, 100.0/3, a[models.Linear][p], 1e-9)
	}
}

func TestDecayWeights(t *testing.T) {
	assert.Nil(t, DecayWeights(0))
	assert.Equal(t, []float64{math.Exp(-2)}, DecayWeights(1))

	w := DecayWeights(5)
	require.Len(t, w, 5)
	assert.InDelta(t, math.Exp(-2), w[0], 1e-12)
	assert.InDelta(t, math.Exp(-1), w[2], 1e-12)
	assert.InDelta(t, 1, w[4], 1e-12)
	for i := 1; i < len(w); i++ {
		assert.Greater(t, w[i], w[i-1])
	}
}

func TestTimeDecayFavoursRecentRows(t *testing.T) {
	tbl := scenario()
	// Move all Google revenue to the last day and all Facebook revenue to
	// the first, at equal totals.
	fb := models.PlatformField(models.Facebook, models.PlatformAttributedRevenue)
	gg := models.PlatformField(models.Google, models.PlatformAttributedRevenue)
	for i := range tbl.Rows {
		tbl.Rows[i].Set(fb, 0)
		tbl.Rows[i].Set(gg, 0)
	}
	tbl.Rows[0].Set(fb, 1000)
	tbl.Rows[9].Set(gg, 1000)

	a := TimeDecay(tbl)
	assert.InDelta(t, 1000*math.Exp(-2), a[models.Facebook], 1e-9)
	assert.InDelta(t, 1000, a[models.Google], 1e-9)
}
