// Package attribution splits revenue across ad platforms under four simple
// heuristics. None of them is a true multi-touch model.
package attribution

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/AngelCh415/marketing_analytics/internal/models"
	"github.com/AngelCh415/marketing_analytics/internal/observability"
	"github.com/AngelCh415/marketing_analytics/internal/utils"
)

type Options struct {
	// NormalizeTimeDecay rescales the time-decay allocation so it sums to
	// total revenue like the spend-based and linear models do.
	NormalizeTimeDecay bool
}

// Compute returns one allocation per model. A platform whose columns are
// absent contributes 0 to every model except linear.
func Compute(t models.Table, opts Options) models.Attribution {
	start := time.Now()
	defer func() { observability.RecordStage("attribution", time.Since(start).Seconds()) }()

	total := t.Sum(models.TotalRevenue)
	out := models.Attribution{
		models.LastClick:  LastClick(t),
		models.SpendBased: SpendBased(t, total),
		models.Linear:     Linear(total),
		models.TimeDecay:  TimeDecay(t),
	}
	if opts.NormalizeTimeDecay {
		out[models.TimeDecay] = normalize(out[models.TimeDecay], total)
	}
	return out
}

// LastClick passes each platform's own tracked revenue through.
func LastClick(t models.Table) models.Allocation {
	a := make(models.Allocation, models.NumPlatforms)
	for _, p := range models.Platforms {
		a[p] = 0
		if t.HasPlatform(p, models.PlatformAttributedRevenue) {
			a[p] = t.Sum(models.PlatformField(p, models.PlatformAttributedRevenue))
		}
	}
	return a
}

// SpendBased distributes total revenue by each platform's share of the three
// platforms' combined spend. All zero when that spend is zero.
func SpendBased(t models.Table, total float64) models.Allocation {
	spend := make(map[models.Platform]float64, models.NumPlatforms)
	var sum float64
	for _, p := range models.Platforms {
		if t.HasPlatform(p, models.PlatformSpend) {
			spend[p] = t.Sum(models.PlatformField(p, models.PlatformSpend))
			sum += spend[p]
		}
	}
	a := make(models.Allocation, models.NumPlatforms)
	for _, p := range models.Platforms {
		a[p] = utils.SafeDiv(spend[p], sum) * total
	}
	return a
}

// Linear gives every platform an equal third.
func Linear(total float64) models.Allocation {
	a := make(models.Allocation, models.NumPlatforms)
	for _, p := range models.Platforms {
		a[p] = total / float64(models.NumPlatforms)
	}
	return a
}

// TimeDecay weights date-sorted rows by exp(-2) rising to exp(0) and sums
// each platform's weighted tracked revenue. The result is not on the same
// scale as total revenue.
func TimeDecay(t models.Table) models.Allocation {
	sorted := t.SortedByDate()
	w := DecayWeights(sorted.Len())
	a := make(models.Allocation, models.NumPlatforms)
	for _, p := range models.Platforms {
		a[p] = 0
		if sorted.Len() == 0 || !sorted.HasPlatform(p, models.PlatformAttributedRevenue) {
			continue
		}
		a[p] = floats.Dot(sorted.Series(models.PlatformField(p, models.PlatformAttributedRevenue)), w)
	}
	return a
}

// DecayWeights returns exp over n evenly spaced points in [-2, 0]. A single
// point sits at -2.
func DecayWeights(n int) []float64 {
	if n <= 0 {
		return nil
	}
	w := make([]float64, n)
	if n == 1 {
		w[0] = math.Exp(-2)
		return w
	}
	floats.Span(w, -2, 0)
	for i := range w {
		w[i] = math.Exp(w[i])
	}
	return w
}

func normalize(a models.Allocation, total float64) models.Allocation {
	sum := a.Total()
	out := make(models.Allocation, len(a))
	for p, v := range a {
		out[p] = utils.SafeDiv(v, sum) * total
	}
	return out
}
