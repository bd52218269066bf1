// Package trend classifies series direction and turns KPIs into
// plain-language insights.
package trend

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/AngelCh415/marketing_analytics/internal/models"
)

const (
	MethodOLS      = "ols"
	MethodEndpoint = "endpoint"
	MethodNone     = "none"
)

// stableFraction of the series mean below which a slope counts as flat.
const stableFraction = 0.01

// Classify fits y = a + b*i by least squares over the row index and labels
// the slope. When the fit is not finite it falls back to
// (last-first)/len. Fewer than two points is stable with slope 0.
func Classify(series []float64) models.Trend {
	if len(series) < 2 {
		return models.Trend{Direction: models.Stable, Method: MethodNone}
	}
	x := make([]float64, len(series))
	for i := range x {
		x[i] = float64(i)
	}
	_, slope := stat.LinearRegression(x, series, nil, false)
	method := MethodOLS
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		slope = (series[len(series)-1] - series[0]) / float64(len(series))
		method = MethodEndpoint
	}
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		return models.Trend{Direction: models.Stable, Method: method}
	}
	return models.Trend{Direction: direction(slope, stat.Mean(series, nil)), Slope: slope, Method: method}
}

// ClassifyField runs Classify over a date-sorted column of t.
func ClassifyField(t models.Table, f models.Field) models.Trend {
	tr := Classify(t.SortedByDate().Series(f))
	tr.Field = f.String()
	return tr
}

func direction(slope, mean float64) models.Direction {
	switch {
	case slope == 0 || math.Abs(slope) < stableFraction*mean:
		return models.Stable
	case slope > 0:
		return models.Increasing
	default:
		return models.Decreasing
	}
}
