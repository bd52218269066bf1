// Package cleaner validates and cleans a loaded table before any metric is
// derived from it.
package cleaner

import (
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/AngelCh415/marketing_analytics/internal/models"
	"github.com/AngelCh415/marketing_analytics/internal/observability"
	"github.com/AngelCh415/marketing_analytics/internal/utils"
)

// OutlierBasis selects which table the z-score statistics are computed on.
type OutlierBasis string

const (
	// Progressive recomputes mean/stddev after each field's filter, so later
	// filters see the already shrunk table.
	Progressive OutlierBasis = "progressive"
	// Original computes every field's statistics on the table as it was
	// before any outlier was removed.
	Original OutlierBasis = "original"
)

type Options struct {
	ZThreshold    float64
	ROASTolerance float64
	Basis         OutlierBasis
}

func DefaultOptions() Options {
	return Options{ZThreshold: 3, ROASTolerance: 0.1, Basis: Progressive}
}

// OutlierFields are filtered in this order.
var OutlierFields = []models.Field{models.MarketingROAS, models.TotalRevenue, models.Orders}

type Cleaner struct {
	log  *slog.Logger
	opts Options
}

func New(log *slog.Logger, opts Options) *Cleaner {
	if log == nil {
		log = slog.Default()
	}
	d := DefaultOptions()
	if opts.ZThreshold <= 0 {
		opts.ZThreshold = d.ZThreshold
	}
	if opts.ROASTolerance < 0 {
		opts.ROASTolerance = d.ROASTolerance
	}
	if opts.Basis == "" {
		opts.Basis = d.Basis
	}
	return &Cleaner{log: log, opts: opts}
}

// Clean returns a zero-filled, clipped, outlier-free copy of t. The input is
// never modified.
func (c *Cleaner) Clean(t models.Table) (models.Table, models.CleanReport) {
	start := time.Now()
	defer func() { observability.RecordStage("clean", time.Since(start).Seconds()) }()

	out := t.Clone()
	rep := models.CleanReport{
		RowsIn:   t.Len(),
		Missing:  map[string]int{},
		Clipped:  map[string]int{},
		Outliers: map[string]int{},
	}

	c.fillMissing(&out, &rep)
	c.clipFinancials(&out, &rep)
	c.crossCheckROAS(out, &rep)
	out = c.dropOutliers(out, &rep)

	rep.RowsOut = out.Len()
	observability.RecordCleaning(rep.Missing, rep.Clipped, rep.Outliers, rep.ROASMismatches)
	c.log.Info("data cleaning completed", slog.Int("rows_in", rep.RowsIn), slog.Int("rows_out", rep.RowsOut))
	return out, rep
}

func (c *Cleaner) fillMissing(t *models.Table, rep *models.CleanReport) {
	for i := range t.Rows {
		for f, v := range t.Rows[i].Values {
			if math.IsNaN(v) {
				t.Rows[i].Values[f] = 0
				rep.Missing[models.Field(f).String()]++
			}
		}
	}
	if len(rep.Missing) > 0 {
		c.log.Warn("missing values found, filled with 0", slog.Any("missing", rep.Missing))
	}
}

func (c *Cleaner) clipFinancials(t *models.Table, rep *models.CleanReport) {
	for _, f := range models.FinancialFields() {
		if !t.Has(f) {
			continue
		}
		for i := range t.Rows {
			if v := t.Rows[i].Get(f); v < 0 {
				t.Rows[i].Set(f, utils.Clip0(v))
				rep.Clipped[f.String()]++
			}
		}
	}
}

// crossCheckROAS compares the stored ROAS with attributed revenue / spend.
// Disagreement is advisory only.
func (c *Cleaner) crossCheckROAS(t models.Table, rep *models.CleanReport) {
	if !t.HasAll(models.MarketingROAS, models.Spend, models.AttributedRevenue) {
		return
	}
	for _, r := range t.Rows {
		computed := 0.0
		if spend := r.Get(models.Spend); spend > 0 {
			computed = utils.SafeDiv(r.Get(models.AttributedRevenue), spend)
		}
		diff := math.Abs(r.Get(models.MarketingROAS) - computed)
		if diff > rep.MaxROASDiff {
			rep.MaxROASDiff = diff
		}
		if diff > c.opts.ROASTolerance {
			rep.ROASMismatches++
		}
	}
	if rep.ROASMismatches > 0 {
		c.log.Warn("ROAS calculations don't match existing values",
			slog.Int("rows", rep.ROASMismatches),
			slog.Float64("max_diff", rep.MaxROASDiff),
			slog.Float64("tolerance", c.opts.ROASTolerance))
	}
}

type bounds struct{ mean, std float64 }

func (c *Cleaner) dropOutliers(t models.Table, rep *models.CleanReport) models.Table {
	var original map[models.Field]bounds
	if c.opts.Basis == Original {
		original = make(map[models.Field]bounds, len(OutlierFields))
		for _, f := range OutlierFields {
			if t.Has(f) && t.Len() > 0 {
				m, s := stat.PopMeanStdDev(t.Series(f), nil)
				original[f] = bounds{m, s}
			}
		}
	}

	for _, f := range OutlierFields {
		if !t.Has(f) || t.Len() == 0 {
			continue
		}
		b, ok := original[f]
		if !ok {
			m, s := stat.PopMeanStdDev(t.Series(f), nil)
			b = bounds{m, s}
		}
		limit := c.opts.ZThreshold * b.std
		kept := make([]models.Record, 0, t.Len())
		for _, r := range t.Rows {
			if math.Abs(r.Get(f)-b.mean) > limit {
				rep.Outliers[f.String()]++
				continue
			}
			kept = append(kept, r)
		}
		if n := rep.Outliers[f.String()]; n > 0 {
			c.log.Warn("outliers removed", slog.String("field", f.String()), slog.Int("rows", n),
				slog.Float64("mean", b.mean), slog.Float64("std", b.std))
		}
		t = t.WithRows(kept)
	}
	return t
}
