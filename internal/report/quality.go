// Package report renders computed results for people: data-quality checks,
// the executive summary and file exports.
package report

import (
	"math"
	"time"

	"github.com/AngelCh415/marketing_analytics/internal/kpi"
	"github.com/AngelCh415/marketing_analytics/internal/models"
)

// highROAS flags implausible stored ROAS values.
const highROAS = 10

// Quality checks the raw table and folds in what the cleaner did to it.
// Warnings are evaluated on the cleaned table.
func Quality(raw, clean models.Table, rep models.CleanReport) models.DataQuality {
	q := models.DataQuality{
		Rows:          raw.Len(),
		Columns:       raw.Columns,
		MissingValues: map[string]int{},
		Range:         kpi.Range(raw),
		Cleaning:      rep,
		Warnings:      []string{},
	}
	for _, f := range raw.Columns.List() {
		n := 0
		for _, r := range raw.Rows {
			if math.IsNaN(r.Get(f)) {
				n++
			}
		}
		q.MissingValues[f.String()] = n
	}

	seen := make(map[time.Time]bool, raw.Len())
	for _, r := range raw.Rows {
		if seen[r.Date] {
			q.DuplicateDates++
		}
		seen[r.Date] = true
	}

	if clean.Has(models.MarketingROAS) {
		for _, r := range clean.Rows {
			if r.Get(models.MarketingROAS) > highROAS {
				q.Warnings = append(q.Warnings, "Unusually high ROAS values detected")
				break
			}
		}
	}
	if clean.Has(models.Spend) {
		for _, r := range clean.Rows {
			if r.Get(models.Spend) == 0 {
				q.Warnings = append(q.Warnings, "Zero spend days detected")
				break
			}
		}
	}
	if q.DuplicateDates > 0 {
		q.Warnings = append(q.Warnings, "Duplicate dates detected; aggregates combine them")
	}
	if rep.ROASMismatches > 0 {
		q.Warnings = append(q.Warnings, "Stored ROAS disagrees with attributed revenue / spend")
	}
	return q
}
