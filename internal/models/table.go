package models

import (
	"encoding/json"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Record is one calendar day. Cells missing in the source hold NaN until the
// cleaner zero-fills them; columns absent from the source stay 0.
type Record struct {
	Date   time.Time
	Values [NumFields]float64
}

func (r Record) Get(f Field) float64     { return r.Values[f] }
func (r *Record) Set(f Field, v float64) { r.Values[f] = v }
func (r Record) Platform(p Platform, m PlatformMetric) float64 {
	return r.Values[PlatformField(p, m)]
}

// ColumnSet records which canonical fields the source table carried.
type ColumnSet [NumFields]bool

func (c ColumnSet) Has(f Field) bool {
	return f >= 0 && int(f) < NumFields && c[f]
}

func (c *ColumnSet) Add(f Field) { c[f] = true }

func (c ColumnSet) List() []Field {
	var out []Field
	for i, ok := range c {
		if ok {
			out = append(out, Field(i))
		}
	}
	return out
}

func (c ColumnSet) MarshalJSON() ([]byte, error) {
	names := make([]string, 0, NumFields)
	for _, f := range c.List() {
		names = append(names, f.String())
	}
	return json.Marshal(names)
}

// Table is a date-indexed sequence of records. Dates may repeat; aggregations
// treat duplicates as independent rows.
type Table struct {
	Rows    []Record
	Columns ColumnSet
	Source  string
}

func (t Table) Len() int { return len(t.Rows) }

func (t Table) Has(f Field) bool { return t.Columns.Has(f) }

func (t Table) HasAll(fs ...Field) bool {
	for _, f := range fs {
		if !t.Columns.Has(f) {
			return false
		}
	}
	return true
}

// HasPlatform reports whether every listed metric column exists for p.
func (t Table) HasPlatform(p Platform, ms ...PlatformMetric) bool {
	for _, m := range ms {
		if !t.Columns.Has(PlatformField(p, m)) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy; Record is a value type so copying the slice is enough.
func (t Table) Clone() Table {
	out := t
	out.Rows = append([]Record(nil), t.Rows...)
	return out
}

// WithRows returns a table sharing t's schema but holding rows.
func (t Table) WithRows(rows []Record) Table {
	out := t
	out.Rows = rows
	return out
}

// SortedByDate returns a copy ordered by date. The sort is stable so rows
// sharing a date keep their source order.
func (t Table) SortedByDate() Table {
	out := t.Clone()
	sort.SliceStable(out.Rows, func(i, j int) bool { return out.Rows[i].Date.Before(out.Rows[j].Date) })
	return out
}

// Between keeps rows whose date falls in [from, to]. A zero bound is open.
func (t Table) Between(from, to time.Time) Table {
	rows := make([]Record, 0, len(t.Rows))
	for _, r := range t.Rows {
		if !from.IsZero() && r.Date.Before(from) {
			continue
		}
		if !to.IsZero() && r.Date.After(to) {
			continue
		}
		rows = append(rows, r)
	}
	return t.WithRows(rows)
}

func (t Table) Series(f Field) []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Values[f]
	}
	return out
}

func (t Table) Sum(f Field) float64 {
	if len(t.Rows) == 0 {
		return 0
	}
	return floats.Sum(t.Series(f))
}

// Mean is the unweighted mean of f, 0 for an empty table.
func (t Table) Mean(f Field) float64 {
	if len(t.Rows) == 0 {
		return 0
	}
	m := stat.Mean(t.Series(f), nil)
	if math.IsNaN(m) || math.IsInf(m, 0) {
		return 0
	}
	return m
}

// DateRange returns the earliest and latest dates in the table.
func (t Table) DateRange() (time.Time, time.Time) {
	var lo, hi time.Time
	for i, r := range t.Rows {
		if i == 0 || r.Date.Before(lo) {
			lo = r.Date
		}
		if i == 0 || r.Date.After(hi) {
			hi = r.Date
		}
	}
	return lo, hi
}
