package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/AngelCh415/marketing_analytics/internal/models"
	"github.com/AngelCh415/marketing_analytics/internal/utils"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"02-Jan-2006",
}

// ReadCSV reads every record of a delimited file. Ragged rows are allowed;
// short rows are padded with blanks when the table is built.
func ReadCSV(r io.Reader, comma rune) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV records: %w", err)
	}
	return records, nil
}

// ReadXLSX returns the rows of the first sheet of a workbook.
func ReadXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// BuildTable resolves the header row to canonical fields and parses every
// data row. Rows with an unparseable date are skipped with a warning; blank or
// non-numeric cells become NaN so the cleaner can account for them.
func BuildTable(records [][]string, source string, log *slog.Logger) (models.Table, error) {
	if log == nil {
		log = slog.Default()
	}
	t := models.Table{Source: source}
	if len(records) == 0 {
		return t, fmt.Errorf("%s: %w", source, models.ErrEmptyTable)
	}

	header := records[0]
	dateCol := -1
	colField := make(map[int]models.Field, len(header))
	for i, h := range header {
		if dateCol < 0 && models.IsDateHeader(h) {
			dateCol = i
			continue
		}
		f, ok := models.ResolveHeader(h)
		if !ok {
			log.Debug("ignoring unknown column", slog.String("source", source), slog.String("column", h))
			continue
		}
		if t.Columns.Has(f) {
			log.Warn("duplicate column alias, keeping first", slog.String("source", source), slog.String("column", h), slog.String("field", f.String()))
			continue
		}
		colField[i] = f
		t.Columns.Add(f)
	}

	var missing []string
	if dateCol < 0 {
		missing = append(missing, "date")
	}
	for _, f := range models.RequiredFields() {
		if !t.Columns.Has(f) {
			missing = append(missing, f.String())
		}
	}
	if len(missing) > 0 {
		return t, &models.MissingColumnError{Source: source, Columns: missing}
	}

	var absent []string
	for _, f := range models.AllFields() {
		if !t.Columns.Has(f) {
			absent = append(absent, f.String())
		}
	}
	if len(absent) > 0 {
		log.Warn("optional columns absent, dependent metrics resolve to 0",
			slog.String("source", source), slog.String("columns", strings.Join(absent, ",")))
	}

	t.Rows = make([]models.Record, 0, len(records)-1)
	skipped := 0
	for line, rec := range records[1:] {
		if blankRow(rec) {
			continue
		}
		d, err := parseDate(cell(rec, dateCol))
		if err != nil {
			skipped++
			log.Warn("skipping row with invalid date", slog.String("source", source), slog.Int("line", line+2), slog.String("err", err.Error()))
			continue
		}
		r := models.Record{Date: d}
		for i, f := range colField {
			r.Set(f, parseNumber(cell(rec, i)))
		}
		t.Rows = append(t.Rows, r)
	}
	if len(t.Rows) == 0 {
		return t, fmt.Errorf("%s: %w", source, models.ErrEmptyTable)
	}
	log.Info("data loaded", slog.String("source", source), slog.Int("rows", len(t.Rows)), slog.Int("skipped", skipped), slog.Int("columns", len(colField)+1))
	return t, nil
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func blankRow(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			y, m, dd := d.Date()
			return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// parseNumber accepts plain, currency ("$1,234.50") and percent ("12%") cells.
// Percent cells are read as fractions.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "null", "none", "n/a", "na", "-":
		return math.NaN()
	}
	pct := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !utils.Finite(v) {
		return math.NaN()
	}
	if pct {
		v /= 100
	}
	return v
}
