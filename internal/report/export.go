package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/AngelCh415/marketing_analytics/internal/models"
	"github.com/AngelCh415/marketing_analytics/internal/utils"
)

// Bundle is everything an export writes.
type Bundle struct {
	Rows        []models.DerivedRow
	Columns     models.ColumnSet
	KPIs        models.KPISet
	Platforms   []models.PlatformMetrics
	Attribution models.Attribution
}

const (
	SheetDaily       = "Daily"
	SheetKPIs        = "KPIs"
	SheetPlatforms   = "Platforms"
	SheetAttribution = "Attribution"
)

var derivedHeaders = []string{
	"cac", "aov", "ctr", "cpc", "conversion_rate", "revenue_per_impression", "daily_roas",
	"day_of_week", "week_number", "month",
	"revenue_7d_ma", "roas_7d_ma", "orders_7d_ma", "spend_7d_ma",
}

// DailyRecords flattens derived rows into a header row followed by one
// record per day: date, every source column present, then derived columns.
func DailyRecords(rows []models.DerivedRow, cols models.ColumnSet) [][]string {
	present := cols.List()
	header := make([]string, 0, 1+len(present)+len(derivedHeaders))
	header = append(header, "date")
	for _, f := range present {
		header = append(header, f.String())
	}
	header = append(header, derivedHeaders...)

	out := make([][]string, 0, len(rows)+1)
	out = append(out, header)
	for _, r := range rows {
		rec := make([]string, 0, len(header))
		rec = append(rec, r.Date.Format("2006-01-02"))
		for _, f := range present {
			rec = append(rec, num(r.Record.Get(f)))
		}
		rec = append(rec,
			num(r.CAC), num(r.AOV), num(r.CTR), num(r.CPC), num(r.ConversionRate),
			num(r.RevenuePerImpression), num(r.DailyROAS),
			r.DayOfWeek, strconv.Itoa(r.ISOWeek), strconv.Itoa(r.Month),
			num(r.Revenue7dMA), num(r.ROAS7dMA), num(r.Orders7dMA), num(r.Spend7dMA),
		)
		out = append(out, rec)
	}
	return out
}

func num(f float64) string {
	if !utils.Finite(f) {
		f = 0
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// WriteCSV writes the enriched daily table.
func WriteCSV(w io.Writer, b Bundle) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(DailyRecords(b.Rows, b.Columns)); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// Workbook builds an XLSX file with the daily table, KPIs, platform
// breakdown and attribution models on separate sheets.
func Workbook(b Bundle) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetDaily); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:      "Marketing performance export",
		Identifier: uuid.NewString(),
	}); err != nil {
		f.Close()
		return nil, err
	}

	sheets := []struct {
		name string
		rows [][]any
	}{
		{SheetDaily, stringsToAny(DailyRecords(b.Rows, b.Columns))},
		{SheetKPIs, kpiRows(b.KPIs)},
		{SheetPlatforms, platformRows(b.Platforms)},
		{SheetAttribution, attributionRows(b.Attribution)},
	}
	for _, s := range sheets {
		if s.name != SheetDaily {
			if _, err := f.NewSheet(s.name); err != nil {
				f.Close()
				return nil, err
			}
		}
		for i, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				f.Close()
				return nil, err
			}
			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				f.Close()
				return nil, fmt.Errorf("sheet %s row %d: %w", s.name, i+1, err)
			}
		}
	}
	return f, nil
}

// WriteXLSX streams the workbook to w.
func WriteXLSX(w io.Writer, b Bundle) error {
	f, err := Workbook(b)
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// ExportFile writes b to path, choosing XLSX for .xlsx and CSV otherwise.
func ExportFile(path string, b Bundle) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		err = WriteXLSX(fh, b)
	} else {
		err = WriteCSV(fh, b)
	}
	if cerr := fh.Close(); err == nil {
		err = cerr
	}
	return err
}

func stringsToAny(in [][]string) [][]any {
	out := make([][]any, len(in))
	for i, row := range in {
		r := make([]any, len(row))
		for j, v := range row {
			if i > 0 {
				if f, err := strconv.ParseFloat(v, 64); err == nil {
					r[j] = f
					continue
				}
			}
			r[j] = v
		}
		out[i] = r
	}
	return out
}

func kpiRows(k models.KPISet) [][]any {
	return [][]any{
		{"metric", "value"},
		{"days", k.Days},
		{"total_revenue", utils.Round2(k.TotalRevenue)},
		{"total_orders", k.TotalOrders},
		{"total_spend", utils.Round2(k.TotalSpend)},
		{"total_new_customers", k.TotalNewCustomers},
		{"total_attributed_revenue", utils.Round2(k.TotalAttributedRevenue)},
		{"avg_roas", utils.Round3(k.AvgROAS)},
		{"avg_profit_margin", utils.Round3(k.AvgProfitMargin)},
		{"attribution_rate", utils.Round3(k.AttributionRate)},
		{"cac", utils.Round2(k.CAC)},
		{"aov", utils.Round2(k.AOV)},
		{"ltv_cac_ratio", utils.Round3(k.LTVCACRatio)},
		{"revenue_growth", utils.Round2(k.RevenueGrowth)},
		{"order_growth", utils.Round2(k.OrderGrowth)},
		{"customer_growth", utils.Round2(k.CustomerGrowth)},
		{"roas_trend", utils.Round3(k.ROASTrend)},
		{"margin_trend", utils.Round3(k.MarginTrend)},
		{"avg_daily_revenue", utils.Round2(k.AvgDailyRevenue)},
		{"peak_revenue", utils.Round2(k.PeakRevenue)},
	}
}

func platformRows(ms []models.PlatformMetrics) [][]any {
	rows := [][]any{{
		"platform", "spend", "revenue", "clicks", "impressions",
		"roas", "ctr", "cpc", "cpm", "revenue_share", "spend_share", "efficiency_ratio",
	}}
	for _, m := range ms {
		rows = append(rows, []any{
			m.Platform.String(), utils.Round2(m.TotalSpend), utils.Round2(m.TotalRevenue),
			m.TotalClicks, m.TotalImpressions,
			utils.Round3(m.ROAS), utils.Round3(m.CTR), utils.Round2(m.CPC), utils.Round2(m.CPM),
			utils.Round2(m.RevenueShare), utils.Round2(m.SpendShare), utils.Round3(m.EfficiencyRatio),
		})
	}
	return rows
}

func attributionRows(a models.Attribution) [][]any {
	header := []any{"model"}
	for _, p := range models.Platforms {
		header = append(header, p.String())
	}
	header = append(header, "total")
	rows := [][]any{header}
	for _, m := range models.Models {
		alloc, ok := a[m]
		if !ok {
			continue
		}
		row := []any{string(m)}
		for _, p := range models.Platforms {
			row = append(row, utils.Round2(alloc[p]))
		}
		row = append(row, utils.Round2(alloc.Total()))
		rows = append(rows, row)
	}
	return rows
}
