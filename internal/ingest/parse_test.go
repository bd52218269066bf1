package ingest

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/marketing_analytics/internal/models"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func mustRecords(t *testing.T, csv string) [][]string {
	t.Helper()
	recs, err := ReadCSV(strings.NewReader(csv), ',')
	require.NoError(t, err)
	return recs
}

func TestBuildTableResolvesAliases(t *testing.T) {
	csv := "Date,Total Revenue,# of orders,facebook_spend,facebook_attributed revenue,campaign\n" +
		"2024-01-02,\"$1,200.50\",10,60,300,spring\n" +
		"2024-01-01,1000,8,,250,spring\n"
	tbl, err := BuildTable(mustRecords(t, csv), "mem.csv", discard())
	require.NoError(t, err)

	require.Equal(t, 2, tbl.Len())
	assert.True(t, tbl.Has(models.TotalRevenue))
	assert.True(t, tbl.Has(models.Orders))
	assert.True(t, tbl.HasPlatform(models.Facebook, models.PlatformSpend, models.PlatformAttributedRevenue))
	assert.False(t, tbl.Has(models.Spend))

	first := tbl.Rows[0]
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, 1200.5, first.Get(models.TotalRevenue))
	assert.Equal(t, 60.0, first.Platform(models.Facebook, models.PlatformSpend))
	assert.True(t, math.IsNaN(tbl.Rows[1].Platform(models.Facebook, models.PlatformSpend)), "blank cell stays NaN until cleaned")
}

func TestBuildTableMissingRequiredColumn(t *testing.T) {
	csv := "date,spend,clicks\n2024-01-01,100,10\n"
	_, err := BuildTable(mustRecords(t, csv), "bad.csv", discard())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrMissingRequiredColumn)

	var mc *models.MissingColumnError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, []string{"total_revenue", "orders"}, mc.Columns)

	_, err = BuildTable(mustRecords(t, "total revenue,orders\n1,2\n"), "nodate.csv", discard())
	assert.ErrorIs(t, err, models.ErrMissingRequiredColumn)
}

func TestBuildTableSkipsBadDates(t *testing.T) {
	csv := "date,total_revenue,orders\n" +
		"2024-01-01,100,1\n" +
		"not a date,200,2\n" +
		",,\n" +
		"01/03/2024,300,3\n"
	tbl, err := BuildTable(mustRecords(t, csv), "mixed.csv", discard())
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), tbl.Rows[1].Date)
}

func TestBuildTableEmpty(t *testing.T) {
	_, err := BuildTable(mustRecords(t, "date,total_revenue,orders\n"), "empty.csv", discard())
	assert.ErrorIs(t, err, models.ErrEmptyTable)
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, 1234.5, parseNumber("$1,234.50"))
	assert.Equal(t, 0.125, parseNumber("12.5%"))
	assert.Equal(t, -3.0, parseNumber("-3"))
	assert.True(t, math.IsNaN(parseNumber("")))
	assert.True(t, math.IsNaN(parseNumber("N/A")))
	assert.True(t, math.IsNaN(parseNumber("abc")))
	for _, s := range []string{"inf", "+Inf", "-inf", "-Infinity", "1e400"} {
		assert.True(t, math.IsNaN(parseNumber(s)), "input %q", s)
	}
}
