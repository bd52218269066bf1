package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/marketing_analytics/internal/cleaner"
	"github.com/AngelCh415/marketing_analytics/internal/ingest"
	"github.com/AngelCh415/marketing_analytics/internal/models"
	"github.com/AngelCh415/marketing_analytics/internal/store"
)

const header = "date,total revenue,# of orders,spend,new customers,marketing_roas," +
	"facebook_spend,facebook_attributed_revenue,google_spend,google_attributed_revenue\n"

// dataset writes n identical days starting 2024-01-01.
func dataset(n int) string {
	var b strings.Builder
	b.WriteString(header)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "2024-01-%02d,500,5,100,2,3,60,300,40,150\n", i+1)
	}
	return b.String()
}

func newService(t *testing.T, body string) (*Service, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if body != "" {
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(
		store.NewMemoryStore(true),
		ingest.NewLoader(nil, log),
		cleaner.New(log, cleaner.DefaultOptions()),
		log,
		Options{DataPath: path, Window: 7},
	)
	return svc, path
}

func TestServiceKPIs(t *testing.T) {
	svc, _ := newService(t, dataset(10))
	ctx := context.Background()

	k, err := svc.KPIs(ctx, Query{})
	require.NoError(t, err)
	assert.Equal(t, 5000.0, k.TotalRevenue)
	assert.Equal(t, 1000.0, k.TotalSpend)
	assert.Equal(t, 0.0, k.RevenueGrowth)

	k, err = svc.KPIs(ctx, Query{From: "2024-01-03", To: "2024-01-05"})
	require.NoError(t, err)
	assert.Equal(t, 3, k.Days)
	assert.Equal(t, 1500.0, k.TotalRevenue)
}

func TestServiceAttributionFiltersPlatforms(t *testing.T) {
	svc, _ := newService(t, dataset(10))

	a, err := svc.Attribution(context.Background(), Query{Platforms: []models.Platform{models.Facebook}})
	require.NoError(t, err)
	require.Len(t, a, len(models.Models))
	for m, alloc := range a {
		assert.Len(t, alloc, 1, "model %s", m)
	}
	assert.InDelta(t, 3000, a[models.SpendBased][models.Facebook], 1e-9)
	assert.Equal(t, 3000.0, a[models.LastClick][models.Facebook])
}

func TestServiceDailyPaginates(t *testing.T) {
	svc, _ := newService(t, dataset(10))

	page, err := svc.Daily(context.Background(), Query{Limit: 3, Offset: 8})
	require.NoError(t, err)
	assert.Equal(t, 10, page.Total)
	assert.Equal(t, 3, page.Limit)
	assert.Equal(t, 8, page.Offset)
	require.Len(t, page.Rows, 2)
	assert.Equal(t, 9, page.Rows[0].Date.Day())
}

func TestServiceTrend(t *testing.T) {
	svc, _ := newService(t, dataset(10))
	ctx := context.Background()

	tr, err := svc.Trend(ctx, Query{}, "revenue")
	require.NoError(t, err)
	assert.Equal(t, "total_revenue", tr.Field)
	assert.Equal(t, models.Stable, tr.Direction)

	_, err = svc.Trend(ctx, Query{}, "vibes")
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestServiceMissingSource(t *testing.T) {
	svc, _ := newService(t, "")
	err := svc.Ready(context.Background())
	assert.ErrorIs(t, err, models.ErrFileNotFound)
}

func TestServiceReload(t *testing.T) {
	svc, path := newService(t, dataset(10))
	ctx := context.Background()

	q, err := svc.Quality(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, q.Rows)

	require.NoError(t, os.WriteFile(path, []byte(dataset(5)), 0o600))
	q, err = svc.Quality(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, q.Rows, "cached until reload")

	q, err = svc.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, q.Rows)
}

func TestServiceDashboardAndExport(t *testing.T) {
	svc, _ := newService(t, dataset(14))
	ctx := context.Background()

	d, err := svc.Dashboard(ctx, Query{})
	require.NoError(t, err)
	assert.Equal(t, 14, d.Range.Days)
	assert.Len(t, d.PlatformKPIs, models.NumPlatforms)
	assert.Len(t, d.Cohorts, 2)
	assert.Len(t, d.Insights.Insights, 5)

	b, err := svc.Export(ctx, Query{Platforms: []models.Platform{models.Google}})
	require.NoError(t, err)
	assert.Len(t, b.Rows, 14)
	require.Len(t, b.Platforms, 1)
	assert.Equal(t, models.Google, b.Platforms[0].Platform)

	summary, in, err := svc.Report(ctx, Query{})
	require.NoError(t, err)
	assert.Contains(t, summary, "Total Revenue: $7,000.00")
	assert.Len(t, in.Recommendations, 5)
}

func TestServiceNonFiniteCellsAreZeroFilled(t *testing.T) {
	body := header +
		"2024-01-01,inf,5,100,2,3,60,300,40,150\n" +
		"2024-01-02,500,5,-Infinity,2,3,60,300,40,150\n" +
		"2024-01-03,500,5,100,2,3,60,300,40,150\n"
	svc, _ := newService(t, body)
	ctx := context.Background()

	k, err := svc.KPIs(ctx, Query{})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, k.TotalRevenue)
	assert.Equal(t, 200.0, k.TotalSpend)
	_, err = json.Marshal(k)
	require.NoError(t, err)

	d, err := svc.Dashboard(ctx, Query{})
	require.NoError(t, err)
	_, err = json.Marshal(d)
	require.NoError(t, err)

	q, err := svc.Quality(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, q.MissingValues["total_revenue"])
	assert.Equal(t, 1, q.MissingValues["spend"])
}

func TestServiceDashboardAttributionMatchesEndpoint(t *testing.T) {
	svc, _ := newService(t, dataset(10))
	ctx := context.Background()
	q := Query{Platforms: []models.Platform{models.Google}}

	d, err := svc.Dashboard(ctx, q)
	require.NoError(t, err)
	a, err := svc.Attribution(ctx, q)
	require.NoError(t, err)

	assert.Equal(t, a, d.Attribution)
	for m, alloc := range d.Attribution {
		assert.Len(t, alloc, 1, "model %s", m)
		assert.Contains(t, alloc, models.Google)
	}
}
