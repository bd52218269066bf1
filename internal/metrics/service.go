// Package metrics is the single entry point the HTTP API and the CLI use to
// read dashboard views. It owns loading, cleaning and caching of the source.
package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AngelCh415/marketing_analytics/internal/attribution"
	"github.com/AngelCh415/marketing_analytics/internal/cleaner"
	"github.com/AngelCh415/marketing_analytics/internal/derive"
	"github.com/AngelCh415/marketing_analytics/internal/ingest"
	"github.com/AngelCh415/marketing_analytics/internal/kpi"
	"github.com/AngelCh415/marketing_analytics/internal/models"
	"github.com/AngelCh415/marketing_analytics/internal/report"
	"github.com/AngelCh415/marketing_analytics/internal/store"
	"github.com/AngelCh415/marketing_analytics/internal/trend"
)

type Options struct {
	DataPath     string
	FallbackPath string
	Window       int
	Attribution  attribution.Options
}

type Service struct {
	st      *store.MemoryStore
	loader  *ingest.Loader
	cleaner *cleaner.Cleaner
	log     *slog.Logger
	opts    Options
}

func NewService(st *store.MemoryStore, loader *ingest.Loader, cl *cleaner.Cleaner, log *slog.Logger, opts Options) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{st: st, loader: loader, cleaner: cl, log: log, opts: opts}
}

// Page is one slice of derived rows.
type Page struct {
	Total  int                 `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
	Rows   []models.DerivedRow `json:"rows"`
}

// Snapshot returns the cleaned source, loading it on first use.
func (s *Service) Snapshot(ctx context.Context) (*store.Snapshot, error) {
	return s.st.GetOrLoad(ctx, s.opts.DataPath, s.load)
}

func (s *Service) load(ctx context.Context) (*store.Snapshot, error) {
	raw, err := s.loader.Load(ctx, s.opts.DataPath, s.opts.FallbackPath)
	if err != nil {
		return nil, err
	}
	clean, rep := s.cleaner.Clean(raw)
	s.log.Info("data source loaded",
		slog.String("source", raw.Source),
		slog.Int("rows_in", rep.RowsIn),
		slog.Int("rows_out", rep.RowsOut))
	return &store.Snapshot{
		Raw:      raw,
		Table:    clean,
		Report:   rep,
		Quality:  report.Quality(raw, clean, rep),
		LoadedAt: time.Now().UTC(),
	}, nil
}

// Ready reports whether the source can be loaded.
func (s *Service) Ready(ctx context.Context) error {
	_, err := s.Snapshot(ctx)
	return err
}

// Reload drops the cached snapshot and loads the source again.
func (s *Service) Reload(ctx context.Context) (models.DataQuality, error) {
	s.st.Invalidate(s.opts.DataPath)
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return models.DataQuality{}, err
	}
	return snap.Quality, nil
}

// table applies the date filter. Platform selection never drops rows; it only
// narrows per-platform views.
func (s *Service) table(ctx context.Context, q Query) (models.Table, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return models.Table{}, err
	}
	from, to := q.Bounds()
	return snap.Query(from, to), nil
}

func (s *Service) Dashboard(ctx context.Context, q Query) (models.Dashboard, error) {
	t, err := s.table(ctx, q)
	if err != nil {
		return models.Dashboard{}, err
	}
	return models.Dashboard{
		Range:        kpi.Range(t),
		Platforms:    q.SelectedPlatforms(),
		KPIs:         kpi.Compute(t),
		PlatformKPIs: kpi.Platforms(t, q.SelectedPlatforms()),
		Attribution:  narrow(attribution.Compute(t, s.opts.Attribution), q.Platforms),
		Cohorts:      kpi.Cohorts(t),
		Seasonality:  kpi.Seasonality(t),
		Efficiency:   kpi.Efficiency(t),
		RevenueTrend: trend.ClassifyField(t, models.TotalRevenue),
		ROASTrend:    trend.ClassifyField(t, models.MarketingROAS),
		Insights:     trend.Insights(t),
	}, nil
}

func (s *Service) KPIs(ctx context.Context, q Query) (models.KPISet, error) {
	t, err := s.table(ctx, q)
	if err != nil {
		return models.KPISet{}, err
	}
	return kpi.Compute(t), nil
}

func (s *Service) Platforms(ctx context.Context, q Query) ([]models.PlatformMetrics, error) {
	t, err := s.table(ctx, q)
	if err != nil {
		return nil, err
	}
	return kpi.Platforms(t, q.SelectedPlatforms()), nil
}

// Attribution computes every model, then keeps only the selected platforms.
func (s *Service) Attribution(ctx context.Context, q Query) (models.Attribution, error) {
	t, err := s.table(ctx, q)
	if err != nil {
		return nil, err
	}
	return narrow(attribution.Compute(t, s.opts.Attribution), q.Platforms), nil
}

// narrow keeps only the given platforms in every allocation. An empty
// selection keeps all of them.
func narrow(all models.Attribution, platforms []models.Platform) models.Attribution {
	if len(platforms) == 0 {
		return all
	}
	out := make(models.Attribution, len(all))
	for m, alloc := range all {
		a := make(models.Allocation, len(platforms))
		for _, p := range platforms {
			a[p] = alloc[p]
		}
		out[m] = a
	}
	return out
}

func (s *Service) Cohorts(ctx context.Context, q Query) ([]models.CohortWeek, error) {
	t, err := s.table(ctx, q)
	if err != nil {
		return nil, err
	}
	return kpi.Cohorts(t), nil
}

func (s *Service) Seasonality(ctx context.Context, q Query) (models.Seasonality, error) {
	t, err := s.table(ctx, q)
	if err != nil {
		return models.Seasonality{}, err
	}
	return kpi.Seasonality(t), nil
}

func (s *Service) Efficiency(ctx context.Context, q Query) (models.Efficiency, error) {
	t, err := s.table(ctx, q)
	if err != nil {
		return models.Efficiency{}, err
	}
	return kpi.Efficiency(t), nil
}

func (s *Service) Summary(ctx context.Context, q Query) (models.Summary, error) {
	t, err := s.table(ctx, q)
	if err != nil {
		return models.Summary{}, err
	}
	return kpi.Summary(t, derive.Rows(t, s.opts.Window)), nil
}

func (s *Service) Insights(ctx context.Context, q Query) (models.Insights, error) {
	t, err := s.table(ctx, q)
	if err != nil {
		return models.Insights{}, err
	}
	return trend.Insights(t), nil
}

// Quality describes the whole source regardless of filters.
func (s *Service) Quality(ctx context.Context) (models.DataQuality, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return models.DataQuality{}, err
	}
	return snap.Quality, nil
}

// Daily pages through derived rows in date order.
func (s *Service) Daily(ctx context.Context, q Query) (Page, error) {
	t, err := s.table(ctx, q)
	if err != nil {
		return Page{}, err
	}
	rows := derive.Rows(t, s.opts.Window)
	limit, offset := clampLimitOffset(q.Limit, q.Offset, len(rows))
	return Page{Total: len(rows), Limit: limit, Offset: offset, Rows: paginate(rows, limit, offset)}, nil
}

// Trend classifies one canonical field, named by any accepted alias.
func (s *Service) Trend(ctx context.Context, q Query, field string) (models.Trend, error) {
	f, ok := models.ParseField(field)
	if !ok {
		return models.Trend{}, fmt.Errorf("%w: unknown field %q", ErrInvalidQuery, field)
	}
	t, err := s.table(ctx, q)
	if err != nil {
		return models.Trend{}, err
	}
	return trend.ClassifyField(t, f), nil
}

// Export assembles everything a file export needs.
func (s *Service) Export(ctx context.Context, q Query) (report.Bundle, error) {
	t, err := s.table(ctx, q)
	if err != nil {
		return report.Bundle{}, err
	}
	return report.Bundle{
		Rows:        derive.Rows(t, s.opts.Window),
		Columns:     t.Columns,
		KPIs:        kpi.Compute(t),
		Platforms:   kpi.Platforms(t, q.SelectedPlatforms()),
		Attribution: narrow(attribution.Compute(t, s.opts.Attribution), q.Platforms),
	}, nil
}

// Report renders the executive summary followed by insights.
func (s *Service) Report(ctx context.Context, q Query) (string, models.Insights, error) {
	t, err := s.table(ctx, q)
	if err != nil {
		return "", models.Insights{}, err
	}
	return report.ExecutiveSummary(kpi.Compute(t), kpi.Range(t)), trend.Insights(t), nil
}
