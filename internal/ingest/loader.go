package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AngelCh415/marketing_analytics/internal/models"
	"github.com/AngelCh415/marketing_analytics/internal/observability"
	"github.com/AngelCh415/marketing_analytics/internal/utils"
)

// Loader turns a file path or http(s) URL into a models.Table.
type Loader struct {
	c       HTTPClient
	log     *slog.Logger
	backoff utils.Backoff
}

func NewLoader(c HTTPClient, log *slog.Logger) *Loader {
	return &Loader{c: c, log: log, backoff: utils.NewBackoff(100*time.Millisecond, 2)}
}

// Load reads primary, falling back to fallback once when primary does not
// exist. Parse failures on an existing source are returned as-is; only
// "not found" triggers the fallback.
func (l *Loader) Load(ctx context.Context, primary, fallback string) (models.Table, error) {
	start := time.Now()
	defer func() { observability.RecordStage("load", time.Since(start).Seconds()) }()

	t, err := l.LoadSource(ctx, primary)
	if err == nil {
		observability.RecordLoad("ok", t.Len())
		return t, nil
	}
	if !errors.Is(err, models.ErrFileNotFound) || fallback == "" || fallback == primary {
		observability.RecordLoad("error", 0)
		if errors.Is(err, models.ErrFileNotFound) {
			return models.Table{}, &models.SourceError{Paths: []string{primary}, Err: err}
		}
		return models.Table{}, err
	}

	l.log.Warn("primary data source not found, trying fallback",
		slog.String("primary", primary), slog.String("fallback", fallback))
	t, ferr := l.LoadSource(ctx, fallback)
	if ferr != nil {
		observability.RecordLoad("error", 0)
		if errors.Is(ferr, models.ErrFileNotFound) {
			return models.Table{}, &models.SourceError{Paths: []string{primary, fallback}, Err: ferr}
		}
		return models.Table{}, ferr
	}
	observability.RecordLoad("fallback", t.Len())
	return t, nil
}

// LoadSource reads a single source with no fallback.
func (l *Loader) LoadSource(ctx context.Context, src string) (models.Table, error) {
	data, err := l.read(ctx, src)
	if err != nil {
		return models.Table{}, err
	}

	var records [][]string
	switch strings.ToLower(filepath.Ext(stripQuery(src))) {
	case ".xlsx", ".xlsm":
		records, err = ReadXLSX(data)
	case ".tsv":
		records, err = ReadCSV(strings.NewReader(string(data)), '\t')
	default:
		records, err = ReadCSV(strings.NewReader(string(data)), ',')
	}
	if err != nil {
		return models.Table{}, fmt.Errorf("%s: %w", src, err)
	}
	return BuildTable(records, src, l.log)
}

func (l *Loader) read(ctx context.Context, src string) ([]byte, error) {
	if isRemote(src) {
		if l.c == nil {
			return nil, fmt.Errorf("no http client configured for %s", src)
		}
		return GetWithRetry(ctx, l.c, src, l.backoff, l.log)
	}
	b, err := os.ReadFile(src) //nolint:gosec // operator-provided data path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", models.ErrFileNotFound, src)
		}
		return nil, fmt.Errorf("read %s: %w", src, err)
	}
	return b, nil
}

func isRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

func stripQuery(src string) string {
	if i := strings.IndexAny(src, "?#"); i >= 0 && isRemote(src) {
		return src[:i]
	}
	return src
}
