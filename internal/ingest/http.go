package ingest

import (
	"context"
	"log/slog"

	"github.com/AngelCh415/marketing_analytics/internal/utils"
)

// GetWithRetry downloads url, retrying transport errors and 5xx responses
// with exponential backoff. 4xx responses are not retried.
func GetWithRetry(ctx context.Context, c HTTPClient, url string, b utils.Backoff, log *slog.Logger) ([]byte, error) {
	var body []byte
	err := b.Do(ctx, func(i int) error {
		var err error
		body, err = getBytes(ctx, c, url)
		if err != nil && log != nil {
			log.Warn("fetch attempt failed", slog.String("url", url), slog.Int("attempt", i+1), slog.String("err", err.Error()))
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}
