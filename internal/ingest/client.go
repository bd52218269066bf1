package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AngelCh415/marketing_analytics/internal/models"
	"github.com/AngelCh415/marketing_analytics/internal/utils"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

func NewHTTPClient(timeout time.Duration) HTTPClient {
	return &http.Client{Timeout: timeout}
}

// maxBody caps remote dataset downloads.
var maxBody int64 = 64 << 20

func getBytes(ctx context.Context, c HTTPClient, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, utils.Permanent(err)
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, utils.Permanent(fmt.Errorf("%w: %s returned %d", models.ErrFileNotFound, url, resp.StatusCode))
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, utils.Permanent(fmt.Errorf("non-2xx: %d body=%s", resp.StatusCode, string(b)))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("non-2xx: %d body=%s", resp.StatusCode, string(b))
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > maxBody {
		return nil, utils.Permanent(fmt.Errorf("%s: body exceeds %d bytes", url, maxBody))
	}
	return b, nil
}
