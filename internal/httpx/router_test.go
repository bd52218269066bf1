package httpx

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/marketing_analytics/internal/cleaner"
	"github.com/AngelCh415/marketing_analytics/internal/ingest"
	"github.com/AngelCh415/marketing_analytics/internal/metrics"
	"github.com/AngelCh415/marketing_analytics/internal/store"
)

func sample(n int) string {
	var b strings.Builder
	b.WriteString("date,total_revenue,orders,spend,facebook_spend,facebook_attributed_revenue\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "2024-01-%02d,500,5,100,60,300\n", i+1)
	}
	return b.String()
}

func newServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if body != "" {
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := metrics.NewService(
		store.NewMemoryStore(true),
		ingest.NewLoader(nil, log),
		cleaner.New(log, cleaner.DefaultOptions()),
		log,
		metrics.Options{DataPath: path, Window: 7},
	)
	srv := httptest.NewServer(NewRouter(log, svc))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url) //nolint:gosec // test server URL
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func decodeErr(t *testing.T, body []byte) errResponse {
	t.Helper()
	var e errResponse
	require.NoError(t, json.Unmarshal(body, &e))
	return e
}

func TestHealthz(t *testing.T) {
	srv := newServer(t, "")
	resp, body := get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestKPIsEndpoint(t *testing.T) {
	srv := newServer(t, sample(10))

	resp, body := get(t, srv.URL+"/api/kpis?from=2024-01-01&to=2024-01-04")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

	var k map[string]any
	require.NoError(t, json.Unmarshal(body, &k))
	assert.Equal(t, 2000.0, k["total_revenue"])
	assert.Equal(t, 4.0, k["days"])
}

func TestPlatformsEndpointFilters(t *testing.T) {
	srv := newServer(t, sample(3))

	resp, body := get(t, srv.URL+"/api/platforms?platforms=facebook")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ms []map[string]any
	require.NoError(t, json.Unmarshal(body, &ms))
	require.Len(t, ms, 1)
	assert.Equal(t, "Facebook", ms[0]["platform"])
	assert.Equal(t, 5.0, ms[0]["roas"])
}

func TestBadQueryIs400(t *testing.T) {
	srv := newServer(t, sample(3))

	for _, path := range []string{
		"/api/kpis?from=yesterday",
		"/api/dashboard?from=2024-02-01&to=2024-01-01",
		"/api/attribution?platforms=myspace",
		"/api/trend/vibes",
	} {
		resp, body := get(t, srv.URL+path)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		e := decodeErr(t, body)
		assert.Equal(t, "invalid_query", e.Code, path)
		assert.Equal(t, resp.Header.Get("X-Request-ID"), e.RequestID)
	}
}

func TestMissingSourceIs503(t *testing.T) {
	srv := newServer(t, "")

	resp, body := get(t, srv.URL+"/api/kpis")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "data_not_found", decodeErr(t, body).Code)

	resp, _ = get(t, srv.URL+"/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMissingColumnIs422(t *testing.T) {
	srv := newServer(t, "date,spend\n2024-01-01,100\n")

	resp, body := get(t, srv.URL+"/api/summary")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "missing_required_column", decodeErr(t, body).Code)
}

func TestTrendAndReload(t *testing.T) {
	srv := newServer(t, sample(5))

	resp, body := get(t, srv.URL+"/api/trend/revenue")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tr map[string]any
	require.NoError(t, json.Unmarshal(body, &tr))
	assert.Equal(t, "total_revenue", tr["field"])
	assert.Equal(t, "stable", tr["direction"])

	resp, err := http.Post(srv.URL+"/api/reload", "application/json", nil) //nolint:gosec // test server URL
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newServer(t, sample(3))
	get(t, srv.URL+"/api/kpis")

	resp, body := get(t, srv.URL+"/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "mkt_http_requests_total")
}
