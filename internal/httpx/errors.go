package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/AngelCh415/marketing_analytics/internal/metrics"
	"github.com/AngelCh415/marketing_analytics/internal/models"
	"github.com/AngelCh415/marketing_analytics/internal/utils"
)

// errResponse is the JSON body of every failed request.
type errResponse struct {
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

func (e *errResponse) Render(_ http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.Status)
	return nil
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, metrics.ErrInvalidQuery):
		return http.StatusBadRequest, "invalid_query"
	case errors.Is(err, models.ErrMissingRequiredColumn):
		return http.StatusUnprocessableEntity, "missing_required_column"
	case errors.Is(err, models.ErrEmptyTable):
		return http.StatusUnprocessableEntity, "empty_table"
	case errors.Is(err, models.ErrFileNotFound):
		return http.StatusServiceUnavailable, "data_not_found"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	lvl := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		lvl = slog.LevelError
	}
	log.Log(r.Context(), lvl, "request failed",
		slog.String("path", r.URL.Path),
		slog.String("code", code),
		slog.String("rid", utils.RID(r.Context())),
		slog.String("err", err.Error()))
	_ = render.Render(w, r, &errResponse{
		Status:    status,
		Error:     err.Error(),
		Code:      code,
		RequestID: utils.RID(r.Context()),
	})
}
