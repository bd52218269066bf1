package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AngelCh415/marketing_analytics/internal/metrics"
	"github.com/AngelCh415/marketing_analytics/internal/utils"
)

func NewRouter(log *slog.Logger, svc *metrics.Service) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Ready(r.Context()); err != nil {
			http.Error(w, "not ready: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
		w.Write([]byte("ready"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/dashboard", handle(log, svc.Dashboard))
		r.Get("/kpis", handle(log, svc.KPIs))
		r.Get("/platforms", handle(log, svc.Platforms))
		r.Get("/attribution", handle(log, svc.Attribution))
		r.Get("/cohorts", handle(log, svc.Cohorts))
		r.Get("/seasonality", handle(log, svc.Seasonality))
		r.Get("/efficiency", handle(log, svc.Efficiency))
		r.Get("/summary", handle(log, svc.Summary))
		r.Get("/insights", handle(log, svc.Insights))
		r.Get("/daily", handle(log, svc.Daily))

		r.Get("/quality", func(w http.ResponseWriter, r *http.Request) {
			q, err := svc.Quality(r.Context())
			if err != nil {
				writeError(log, w, r, err)
				return
			}
			render.JSON(w, r, q)
		})

		r.Get("/trend/{field}", func(w http.ResponseWriter, r *http.Request) {
			q, err := metrics.ParseQuery(r.URL.Query())
			if err != nil {
				writeError(log, w, r, err)
				return
			}
			tr, err := svc.Trend(r.Context(), q, chi.URLParam(r, "field"))
			if err != nil {
				writeError(log, w, r, err)
				return
			}
			render.JSON(w, r, tr)
		})

		r.Post("/reload", func(w http.ResponseWriter, r *http.Request) {
			q, err := svc.Reload(r.Context())
			if err != nil {
				writeError(log, w, r, err)
				return
			}
			render.Status(r, http.StatusAccepted)
			render.JSON(w, r, q)
		})
	})

	return mux
}

// handle serves a filtered read of the service as JSON.
func handle[T any](log *slog.Logger, fn func(context.Context, metrics.Query) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := metrics.ParseQuery(r.URL.Query())
		if err != nil {
			writeError(log, w, r, err)
			return
		}
		out, err := fn(r.Context(), q)
		if err != nil {
			writeError(log, w, r, err)
			return
		}
		render.JSON(w, r, out)
	}
}
