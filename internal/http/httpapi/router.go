package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/karanamabhishek1402/VDSM/internal/http/handlers"
	"github.com/karanamabhishek1402/VDSM/internal/middleware"
)

type Options struct {
	Logger          zerolog.Logger
	CORSOrigins     []string
	RateLimitPerMin int
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.CORSOrigins),
	)

	limit := opts.RateLimitPerMin
	if limit <= 0 {
		limit = 30
	}
	limiter := middleware.NewRateLimiter(limit, time.Minute)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/categories", app.ListCategories)

	r.Route("/v1/videos/{video_id}/summaries", func(r chi.Router) {
		r.Get("/", app.ListSummaries)
		r.Group(func(r chi.Router) {
			r.Use(limiter.Handler)
			r.Post("/text-prompt", app.CreateTextPromptSummary)
			r.Post("/category", app.CreateCategorySummary)
			r.Post("/time-range", app.CreateTimeRangeSummary)
		})
	})

	r.Route("/v1/summaries/{summary_id}", func(r chi.Router) {
		r.Get("/", app.GetSummary)
		r.Get("/progress", app.SummaryProgress)
		r.Get("/download", app.DownloadSummary)
		r.Post("/cancel", app.CancelSummary)
		r.Delete("/", app.DeleteSummary)
	})

	return r
}
