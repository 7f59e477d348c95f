package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pfrederiksen/liga-rankings/internal/logger"
	"github.com/unrolled/render"
)

func getRouter(src Source, render *render.Render, opts Options) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(opts.Logger))
	r.Use(middleware.Recoverer)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/", indexHandler(src, render, opts))
	r.Get("/analytics", analyticsHandler(src, render, opts))
	r.Get("/healthz", healthHandler(render))

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", statusHandler(src, render))
		r.Get("/rankings", rankingsHandler(src, render))
		r.Get("/rankings/{round}", roundHandler(src, render))
		r.Get("/series", seriesHandler(src, render, opts))
		r.Get("/first-places", firstPlacesHandler(src, render, opts))
		r.Get("/prize-pool", prizePoolHandler(src, render, opts))
		r.Post("/refresh", refreshHandler(src, render))
	})

	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}
	r.Handle("/mcp", newMCPHandler(src, opts))

	return r
}

// requestLogger logs one line per request with the structured logger
func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			log.Debug("HTTP request", logger.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start).String(),
				"request_id": middleware.GetReqID(r.Context()),
			})
		})
	}
}
