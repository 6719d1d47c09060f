package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/username/ubextract/src/metrics"
	"github.com/username/ubextract/src/services"
	"golang.org/x/time/rate"
)

// RouterConfig carries the HTTP-facing settings.
type RouterConfig struct {
	MaxUploadSizeBytes int64
	Limiter            *rate.Limiter
	Metrics            *metrics.Metrics
}

// NewRouter wires the web UI, downloads, health check and metrics endpoints.
func NewRouter(conversionService services.ConversionService, cfg RouterConfig) http.Handler {
	uploadHandler := NewUploadHandler(conversionService, cfg.MaxUploadSizeBytes)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(ContextualLoggerMiddleware)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}

	r.Get("/healthz", HandleHealth)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		if cfg.Limiter != nil {
			r.Use(RateLimitMiddleware(cfg.Limiter))
		}
		r.Use(SecurityHeadersMiddleware)

		r.Get("/", uploadHandler.HandleIndex)
		r.Post("/upload", uploadHandler.HandleUpload)
		r.Get("/downloads/{id}/{file}", uploadHandler.HandleDownload)
	})

	return r
}

// HandleHealth reports liveness.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}
