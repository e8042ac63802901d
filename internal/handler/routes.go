package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bhall66/DacTone/internal/middleware"
)

// RouterOptions configures the HTTP surface around the handlers.
type RouterOptions struct {
	APIKey      string
	CORSOrigins []string
}

// NewRouter mounts h on a chi router. /healthz and /metrics stay open;
// /v1 requires the API key when one is set.
func NewRouter(h *Handlers, logger *zap.Logger, opts RouterOptions) http.Handler {
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Auth(opts.APIKey))

		r.Route("/channels", func(r chi.Router) {
			r.Get("/", h.ListChannels)
			r.Route("/{channel}", func(r chi.Router) {
				r.Get("/", h.GetChannel)
				r.Post("/tone", h.PostTone)
				r.Post("/stop", h.PostStop)
				r.Put("/volume", h.PutVolume)
				r.Put("/offset", h.PutOffset)
				r.Put("/shape", h.PutShape)
				r.Put("/frequency", h.PutFrequency)
				r.Get("/frequency", h.GetFrequency)
				r.Get("/clipping", h.GetClipping)
				r.Get("/waveform", h.GetWaveform)
			})
		})
		r.Post("/commands", h.PostCommands)
		r.Get("/registers", h.GetRegisters)
	})

	return r
}
