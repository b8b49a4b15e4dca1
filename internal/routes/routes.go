package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/AnshRaj112/feedback-portal/internal/handlers"
	"github.com/AnshRaj112/feedback-portal/internal/middleware"
)

// Options tunes the middleware stack.
type Options struct {
	AllowedOrigins []string
	Production     bool
}

// NewRouter builds the router with the shared middleware stack and every route.
func NewRouter(h *handlers.Handler, opts Options) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders(opts.Production))

	SetupRoutes(r, h, opts)
	return r
}

func SetupRoutes(r chi.Router, h *handlers.Handler, opts Options) {
	r.Get("/health", h.Health)

	// Public pages
	r.Get("/", h.Home)
	r.Get("/feedback", h.FeedbackForm)
	r.Post("/feedback", h.SubmitFeedback)

	// Admin (no authentication)
	r.Get("/admin", h.AdminList)
	r.Get("/admin/export.xlsx", h.AdminExport)

	// Sub-router so the CORS handler sees preflight requests before method routing
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(corsOptions(opts.AllowedOrigins)))
		r.Get("/admin/feedbacks", h.AdminListJSON)
	})
}

func corsOptions(allowedOrigins []string) cors.Options {
	options := cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With"},
		MaxAge:         300,
	}
	// An empty list would allow every origin
	if len(allowedOrigins) == 0 {
		options.AllowOriginFunc = func(r *http.Request, origin string) bool { return false }
	}
	return options
}
