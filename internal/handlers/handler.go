package handlers

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/rs/zerolog/log"

	"github.com/AnshRaj112/feedback-portal/internal/models"
	"github.com/AnshRaj112/feedback-portal/internal/views"
	"github.com/AnshRaj112/feedback-portal/pkg/apperrors"
)

// FeedbackService defines the feedback operations used by the handlers.
type FeedbackService interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	List(ctx context.Context) ([]models.Feedback, error)
}

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Handler serves every route of the feedback site.
type Handler struct {
	feedback FeedbackService
	views    *views.Renderer
	health   HealthChecker
	decoder  *schema.Decoder
	validate *validator.Validate
}

// New creates the handler set. health may be nil.
func New(feedback FeedbackService, renderer *views.Renderer, health HealthChecker) *Handler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	validate := validator.New()
	// Report form field names instead of Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("schema"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &Handler{
		feedback: feedback,
		views:    renderer,
		health:   health,
		decoder:  decoder,
		validate: validate,
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page string, data interface{}) {
	if err := h.views.Render(w, http.StatusOK, page, data); err != nil {
		log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Str("page", page).Msg("failed to render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// writeError logs err and sends the plain status page matching its class.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := h.logFailure(r, err)

	message := http.StatusText(status)
	var appErr *apperrors.AppError
	if status == http.StatusBadRequest && errors.As(err, &appErr) {
		message = appErr.Message
	}
	http.Error(w, message, status)
}

func (h *Handler) logFailure(r *http.Request, err error) int {
	status := apperrors.StatusCode(err)

	event := log.Error()
	if status < http.StatusInternalServerError {
		event = log.Warn()
	}
	event.Err(err).
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("request failed")
	return status
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health.Ping(r.Context()); err != nil {
			log.Error().Err(err).Msg("health check failed")
			http.Error(w, "UNAVAILABLE", http.StatusServiceUnavailable)
			return
		}
	}
	w.Write([]byte("OK"))
}
