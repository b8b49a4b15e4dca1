package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AnshRaj112/feedback-portal/internal/models"
	"github.com/AnshRaj112/feedback-portal/internal/views"
	"github.com/AnshRaj112/feedback-portal/pkg/apperrors"
)

const maxFormBytes = 1 << 20

// submitFeedbackForm is the body of POST /feedback
type submitFeedbackForm struct {
	Name    string `schema:"name" validate:"required"`
	Email   string `schema:"email" validate:"required"`
	Comment string `schema:"comment" validate:"required"`
}

// Home handles GET /
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, views.PageHome, nil)
}

// FeedbackForm handles GET /feedback
func (h *Handler) FeedbackForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, views.PageFeedback, nil)
}

// SubmitFeedback handles POST /feedback
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	form, err := h.decodeFeedbackForm(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	feedback := &models.Feedback{
		StudentName: form.Name,
		Email:       form.Email,
		Comment:     form.Comment,
	}
	if err := h.feedback.Create(r.Context(), feedback); err != nil {
		h.writeError(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) decodeFeedbackForm(w http.ResponseWriter, r *http.Request) (*submitFeedbackForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	// Browsers may send either urlencoded or multipart forms
	if err := r.ParseMultipartForm(maxFormBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, apperrors.NewBadRequestError("Invalid form body", err)
	}

	var form submitFeedbackForm
	if err := h.decoder.Decode(&form, r.PostForm); err != nil {
		return nil, apperrors.NewBadRequestError("Invalid form body", err)
	}

	if err := h.validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return nil, apperrors.NewBadRequestError(
				fmt.Sprintf("Missing required field(s): %s", strings.Join(fields, ", ")), err)
		}
		return nil, apperrors.NewBadRequestError("Invalid form body", err)
	}

	return &form, nil
}
