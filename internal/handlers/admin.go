package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/AnshRaj112/feedback-portal/internal/models"
	"github.com/AnshRaj112/feedback-portal/internal/services"
	"github.com/AnshRaj112/feedback-portal/internal/views"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type adminPageData struct {
	Feedbacks []models.Feedback
	Total     int
}

// GetFeedbacksResponse represents the response for getting feedbacks
type GetFeedbacksResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message,omitempty"`
	Feedbacks []models.Feedback `json:"feedbacks"`
	Total     int               `json:"total"`
}

// AdminList handles GET /admin
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	feedbacks, err := h.feedback.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.render(w, r, views.PageAdmin, adminPageData{
		Feedbacks: feedbacks,
		Total:     len(feedbacks),
	})
}

// AdminListJSON handles GET /api/admin/feedbacks
func (h *Handler) AdminListJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	feedbacks, err := h.feedback.List(r.Context())
	if err != nil {
		h.logFailure(r, err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(GetFeedbacksResponse{
			Success:   false,
			Message:   "Failed to fetch feedbacks",
			Feedbacks: []models.Feedback{},
		})
		return
	}

	json.NewEncoder(w).Encode(GetFeedbacksResponse{
		Success:   true,
		Feedbacks: feedbacks,
		Total:     len(feedbacks),
	})
}

// AdminExport handles GET /admin/export.xlsx
func (h *Handler) AdminExport(w http.ResponseWriter, r *http.Request) {
	feedbacks, err := h.feedback.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := services.WriteFeedbackWorkbook(&buf, feedbacks); err != nil {
		h.writeError(w, r, fmt.Errorf("build workbook: %w", err))
		return
	}

	filename := fmt.Sprintf("feedback-%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	buf.WriteTo(w)
}
