package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/feedback-portal/internal/handlers"
	"github.com/AnshRaj112/feedback-portal/internal/models"
	"github.com/AnshRaj112/feedback-portal/internal/views"
)

// memoryStore stamps records on insert and lists them newest first, like the SQL store.
type memoryStore struct {
	mu      sync.Mutex
	now     time.Time
	records []models.Feedback
}

func (m *memoryStore) Create(ctx context.Context, feedback *models.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(time.Second)
	feedback.ID = strings.Repeat("x", len(m.records)+1)
	feedback.SubmittedAt = m.now
	m.records = append(m.records, *feedback)
	return nil
}

func (m *memoryStore) List(ctx context.Context) ([]models.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]models.Feedback(nil), m.records...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func newTestRouter(t *testing.T) (http.Handler, *memoryStore) {
	renderer, err := views.New()
	require.NoError(t, err)
	store := &memoryStore{now: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}
	h := handlers.New(store, renderer, nil)
	return NewRouter(h, Options{AllowedOrigins: []string{"https://dash.example.com"}}), store
}

func submit(t *testing.T, router http.Handler, name, email, comment string) *httptest.ResponseRecorder {
	form := url.Values{"name": {name}, "email": {email}, "comment": {comment}}
	req := httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func listJSON(t *testing.T, router http.Handler) handlers.GetFeedbacksResponse {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/feedbacks", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response handlers.GetFeedbacksResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return response
}

func TestRoutes_Pages(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/", "/feedback", "/admin", "/health"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get("X-Content-Type-Options"), path)
	}
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRoutes_SubmitThenListRoundTrip(t *testing.T) {
	router, _ := newTestRouter(t)

	w := submit(t, router, "Zoë <Z>", "zoe@example.com", "Ünïcode & \"quotes\"\nsecond line")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	response := listJSON(t, router)
	require.Equal(t, 1, response.Total)
	got := response.Feedbacks[0]
	assert.Equal(t, "Zoë <Z>", got.StudentName)
	assert.Equal(t, "zoe@example.com", got.Email)
	assert.Equal(t, "Ünïcode & \"quotes\"\nsecond line", got.Comment)
	assert.False(t, got.SubmittedAt.IsZero())
}

func TestRoutes_NewestFirst(t *testing.T) {
	router, _ := newTestRouter(t)

	require.Equal(t, http.StatusSeeOther, submit(t, router, "A", "a@example.com", "first").Code)
	require.Equal(t, http.StatusSeeOther, submit(t, router, "B", "b@example.com", "second").Code)
	require.Equal(t, http.StatusSeeOther, submit(t, router, "C", "c@example.com", "third").Code)

	response := listJSON(t, router)
	require.Len(t, response.Feedbacks, 3)
	assert.Equal(t, "C", response.Feedbacks[0].StudentName)
	assert.Equal(t, "B", response.Feedbacks[1].StudentName)
	assert.Equal(t, "A", response.Feedbacks[2].StudentName)
	for i := 1; i < len(response.Feedbacks); i++ {
		assert.False(t, response.Feedbacks[i].SubmittedAt.After(response.Feedbacks[i-1].SubmittedAt))
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	body := w.Body.String()
	assert.Less(t, strings.Index(body, "third"), strings.Index(body, "first"))
}

func TestRoutes_MissingFieldWritesNothing(t *testing.T) {
	router, store := newTestRouter(t)

	form := url.Values{"name": {"A"}, "email": {"a@example.com"}}
	req := httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.records)
}

func TestRoutes_CORSOnlyOnAPI(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/admin/feedbacks", nil)
	req.Header.Set("Origin", "https://dash.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Contains(t, []int{http.StatusOK, http.StatusNoContent}, w.Code)
	assert.Equal(t, "https://dash.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.MethodGet, w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "300", w.Header().Get("Access-Control-Max-Age"))

	req = httptest.NewRequest(http.MethodGet, "/api/admin/feedbacks", nil)
	req.Header.Set("Origin", "https://dash.example.com")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://dash.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/admin/feedbacks", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Origin", "https://dash.example.com")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRoutes_CORSWithoutOriginsAllowsNone(t *testing.T) {
	renderer, err := views.New()
	require.NoError(t, err)
	router := NewRouter(handlers.New(&memoryStore{}, renderer, nil), Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/feedbacks", nil)
	req.Header.Set("Origin", "https://dash.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
