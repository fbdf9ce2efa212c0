package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"dispatchgo/backend/internal/api/handler"
	"dispatchgo/backend/internal/classifier"
	"dispatchgo/backend/internal/models"
	"dispatchgo/backend/internal/report"
)

// stubClassifier classifies by keyword so handler tests run without an oracle.
type stubClassifier struct{}

func (stubClassifier) Classify(ctx context.Context, text string) (classifier.Classification, error) {
	severity := models.SeverityLow
	if strings.Contains(text, "fire") {
		severity = models.SeverityCritical
	}
	return classifier.Classification{Summary: "summary: " + text, Severity: severity}, nil
}

// memStorage is a minimal in-memory report store for handler tests.
type memStorage struct {
	reports map[string]*models.Report
	order   []string
}

func newMemStorage() *memStorage {
	return &memStorage{reports: make(map[string]*models.Report)}
}

func (m *memStorage) SaveReport(ctx context.Context, r *models.Report) error {
	copied := *r
	m.reports[r.ID] = &copied
	m.order = append(m.order, r.ID)
	sort.SliceStable(m.order, func(i, j int) bool {
		return m.reports[m.order[i]].Severity > m.reports[m.order[j]].Severity
	})
	return nil
}

func (m *memStorage) GetReport(ctx context.Context, id string) (*models.Report, error) {
	r, ok := m.reports[id]
	if !ok {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (m *memStorage) ReportIDsBySeverity(ctx context.Context) ([]string, error) {
	return append([]string{}, m.order...), nil
}

func (m *memStorage) ReportIDsBySeverityRange(ctx context.Context, start, stop int64) ([]string, error) {
	if start >= int64(len(m.order)) {
		return []string{}, nil
	}
	if stop < 0 || stop >= int64(len(m.order)) {
		stop = int64(len(m.order)) - 1
	}
	return append([]string{}, m.order[start:stop+1]...), nil
}

func (m *memStorage) PublishReport(ctx context.Context, r models.Report) error { return nil }
func (m *memStorage) SubscribeReports(ctx context.Context) *redis.PubSub       { return nil }
func (m *memStorage) SaveSubscriber(s *models.Subscriber) error                { return nil }
func (m *memStorage) DeleteSubscriber(chatID int64) error                      { return nil }
func (m *memStorage) GetSubscribers() ([]models.Subscriber, error)             { return nil, nil }
func (m *memStorage) SaveTranscript(tr *models.Transcript) error               { return nil }
func (m *memStorage) GetTranscriptByCallSID(callSID string) (*models.Transcript, error) {
	return nil, nil
}

func newTestRouter() (*gin.Engine, *memStorage) {
	gin.SetMode(gin.TestMode)
	store := newMemStorage()
	intake := report.NewIntakeService(stubClassifier{}, store)
	query := report.NewQueryService(store)
	h := handler.NewHandler(intake, query, nil)

	r := gin.New()
	r.POST("/incoming_message", h.ReceiveMessage)
	r.GET("/get_sorted_messages", h.GetSortedMessages)
	r.GET("/get_messages_by_location", h.GetMessagesByLocation)
	r.GET("/get_top_critical", h.GetTopCritical)
	r.GET("/test_sample_messages", h.SeedSampleMessages)
	return r, store
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestReceiveMessage_MissingTextIs400(t *testing.T) {
	r, _ := newTestRouter()

	w := doRequest(r, http.MethodPost, "/incoming_message", `{"location": "Patna"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No text provided")
}

func TestReceiveMessage_ReturnsProjection(t *testing.T) {
	r, store := newTestRouter()

	w := doRequest(r, http.MethodPost, "/incoming_message", `{"text": "massive fire downtown", "location": "Bengaluru"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var payload models.ReportProjection
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "summary: massive fire downtown", payload.Summary)
	assert.Equal(t, models.SeverityCritical, payload.Severity)
	assert.Equal(t, "Bengaluru", payload.Location)
	assert.WithinDuration(t, time.Now().UTC(), payload.Timestamp, time.Minute)
	assert.Len(t, store.reports, 1)
}

func TestGetSortedMessages_SeverityDescending(t *testing.T) {
	r, _ := newTestRouter()
	doRequest(r, http.MethodPost, "/incoming_message", `{"text": "cat stuck in a tree"}`)
	doRequest(r, http.MethodPost, "/incoming_message", `{"text": "warehouse fire spreading"}`)

	w := doRequest(r, http.MethodGet, "/get_sorted_messages", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var reports []models.Report
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &reports))
	assert.Len(t, reports, 2)
	assert.Equal(t, models.SeverityCritical, reports[0].Severity)
	assert.Equal(t, models.SeverityLow, reports[1].Severity)
}

func TestGetMessagesByLocation_MissingLocIs400(t *testing.T) {
	r, _ := newTestRouter()

	w := doRequest(r, http.MethodGet, "/get_messages_by_location", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Location parameter missing")
}

func TestGetMessagesByLocation_Filters(t *testing.T) {
	r, _ := newTestRouter()
	doRequest(r, http.MethodPost, "/incoming_message", `{"text": "fire", "location": "Bengaluru"}`)
	doRequest(r, http.MethodPost, "/incoming_message", `{"text": "outage", "location": "Chandigarh"}`)

	w := doRequest(r, http.MethodGet, "/get_messages_by_location?loc=bengal", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var reports []models.Report
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &reports))
	assert.Len(t, reports, 1)
	assert.Equal(t, "Bengaluru", reports[0].Location)
}

func TestGetTopCritical_InvalidNIs400(t *testing.T) {
	r, _ := newTestRouter()

	w := doRequest(r, http.MethodGet, "/get_top_critical?n=lots", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTopCritical_DefaultsToFive(t *testing.T) {
	r, _ := newTestRouter()
	for i := 0; i < 7; i++ {
		doRequest(r, http.MethodPost, "/incoming_message", `{"text": "fire incident"}`)
	}

	w := doRequest(r, http.MethodGet, "/get_top_critical", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var reports []models.Report
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &reports))
	assert.Len(t, reports, 5)
}

func TestGetTopCritical_ZeroYieldsEmpty(t *testing.T) {
	r, _ := newTestRouter()
	doRequest(r, http.MethodPost, "/incoming_message", `{"text": "fire incident"}`)

	w := doRequest(r, http.MethodGet, "/get_top_critical?n=0", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var reports []models.Report
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &reports))
	assert.Empty(t, reports)
}

func TestSeedSampleMessages_CreatesFiveReports(t *testing.T) {
	r, store := newTestRouter()

	w := doRequest(r, http.MethodGet, "/test_sample_messages", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, store.reports, 5)
}
