package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/maro14/fauxdoorz/internal/auth"
	"github.com/maro14/fauxdoorz/pkg/logger"
	"github.com/maro14/fauxdoorz/pkg/model"
)

type mockBookingService struct {
	createFunc func(ctx context.Context, sess *auth.Session, booking *model.Booking) (*model.Booking, error)
	getAllFunc func(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
}

func (m *mockBookingService) Create(ctx context.Context, sess *auth.Session, booking *model.Booking) (*model.Booking, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, sess, booking)
	}
	return booking, nil
}

func (m *mockBookingService) GetByID(ctx context.Context, sess *auth.Session, id string) (*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	if m.getAllFunc != nil {
		return m.getAllFunc(ctx, limit, offset)
	}
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) GetByUser(ctx context.Context, userID string, status string) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingService) SearchByProperty(ctx context.Context, sess *auth.Session, propertyID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) Update(ctx context.Context, sess *auth.Session, id string, updates *model.BookingUpdate) (*model.Booking, error) {
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	sess := &auth.Session{
		UserID:    "507f1f77bcf86cd799439012",
		Email:     "guest@example.com",
		Role:      "user",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	return req.WithContext(auth.NewContext(req.Context(), sess))
}

func TestCreate_InvalidBody(t *testing.T) {
	h := &BookingHandler{service: &mockBookingService{}, log: testLogger()}

	req := authedRequest(http.MethodPost, "/api/v1/bookings", "{not json")
	w := httptest.NewRecorder()

	h.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestCreate_SetsCallerFromSession(t *testing.T) {
	var receivedUserID string
	h := &BookingHandler{
		service: &mockBookingService{
			createFunc: func(ctx context.Context, sess *auth.Session, booking *model.Booking) (*model.Booking, error) {
				receivedUserID = sess.UserID
				booking.ID = "507f1f77bcf86cd799439014"
				return booking, nil
			},
		},
		log: testLogger(),
	}

	body := `{"property":"507f1f77bcf86cd799439011","startDate":"2026-10-01T00:00:00Z","endDate":"2026-10-04T00:00:00Z","guestCount":2}`
	req := authedRequest(http.MethodPost, "/api/v1/bookings", body)
	w := httptest.NewRecorder()

	h.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}
	if receivedUserID != "507f1f77bcf86cd799439012" {
		t.Errorf("expected session user to reach the service, got %q", receivedUserID)
	}

	var response struct {
		Data model.Booking `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Data.ID != "507f1f77bcf86cd799439014" {
		t.Errorf("expected created booking in response, got %+v", response.Data)
	}
}

func TestList_PaginationParameters(t *testing.T) {
	var receivedLimit int
	var receivedOffset int64
	h := &BookingHandler{
		service: &mockBookingService{
			getAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
				receivedLimit = limit
				receivedOffset = offset
				return []*model.Booking{{ID: "507f1f77bcf86cd799439014"}}, 42, nil
			},
		},
		log: testLogger(),
	}

	req := authedRequest(http.MethodGet, "/api/v1/bookings?limit=20&offset=10", "")
	w := httptest.NewRecorder()

	h.List(w, req, httprouter.Params{})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if receivedLimit != 20 {
		t.Errorf("expected limit 20, got %d", receivedLimit)
	}
	if receivedOffset != 10 {
		t.Errorf("expected offset 10, got %d", receivedOffset)
	}

	var response struct {
		Data       []model.Booking `json:"data"`
		TotalCount int64           `json:"total_count"`
		Limit      int             `json:"limit"`
		Offset     int64           `json:"offset"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.TotalCount != 42 {
		t.Errorf("expected total_count 42, got %d", response.TotalCount)
	}
	if len(response.Data) != 1 {
		t.Errorf("expected 1 item, got %d", len(response.Data))
	}
}

func TestList_InvalidPaginationRejected(t *testing.T) {
	h := &BookingHandler{service: &mockBookingService{}, log: testLogger()}

	tests := []struct {
		name        string
		queryString string
	}{
		{"alphabetic limit", "?limit=abc&offset=0"},
		{"alphabetic offset", "?limit=10&offset=xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := authedRequest(http.MethodGet, "/api/v1/bookings"+tt.queryString, "")
			w := httptest.NewRecorder()

			h.List(w, req, httprouter.Params{})

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestSearch_RequiresPropertyParameter(t *testing.T) {
	h := &BookingHandler{service: &mockBookingService{}, log: testLogger()}

	req := authedRequest(http.MethodGet, "/api/v1/bookings/search", "")
	w := httptest.NewRecorder()

	h.Search(w, req, httprouter.Params{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}
