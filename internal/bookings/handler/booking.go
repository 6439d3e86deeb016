package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/maro14/fauxdoorz/internal/auth"
	"github.com/maro14/fauxdoorz/internal/bookings/service"
	apperrors "github.com/maro14/fauxdoorz/pkg/errors"
	httputil "github.com/maro14/fauxdoorz/pkg/http"
	"github.com/maro14/fauxdoorz/pkg/logger"
	"github.com/maro14/fauxdoorz/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	tokens  *auth.TokenManager
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, tokens *auth.TokenManager, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		tokens:  tokens,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := auth.FromContext(r.Context())

	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	created, err := h.service.Create(r.Context(), sess, &booking)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess := auth.FromContext(r.Context())

	booking, err := h.service.GetByID(r.Context(), sess, ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "error", err)
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	bookings, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "error", err)
	}
}

func (h *BookingHandler) Mine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := auth.FromContext(r.Context())

	bookings, err := h.service.GetByUser(r.Context(), sess.UserID, r.URL.Query().Get("status"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Mine", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "Mine", "error", err)
	}
}

func (h *BookingHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := auth.FromContext(r.Context())

	propertyID := r.URL.Query().Get("property")
	if propertyID == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("property query parameter is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "error", writeErr)
		}
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "error", writeErr)
		}
		return
	}

	bookings, total, err := h.service.SearchByProperty(r.Context(), sess, propertyID, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Search", "error", err)
	}
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess := auth.FromContext(r.Context())

	var updates model.BookingUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "error", writeErr)
		}
		return
	}

	booking, err := h.service.Update(r.Context(), sess, ps.ByName("id"), &updates)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", auth.RequireAuth(h.tokens, h.log, h.Create))
	router.GET("/api/v1/bookings", auth.RequireAdmin(h.tokens, h.log, h.List))
	router.GET("/api/v1/bookings/user", auth.RequireAuth(h.tokens, h.log, h.Mine))
	router.GET("/api/v1/bookings/search", auth.RequireAuth(h.tokens, h.log, h.Search))
	router.GET("/api/v1/bookings/id/:id", auth.RequireAuth(h.tokens, h.log, h.Get))
	router.PATCH("/api/v1/bookings/id/:id", auth.RequireAuth(h.tokens, h.log, h.Update))
}
