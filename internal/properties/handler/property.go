package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/maro14/fauxdoorz/internal/auth"
	"github.com/maro14/fauxdoorz/internal/properties/service"
	apperrors "github.com/maro14/fauxdoorz/pkg/errors"
	httputil "github.com/maro14/fauxdoorz/pkg/http"
	"github.com/maro14/fauxdoorz/pkg/logger"
	"github.com/maro14/fauxdoorz/pkg/model"
)

type PropertyHandler struct {
	service service.PropertyService
	tokens  *auth.TokenManager
	log     *logger.Logger
}

func NewPropertyHandler(service service.PropertyService, tokens *auth.TokenManager, log *logger.Logger) *PropertyHandler {
	return &PropertyHandler{
		service: service,
		tokens:  tokens,
		log:     log,
	}
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := auth.FromContext(r.Context())

	var property model.Property
	if err := json.NewDecoder(r.Body).Decode(&property); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	created, err := h.service.Create(r.Context(), sess, &property)
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

func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	property, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, property); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "error", err)
	}
}

func (h *PropertyHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "error", writeErr)
		}
		return
	}

	search, err := extractSearchFilters(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "error", writeErr)
		}
		return
	}

	properties, total, err := h.service.Search(r.Context(), search, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, properties, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Search", "error", err)
	}
}

func (h *PropertyHandler) Mine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := auth.FromContext(r.Context())

	properties, err := h.service.GetByOwner(r.Context(), sess.UserID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Mine", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, properties); err != nil {
		h.log.Error("failed to write success response", "handler", "Mine", "error", err)
	}
}

func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess := auth.FromContext(r.Context())

	var updates model.PropertyUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "error", writeErr)
		}
		return
	}

	property, err := h.service.Update(r.Context(), sess, ps.ByName("id"), &updates)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, property); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess := auth.FromContext(r.Context())

	if err := h.service.Delete(r.Context(), sess, ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func extractSearchFilters(r *http.Request) (*model.PropertySearch, error) {
	query := r.URL.Query()
	search := &model.PropertySearch{
		Location: query.Get("location"),
		Status:   query.Get("status"),
	}

	if s := query.Get("minPrice"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, invalidQueryParam("minPrice", s)
		}
		search.MinPrice = v
	}
	if s := query.Get("maxPrice"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, invalidQueryParam("maxPrice", s)
		}
		search.MaxPrice = v
	}
	if s := query.Get("guests"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, invalidQueryParam("guests", s)
		}
		search.Guests = v
	}

	return search, nil
}

func invalidQueryParam(name, value string) error {
	return apperrors.InvalidInput(fmt.Sprintf("invalid %s parameter: %s", name, value))
}

func (h *PropertyHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/properties", h.Search)
	router.POST("/api/v1/properties", auth.RequireAuth(h.tokens, h.log, h.Create))
	router.GET("/api/v1/properties/user", auth.RequireAuth(h.tokens, h.log, h.Mine))
	router.GET("/api/v1/properties/id/:id", h.Get)
	router.PATCH("/api/v1/properties/id/:id", auth.RequireAuth(h.tokens, h.log, h.Update))
	router.DELETE("/api/v1/properties/id/:id", auth.RequireAuth(h.tokens, h.log, h.Delete))
}
