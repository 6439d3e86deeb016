package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/maro14/fauxdoorz/internal/auth"
	"github.com/maro14/fauxdoorz/internal/users/service"
	httputil "github.com/maro14/fauxdoorz/pkg/http"
	"github.com/maro14/fauxdoorz/pkg/logger"
	"github.com/maro14/fauxdoorz/pkg/model"
)

type UserHandler struct {
	service service.UserService
	tokens  *auth.TokenManager
	log     *logger.Logger
}

func NewUserHandler(service service.UserService, tokens *auth.TokenManager, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		tokens:  tokens,
		log:     log,
	}
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Signup", "error", writeErr)
		}
		return
	}

	user, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Signup", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, user); err != nil {
		h.log.Error("failed to write created response", "handler", "Signup", "error", err)
	}
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Login", "error", writeErr)
		}
		return
	}

	token, user, err := h.service.Login(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Login", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, LoginResponse{Token: token, User: user}); err != nil {
		h.log.Error("failed to write success response", "handler", "Login", "error", err)
	}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := auth.FromContext(r.Context())

	user, err := h.service.GetByID(r.Context(), sess.UserID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Me", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "Me", "error", err)
	}
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess := auth.FromContext(r.Context())

	var updates model.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateMe", "error", writeErr)
		}
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), sess.UserID, &updates)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateMe", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateMe", "error", err)
	}
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/auth/signup", h.Signup)
	router.POST("/api/v1/auth/login", h.Login)
	router.GET("/api/v1/users/me", auth.RequireAuth(h.tokens, h.log, h.Me))
	router.PATCH("/api/v1/users/me", auth.RequireAuth(h.tokens, h.log, h.UpdateMe))
}
