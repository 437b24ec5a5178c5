package handlers

import (
	"Planzo/internal/config"
	"Planzo/internal/middleware"
	"Planzo/internal/service"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// UserHandler регистрация, вход и выход.
type UserHandler struct {
	UserService *service.UserService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewUserHandler(userService *service.UserService, logger *zap.SugaredLogger, cfg *config.Config) *UserHandler {
	return &UserHandler{UserService: userService, Logger: logger, Config: cfg}
}

type credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// UserDTO то, что клиент видит о пользователе.
type UserDTO struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

// Register создаёт пользователя и сразу логинит его cookie.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.Register(r.Context(), req.Login, req.Password)
	switch {
	case errors.Is(err, service.ErrLoginTaken):
		http.Error(w, "login already taken", http.StatusConflict)
		return
	case errors.Is(err, service.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		h.Logger.Errorw("Register: service error", "login", req.Login, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := middleware.SetLoginCookie(w, user.ID, h.Config.AuthSecret); err != nil {
		h.Logger.Errorw("Register: failed to set cookie", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.Logger.Infow("user registered", "user_id", user.ID)
	writeJSON(w, http.StatusOK, UserDTO{ID: user.ID, Login: user.Login})
}

// Login проверяет пароль и выставляет cookie.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.Login(r.Context(), req.Login, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		http.Error(w, "invalid login or password", http.StatusUnauthorized)
		return
	}
	if err != nil {
		h.Logger.Errorw("Login: service error", "login", req.Login, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := middleware.SetLoginCookie(w, user.ID, h.Config.AuthSecret); err != nil {
		h.Logger.Errorw("Login: failed to set cookie", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, UserDTO{ID: user.ID, Login: user.Login})
}

// Logout затирает cookie. Токен без состояния, так что сервер больше ничего не делает.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearLoginCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me текущий пользователь.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	user, err := h.UserService.Get(r.Context(), userID)
	if errors.Is(err, service.ErrNotFound) {
		// токен подписан, но пользователя уже нет
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if err != nil {
		h.Logger.Errorw("Me: service error", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, UserDTO{ID: user.ID, Login: user.Login})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
