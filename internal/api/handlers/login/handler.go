package login

import (
	"errors"
	"net/http"

	"github.com/m04kA/AutoBooker-Service/internal/api/handlers"
	"github.com/m04kA/AutoBooker-Service/internal/api/middleware"
	"github.com/m04kA/AutoBooker-Service/internal/service/auth"
	"github.com/m04kA/AutoBooker-Service/internal/service/auth/models"
)

const (
	msgSuccess            = "вход выполнен"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingFields      = "email и пароль обязательны"
	msgInvalidCredentials = "неверный email или пароль"
)

type Handler struct {
	service      AuthService
	secureCookie bool
	logger       Logger
}

func NewHandler(service AuthService, secureCookie bool, logger Logger) *Handler {
	return &Handler{
		service:      service,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

// Handle POST /api/v1/auth/login
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auth/login - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Login(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingField):
			handlers.RespondBadRequest(w, msgMissingFields)

		case errors.Is(err, auth.ErrInvalidCredentials):
			h.logger.Warn("POST /auth/login - Invalid credentials")
			handlers.RespondUnauthorized(w, msgInvalidCredentials)

		default:
			h.logger.Error("POST /auth/login - Failed to login: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("POST /auth/login - User signed in: user_id=%d", result.User.ID)
	handlers.RespondJSON(w, http.StatusOK, LoginResponse{Message: msgSuccess, AuthResponse: result})
}
