// HTTP-хендлеры регистрации, логина, refresh токенов и профиля
package api

import (
	"errors"
	"net/http"

	"github.com/IvanChernomyrdin/go-shop-api/internal/server/middleware"
	srvmodels "github.com/IvanChernomyrdin/go-shop-api/internal/server/models"
	"github.com/IvanChernomyrdin/go-shop-api/internal/server/service"
	"github.com/IvanChernomyrdin/go-shop-api/internal/server/validate"
	serr "github.com/IvanChernomyrdin/go-shop-api/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-shop-api/internal/shared/models"
)

// msgEmailTaken — текст 409 при повторной регистрации.
const msgEmailTaken = "This email is already taken"

// Register обрабатывает регистрацию пользователя.
//
// @Summary      Register user
// @Description  Creates a user and returns tokens. Email must be unique.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body models.RegisterRequest true "Register request"
// @Success      200 {object} models.TokenResponse
// @Failure      400 {object} models.ErrorResponse "Bad JSON"
// @Failure      409 {object} models.ErrorResponse "Email already taken"
// @Failure      422 {object} models.ErrorResponse "Validation failed"
// @Failure      500 {object} models.ErrorResponse "Internal server error"
// @Router       /register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req validate.Register
	if err := h.decodeJSON(w, r, &req, false); err != nil {
		h.writeServiceError(w, r, "register", err)
		return
	}

	pair, err := h.Svc.Auth.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, serr.ErrAlreadyExists) {
			writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: msgEmailTaken})
			return
		}
		h.writeServiceError(w, r, "register", err)
		return
	}

	writeTokens(w, pair)
}

// Login обрабатывает вход пользователя и выдачу пары токенов.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body models.LoginRequest true "Login request"
// @Success      200 {object} models.TokenResponse
// @Failure      400 {object} models.ErrorResponse "Bad JSON"
// @Failure      401 {object} models.ErrorResponse "Invalid credentials"
// @Failure      422 {object} models.ErrorResponse "Validation failed"
// @Failure      500 {object} models.ErrorResponse "Internal server error"
// @Router       /login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req validate.Login
	if err := h.decodeJSON(w, r, &req, false); err != nil {
		h.writeServiceError(w, r, "login", err)
		return
	}

	pair, err := h.Svc.Auth.Login(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, "login", err)
		return
	}

	writeTokens(w, pair)
}

// Refresh обрабатывает обновление access-токена по refresh-токену.
//
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body models.RefreshRequest true "Refresh request"
// @Success      200 {object} models.TokenResponse
// @Failure      401 {object} models.ErrorResponse "Refresh token invalid, expired or revoked"
// @Failure      422 {object} models.ErrorResponse "Validation failed"
// @Router       /refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req validate.Refresh
	if err := h.decodeJSON(w, r, &req, false); err != nil {
		h.writeServiceError(w, r, "refresh", err)
		return
	}

	pair, err := h.Svc.Auth.Refresh(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, "refresh", err)
		return
	}

	writeTokens(w, pair)
}

// Logout отзывает refresh-сессию. Без тела — выход со всех устройств.
//
// @Summary      Logout
// @Tags         auth
// @Accept       json
// @Security     BearerAuth
// @Param        request body models.RefreshRequest false "Session to revoke"
// @Success      204
// @Failure      401 {object} models.ErrorResponse "Unauthorized"
// @Router       /logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return
	}

	var req models.RefreshRequest
	if err := h.decodeJSON(w, r, &req, true); err != nil {
		h.writeServiceError(w, r, "logout", err)
		return
	}

	if err := h.Svc.Auth.Logout(r.Context(), userID, req.RefreshToken); err != nil {
		h.writeServiceError(w, r, "logout", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me возвращает профиль аутентифицированного пользователя.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} models.Profile
// @Failure      401 {object} models.ErrorResponse "Unauthorized"
// @Failure      404 {object} models.ErrorResponse "User not found"
// @Router       /me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return
	}

	user, err := h.Svc.Auth.Me(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, "me", err)
		return
	}

	writeJSON(w, http.StatusOK, toProfile(user))
}

func writeTokens(w http.ResponseWriter, pair service.TokenPair) {
	writeJSON(w, http.StatusOK, models.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func toProfile(u srvmodels.User) models.Profile {
	return models.Profile{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
