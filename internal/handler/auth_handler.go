package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/GoArmGo/SocialApp/internal/auth"
	"github.com/GoArmGo/SocialApp/internal/domain"
	"github.com/GoArmGo/SocialApp/internal/usecase"
)

// AuthHandler обрабатывает регистрацию, вход и запрос текущего пользователя
type AuthHandler struct {
	authUseCase usecase.AuthUseCase
	logger      *slog.Logger
}

func NewAuthHandler(uc usecase.AuthUseCase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authUseCase: uc, logger: logger}
}

// Register обрабатывает POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in usecase.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.logger.Warn("invalid register body", "error", err)
		respondWithError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := validate.Struct(in); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err), h.logger)
		return
	}

	if err := h.authUseCase.Register(r.Context(), in); err != nil {
		if errors.Is(err, domain.ErrRegistration) {
			respondWithError(w, http.StatusBadRequest, domain.ErrRegistration.Error(), h.logger)
			return
		}
		h.logger.Error("register failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Server error", h.logger)
		return
	}

	respondWithMessage(w, http.StatusCreated, "User registered successfully", h.logger)
}

// Login обрабатывает POST /api/auth/login.
// Любая ошибка входных данных дает тот же ответ, что и неверный пароль.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in usecase.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithError(w, http.StatusBadRequest, domain.ErrInvalidCredentials.Error(), h.logger)
		return
	}
	in.Email = strings.TrimSpace(in.Email)
	if err := validate.Struct(in); err != nil {
		respondWithError(w, http.StatusBadRequest, domain.ErrInvalidCredentials.Error(), h.logger)
		return
	}

	result, err := h.authUseCase.Login(r.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			respondWithError(w, http.StatusBadRequest, domain.ErrInvalidCredentials.Error(), h.logger)
			return
		}
		h.logger.Error("login failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Server error", h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, result, h.logger)
}

// CurrentUser отдает GET /api/auth/current-user, работает только после RequireAuth
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, auth.ErrTokenMissing.Error(), h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, user, h.logger)
}
