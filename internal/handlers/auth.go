package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/BradenHooton/roomgate/internal/models"
	pkghttp "github.com/BradenHooton/roomgate/pkg/http"
	pkglogger "github.com/BradenHooton/roomgate/pkg/logger"
)

// AuthServiceInterface defines the interface for login resolution
type AuthServiceInterface interface {
	Login(ctx context.Context, identifier, password, roleHint string) (*models.LoginOutcome, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service  AuthServiceInterface
	ipConfig *pkghttp.IPConfig
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface, ipConfig *pkghttp.IPConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service:  service,
		ipConfig: ipConfig,
		logger:   logger,
	}
}

// LoginRequest represents the request body for login. Email also accepts a username.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=128"`
	Role     string `json:"role,omitempty" validate:"omitempty,max=32,accountrole"`
}

// EmailExistsResponse is returned by the email availability check
type EmailExistsResponse struct {
	Exists bool `json:"exists"`
}

// Login handles login for every account type
// @Summary Login
// @Accept json
// @Param request body LoginRequest true "Login request"
// @Produce json
// @Success 200 {object} models.LoginOutcome
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 401 {object} models.LoginOutcome
// @Failure 429 {object} pkghttp.ErrorResponse
// @Failure 503 {object} pkghttp.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	outcome, err := h.service.Login(r.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, models.ErrRateLimited) {
			h.logger.Warn("login blocked by lockout",
				slog.String("email", pkglogger.SanitizedEmail(req.Email)),
				slog.String("client_ip", pkghttp.ExtractClientIP(r, h.ipConfig)))
		}
		writeServiceError(w, err)
		return
	}

	if !outcome.Success {
		pkghttp.WriteJSON(w, http.StatusUnauthorized, outcome)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, outcome)
}

// EmailExists reports whether any account already uses an email
// @Router /auth/email-exists [get]
func (h *AuthHandler) EmailExists(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		pkghttp.WriteBadRequest(w, "email query parameter is required")
		return
	}

	exists, err := h.service.EmailExists(r.Context(), email)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, EmailExistsResponse{Exists: exists})
}
