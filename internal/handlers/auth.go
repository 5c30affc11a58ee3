package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/crucial707/trade-journal/internal/models"
	"github.com/crucial707/trade-journal/internal/service"
	"github.com/rs/zerolog"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Auth   *service.AuthService
	Google service.GoogleAuthenticator
	Log    zerolog.Logger
}

// ==========================
// Register
// ==========================
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input models.Credentials
	if !decodeJSON(w, r, &input) {
		return
	}

	if err := input.ValidateForRegistration(); err != nil {
		h.rejectInput(w, "register", err)
		return
	}

	user, err := h.Auth.Register(r.Context(), input.Email, input.PasswordHash)
	if errors.Is(err, service.ErrEmailTaken) {
		JSONError(w, "Email already registered", http.StatusConflict)
		return
	}
	if err != nil {
		h.Log.Error().Err(err).Msg("register failed")
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{Message: "Registration successful", UserID: user.Email})
}

// ==========================
// Login
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input models.Credentials
	if !decodeJSON(w, r, &input) {
		return
	}

	if err := input.Present(); err != nil {
		h.rejectInput(w, "login", err)
		return
	}

	user, err := h.Auth.Login(r.Context(), input.Email, input.PasswordHash)
	if errors.Is(err, service.ErrInvalidCredentials) {
		JSONError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		h.Log.Error().Err(err).Msg("login failed")
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Login successful", UserID: user.Email})
}

// ==========================
// Check Email
// ==========================
func (h *AuthHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		JSONError(w, "Email required", http.StatusBadRequest)
		return
	}

	exists, err := h.Auth.EmailExists(r.Context(), email)
	if err != nil {
		h.Log.Error().Err(err).Msg("check email failed")
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"available": !exists})
}

// ==========================
// Google Login (callback stub)
// ==========================
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var input models.GoogleLogin
	if !decodeJSON(w, r, &input) {
		return
	}

	if strings.TrimSpace(input.GoogleID) == "" || strings.TrimSpace(input.Email) == "" {
		JSONError(w, "Google ID and email are required", http.StatusBadRequest)
		return
	}

	identity, err := h.Google.Authenticate(r.Context(), input)
	if err != nil {
		h.Log.Error().Err(err).Str("email", input.Email).Msg("google login failed")
		JSONError(w, "Error processing Google login", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Google login recorded", UserID: identity.Email})
}

func (h *AuthHandler) rejectInput(w http.ResponseWriter, action string, err error) {
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	h.Log.Warn().Str("action", action).Str("reason", verr.Message).Msg("rejected credentials")
	var fields map[string]string
	if verr.Field != "" {
		fields = map[string]string{verr.Field: verr.Message}
	}
	JSONValidationError(w, verr.Message, fields, http.StatusBadRequest)
}
