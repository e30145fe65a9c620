package handlers

import (
	"net/http"

	"rentexpress/internal/middleware"
	"rentexpress/internal/models"
	"rentexpress/internal/services"

	"github.com/rs/zerolog"
)

type AuthHandler struct {
	authService *services.AuthService
	cookies     *middleware.SessionCookies
	logger      zerolog.Logger
}

func NewAuthHandler(authService *services.AuthService, cookies *middleware.SessionCookies, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookies:     cookies,
		logger:      logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	user, token, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Registration")
		return
	}

	if !h.replaceSession(w, r, token) {
		return
	}

	h.logger.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("User registered")
	respondWithJSON(w, http.StatusCreated, models.AuthResponse{
		Success:  true,
		Message:  msgRegisterSuccess,
		User:     user.Public(),
		Redirect: services.RegisterRedirect,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	user, token, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Login")
		return
	}

	if !h.replaceSession(w, r, token) {
		return
	}

	h.logger.Info().Int64("user_id", user.ID).Msg("User logged in")
	respondWithJSON(w, http.StatusOK, models.AuthResponse{
		Success:  true,
		Message:  msgLoginSuccess,
		User:     user.Public(),
		Redirect: services.LoginRedirect,
	})
}

// replaceSession stores token in the cookie and drops whatever session the
// cookie held before. It reports false after writing an error response.
func (h *AuthHandler) replaceSession(w http.ResponseWriter, r *http.Request, token string) bool {
	if previous := h.cookies.Token(r); previous != "" {
		if err := h.authService.Logout(r.Context(), previous); err != nil {
			h.logger.Warn().Err(err).Msg("Error dropping previous session")
		}
	}

	if err := h.cookies.SetToken(w, r, token); err != nil {
		h.logger.Error().Err(err).Msg("Error saving session cookie")
		respondWithError(w, http.StatusInternalServerError, msgServerError)
		return false
	}
	return true
}

// Logout always succeeds; a session that cannot be removed from the store
// is logged and left to expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), h.cookies.Token(r)); err != nil {
		h.logger.Error().Err(err).Msg("Error deleting session")
	}
	if err := h.cookies.Clear(w, r); err != nil {
		h.logger.Warn().Err(err).Msg("Error clearing session cookie")
	}

	respondWithJSON(w, http.StatusOK, models.MessageResponse{
		Success: true,
		Message: msgLogoutSuccess,
	})
}

// Session reports the identity loaded by middleware.LoadSession.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r)
	if !ok {
		respondWithJSON(w, http.StatusOK, models.SessionResponse{})
		return
	}

	respondWithJSON(w, http.StatusOK, models.SessionResponse{
		Authenticated: true,
		User:          session.User(),
	})
}
