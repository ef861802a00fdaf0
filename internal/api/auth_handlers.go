package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/vrsandeep/animelist/internal/auth"
	"github.com/vrsandeep/animelist/internal/logging"
	"github.com/vrsandeep/animelist/internal/store"
)

type credentialsPayload struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := decodeJSON(r, &payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	switch err := auth.ValidateCredentials(payload.Email, payload.Password); {
	case errors.Is(err, auth.ErrInvalidEmail):
		RespondWithError(w, http.StatusBadRequest, "Please enter a valid email address")
		return
	case errors.Is(err, auth.ErrWeakPassword):
		RespondWithError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	passwordHash, err := auth.HashPassword(payload.Password)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	displayName := strings.TrimSpace(payload.DisplayName)
	if displayName == "" {
		displayName = strings.SplitN(strings.TrimSpace(payload.Email), "@", 2)[0]
	}

	user, err := s.store.CreateUser(r.Context(), payload.Email, passwordHash, displayName)
	if errors.Is(err, store.ErrEmailTaken) {
		RespondWithError(w, http.StatusConflict, "An account with this email already exists")
		return
	}
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create user")
		RespondWithError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	if !s.startSession(w, r, user.ID) {
		return
	}
	logging.Info().Str("user_id", user.ID).Msg("User registered")
	RespondWithJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := decodeJSON(r, &payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), payload.Email)
	if err != nil {
		RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if !auth.CheckPasswordHash(payload.Password, user.PasswordHash) {
		RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	// Accounts created before profiles existed get an empty document on first login.
	if err := s.store.EnsureDocument(r.Context(), user); err != nil {
		logging.Error().Err(err).Str("user_id", user.ID).Msg("Failed to ensure profile document")
		RespondWithError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	if !s.startSession(w, r, user.ID) {
		return
	}
	RespondWithJSON(w, http.StatusOK, user)
}

// startSession creates a session and sets its cookie. It reports false after
// writing an error response.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, userID string) bool {
	token, err := s.store.CreateSession(r.Context(), userID)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to create session")
		return false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return true
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil {
		s.store.DeleteSession(r.Context(), cookie.Value)
	}

	// Expire the cookie on the client side
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	if user == nil {
		RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	RespondWithJSON(w, http.StatusOK, user)
}
