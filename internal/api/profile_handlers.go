package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/vrsandeep/animelist/internal/logging"
	"github.com/vrsandeep/animelist/internal/models"
	"github.com/vrsandeep/animelist/internal/store"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	doc, err := s.store.Get(r.Context(), user.ID)
	if errors.Is(err, store.ErrNotFound) {
		RespondWithError(w, http.StatusNotFound, "Profile not found")
		return
	}
	if err != nil {
		logging.Error().Err(err).Str("user_id", user.ID).Msg("Failed to load profile")
		RespondWithError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	RespondWithJSON(w, http.StatusOK, doc)
}

// handleUpdateProfile merges display name and photo changes into the profile.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	var payload struct {
		DisplayName *string `json:"displayName"`
		PhotoURL    *string `json:"photoURL"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.DisplayName != nil {
		name := strings.TrimSpace(*payload.DisplayName)
		if name == "" {
			RespondWithError(w, http.StatusBadRequest, "Display name cannot be empty")
			return
		}
		payload.DisplayName = &name
	}

	update := models.ProfileUpdate{DisplayName: payload.DisplayName, PhotoURL: payload.PhotoURL}
	s.writeProfile(w, r, user.ID, update)
}

// handleCompleteOnboarding stores the chosen genres and favorite titles and
// marks the profile as onboarded.
func (s *Server) handleCompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	var payload struct {
		Interests      []string `json:"interests"`
		FavoriteAnimes []string `json:"favoriteAnimes"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	onboarded := true
	update := models.ProfileUpdate{
		Interests:      nonNil(payload.Interests),
		FavoriteAnimes: cleanTitles(payload.FavoriteAnimes),
		Onboarded:      &onboarded,
	}
	s.writeProfile(w, r, user.ID, update)
}

func (s *Server) handleListGenres(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, models.Genres)
}

func (s *Server) writeProfile(w http.ResponseWriter, r *http.Request, uid string, update models.ProfileUpdate) {
	err := s.store.MergeSet(r.Context(), uid, update)
	if errors.Is(err, store.ErrNotFound) {
		RespondWithError(w, http.StatusNotFound, "Profile not found")
		return
	}
	if err != nil {
		logging.Error().Err(err).Str("user_id", uid).Msg("Failed to update profile")
		RespondWithError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	s.handleGetProfile(w, r)
}

// cleanTitles trims free-text titles and drops blanks.
func cleanTitles(titles []string) []string {
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
