package api

import (
	"errors"
	"net/http"

	"github.com/vrsandeep/animelist/internal/logging"
	"github.com/vrsandeep/animelist/internal/store"
)

// handleGetRecommendations runs one synthesis for the caller. Model and catalog
// failures are reported through the outcome field with a 200 status.
func (s *Server) handleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	doc, err := s.store.Get(r.Context(), user.ID)
	if errors.Is(err, store.ErrNotFound) {
		RespondWithError(w, http.StatusNotFound, "Profile not found")
		return
	}
	if err != nil {
		logging.Error().Err(err).Str("user_id", user.ID).Msg("Failed to load profile for recommendations")
		RespondWithError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	result := s.app.Synthesizer().Synthesize(r.Context(), doc.UserProfile, doc.Watchlist)
	RespondWithJSON(w, http.StatusOK, result)
}
