package api

import (
	"errors"
	"net/http"

	"github.com/vrsandeep/animelist/internal/logging"
	"github.com/vrsandeep/animelist/internal/models"
	"github.com/vrsandeep/animelist/internal/store"
)

type watchlistResponse struct {
	Items  []models.WatchlistEntry `json:"items"`
	Counts map[models.Status]int   `json:"counts"`
}

// handleGetWatchlist lists the watchlist, most recently written first,
// optionally narrowed to one status. Counts always cover every entry.
func (s *Server) handleGetWatchlist(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	filter := models.Status(r.URL.Query().Get("status"))
	if filter != "" && !filter.Valid() {
		RespondWithError(w, http.StatusBadRequest, "Invalid status filter")
		return
	}

	watchlist, err := s.store.GetWatchlist(r.Context(), user.ID)
	if err != nil {
		logging.Error().Err(err).Str("user_id", user.ID).Msg("Failed to load watchlist")
		RespondWithError(w, http.StatusInternalServerError, "Failed to load watchlist")
		return
	}

	items := watchlist.Sorted()
	if filter != "" {
		items = watchlist.Filter(filter)
	}
	if items == nil {
		items = []models.WatchlistEntry{}
	}
	RespondWithJSON(w, http.StatusOK, watchlistResponse{Items: items, Counts: watchlist.Counts()})
}

// handleSetWatchlistStatus adds or overwrites the entry for {animeID}. When the
// body carries no record it is fetched from the catalog.
func (s *Server) handleSetWatchlistStatus(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	id, ok := animeIDParam(r)
	if !ok {
		RespondWithError(w, http.StatusBadRequest, "Invalid anime ID")
		return
	}

	var payload struct {
		Anime    *models.Anime `json:"anime"`
		Status   models.Status `json:"status"`
		Progress *int          `json:"progress"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if !payload.Status.Valid() {
		RespondWithError(w, http.StatusBadRequest, "Invalid status")
		return
	}
	if payload.Progress != nil && *payload.Progress < 0 {
		RespondWithError(w, http.StatusBadRequest, "Progress cannot be negative")
		return
	}

	anime := payload.Anime
	if anime == nil {
		found, ok := s.app.Catalog().Get(r.Context(), id)
		if !ok {
			RespondWithError(w, http.StatusNotFound, "Anime not found")
			return
		}
		anime = found
	}
	// The path is authoritative for the key.
	anime.MalID = id

	entry, err := s.app.Watchlist().SetStatus(r.Context(), user.ID, *anime, payload.Status, payload.Progress)
	switch {
	case errors.Is(err, models.ErrInvalidStatus):
		RespondWithError(w, http.StatusBadRequest, "Invalid status")
		return
	case errors.Is(err, store.ErrNotFound):
		RespondWithError(w, http.StatusNotFound, "Profile not found")
		return
	case err != nil:
		logging.Error().Err(err).Str("user_id", user.ID).Int("mal_id", id).Msg("Failed to update watchlist")
		RespondWithError(w, http.StatusInternalServerError, "Failed to update watchlist")
		return
	}
	RespondWithJSON(w, http.StatusOK, entry)
}

func (s *Server) handleRemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	id, ok := animeIDParam(r)
	if !ok {
		RespondWithError(w, http.StatusBadRequest, "Invalid anime ID")
		return
	}

	if err := s.app.Watchlist().Remove(r.Context(), user.ID, id); err != nil {
		logging.Error().Err(err).Str("user_id", user.ID).Int("mal_id", id).Msg("Failed to remove watchlist entry")
		RespondWithError(w, http.StatusInternalServerError, "Failed to update watchlist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleWatchlistSocket streams the caller's watchlist events.
func (s *Server) handleWatchlistSocket(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	s.app.WsHub().ServeWs(w, r, user.ID)
}
