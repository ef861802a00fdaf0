package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vrsandeep/animelist/internal/models"
)

// animeIDParam parses the {animeID} URL parameter.
func animeIDParam(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "animeID"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// handleCatalogSearch searches the catalog. Catalog failures surface as an
// empty result list, never as an error status.
func (s *Server) handleCatalogSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		RespondWithError(w, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}

	results := s.app.Catalog().Search(r.Context(), query)
	if results == nil {
		results = []models.Anime{}
	}
	RespondWithJSON(w, http.StatusOK, results)
}

func (s *Server) handleCatalogGet(w http.ResponseWriter, r *http.Request) {
	id, ok := animeIDParam(r)
	if !ok {
		RespondWithError(w, http.StatusBadRequest, "Invalid anime ID")
		return
	}

	anime, found := s.app.Catalog().Get(r.Context(), id)
	if !found {
		RespondWithError(w, http.StatusNotFound, "Anime not found")
		return
	}
	RespondWithJSON(w, http.StatusOK, anime)
}
