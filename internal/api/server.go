// It defines the API server, sets up the routes (endpoints)
// using chi, and links them to the handler functions.

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vrsandeep/animelist/internal/core"
	"github.com/vrsandeep/animelist/internal/store"
)

// Server holds the dependencies for our API.
type Server struct {
	app   *core.App
	store *store.Store
}

// NewServer creates a new Server instance.
func NewServer(app *core.App) *Server {
	return &Server{
		app:   app,
		store: app.Store(),
	}
}

// Store returns the store instance.
func (s *Server) Store() *store.Store {
	return s.store
}

// Router sets up and returns the main router for the application.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	// The websocket route must not be wrapped by the timeout middleware.
	r.With(s.AuthMiddleware).Get("/ws/watchlist", s.handleWatchlistSocket)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Post("/api/users/register", s.handleRegister)
		r.Post("/api/users/login", s.handleLogin)
		r.Get("/api/config", s.handleGetConfig)
		r.Get("/api/health", s.handleHealth)

		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware)

			r.Post("/api/users/logout", s.handleLogout)
			r.Get("/api/users/me", s.handleGetMe)

			r.Route("/api", func(r chi.Router) {
				r.Get("/profile", s.handleGetProfile)
				r.Put("/profile", s.handleUpdateProfile)
				r.Post("/profile/onboarding", s.handleCompleteOnboarding)
				r.Get("/genres", s.handleListGenres)

				r.Get("/catalog/search", s.handleCatalogSearch)
				r.Get("/catalog/anime/{animeID}", s.handleCatalogGet)

				r.Get("/watchlist", s.handleGetWatchlist)
				r.Put("/watchlist/{animeID}", s.handleSetWatchlistStatus)
				r.Delete("/watchlist/{animeID}", s.handleRemoveFromWatchlist)

				r.Post("/recommendations", s.handleGetRecommendations)

				r.Get("/admin/jobs/status", s.handleGetJobsStatus)
			})
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.app.DB().PingContext(r.Context()); err != nil {
		RespondWithError(w, http.StatusServiceUnavailable, "Database connection failed")
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGetConfig tells clients which backends are simulated so they can show
// a demo banner.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"version":         s.app.Version,
		"demo_model":      s.app.Model().Demo(),
		"offline_catalog": s.app.Config().Catalog.Offline,
	})
}

func (s *Server) handleGetJobsStatus(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, s.app.JobManager().GetStatus())
}
