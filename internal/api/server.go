// It defines the API server, sets up the routes (endpoints)
// using chi, and links them to the handler functions.

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fsclient/fsclient-go/internal/core"
)

// Server holds the dependencies for our API.
type Server struct {
	app *core.App
}

// NewServer creates a new Server instance.
func NewServer(app *core.App) *Server {
	return &Server{app: app}
}

// Router sets up and returns the main router for the application.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)    // Logs requests to the console
	r.Use(middleware.Recoverer) // Recovers from panics
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/api/version", s.handleGetVersion)
	r.Get("/api/config", s.handleGetConfig)

	r.Route("/api", func(r chi.Router) {
		r.Get("/providers", s.handleListProviders)

		r.Route("/providers/{site}", func(r chi.Router) {
			r.Get("/home", s.handleHomePage)
			r.Get("/search", s.handleShortSearch)
			r.Get("/items", s.handleListItems)
			r.Get("/sections/{section}/params", s.handleSectionParams)
			r.Post("/open", s.handleOpenFromLink)

			r.Route("/items/{itemID}", func(r chi.Router) {
				r.Post("/preload", s.handlePreloadItem)
				r.Get("/files", s.handleItemFiles)
				r.Get("/torrents", s.handleItemTorrents)
				r.Get("/trailers", s.handleItemTrailers)
				r.Get("/reviews", s.handleItemReviews)
				r.Post("/reviews", s.handleSendReview)
				r.Post("/vote", s.handleVoteItem)
			})

			// Auth
			r.Get("/user", s.handleGetUser)
			r.Post("/login", s.handleLogin)
			r.Post("/logout", s.handleLogout)

			// Favorites
			r.Get("/favorites/kinds", s.handleFavoriteKinds)
			r.Get("/favorites/{kind}", s.handleFavoriteItems)
			r.Post("/favorites/{kind}", s.handleFavoriteAdd)
			r.Delete("/favorites/{kind}", s.handleFavoriteRemove)
		})

		// Admin Job Triggers
		r.Route("/admin", func(r chi.Router) {
			r.Get("/jobs/status", s.handleGetJobsStatus)
			r.Post("/jobs/run", s.handleRunJob)
		})
	})

	return r
}
