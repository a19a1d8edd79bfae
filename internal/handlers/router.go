// internal/handlers/router.go
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jason-s-yu/bluff/internal/middleware"
)

// NewRouter mounts the game endpoints.
func NewRouter(gs *GameServer) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Heartbeat("/ping"))
	r.Use(middleware.LogMiddleware(gs.Logger))

	r.Route("/games", func(r chi.Router) {
		r.Post("/", CreateGameHandler(gs))
		r.Get("/ws", GameWSHandler(gs.Logger, gs))
		r.Get("/{id}", GetGameHandler(gs))
		r.Get("/{id}/actions", GameActionsHandler(gs))
	})
	r.Get("/stats", StatsHandler(gs))
	return r
}
