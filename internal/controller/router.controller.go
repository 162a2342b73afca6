package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/watchalong/server/pkg/rest"
)

func (c controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Get("/stats", c.stats)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ws", c.serveWs)
	})

	return r
}

func (c controller) stats(w http.ResponseWriter, r *http.Request) {
	rooms, members := c.roomService.Stats()

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{
		"rooms":   rooms,
		"members": members,
	})
}
