package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/ldrouet/marque/internal/httpserver/deps"
	"github.com/ldrouet/marque/internal/httpserver/handlers"
	"github.com/ldrouet/marque/internal/httpserver/mw"
)

func init() { Register(registerCollections) }

func registerCollections(r chi.Router, d deps.Deps) {
	r.With(mw.RequireSession(d.Sessions, d.Logger)).Route("/api/collections", func(r chi.Router) {
		r.Get("/", handlers.ListCollections(d))
		r.Post("/", handlers.CreateCollection(d))
		r.Delete("/{id}", handlers.DeleteCollection(d))
	})
}
