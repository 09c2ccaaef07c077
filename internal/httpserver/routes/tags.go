package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/ldrouet/marque/internal/httpserver/deps"
	"github.com/ldrouet/marque/internal/httpserver/handlers"
	"github.com/ldrouet/marque/internal/httpserver/mw"
)

func init() { Register(registerTags) }

func registerTags(r chi.Router, d deps.Deps) {
	r.With(mw.RequireSession(d.Sessions, d.Logger)).Route("/api/tags", func(r chi.Router) {
		r.Get("/", handlers.ListTags(d))
		r.Post("/", handlers.CreateTag(d))
		r.Delete("/{id}", handlers.DeleteTag(d))
	})
}
