package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/ldrouet/marque/internal/httpserver/deps"
	"github.com/ldrouet/marque/internal/httpserver/handlers"
	"github.com/ldrouet/marque/internal/httpserver/mw"
)

func init() { Register(registerSuggest) }

func registerSuggest(r chi.Router, d deps.Deps) {
	auth := r.With(mw.RequireSession(d.Sessions, d.Logger))
	auth.Get("/api/suggest", handlers.Suggest(d))
	auth.Post("/api/filters/reset", handlers.ResetFilters(d))
}
