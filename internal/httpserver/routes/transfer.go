package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/ldrouet/marque/internal/httpserver/deps"
	"github.com/ldrouet/marque/internal/httpserver/handlers"
	"github.com/ldrouet/marque/internal/httpserver/mw"
)

func init() { Register(registerTransfer) }

func registerTransfer(r chi.Router, d deps.Deps) {
	auth := r.With(mw.RequireSession(d.Sessions, d.Logger))
	auth.Post("/api/import", handlers.Import(d))
	auth.Get("/api/export", handlers.Export(d))
}
