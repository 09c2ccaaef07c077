package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/ldrouet/marque/internal/httpserver/deps"
	"github.com/ldrouet/marque/internal/httpserver/handlers"
	"github.com/ldrouet/marque/internal/httpserver/mw"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.With(mw.RequireSession(d.Sessions, d.Logger)).Route("/api/bookmarks", func(r chi.Router) {
		r.Get("/", handlers.ListBookmarks(d))
		r.Post("/", handlers.CreateBookmark(d))

		r.Get("/{id}", handlers.GetBookmark(d))
		r.Patch("/{id}", handlers.UpdateBookmark(d))
		r.Delete("/{id}", handlers.DeleteBookmark(d))

		r.Post("/{id}/favorite", handlers.ToggleFavorite(d))
		r.Post("/{id}/archive", handlers.ArchiveBookmark(d))
		r.Post("/{id}/trash", handlers.TrashBookmark(d))
		r.Post("/{id}/restore", handlers.RestoreBookmark(d))
	})
}
