package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ldrouet/marque/internal/domain"
	"github.com/ldrouet/marque/internal/httpserver/deps"
)

type collectionListResponse struct {
	Collections []domain.Collection `json:"collections"`
}

// ListCollections returns the user's collections with live bookmark counts.
func ListCollections(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := userStore(d, r)
		if err != nil {
			writeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, collectionListResponse{Collections: s.Collections()})
	}
}

type createCollectionRequest struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// CreateCollection adds a new collection.
func CreateCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCollectionRequest
		if err := decodeBody(r, &req); err != nil {
			badRequest(w, "invalid body")
			return
		}

		s, err := userStore(d, r)
		if err != nil {
			writeError(w, d, err)
			return
		}

		c, err := s.CreateCollection(r.Context(), req.Name, req.Icon, req.Color)
		if err != nil {
			writeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

// DeleteCollection removes a collection. Bookmarks inside it become
// uncategorized, they are not deleted.
func DeleteCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := userStore(d, r)
		if err != nil {
			writeError(w, d, err)
			return
		}

		if err := s.DeleteCollection(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, d, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
