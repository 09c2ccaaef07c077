package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ldrouet/marque/internal/domain"
	"github.com/ldrouet/marque/internal/httpserver/deps"
)

type tagListResponse struct {
	Tags []domain.Tag `json:"tags"`
}

// ListTags returns the user's tags.
func ListTags(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := userStore(d, r)
		if err != nil {
			writeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, tagListResponse{Tags: s.Tags()})
	}
}

type createTagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CreateTag adds a new tag. Creating a tag whose name already exists
// (case-insensitive) returns the existing tag.
func CreateTag(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTagRequest
		if err := decodeBody(r, &req); err != nil {
			badRequest(w, "invalid body")
			return
		}

		s, err := userStore(d, r)
		if err != nil {
			writeError(w, d, err)
			return
		}

		t, err := s.CreateTag(r.Context(), req.Name, req.Color)
		if err != nil {
			writeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusCreated, t)
	}
}

// DeleteTag removes a tag and strips it from every bookmark carrying it.
func DeleteTag(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := userStore(d, r)
		if err != nil {
			writeError(w, d, err)
			return
		}

		if err := s.DeleteTag(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, d, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
