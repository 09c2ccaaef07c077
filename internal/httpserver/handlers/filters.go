package handlers

import (
	"net/http"

	"github.com/ldrouet/marque/internal/httpserver/deps"
)

// ResetFilters clears the user's ambient filter state (selected collection,
// selected tags, search query, filter type and sort order) back to defaults.
func ResetFilters(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := userStore(d, r)
		if err != nil {
			writeError(w, d, err)
			return
		}
		s.ResetFilters()
		w.WriteHeader(http.StatusNoContent)
	}
}
