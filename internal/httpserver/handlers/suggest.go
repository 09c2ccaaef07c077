package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ldrouet/marque/internal/httpserver/deps"
	"github.com/ldrouet/marque/internal/search"
)

const defaultSuggestLimit = 10

type suggestion struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	URL            string `json:"url"`
	MatchedIndexes []int  `json:"matchedIndexes"`
	Score          int    `json:"score"`
}

type suggestResponse struct {
	Suggestions []suggestion `json:"suggestions"`
}

// Suggest ranks bookmarks by fuzzy title match for type-ahead. Distinct from
// the substring search of the list endpoint.
func Suggest(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			writeJSON(w, http.StatusOK, suggestResponse{Suggestions: []suggestion{}})
			return
		}

		limit := defaultSuggestLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				limit = n
			}
		}

		s, err := userStore(d, r)
		if err != nil {
			writeError(w, d, err)
			return
		}

		results := search.Suggest(s.Bookmarks(), query, limit)
		out := make([]suggestion, len(results))
		for i, res := range results {
			out[i] = suggestion{
				ID:             res.Bookmark.ID,
				Title:          res.Bookmark.Title,
				URL:            res.Bookmark.URL,
				MatchedIndexes: res.MatchedIndexes,
				Score:          res.Score,
			}
		}
		writeJSON(w, http.StatusOK, suggestResponse{Suggestions: out})
	}
}
