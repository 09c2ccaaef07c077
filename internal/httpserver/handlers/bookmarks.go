package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ldrouet/marque/internal/domain"
	"github.com/ldrouet/marque/internal/httpserver/deps"
	"github.com/ldrouet/marque/internal/httpserver/mw"
	"github.com/ldrouet/marque/internal/store"
)

// userStore resolves the working set of the authenticated user.
func userStore(d deps.Deps, r *http.Request) (*store.Store, error) {
	return d.Stores.StoreFor(r.Context(), mw.UserID(r.Context()))
}

type bookmarkListResponse struct {
	Bookmarks []domain.Bookmark `json:"bookmarks"`
	Total     int               `json:"total"`
}

// ListBookmarks applies the query parameters to the user's filter state and
// returns the resulting view.
//
//	scope       all | favorites | archive | trash (default all)
//	collection  collection ID ("" clears the restriction)
//	tags        comma-separated tag IDs, matched with AND
//	q           substring search over title, url, description
//	filter      all | favorites | with-tags | without-tags
//	sort        date-newest | date-oldest | title-az | title-za
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		scope, err := domain.ParseScope(q.Get("scope"))
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		filterType, err := domain.ParseFilterType(q.Get("filter"))
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		sortOrder, err := domain.ParseSortOrder(q.Get("sort"))
		if err != nil {
			badRequest(w, err.Error())
			return
		}

		s, err := userStore(d, r)
		if err != nil {
			writeError(w, d, err)
			return
		}

		if id := q.Get("collection"); id != "" {
			s.SetSelectedCollection(&id)
		} else {
			s.SetSelectedCollection(nil)
		}
		s.SetSelectedTags(splitParam(q.Get("tags")))
		s.SetSearchQuery(q.Get("q"))
		s.SetFilterType(filterType)
		s.SetSortOrder(sortOrder)

		bookmarks := s.Filtered(scope)
		writeJSON(w, http.StatusOK, bookmarkListResponse{
			Bookmarks: bookmarks,
			Total:     len(bookmarks),
		})
	}
}

// GetBookmark returns a single bookmark by ID.
func GetBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := userStore(d, r)
		if err != nil {
			writeError(w, d, err)
			return
		}

		b, err := s.BookmarkByID(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

type createBookmarkRequest struct {
	Title        string   `json:"title"`
	URL          string   `json:"url"`
	Description  string   `json:"description"`
	Favicon      string   `json:"favicon"`
	HasDarkIcon  bool     `json:"hasDarkIcon"`
	CollectionID *string  `json:"collectionId"`
	Tags         []string `json:"tags"`
}

// CreateBookmark adds a new active bookmark to the working set.
func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBookmarkRequest
		if err := decodeBody(r, &req); err != nil {
			badRequest(w, "invalid body")
			return
		}

		s, err := userStore(d, r)
		if err != nil {
			writeError(w, d, err)
			return
		}

		b, err := s.CreateBookmark(r.Context(), store.CreateBookmarkParams{
			Title:        req.Title,
			URL:          req.URL,
			Description:  req.Description,
			Favicon:      req.Favicon,
			HasDarkIcon:  req.HasDarkIcon,
			CollectionID: req.CollectionID,
			Tags:         req.Tags,
		})
		if err != nil {
			writeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusCreated, b)
	}
}

type updateBookmarkRequest struct {
	Title        *string   `json:"title"`
	URL          *string   `json:"url"`
	Description  *string   `json:"description"`
	Favicon      *string   `json:"favicon"`
	HasDarkIcon  *bool     `json:"hasDarkIcon"`
	CollectionID *string   `json:"collectionId"`
	Tags         *[]string `json:"tags"`
}

// UpdateBookmark applies a partial update. Absent fields are left unchanged;
// "collectionId": null explicitly clears the collection, which is why the raw
// body is inspected for key presence.
func UpdateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			badRequest(w, "invalid body")
			return
		}

		var req updateBookmarkRequest
		if err := json.Unmarshal(body, &req); err != nil {
			badRequest(w, "invalid body")
			return
		}
		var keys map[string]json.RawMessage
		if err := json.Unmarshal(body, &keys); err != nil {
			badRequest(w, "invalid body")
			return
		}
		_, hasCollection := keys["collectionId"]

		s, err := userStore(d, r)
		if err != nil {
			writeError(w, d, err)
			return
		}

		b, err := s.UpdateBookmark(r.Context(), chi.URLParam(r, "id"), store.BookmarkUpdate{
			Title:         req.Title,
			URL:           req.URL,
			Description:   req.Description,
			Favicon:       req.Favicon,
			HasDarkIcon:   req.HasDarkIcon,
			SetCollection: hasCollection,
			CollectionID:  req.CollectionID,
			Tags:          req.Tags,
		})
		if err != nil {
			writeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

// ToggleFavorite flips the favorite flag on a bookmark.
func ToggleFavorite(d deps.Deps) http.HandlerFunc {
	return lifecycleHandler(d, func(s *store.Store, r *http.Request, id string) (domain.Bookmark, error) {
		return s.ToggleFavorite(r.Context(), id)
	})
}

// ArchiveBookmark moves a bookmark to the archive.
func ArchiveBookmark(d deps.Deps) http.HandlerFunc {
	return lifecycleHandler(d, func(s *store.Store, r *http.Request, id string) (domain.Bookmark, error) {
		return s.Archive(r.Context(), id)
	})
}

// TrashBookmark moves a bookmark to the trash.
func TrashBookmark(d deps.Deps) http.HandlerFunc {
	return lifecycleHandler(d, func(s *store.Store, r *http.Request, id string) (domain.Bookmark, error) {
		return s.Trash(r.Context(), id)
	})
}

// RestoreBookmark brings an archived or trashed bookmark back to active.
func RestoreBookmark(d deps.Deps) http.HandlerFunc {
	return lifecycleHandler(d, func(s *store.Store, r *http.Request, id string) (domain.Bookmark, error) {
		current, err := s.BookmarkByID(id)
		if err != nil {
			return domain.Bookmark{}, err
		}
		if current.Status == domain.StatusTrash {
			return s.RestoreFromTrash(r.Context(), id)
		}
		return s.RestoreFromArchive(r.Context(), id)
	})
}

// DeleteBookmark permanently removes a trashed bookmark.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := userStore(d, r)
		if err != nil {
			writeError(w, d, err)
			return
		}

		if err := s.PermanentlyDelete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, d, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func lifecycleHandler(d deps.Deps, op func(*store.Store, *http.Request, string) (domain.Bookmark, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := userStore(d, r)
		if err != nil {
			writeError(w, d, err)
			return
		}

		b, err := op(s, r, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
