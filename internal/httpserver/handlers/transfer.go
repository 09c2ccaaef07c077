package handlers

import (
	"net/http"

	"github.com/ldrouet/marque/internal/exporter"
	"github.com/ldrouet/marque/internal/httpserver/deps"
	"github.com/ldrouet/marque/internal/importer"
	"github.com/ldrouet/marque/internal/logger"
	"github.com/ldrouet/marque/internal/store"
)

const maxImportBytes = 16 << 20 // browser exports can get big

type importResponse struct {
	Imported    int `json:"imported"`
	Collections int `json:"collections"`
	Tags        int `json:"tags"`
	Skipped     int `json:"skipped"`
}

// Import reads a Netscape bookmark file from the request body and adds its
// bookmarks to the working set. Folders become collections and TAGS
// attributes become tags, both created on demand and matched by name.
// Entries that fail validation are skipped, not fatal.
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parsed, err := importer.ParseHTML(http.MaxBytesReader(w, r.Body, maxImportBytes))
		if err != nil {
			badRequest(w, "invalid bookmark file")
			return
		}

		s, err := userStore(d, r)
		if err != nil {
			writeError(w, d, err)
			return
		}

		collectionIDs := make(map[string]string)
		for _, c := range s.Collections() {
			collectionIDs[c.Name] = c.ID
		}
		tagIDs := make(map[string]string)
		for _, t := range s.Tags() {
			tagIDs[t.Name] = t.ID
		}

		var resp importResponse
		for _, pb := range parsed {
			params := store.CreateBookmarkParams{
				Title: pb.Title,
				URL:   pb.URL,
			}

			if pb.Collection != "" {
				id, ok := collectionIDs[pb.Collection]
				if !ok {
					c, err := s.CreateCollection(r.Context(), pb.Collection, "", "")
					if err != nil {
						writeError(w, d, err)
						return
					}
					collectionIDs[pb.Collection] = c.ID
					id = c.ID
					resp.Collections++
				}
				params.CollectionID = &id
			}

			for _, name := range pb.Tags {
				id, ok := tagIDs[name]
				if !ok {
					t, err := s.CreateTag(r.Context(), name, "")
					if err != nil {
						writeError(w, d, err)
						return
					}
					tagIDs[name] = t.ID
					id = t.ID
					resp.Tags++
				}
				params.Tags = append(params.Tags, id)
			}

			if _, err := s.CreateBookmark(r.Context(), params); err != nil {
				d.Logger.Warn("skipping invalid imported bookmark",
					logger.String("url", pb.URL),
					logger.Error(err))
				resp.Skipped++
				continue
			}
			resp.Imported++
		}

		d.Logger.Info("bookmark import completed",
			logger.Int("imported", resp.Imported),
			logger.Int("skipped", resp.Skipped))
		writeJSON(w, http.StatusOK, resp)
	}
}

// Export renders the working set as a Netscape bookmark file.
func Export(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := userStore(d, r)
		if err != nil {
			writeError(w, d, err)
			return
		}

		doc := exporter.ExportHTML(s.Bookmarks(), s.Collections(), s.Tags())

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="bookmarks.html"`)
		_, _ = w.Write([]byte(doc))
	}
}
