package search

import (
	"github.com/sahilm/fuzzy"

	"github.com/ldrouet/marque/internal/domain"
)

// Result is a fuzzy title match.
type Result struct {
	Bookmark       domain.Bookmark
	MatchedIndexes []int
	Score          int
}

// bookmarkTitles implements fuzzy.Source over a bookmark slice.
type bookmarkTitles []domain.Bookmark

func (bt bookmarkTitles) String(i int) string { return bt[i].Title }
func (bt bookmarkTitles) Len() int            { return len(bt) }

// Suggest ranks bookmarks by fuzzy title match against query, best first.
// This powers type-ahead suggestions; the exact substring filter of the
// query engine is separate and unaffected.
func Suggest(bookmarks []domain.Bookmark, query string, limit int) []Result {
	if query == "" {
		return nil
	}

	matches := fuzzy.FindFrom(query, bookmarkTitles(bookmarks))
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Bookmark:       bookmarks[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}
