package store

import (
	"sort"
	"strings"

	"github.com/ldrouet/marque/internal/domain"
)

// SetSelectedCollection restricts queries to one collection; nil clears the
// restriction.
func (s *Store) SetSelectedCollection(id *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedCollection = id
}

// SetSelectedTags replaces the selected tag set.
func (s *Store) SetSelectedTags(tagIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedTags = dedupe(tagIDs)
}

// ToggleTag adds or removes a tag from the selected set.
func (s *Store) ToggleTag(tagID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.selectedTags {
		if t == tagID {
			s.selectedTags = remove(s.selectedTags, tagID)
			return
		}
	}
	s.selectedTags = append(s.selectedTags, tagID)
}

// SetSearchQuery sets the substring search term.
func (s *Store) SetSearchQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchQuery = q
}

// SetFilterType sets the favorite/tag-presence filter.
func (s *Store) SetFilterType(ft domain.FilterType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filterType = ft
}

// SetSortOrder sets the result ordering.
func (s *Store) SetSortOrder(order domain.SortOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortBy = order
}

// ResetFilters clears all ambient filter state back to defaults.
func (s *Store) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedCollection = nil
	s.selectedTags = nil
	s.searchQuery = ""
	s.filterType = domain.FilterAll
	s.sortBy = domain.SortDateNewest
}

// Filtered computes the ordered view for a scope from current store state
// and ambient filter state. It never mutates the store; the returned slice
// holds copies.
//
// Pipeline: status scope, selected collection, selected tags (AND), filter
// type, search substring, then a stable sort that preserves insertion order
// among equal keys. The search matches title, url and description,
// case-insensitively.
func (s *Store) Filtered(scope domain.Scope) []domain.Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := strings.ToLower(strings.TrimSpace(s.searchQuery))
	out := make([]domain.Bookmark, 0, len(s.bookmarks))

	for i := range s.bookmarks {
		b := &s.bookmarks[i]

		if !inScope(b, scope) {
			continue
		}
		if s.selectedCollection != nil {
			if b.CollectionID == nil || *b.CollectionID != *s.selectedCollection {
				continue
			}
		}
		if len(s.selectedTags) > 0 && !b.HasAllTags(s.selectedTags) {
			continue
		}
		if !matchesFilterType(b, s.filterType) {
			continue
		}
		if query != "" && !matchesSearch(b, query) {
			continue
		}

		out = append(out, cloneBookmark(*b))
	}

	sortBookmarks(out, s.sortBy)
	return out
}

func inScope(b *domain.Bookmark, scope domain.Scope) bool {
	switch scope {
	case domain.ScopeFavorites:
		return b.Status == domain.StatusActive && b.IsFavorite
	case domain.ScopeArchive:
		return b.Status == domain.StatusArchived
	case domain.ScopeTrash:
		return b.Status == domain.StatusTrash
	default:
		return b.Status == domain.StatusActive
	}
}

func matchesFilterType(b *domain.Bookmark, ft domain.FilterType) bool {
	switch ft {
	case domain.FilterFavorites:
		return b.IsFavorite
	case domain.FilterWithTags:
		return len(b.Tags) > 0
	case domain.FilterWithoutTags:
		return len(b.Tags) == 0
	default:
		return true
	}
}

func matchesSearch(b *domain.Bookmark, query string) bool {
	return strings.Contains(strings.ToLower(b.Title), query) ||
		strings.Contains(strings.ToLower(b.URL), query) ||
		strings.Contains(strings.ToLower(b.Description), query)
}

// sortBookmarks orders in place. SliceStable keeps the original insertion
// order among equal keys, which callers depend on for identical timestamps.
func sortBookmarks(bookmarks []domain.Bookmark, order domain.SortOrder) {
	switch order {
	case domain.SortDateOldest:
		sort.SliceStable(bookmarks, func(i, j int) bool {
			return bookmarks[i].CreatedAt.Before(bookmarks[j].CreatedAt)
		})
	case domain.SortTitleAZ:
		sort.SliceStable(bookmarks, func(i, j int) bool {
			return strings.ToLower(bookmarks[i].Title) < strings.ToLower(bookmarks[j].Title)
		})
	case domain.SortTitleZA:
		sort.SliceStable(bookmarks, func(i, j int) bool {
			return strings.ToLower(bookmarks[i].Title) > strings.ToLower(bookmarks[j].Title)
		})
	default: // date-newest
		sort.SliceStable(bookmarks, func(i, j int) bool {
			return bookmarks[i].CreatedAt.After(bookmarks[j].CreatedAt)
		})
	}
}
