package domain

import "fmt"

// Scope is the status partition a view applies before any user-chosen filter.
// Favorites is active-only plus the favorite flag.
type Scope string

const (
	ScopeAll       Scope = "all"       // dashboard: active bookmarks
	ScopeFavorites Scope = "favorites" // active AND isFavorite
	ScopeArchive   Scope = "archive"   // archived bookmarks
	ScopeTrash     Scope = "trash"     // trashed bookmarks
)

// ParseScope validates a raw scope string. Empty means the dashboard scope.
func ParseScope(s string) (Scope, error) {
	if s == "" {
		return ScopeAll, nil
	}
	switch Scope(s) {
	case ScopeAll, ScopeFavorites, ScopeArchive, ScopeTrash:
		return Scope(s), nil
	}
	return "", fmt.Errorf("unknown scope %q", s)
}

// FilterType narrows a view by favorite flag or tag presence.
type FilterType string

const (
	FilterAll         FilterType = "all"
	FilterFavorites   FilterType = "favorites"
	FilterWithTags    FilterType = "with-tags"
	FilterWithoutTags FilterType = "without-tags"
)

// ParseFilterType validates a raw filter string. Empty means no constraint.
func ParseFilterType(s string) (FilterType, error) {
	if s == "" {
		return FilterAll, nil
	}
	switch FilterType(s) {
	case FilterAll, FilterFavorites, FilterWithTags, FilterWithoutTags:
		return FilterType(s), nil
	}
	return "", fmt.Errorf("unknown filter type %q", s)
}

// SortOrder determines the final ordering of a filtered view.
type SortOrder string

const (
	SortDateNewest SortOrder = "date-newest"
	SortDateOldest SortOrder = "date-oldest"
	SortTitleAZ    SortOrder = "title-az"
	SortTitleZA    SortOrder = "title-za"
)

// ParseSortOrder validates a raw sort string. Empty means newest first.
func ParseSortOrder(s string) (SortOrder, error) {
	if s == "" {
		return SortDateNewest, nil
	}
	switch SortOrder(s) {
	case SortDateNewest, SortDateOldest, SortTitleAZ, SortTitleZA:
		return SortOrder(s), nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}
