package store

import (
	"testing"
	"time"

	"github.com/ldrouet/marque/internal/domain"
	"github.com/ldrouet/marque/internal/storage"
)

// newQueryStore builds a store with a fixed working set, bypassing the
// adapter so timestamps and statuses are fully controlled.
func newQueryStore(bookmarks []domain.Bookmark) *Store {
	s := New("user-1", storage.NewMemory())
	s.bookmarks = bookmarks
	return s
}

func bm(id, title string, created time.Time, mods ...func(*domain.Bookmark)) domain.Bookmark {
	b := domain.Bookmark{
		ID:        id,
		UserID:    "user-1",
		Title:     title,
		URL:       "https://" + id + ".example.com",
		Status:    domain.StatusActive,
		CreatedAt: created,
	}
	for _, mod := range mods {
		mod(&b)
	}
	return b
}

func favorite(b *domain.Bookmark) { b.IsFavorite = true }
func archived(b *domain.Bookmark) { b.Status = domain.StatusArchived }
func trashed(b *domain.Bookmark)  { b.Status = domain.StatusTrash }

func withTags(ids ...string) func(*domain.Bookmark) {
	return func(b *domain.Bookmark) { b.Tags = ids }
}
func inCollection(id string) func(*domain.Bookmark) {
	return func(b *domain.Bookmark) { b.CollectionID = &id }
}

func ids(bookmarks []domain.Bookmark) []string {
	out := make([]string, len(bookmarks))
	for i, b := range bookmarks {
		out[i] = b.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFiltered_Scopes(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newQueryStore([]domain.Bookmark{
		bm("active", "Active", base),
		bm("fav", "Favorite", base.Add(time.Hour), favorite),
		bm("arch", "Archived", base.Add(2*time.Hour), archived),
		bm("arch-fav", "Archived favorite", base.Add(3*time.Hour), archived, favorite),
		bm("gone", "Trashed", base.Add(4*time.Hour), trashed),
	})
	s.SetSortOrder(domain.SortDateOldest)

	tests := []struct {
		scope domain.Scope
		want  []string
	}{
		{domain.ScopeAll, []string{"active", "fav"}},
		{domain.ScopeFavorites, []string{"fav"}}, // archived favorites excluded
		{domain.ScopeArchive, []string{"arch", "arch-fav"}},
		{domain.ScopeTrash, []string{"gone"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.scope), func(t *testing.T) {
			got := ids(s.Filtered(tt.scope))
			if !equalIDs(got, tt.want) {
				t.Errorf("scope %s: expected %v, got %v", tt.scope, tt.want, got)
			}
		})
	}
}

func TestFiltered_Pipeline(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newQueryStore([]domain.Bookmark{
		bm("b1", "Go blog", base, inCollection("c1"), withTags("t1", "t2")),
		bm("b2", "Go wiki", base.Add(time.Hour), inCollection("c1"), withTags("t1")),
		bm("b3", "Rust blog", base.Add(2*time.Hour), inCollection("c2"), withTags("t1", "t2")),
		bm("b4", "Python docs", base.Add(3*time.Hour)),
	})
	s.SetSortOrder(domain.SortDateOldest)

	c1 := "c1"
	s.SetSelectedCollection(&c1)
	if got := ids(s.Filtered(domain.ScopeAll)); !equalIDs(got, []string{"b1", "b2"}) {
		t.Errorf("collection filter: got %v", got)
	}

	// Tags are matched with AND.
	s.SetSelectedTags([]string{"t1", "t2"})
	if got := ids(s.Filtered(domain.ScopeAll)); !equalIDs(got, []string{"b1"}) {
		t.Errorf("collection+tags filter: got %v", got)
	}

	// Search narrows further; here it removes the last survivor.
	s.SetSearchQuery("wiki")
	if got := s.Filtered(domain.ScopeAll); len(got) != 0 {
		t.Errorf("search filter: expected empty, got %v", ids(got))
	}

	s.ResetFilters()
	s.SetSortOrder(domain.SortDateOldest)
	if got := ids(s.Filtered(domain.ScopeAll)); !equalIDs(got, []string{"b1", "b2", "b3", "b4"}) {
		t.Errorf("after reset: got %v", got)
	}
}

func TestFiltered_FilterTypes(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newQueryStore([]domain.Bookmark{
		bm("plain", "Plain", base),
		bm("fav", "Fav", base.Add(time.Hour), favorite),
		bm("tagged", "Tagged", base.Add(2*time.Hour), withTags("t1")),
	})
	s.SetSortOrder(domain.SortDateOldest)

	tests := []struct {
		ft   domain.FilterType
		want []string
	}{
		{domain.FilterAll, []string{"plain", "fav", "tagged"}},
		{domain.FilterFavorites, []string{"fav"}},
		{domain.FilterWithTags, []string{"tagged"}},
		{domain.FilterWithoutTags, []string{"plain", "fav"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.ft), func(t *testing.T) {
			s.SetFilterType(tt.ft)
			got := ids(s.Filtered(domain.ScopeAll))
			if !equalIDs(got, tt.want) {
				t.Errorf("filter %s: expected %v, got %v", tt.ft, tt.want, got)
			}
		})
	}
}

func TestFiltered_SearchFields(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newQueryStore([]domain.Bookmark{
		{ID: "title", UserID: "user-1", Title: "Kubernetes docs", URL: "https://a.example.com", Status: domain.StatusActive, CreatedAt: base},
		{ID: "url", UserID: "user-1", Title: "Container docs", URL: "https://kubernetes.io", Status: domain.StatusActive, CreatedAt: base.Add(time.Hour)},
		{ID: "desc", UserID: "user-1", Title: "Notes", URL: "https://b.example.com", Description: "all about Kubernetes", Status: domain.StatusActive, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "miss", UserID: "user-1", Title: "Cooking", URL: "https://c.example.com", Status: domain.StatusActive, CreatedAt: base.Add(3 * time.Hour)},
	})
	s.SetSortOrder(domain.SortDateOldest)

	s.SetSearchQuery("KUBER") // case-insensitive
	got := ids(s.Filtered(domain.ScopeAll))
	if !equalIDs(got, []string{"title", "url", "desc"}) {
		t.Errorf("search must match title, url and description, got %v", got)
	}
}

func TestSortOrders(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newQueryStore([]domain.Bookmark{
		bm("b1", "banana", base),
		bm("b2", "Apple", base.Add(time.Hour)),
		bm("b3", "cherry", base.Add(2*time.Hour)),
	})

	tests := []struct {
		order domain.SortOrder
		want  []string
	}{
		{domain.SortDateNewest, []string{"b3", "b2", "b1"}},
		{domain.SortDateOldest, []string{"b1", "b2", "b3"}},
		{domain.SortTitleAZ, []string{"b2", "b1", "b3"}}, // case-insensitive
		{domain.SortTitleZA, []string{"b3", "b1", "b2"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			s.SetSortOrder(tt.order)
			got := ids(s.Filtered(domain.ScopeAll))
			if !equalIDs(got, tt.want) {
				t.Errorf("sort %s: expected %v, got %v", tt.order, tt.want, got)
			}
		})
	}
}

func TestSortStability(t *testing.T) {
	// Equal timestamps keep insertion order.
	same := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newQueryStore([]domain.Bookmark{
		bm("first", "Same", same),
		bm("second", "Same", same),
		bm("third", "Same", same),
	})

	for _, order := range []domain.SortOrder{domain.SortDateNewest, domain.SortDateOldest, domain.SortTitleAZ, domain.SortTitleZA} {
		s.SetSortOrder(order)
		got := ids(s.Filtered(domain.ScopeAll))
		if !equalIDs(got, []string{"first", "second", "third"}) {
			t.Errorf("sort %s: insertion order not preserved, got %v", order, got)
		}
	}
}

func TestToggleTag(t *testing.T) {
	s := newQueryStore(nil)

	s.ToggleTag("t1")
	s.ToggleTag("t2")
	if len(s.selectedTags) != 2 {
		t.Fatalf("expected 2 selected tags, got %v", s.selectedTags)
	}
	s.ToggleTag("t1")
	if len(s.selectedTags) != 1 || s.selectedTags[0] != "t2" {
		t.Errorf("toggle must remove a selected tag, got %v", s.selectedTags)
	}
}
