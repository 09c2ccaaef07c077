package store

import (
	"context"
	"errors"
	"testing"

	"github.com/ldrouet/marque/internal/domain"
	"github.com/ldrouet/marque/internal/storage"
)

// failingAdapter wraps the memory backend and fails selected operations, to
// exercise rollback paths.
type failingAdapter struct {
	*storage.Memory
	failInsert bool
	failUpdate bool
	failDelete bool
}

var errBackend = errors.New("backend down")

func (f *failingAdapter) InsertBookmark(ctx context.Context, params domain.NewBookmarkParams) (domain.Bookmark, error) {
	if f.failInsert {
		return domain.Bookmark{}, errBackend
	}
	return f.Memory.InsertBookmark(ctx, params)
}

func (f *failingAdapter) UpdateBookmark(ctx context.Context, b domain.Bookmark) error {
	if f.failUpdate {
		return errBackend
	}
	return f.Memory.UpdateBookmark(ctx, b)
}

func (f *failingAdapter) DeleteBookmark(ctx context.Context, userID, id string) error {
	if f.failDelete {
		return errBackend
	}
	return f.Memory.DeleteBookmark(ctx, userID, id)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New("user-1", storage.NewMemory())
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return s
}

func mustCreate(t *testing.T, s *Store, title, url string) domain.Bookmark {
	t.Helper()
	b, err := s.CreateBookmark(context.Background(), CreateBookmarkParams{Title: title, URL: url})
	if err != nil {
		t.Fatalf("CreateBookmark(%q) failed: %v", title, err)
	}
	return b
}

func TestCreateBookmark_Validation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		params CreateBookmarkParams
		field  string
	}{
		{"empty title", CreateBookmarkParams{Title: "  ", URL: "https://example.com"}, "title"},
		{"empty url", CreateBookmarkParams{Title: "Example", URL: ""}, "url"},
		{"unknown collection", CreateBookmarkParams{Title: "Example", URL: "https://example.com", CollectionID: strPtr("nope")}, "collectionId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateBookmark(ctx, tt.params)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, ve.Field)
			}
		})
	}

	if len(s.Bookmarks()) != 0 {
		t.Errorf("failed creates must not touch the working set, got %d bookmarks", len(s.Bookmarks()))
	}
}

func TestCreateBookmark_Defaults(t *testing.T) {
	s := newTestStore(t)

	b := mustCreate(t, s, "Example", "https://example.com/page")

	if b.Status != domain.StatusActive {
		t.Errorf("new bookmark should be active, got %s", b.Status)
	}
	if b.IsFavorite {
		t.Error("new bookmark should not be favorite")
	}
	if b.Favicon != "https://example.com/favicon.ico" {
		t.Errorf("favicon not derived from URL, got %q", b.Favicon)
	}
	if b.ID == "" || b.CreatedAt.IsZero() {
		t.Error("ID and CreatedAt must be assigned on create")
	}
}

func TestUpdateBookmark(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.CreateCollection(ctx, "Dev", "", "")
	if err != nil {
		t.Fatalf("CreateCollection failed: %v", err)
	}
	b := mustCreate(t, s, "Old title", "https://old.example.com")

	title := "New title"
	updated, err := s.UpdateBookmark(ctx, b.ID, BookmarkUpdate{
		Title:         &title,
		SetCollection: true,
		CollectionID:  &c.ID,
		Tags:          &[]string{"t1", "t1", "t2"},
	})
	if err != nil {
		t.Fatalf("UpdateBookmark failed: %v", err)
	}

	if updated.Title != "New title" {
		t.Errorf("title not updated, got %q", updated.Title)
	}
	if updated.URL != "https://old.example.com" {
		t.Errorf("url must be untouched, got %q", updated.URL)
	}
	if updated.CollectionID == nil || *updated.CollectionID != c.ID {
		t.Error("collection not set")
	}
	if len(updated.Tags) != 2 {
		t.Errorf("tags must be deduplicated, got %v", updated.Tags)
	}

	// Explicitly clear the collection.
	updated, err = s.UpdateBookmark(ctx, b.ID, BookmarkUpdate{SetCollection: true, CollectionID: nil})
	if err != nil {
		t.Fatalf("UpdateBookmark failed: %v", err)
	}
	if updated.CollectionID != nil {
		t.Error("collection not cleared")
	}

	if _, err := s.UpdateBookmark(ctx, "missing", BookmarkUpdate{}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown ID, got %v", err)
	}
}

func TestToggleFavorite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	b := mustCreate(t, s, "Example", "https://example.com")

	toggled, err := s.ToggleFavorite(ctx, b.ID)
	if err != nil {
		t.Fatalf("ToggleFavorite failed: %v", err)
	}
	if !toggled.IsFavorite {
		t.Error("expected favorite after first toggle")
	}

	// The flag survives archive and restore.
	if _, err := s.Archive(ctx, b.ID); err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	if _, err := s.RestoreFromArchive(ctx, b.ID); err != nil {
		t.Fatalf("RestoreFromArchive failed: %v", err)
	}
	got, _ := s.BookmarkByID(b.ID)
	if !got.IsFavorite {
		t.Error("favorite flag must survive archive/restore")
	}

	// Trashed bookmarks cannot be favorited.
	if _, err := s.Trash(ctx, b.ID); err != nil {
		t.Fatalf("Trash failed: %v", err)
	}
	if _, err := s.ToggleFavorite(ctx, b.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition on trashed bookmark, got %v", err)
	}
	got, _ = s.BookmarkByID(b.ID)
	if !got.IsFavorite {
		t.Error("favorite flag must survive trash")
	}
}

func TestLifecycleTransitions(t *testing.T) {
	type op func(*Store, context.Context, string) (domain.Bookmark, error)
	archive := func(s *Store, ctx context.Context, id string) (domain.Bookmark, error) { return s.Archive(ctx, id) }
	unarchive := func(s *Store, ctx context.Context, id string) (domain.Bookmark, error) {
		return s.RestoreFromArchive(ctx, id)
	}
	trash := func(s *Store, ctx context.Context, id string) (domain.Bookmark, error) { return s.Trash(ctx, id) }
	untrash := func(s *Store, ctx context.Context, id string) (domain.Bookmark, error) {
		return s.RestoreFromTrash(ctx, id)
	}

	tests := []struct {
		name    string
		from    domain.Status
		op      op
		want    domain.Status
		wantErr bool
	}{
		{"archive active", domain.StatusActive, archive, domain.StatusArchived, false},
		{"archive archived is noop", domain.StatusArchived, archive, domain.StatusArchived, false},
		{"archive trashed rejected", domain.StatusTrash, archive, "", true},
		{"restore archived", domain.StatusArchived, unarchive, domain.StatusActive, false},
		{"restore-archive on active is noop", domain.StatusActive, unarchive, domain.StatusActive, false},
		{"restore-archive on trashed rejected", domain.StatusTrash, unarchive, "", true},
		{"trash active", domain.StatusActive, trash, domain.StatusTrash, false},
		{"trash archived", domain.StatusArchived, trash, domain.StatusTrash, false},
		{"trash trashed is noop", domain.StatusTrash, trash, domain.StatusTrash, false},
		{"restore trashed", domain.StatusTrash, untrash, domain.StatusActive, false},
		{"restore-trash on archived rejected", domain.StatusArchived, untrash, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			ctx := context.Background()
			b := mustCreate(t, s, "Example", "https://example.com")

			// Drive the bookmark into the starting state.
			switch tt.from {
			case domain.StatusArchived:
				if _, err := s.Archive(ctx, b.ID); err != nil {
					t.Fatalf("setup archive failed: %v", err)
				}
			case domain.StatusTrash:
				if _, err := s.Trash(ctx, b.ID); err != nil {
					t.Fatalf("setup trash failed: %v", err)
				}
			}

			got, err := tt.op(s, ctx, b.ID)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidTransition) {
					t.Fatalf("expected ErrInvalidTransition, got %v", err)
				}
				after, _ := s.BookmarkByID(b.ID)
				if after.Status != tt.from {
					t.Errorf("rejected transition must not change status, got %s", after.Status)
				}
				return
			}
			if err != nil {
				t.Fatalf("transition failed: %v", err)
			}
			if got.Status != tt.want {
				t.Errorf("expected status %s, got %s", tt.want, got.Status)
			}
			if tt.want == domain.StatusTrash && got.TrashedAt == nil {
				t.Error("TrashedAt must be set in trash")
			}
			if tt.want != domain.StatusTrash && got.TrashedAt != nil {
				t.Error("TrashedAt must be cleared outside trash")
			}
		})
	}
}

func TestPermanentlyDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	b := mustCreate(t, s, "Example", "https://example.com")

	if err := s.PermanentlyDelete(ctx, b.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("deleting an active bookmark must fail, got %v", err)
	}

	if _, err := s.Trash(ctx, b.ID); err != nil {
		t.Fatalf("Trash failed: %v", err)
	}
	if err := s.PermanentlyDelete(ctx, b.ID); err != nil {
		t.Fatalf("PermanentlyDelete failed: %v", err)
	}

	if _, err := s.BookmarkByID(b.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("deleted bookmark must be gone, got %v", err)
	}
	if err := s.PermanentlyDelete(ctx, b.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second delete must return ErrNotFound, got %v", err)
	}
}

func TestRollbackOnPersistenceFailure(t *testing.T) {
	ctx := context.Background()
	adapter := &failingAdapter{Memory: storage.NewMemory()}
	s := New("user-1", adapter)
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	b := mustCreate(t, s, "Example", "https://example.com")

	adapter.failUpdate = true

	title := "changed"
	if _, err := s.UpdateBookmark(ctx, b.ID, BookmarkUpdate{Title: &title}); !domain.IsPersistence(err) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	got, _ := s.BookmarkByID(b.ID)
	if got.Title != "Example" {
		t.Errorf("failed update must roll back, title is %q", got.Title)
	}

	if _, err := s.ToggleFavorite(ctx, b.ID); !domain.IsPersistence(err) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	got, _ = s.BookmarkByID(b.ID)
	if got.IsFavorite {
		t.Error("failed toggle must roll back")
	}

	if _, err := s.Trash(ctx, b.ID); !domain.IsPersistence(err) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	got, _ = s.BookmarkByID(b.ID)
	if got.Status != domain.StatusActive || got.TrashedAt != nil {
		t.Error("failed trash must roll back status and TrashedAt")
	}

	// Delete failure must reinsert the bookmark at its original position.
	adapter.failUpdate = false
	adapter.failDelete = true
	second := mustCreate(t, s, "Second", "https://second.example.com")
	if _, err := s.Trash(ctx, b.ID); err != nil {
		t.Fatalf("Trash failed: %v", err)
	}
	if err := s.PermanentlyDelete(ctx, b.ID); !domain.IsPersistence(err) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	all := s.Bookmarks()
	if len(all) != 2 || all[0].ID != b.ID || all[1].ID != second.ID {
		t.Error("failed delete must restore insertion order")
	}
}

func TestDeleteCollection_Cascade(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.CreateCollection(ctx, "Dev", "code", "#ff0000")
	if err != nil {
		t.Fatalf("CreateCollection failed: %v", err)
	}
	b, err := s.CreateBookmark(ctx, CreateBookmarkParams{
		Title: "Example", URL: "https://example.com", CollectionID: &c.ID,
	})
	if err != nil {
		t.Fatalf("CreateBookmark failed: %v", err)
	}
	s.SetSelectedCollection(&c.ID)

	if err := s.DeleteCollection(ctx, c.ID); err != nil {
		t.Fatalf("DeleteCollection failed: %v", err)
	}

	got, _ := s.BookmarkByID(b.ID)
	if got.CollectionID != nil {
		t.Error("bookmark must become uncategorized")
	}
	if len(s.Collections()) != 0 {
		t.Error("collection must be gone")
	}
	if s.selectedCollection != nil {
		t.Error("selected collection must be cleared")
	}

	if err := s.DeleteCollection(ctx, c.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second delete must return ErrNotFound, got %v", err)
	}
}

func TestCreateCollection_IconValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateCollection(ctx, "Dev", "not-an-icon", ""); !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError for unknown icon, got %v", err)
	}

	c, err := s.CreateCollection(ctx, "Dev", "", "")
	if err != nil {
		t.Fatalf("CreateCollection failed: %v", err)
	}
	if c.Icon != domain.DefaultCollectionIcon {
		t.Errorf("empty icon must fall back to default, got %q", c.Icon)
	}
}

func TestCreateTag_CaseInsensitiveDedupe(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.CreateTag(ctx, "Go", "#00add8")
	if err != nil {
		t.Fatalf("CreateTag failed: %v", err)
	}
	second, err := s.CreateTag(ctx, "  go ", "#ffffff")
	if err != nil {
		t.Fatalf("CreateTag failed: %v", err)
	}

	if first.ID != second.ID {
		t.Error("same name (case-insensitive) must return the existing tag")
	}
	if len(s.Tags()) != 1 {
		t.Errorf("expected 1 tag, got %d", len(s.Tags()))
	}
}

func TestDeleteTag_Cascade(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag, err := s.CreateTag(ctx, "go", "")
	if err != nil {
		t.Fatalf("CreateTag failed: %v", err)
	}
	keep, err := s.CreateTag(ctx, "web", "")
	if err != nil {
		t.Fatalf("CreateTag failed: %v", err)
	}
	b, err := s.CreateBookmark(ctx, CreateBookmarkParams{
		Title: "Example", URL: "https://example.com", Tags: []string{tag.ID, keep.ID},
	})
	if err != nil {
		t.Fatalf("CreateBookmark failed: %v", err)
	}
	s.SetSelectedTags([]string{tag.ID, keep.ID})

	if err := s.DeleteTag(ctx, tag.ID); err != nil {
		t.Fatalf("DeleteTag failed: %v", err)
	}

	got, _ := s.BookmarkByID(b.ID)
	if len(got.Tags) != 1 || got.Tags[0] != keep.ID {
		t.Errorf("tag must be stripped from bookmarks, got %v", got.Tags)
	}
	if len(s.selectedTags) != 1 || s.selectedTags[0] != keep.ID {
		t.Errorf("tag must be removed from the selected set, got %v", s.selectedTags)
	}
}

func TestCollections_Counts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.CreateCollection(ctx, "Dev", "", "")
	if err != nil {
		t.Fatalf("CreateCollection failed: %v", err)
	}
	active, err := s.CreateBookmark(ctx, CreateBookmarkParams{
		Title: "A", URL: "https://a.example.com", CollectionID: &c.ID,
	})
	if err != nil {
		t.Fatalf("CreateBookmark failed: %v", err)
	}
	trashed, err := s.CreateBookmark(ctx, CreateBookmarkParams{
		Title: "B", URL: "https://b.example.com", CollectionID: &c.ID,
	})
	if err != nil {
		t.Fatalf("CreateBookmark failed: %v", err)
	}
	if _, err := s.Trash(ctx, trashed.ID); err != nil {
		t.Fatalf("Trash failed: %v", err)
	}

	cols := s.Collections()
	if len(cols) != 1 {
		t.Fatalf("expected 1 collection, got %d", len(cols))
	}
	if cols[0].Count != 1 {
		t.Errorf("trashed bookmarks must not count, got %d", cols[0].Count)
	}

	// Archived bookmarks still count.
	if _, err := s.Archive(ctx, active.ID); err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	if got := s.Collections()[0].Count; got != 1 {
		t.Errorf("archived bookmarks must count, got %d", got)
	}
}

func strPtr(s string) *string { return &s }
