package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ldrouet/marque/internal/domain"
	"github.com/ldrouet/marque/internal/storage"
)

// Store owns the in-memory working set of one user: bookmarks, collections
// and tags, plus the ambient filter state the query engine reads.
//
// Every mutation applies to local state and writes through the persistence
// adapter under the same lock, so per-user operations are serialized and no
// partial state is observable. When the adapter write fails the local change
// is rolled back and the caller receives a PersistenceError.
type Store struct {
	mu      sync.Mutex
	userID  string
	adapter storage.Adapter

	// Insertion order of bookmarks is preserved; the query engine relies on
	// it as the tie-break for stable sorting.
	bookmarks   []domain.Bookmark
	collections []domain.Collection
	tags        []domain.Tag

	// Ambient filter state, settable independently of queries.
	selectedCollection *string
	selectedTags       []string
	searchQuery        string
	filterType         domain.FilterType
	sortBy             domain.SortOrder
}

// New creates an empty store for userID backed by adapter.
// Call Load before using it.
func New(userID string, adapter storage.Adapter) *Store {
	return &Store{
		userID:      userID,
		adapter:     adapter,
		bookmarks:   []domain.Bookmark{},
		collections: []domain.Collection{},
		tags:        []domain.Tag{},
		filterType:  domain.FilterAll,
		sortBy:      domain.SortDateNewest,
	}
}

// UserID returns the owner of this working set.
func (s *Store) UserID() string {
	return s.userID
}

// Load fetches the full working set from the adapter, replacing local state.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.adapter.LoadInitialData(ctx, s.userID)
	if err != nil {
		return &domain.PersistenceError{Op: "load", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookmarks = data.Bookmarks
	s.collections = data.Collections
	s.tags = data.Tags
	return nil
}

// ─────────────────────────────────────────────────────────────────
// Bookmark mutations
// ─────────────────────────────────────────────────────────────────

// CreateBookmarkParams holds the user-supplied fields for a new bookmark.
type CreateBookmarkParams struct {
	Title        string
	URL          string
	Description  string
	Favicon      string
	HasDarkIcon  bool
	CollectionID *string
	Tags         []string
}

// CreateBookmark validates, persists and appends a new active bookmark.
func (s *Store) CreateBookmark(ctx context.Context, params CreateBookmarkParams) (domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	title := strings.TrimSpace(params.Title)
	if title == "" {
		return domain.Bookmark{}, domain.NewValidationError("title", "required")
	}
	rawURL := strings.TrimSpace(params.URL)
	if rawURL == "" {
		return domain.Bookmark{}, domain.NewValidationError("url", "required")
	}
	if params.CollectionID != nil && s.collectionIndex(*params.CollectionID) < 0 {
		return domain.Bookmark{}, domain.NewValidationError("collectionId", "unknown collection")
	}

	created, err := s.adapter.InsertBookmark(ctx, domain.NewBookmarkParams{
		UserID:       s.userID,
		Title:        title,
		URL:          rawURL,
		Description:  params.Description,
		Favicon:      params.Favicon,
		HasDarkIcon:  params.HasDarkIcon,
		CollectionID: params.CollectionID,
		Tags:         params.Tags,
	})
	if err != nil {
		return domain.Bookmark{}, &domain.PersistenceError{Op: "insert bookmark", Err: err}
	}

	s.bookmarks = append(s.bookmarks, created)
	return created, nil
}

// BookmarkUpdate carries partial fields for UpdateBookmark.
// Nil pointers leave the field unchanged. Tags, when provided, replaces the
// entire tag set. SetCollection must be true for CollectionID to apply
// (CollectionID nil with SetCollection true clears the collection).
type BookmarkUpdate struct {
	Title         *string
	URL           *string
	Description   *string
	Favicon       *string
	HasDarkIcon   *bool
	SetCollection bool
	CollectionID  *string
	Tags          *[]string
}

// UpdateBookmark merges the provided fields into the bookmark, writes the
// result through the adapter, and rolls the merge back on failure.
func (s *Store) UpdateBookmark(ctx context.Context, id string, update BookmarkUpdate) (domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.bookmarkIndex(id)
	if i < 0 {
		return domain.Bookmark{}, domain.ErrNotFound
	}

	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return domain.Bookmark{}, domain.NewValidationError("title", "required")
	}
	if update.URL != nil && strings.TrimSpace(*update.URL) == "" {
		return domain.Bookmark{}, domain.NewValidationError("url", "required")
	}
	if update.SetCollection && update.CollectionID != nil && s.collectionIndex(*update.CollectionID) < 0 {
		return domain.Bookmark{}, domain.NewValidationError("collectionId", "unknown collection")
	}

	prev := cloneBookmark(s.bookmarks[i])
	b := &s.bookmarks[i]

	if update.Title != nil {
		b.Title = strings.TrimSpace(*update.Title)
	}
	if update.URL != nil {
		b.URL = strings.TrimSpace(*update.URL)
	}
	if update.Description != nil {
		b.Description = *update.Description
	}
	if update.Favicon != nil {
		b.Favicon = *update.Favicon
	}
	if update.HasDarkIcon != nil {
		b.HasDarkIcon = *update.HasDarkIcon
	}
	if update.SetCollection {
		b.CollectionID = update.CollectionID
	}
	if update.Tags != nil {
		b.Tags = dedupe(*update.Tags)
	}

	if err := s.adapter.UpdateBookmark(ctx, *b); err != nil {
		s.bookmarks[i] = prev
		return domain.Bookmark{}, &domain.PersistenceError{Op: "update bookmark", Err: err}
	}
	return cloneBookmark(*b), nil
}

// ToggleFavorite flips the favorite flag. Trashed bookmarks are rejected;
// the flag is otherwise independent of lifecycle status.
func (s *Store) ToggleFavorite(ctx context.Context, id string) (domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.bookmarkIndex(id)
	if i < 0 {
		return domain.Bookmark{}, domain.ErrNotFound
	}
	if s.bookmarks[i].Status == domain.StatusTrash {
		return domain.Bookmark{}, domain.ErrInvalidTransition
	}

	prev := cloneBookmark(s.bookmarks[i])
	s.bookmarks[i].IsFavorite = !s.bookmarks[i].IsFavorite

	if err := s.adapter.UpdateBookmark(ctx, s.bookmarks[i]); err != nil {
		s.bookmarks[i] = prev
		return domain.Bookmark{}, &domain.PersistenceError{Op: "update bookmark", Err: err}
	}
	return cloneBookmark(s.bookmarks[i]), nil
}

// Archive moves an active bookmark to archived.
// Archiving an already-archived bookmark is a no-op success.
func (s *Store) Archive(ctx context.Context, id string) (domain.Bookmark, error) {
	return s.transition(ctx, id, domain.StatusArchived, domain.StatusActive)
}

// RestoreFromArchive moves an archived bookmark back to active.
func (s *Store) RestoreFromArchive(ctx context.Context, id string) (domain.Bookmark, error) {
	return s.transition(ctx, id, domain.StatusActive, domain.StatusArchived)
}

// Trash moves an active or archived bookmark to trash and stamps TrashedAt.
func (s *Store) Trash(ctx context.Context, id string) (domain.Bookmark, error) {
	return s.transition(ctx, id, domain.StatusTrash, domain.StatusActive, domain.StatusArchived)
}

// RestoreFromTrash moves a trashed bookmark back to active and clears
// TrashedAt.
func (s *Store) RestoreFromTrash(ctx context.Context, id string) (domain.Bookmark, error) {
	return s.transition(ctx, id, domain.StatusActive, domain.StatusTrash)
}

// transition moves a bookmark to target if its current status is one of from.
// A bookmark already in the target state is a no-op success; any other status
// is an invalid transition. IsFavorite is never touched.
func (s *Store) transition(ctx context.Context, id string, target domain.Status, from ...domain.Status) (domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.bookmarkIndex(id)
	if i < 0 {
		return domain.Bookmark{}, domain.ErrNotFound
	}

	current := s.bookmarks[i].Status
	if current == target {
		return cloneBookmark(s.bookmarks[i]), nil
	}
	allowed := false
	for _, f := range from {
		if current == f {
			allowed = true
			break
		}
	}
	if !allowed {
		return domain.Bookmark{}, domain.ErrInvalidTransition
	}

	prev := cloneBookmark(s.bookmarks[i])
	b := &s.bookmarks[i]
	b.Status = target
	switch target {
	case domain.StatusTrash:
		now := time.Now()
		b.TrashedAt = &now
	case domain.StatusActive, domain.StatusArchived:
		b.TrashedAt = nil
	}

	if err := s.adapter.UpdateBookmark(ctx, *b); err != nil {
		s.bookmarks[i] = prev
		return domain.Bookmark{}, &domain.PersistenceError{Op: "update bookmark", Err: err}
	}
	return cloneBookmark(*b), nil
}

// PermanentlyDelete drops a trashed bookmark from the store and the adapter.
// Only trashed bookmarks can be permanently deleted; the operation is
// irreversible and any later reference to the ID fails with ErrNotFound.
func (s *Store) PermanentlyDelete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.bookmarkIndex(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	if s.bookmarks[i].Status != domain.StatusTrash {
		return domain.ErrInvalidTransition
	}

	prev := cloneBookmark(s.bookmarks[i])
	s.bookmarks = append(s.bookmarks[:i], s.bookmarks[i+1:]...)

	if err := s.adapter.DeleteBookmark(ctx, s.userID, id); err != nil {
		// Reinsert at the original position to keep insertion order intact.
		s.bookmarks = append(s.bookmarks[:i], append([]domain.Bookmark{prev}, s.bookmarks[i:]...)...)
		return &domain.PersistenceError{Op: "delete bookmark", Err: err}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────
// Collection and tag mutations
// ─────────────────────────────────────────────────────────────────

// CreateCollection validates, persists and appends a new collection.
func (s *Store) CreateCollection(ctx context.Context, name, icon, color string) (domain.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Collection{}, domain.NewValidationError("name", "required")
	}
	if icon != "" && !domain.ValidCollectionIcon(icon) {
		return domain.Collection{}, domain.NewValidationError("icon", "unknown icon")
	}

	created, err := s.adapter.InsertCollection(ctx, domain.NewCollectionParams{
		UserID: s.userID,
		Name:   name,
		Icon:   icon,
		Color:  color,
	})
	if err != nil {
		return domain.Collection{}, &domain.PersistenceError{Op: "insert collection", Err: err}
	}

	s.collections = append(s.collections, created)
	return created, nil
}

// DeleteCollection removes a collection and resets CollectionID on every
// dependent bookmark. The adapter performs the same cascade atomically on
// its side before local state changes, so a failure leaves both untouched.
func (s *Store) DeleteCollection(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.collectionIndex(id)
	if i < 0 {
		return domain.ErrNotFound
	}

	if err := s.adapter.DeleteCollection(ctx, s.userID, id); err != nil {
		return &domain.PersistenceError{Op: "delete collection", Err: err}
	}

	s.collections = append(s.collections[:i], s.collections[i+1:]...)
	for j := range s.bookmarks {
		b := &s.bookmarks[j]
		if b.CollectionID != nil && *b.CollectionID == id {
			b.CollectionID = nil
		}
	}
	if s.selectedCollection != nil && *s.selectedCollection == id {
		s.selectedCollection = nil
	}
	return nil
}

// CreateTag persists and appends a new tag. When a tag with the same name
// already exists (case-insensitive) the existing tag is returned instead of
// creating a duplicate.
func (s *Store) CreateTag(ctx context.Context, name, color string) (domain.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Tag{}, domain.NewValidationError("name", "required")
	}

	normalized := domain.NormalizeTagName(name)
	for _, t := range s.tags {
		if domain.NormalizeTagName(t.Name) == normalized {
			return t, nil
		}
	}

	created, err := s.adapter.InsertTag(ctx, domain.NewTag(s.userID, name, color))
	if err != nil {
		return domain.Tag{}, &domain.PersistenceError{Op: "insert tag", Err: err}
	}

	s.tags = append(s.tags, created)
	return created, nil
}

// DeleteTag removes a tag and strips it from every bookmark's tag set.
// Like DeleteCollection, the adapter cascade runs first.
func (s *Store) DeleteTag(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.tagIndex(id)
	if i < 0 {
		return domain.ErrNotFound
	}

	if err := s.adapter.DeleteTag(ctx, s.userID, id); err != nil {
		return &domain.PersistenceError{Op: "delete tag", Err: err}
	}

	s.tags = append(s.tags[:i], s.tags[i+1:]...)
	for j := range s.bookmarks {
		b := &s.bookmarks[j]
		if !b.HasTag(id) {
			continue
		}
		kept := make([]string, 0, len(b.Tags)-1)
		for _, t := range b.Tags {
			if t != id {
				kept = append(kept, t)
			}
		}
		b.Tags = kept
	}
	s.selectedTags = remove(s.selectedTags, id)
	return nil
}

// ─────────────────────────────────────────────────────────────────
// Accessors
// ─────────────────────────────────────────────────────────────────

// BookmarkByID returns a copy of the bookmark, or ErrNotFound.
func (s *Store) BookmarkByID(id string) (domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.bookmarkIndex(id)
	if i < 0 {
		return domain.Bookmark{}, domain.ErrNotFound
	}
	return cloneBookmark(s.bookmarks[i]), nil
}

// Bookmarks returns a copy of the full bookmark set in insertion order.
func (s *Store) Bookmarks() []domain.Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Bookmark, len(s.bookmarks))
	for i, b := range s.bookmarks {
		out[i] = cloneBookmark(b)
	}
	return out
}

// Collections returns a copy of the collections with the derived Count
// filled in: the number of non-trash bookmarks referencing each collection.
func (s *Store) Collections() []domain.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int, len(s.collections))
	for _, b := range s.bookmarks {
		if b.Status != domain.StatusTrash && b.CollectionID != nil {
			counts[*b.CollectionID]++
		}
	}

	out := make([]domain.Collection, len(s.collections))
	for i, c := range s.collections {
		c.Count = counts[c.ID]
		out[i] = c
	}
	return out
}

// Tags returns a copy of the tag list.
func (s *Store) Tags() []domain.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]domain.Tag(nil), s.tags...)
}

// ─────────────────────────────────────────────────────────────────
// Internal helpers (call with lock held)
// ─────────────────────────────────────────────────────────────────

func (s *Store) bookmarkIndex(id string) int {
	for i := range s.bookmarks {
		if s.bookmarks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) collectionIndex(id string) int {
	for i := range s.collections {
		if s.collections[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) tagIndex(id string) int {
	for i := range s.tags {
		if s.tags[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneBookmark(b domain.Bookmark) domain.Bookmark {
	copied := b
	copied.Tags = append([]string(nil), b.Tags...)
	if b.TrashedAt != nil {
		t := *b.TrashedAt
		copied.TrashedAt = &t
	}
	return copied
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
