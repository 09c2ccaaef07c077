package storage

import (
	"context"
	"sync"

	"github.com/ldrouet/marque/internal/domain"
)

// Memory is an in-process Adapter and UserStore. It backs tests and the
// MARQUE_STORAGE=memory mode; data does not survive a restart.
type Memory struct {
	mu          sync.RWMutex
	bookmarks   []domain.Bookmark
	collections []domain.Collection
	tags        []domain.Tag
	users       map[string]domain.User // keyed by ID
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{users: make(map[string]domain.User)}
}

// LoadInitialData returns copies of all records owned by userID.
func (m *Memory) LoadInitialData(_ context.Context, userID string) (*InitialData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data := &InitialData{
		Bookmarks:   []domain.Bookmark{},
		Collections: []domain.Collection{},
		Tags:        []domain.Tag{},
	}
	for _, b := range m.bookmarks {
		if b.UserID == userID {
			data.Bookmarks = append(data.Bookmarks, cloneBookmark(b))
		}
	}
	for _, c := range m.collections {
		if c.UserID == userID {
			data.Collections = append(data.Collections, c)
		}
	}
	for _, t := range m.tags {
		if t.UserID == userID {
			data.Tags = append(data.Tags, t)
		}
	}
	return data, nil
}

func (m *Memory) InsertBookmark(_ context.Context, params domain.NewBookmarkParams) (domain.Bookmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := domain.NewBookmark(params)
	m.bookmarks = append(m.bookmarks, b)
	return cloneBookmark(b), nil
}

func (m *Memory) UpdateBookmark(_ context.Context, bookmark domain.Bookmark) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.bookmarks {
		if m.bookmarks[i].ID == bookmark.ID && m.bookmarks[i].UserID == bookmark.UserID {
			m.bookmarks[i] = cloneBookmark(bookmark)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *Memory) DeleteBookmark(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.bookmarks {
		if m.bookmarks[i].ID == id && m.bookmarks[i].UserID == userID {
			m.bookmarks = append(m.bookmarks[:i], m.bookmarks[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *Memory) InsertCollection(_ context.Context, params domain.NewCollectionParams) (domain.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := domain.NewCollection(params)
	m.collections = append(m.collections, c)
	return c, nil
}

// DeleteCollection resets collection_id on dependent bookmarks, then removes
// the collection. Both effects happen under one lock.
func (m *Memory) DeleteCollection(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := false
	for i := range m.collections {
		if m.collections[i].ID == id && m.collections[i].UserID == userID {
			m.collections = append(m.collections[:i], m.collections[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return domain.ErrNotFound
	}

	for i := range m.bookmarks {
		b := &m.bookmarks[i]
		if b.UserID == userID && b.CollectionID != nil && *b.CollectionID == id {
			b.CollectionID = nil
		}
	}
	return nil
}

func (m *Memory) InsertTag(_ context.Context, tag domain.Tag) (domain.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tags = append(m.tags, tag)
	return tag, nil
}

// DeleteTag removes the tag from every bookmark's tag set, then removes the
// tag itself, under one lock.
func (m *Memory) DeleteTag(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := false
	for i := range m.tags {
		if m.tags[i].ID == id && m.tags[i].UserID == userID {
			m.tags = append(m.tags[:i], m.tags[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return domain.ErrNotFound
	}

	for i := range m.bookmarks {
		b := &m.bookmarks[i]
		if b.UserID != userID || !b.HasTag(id) {
			continue
		}
		tags := make([]string, 0, len(b.Tags)-1)
		for _, t := range b.Tags {
			if t != id {
				tags = append(tags, t)
			}
		}
		b.Tags = tags
	}
	return nil
}

func (m *Memory) CreateUser(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.NewValidationError("email", "already registered")
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *Memory) UserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	email = domain.NormalizeEmail(email)
	for _, u := range m.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *Memory) UserByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := u
	return &copied, nil
}

// cloneBookmark copies a bookmark so callers cannot mutate stored state
// through the shared tags slice.
func cloneBookmark(b domain.Bookmark) domain.Bookmark {
	copied := b
	copied.Tags = append([]string(nil), b.Tags...)
	if b.TrashedAt != nil {
		t := *b.TrashedAt
		copied.TrashedAt = &t
	}
	return copied
}
