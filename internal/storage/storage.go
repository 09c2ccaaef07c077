package storage

import (
	"context"

	"github.com/ldrouet/marque/internal/domain"
)

// InitialData is the full working set for one user, fetched once per session.
type InitialData struct {
	Bookmarks   []domain.Bookmark
	Collections []domain.Collection
	Tags        []domain.Tag
}

// Adapter is the persistence collaborator the bookmark store writes through.
// Every method is scoped to a single owner; implementations must never leak
// records across users.
//
// DeleteCollection and DeleteTag perform their cascades (collection_id reset,
// tag removal from bookmark tag sets) atomically on the remote side, so a
// failure leaves the stored data untouched.
type Adapter interface {
	LoadInitialData(ctx context.Context, userID string) (*InitialData, error)

	InsertBookmark(ctx context.Context, params domain.NewBookmarkParams) (domain.Bookmark, error)
	UpdateBookmark(ctx context.Context, bookmark domain.Bookmark) error
	DeleteBookmark(ctx context.Context, userID, id string) error

	InsertCollection(ctx context.Context, params domain.NewCollectionParams) (domain.Collection, error)
	DeleteCollection(ctx context.Context, userID, id string) error

	InsertTag(ctx context.Context, tag domain.Tag) (domain.Tag, error)
	DeleteTag(ctx context.Context, userID, id string) error
}

// UserStore persists user accounts for the session layer. The bookmark store
// never touches it; it only consumes a stable user ID.
type UserStore interface {
	CreateUser(ctx context.Context, user domain.User) error
	UserByEmail(ctx context.Context, email string) (*domain.User, error)
	UserByID(ctx context.Context, id string) (*domain.User, error)
}
