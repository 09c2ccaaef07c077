package domain

import (
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Bookmark represents a saved link owned by a single user.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier, assigned at creation.
	ID string `json:"id"`

	// UserID scopes the bookmark to its owner.
	UserID string `json:"userId"`

	// ─────────────────────────────
	// User-editable fields
	// ─────────────────────────────

	// Title and URL are required (non-empty) on create and update.
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`

	// Favicon is a user-supplied icon reference, or derived from URL when empty.
	Favicon string `json:"favicon"`

	// HasDarkIcon hints that the favicon should be inverted on dark themes.
	HasDarkIcon bool `json:"hasDarkIcon"`

	// CollectionID is nil for uncategorized bookmarks. When non-nil it must
	// reference an existing collection owned by the same user.
	CollectionID *string `json:"collectionId"`

	// Tags is a set of tag IDs. No duplicates, order not significant.
	Tags []string `json:"tags"`

	// ─────────────────────────────
	// Lifecycle
	// ─────────────────────────────

	// IsFavorite is orthogonal to Status and survives archive/trash/restore.
	IsFavorite bool `json:"isFavorite"`

	// Status is one of active, archived, trash.
	Status Status `json:"status"`

	// CreatedAt is set at creation, immutable.
	CreatedAt time.Time `json:"createdAt"`

	// TrashedAt is set when the bookmark enters trash and cleared on restore.
	// The trash purger uses it to decide when a bookmark is old enough to drop.
	TrashedAt *time.Time `json:"trashedAt,omitempty"`
}

// NewBookmarkParams holds parameters for creating a new Bookmark.
type NewBookmarkParams struct {
	UserID       string
	Title        string
	URL          string
	Description  string
	Favicon      string
	HasDarkIcon  bool
	CollectionID *string
	Tags         []string
}

// NewBookmark creates an active Bookmark with a generated ID and timestamp.
// Title and URL are validated by the store before this is called.
func NewBookmark(params NewBookmarkParams) Bookmark {
	tags := dedupeTags(params.Tags)

	favicon := params.Favicon
	if favicon == "" {
		favicon = DeriveFavicon(params.URL)
	}

	return Bookmark{
		ID:           uuid.NewString(),
		UserID:       params.UserID,
		Title:        params.Title,
		URL:          params.URL,
		Description:  params.Description,
		Favicon:      favicon,
		HasDarkIcon:  params.HasDarkIcon,
		CollectionID: params.CollectionID,
		Tags:         tags,
		IsFavorite:   false,
		Status:       StatusActive,
		CreatedAt:    time.Now(),
	}
}

// HasTag reports whether the bookmark carries the given tag ID.
func (b *Bookmark) HasTag(tagID string) bool {
	for _, t := range b.Tags {
		if t == tagID {
			return true
		}
	}
	return false
}

// HasAllTags reports whether the bookmark carries every given tag ID.
func (b *Bookmark) HasAllTags(tagIDs []string) bool {
	for _, id := range tagIDs {
		if !b.HasTag(id) {
			return false
		}
	}
	return true
}

// DeriveFavicon builds a favicon URL from the bookmark URL host.
// Returns empty string when the URL has no usable host.
func DeriveFavicon(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return "https://" + u.Host + "/favicon.ico"
}

// dedupeTags returns a copy of tagIDs with duplicates removed, order preserved.
func dedupeTags(tagIDs []string) []string {
	out := make([]string, 0, len(tagIDs))
	seen := make(map[string]bool, len(tagIDs))
	for _, id := range tagIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
