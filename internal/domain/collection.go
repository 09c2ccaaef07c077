package domain

import (
	"time"

	"github.com/google/uuid"
)

// Collection is a named grouping ("folder") of bookmarks.
type Collection struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Count is derived at query time: number of non-trash bookmarks
	// referencing this collection. Never persisted.
	Count int `json:"count"`
}

// DefaultCollectionIcon is used when no icon is chosen.
const DefaultCollectionIcon = "folder"

// collectionIcons is the fixed icon set the presentation layer knows how to
// render. The core only carries the symbolic name.
var collectionIcons = map[string]bool{
	"folder":    true,
	"bookmark":  true,
	"star":      true,
	"heart":     true,
	"code":      true,
	"palette":   true,
	"book-open": true,
	"sparkles":  true,
	"music":     true,
	"camera":    true,
	"globe":     true,
	"terminal":  true,
	"briefcase": true,
	"cloud":     true,
	"layers":    true,
	"zap":       true,
	"coffee":    true,
}

// ValidCollectionIcon reports whether name belongs to the fixed icon set.
func ValidCollectionIcon(name string) bool {
	return collectionIcons[name]
}

// NewCollectionParams holds parameters for creating a new Collection.
type NewCollectionParams struct {
	UserID string
	Name   string
	Icon   string
	Color  string
}

// NewCollection creates a Collection with a generated ID and timestamp.
// An empty icon falls back to the default.
func NewCollection(params NewCollectionParams) Collection {
	icon := params.Icon
	if icon == "" {
		icon = DefaultCollectionIcon
	}

	return Collection{
		ID:        uuid.NewString(),
		UserID:    params.UserID,
		Name:      params.Name,
		Icon:      icon,
		Color:     params.Color,
		CreatedAt: time.Now(),
	}
}
