package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Tag is a named label, many-to-many with bookmarks.
// Names are unique per user, compared case-insensitively.
type Tag struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Color  string `json:"color,omitempty"`
}

// NormalizeTagName lowercases and trims a tag name for duplicate detection.
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NewTag creates a Tag with a generated ID.
func NewTag(userID, name, color string) Tag {
	return Tag{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   name,
		Color:  color,
	}
}
