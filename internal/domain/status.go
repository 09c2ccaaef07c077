package domain

import "fmt"

// Status is the lifecycle state of a bookmark.
// Exactly one of the three states holds at any time; permanent delete is not
// a state, it removes the record entirely.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
	StatusTrash    Status = "trash"
)

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusArchived, StatusTrash:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}
