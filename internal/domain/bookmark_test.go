package domain

import "testing"

func TestNewBookmark(t *testing.T) {
	b := NewBookmark(NewBookmarkParams{
		UserID: "u1",
		Title:  "Example",
		URL:    "https://example.com/page",
		Tags:   []string{"t1", "t1", "", "t2"},
	})

	if b.ID == "" {
		t.Error("expected generated ID")
	}
	if b.Status != StatusActive {
		t.Errorf("expected active status, got %s", b.Status)
	}
	if b.IsFavorite {
		t.Error("new bookmarks are not favorites")
	}
	if b.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if len(b.Tags) != 2 {
		t.Errorf("tags must be deduplicated and cleaned, got %v", b.Tags)
	}
}

func TestDeriveFavicon(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"plain host", "https://example.com/some/page", "https://example.com/favicon.ico"},
		{"host with port", "http://localhost:3000/app", "https://localhost:3000/favicon.ico"},
		{"no host", "not-a-url", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveFavicon(tt.url); got != tt.want {
				t.Errorf("DeriveFavicon(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestNewBookmark_FaviconFallback(t *testing.T) {
	b := NewBookmark(NewBookmarkParams{Title: "x", URL: "https://example.com"})
	if b.Favicon != "https://example.com/favicon.ico" {
		t.Errorf("empty favicon must be derived, got %q", b.Favicon)
	}

	b = NewBookmark(NewBookmarkParams{Title: "x", URL: "https://example.com", Favicon: "https://cdn.example.com/icon.png"})
	if b.Favicon != "https://cdn.example.com/icon.png" {
		t.Errorf("explicit favicon must win, got %q", b.Favicon)
	}
}

func TestHasAllTags(t *testing.T) {
	b := Bookmark{Tags: []string{"t1", "t2", "t3"}}

	if !b.HasAllTags([]string{"t1", "t3"}) {
		t.Error("expected subset match")
	}
	if b.HasAllTags([]string{"t1", "t4"}) {
		t.Error("missing tag must fail the AND match")
	}
	if !b.HasAllTags(nil) {
		t.Error("empty tag set matches everything")
	}
}
