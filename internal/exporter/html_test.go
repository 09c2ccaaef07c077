package exporter

import (
	"strings"
	"testing"
	"time"

	"gotest.tools/v3/golden"

	"github.com/ldrouet/marque/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestExportHTML(t *testing.T) {
	collections := []domain.Collection{
		{ID: "c1", UserID: "u1", Name: "Development"},
	}
	tags := []domain.Tag{
		{ID: "t1", UserID: "u1", Name: "go"},
		{ID: "t2", UserID: "u1", Name: "web"},
	}
	trashedAt := time.Unix(1700000002, 0)
	bookmarks := []domain.Bookmark{
		{
			ID: "b1", UserID: "u1", Title: "Go Blog", URL: "https://go.dev/blog",
			CollectionID: strPtr("c1"), Tags: []string{"t1"},
			Status: domain.StatusActive, CreatedAt: time.Unix(1700000000, 0),
		},
		{
			ID: "b2", UserID: "u1", Title: "Example <escaped>", URL: "https://example.com",
			Tags:   []string{"t1", "t2"},
			Status: domain.StatusActive, CreatedAt: time.Unix(1700000001, 0),
		},
		{
			ID: "b3", UserID: "u1", Title: "Gone", URL: "https://gone.example.com",
			Status: domain.StatusTrash, CreatedAt: time.Unix(1700000002, 0), TrashedAt: &trashedAt,
		},
	}

	got := ExportHTML(bookmarks, collections, tags)
	golden.Assert(t, got, "export.html")
}

func TestExportHTML_SkipsTrashed(t *testing.T) {
	trashedAt := time.Unix(1700000000, 0)
	got := ExportHTML([]domain.Bookmark{
		{
			ID: "b1", UserID: "u1", Title: "Gone", URL: "https://gone.example.com",
			Status: domain.StatusTrash, CreatedAt: trashedAt, TrashedAt: &trashedAt,
		},
	}, nil, nil)

	if strings.Contains(got, "gone.example.com") {
		t.Error("trashed bookmarks must not be exported")
	}
}

func TestExportHTML_UnknownTagIDsDropped(t *testing.T) {
	got := ExportHTML([]domain.Bookmark{
		{
			ID: "b1", UserID: "u1", Title: "Example", URL: "https://example.com",
			Tags:   []string{"deleted-tag"},
			Status: domain.StatusActive, CreatedAt: time.Unix(1700000000, 0),
		},
	}, nil, nil)

	if strings.Contains(got, "TAGS=") {
		t.Error("unknown tag IDs must not produce a TAGS attribute")
	}
}
