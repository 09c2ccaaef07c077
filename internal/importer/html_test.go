package importer

import (
	"strings"
	"testing"
)

const sampleExport = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><H3>Development</H3>
    <DL><p>
        <DT><A HREF="https://go.dev" ADD_DATE="1700000000" TAGS="go,programming">Go</A>
        <DT><H3>Frontend</H3>
        <DL><p>
            <DT><A HREF="https://react.dev">React</A>
        </DL><p>
    </DL><p>
    <DT><A HREF="https://example.com" ADD_DATE="1700000001">Example</A>
    <DT><A HREF="https://untitled.example.com"></A>
</DL><p>
`

func TestParseHTML(t *testing.T) {
	bookmarks, err := ParseHTML(strings.NewReader(sampleExport))
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}
	if len(bookmarks) != 4 {
		t.Fatalf("expected 4 bookmarks, got %d", len(bookmarks))
	}

	got := bookmarks[0]
	if got.Title != "Go" || got.URL != "https://go.dev" {
		t.Errorf("unexpected first bookmark: %+v", got)
	}
	if got.Collection != "Development" {
		t.Errorf("expected collection Development, got %q", got.Collection)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "programming" {
		t.Errorf("TAGS attribute not parsed: %v", got.Tags)
	}

	// Nested folders flatten to the innermost name.
	if bookmarks[1].Collection != "Frontend" {
		t.Errorf("expected innermost folder Frontend, got %q", bookmarks[1].Collection)
	}

	// Root-level entries have no collection.
	if bookmarks[2].Collection != "" {
		t.Errorf("root bookmark must have no collection, got %q", bookmarks[2].Collection)
	}

	// Entries without text fall back to the URL as title.
	if bookmarks[3].Title != "https://untitled.example.com" {
		t.Errorf("expected URL fallback title, got %q", bookmarks[3].Title)
	}
}

func TestParseHTML_Empty(t *testing.T) {
	bookmarks, err := ParseHTML(strings.NewReader("<html><body></body></html>"))
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}
	if len(bookmarks) != 0 {
		t.Errorf("expected no bookmarks, got %d", len(bookmarks))
	}
}
