package exporter

import (
	"fmt"
	"html"
	"strings"

	"github.com/ldrouet/marque/internal/domain"
)

// ExportHTML renders bookmarks to Netscape bookmark HTML, the interchange
// format browsers import. Collections become one level of folders; trashed
// bookmarks are skipped; tag IDs are resolved to names in a TAGS attribute.
func ExportHTML(bookmarks []domain.Bookmark, collections []domain.Collection, tags []domain.Tag) string {
	tagNames := make(map[string]string, len(tags))
	for _, t := range tags {
		tagNames[t.ID] = t.Name
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	for _, c := range collections {
		fmt.Fprintf(&b, "    <DT><H3>%s</H3>\n", html.EscapeString(c.Name))
		b.WriteString("    <DL><p>\n")
		for _, bm := range bookmarks {
			if bm.Status == domain.StatusTrash || bm.CollectionID == nil || *bm.CollectionID != c.ID {
				continue
			}
			writeBookmark(&b, bm, tagNames, 2)
		}
		b.WriteString("    </DL><p>\n")
	}

	// Uncategorized bookmarks at root level
	for _, bm := range bookmarks {
		if bm.Status == domain.StatusTrash || bm.CollectionID != nil {
			continue
		}
		writeBookmark(&b, bm, tagNames, 1)
	}

	b.WriteString("</DL><p>\n")
	return b.String()
}

func writeBookmark(b *strings.Builder, bm domain.Bookmark, tagNames map[string]string, indent int) {
	prefix := strings.Repeat("    ", indent)

	names := make([]string, 0, len(bm.Tags))
	for _, id := range bm.Tags {
		if name, ok := tagNames[id]; ok {
			names = append(names, name)
		}
	}

	fmt.Fprintf(b, "%s<DT><A HREF=\"%s\" ADD_DATE=\"%d\"", prefix,
		html.EscapeString(bm.URL), bm.CreatedAt.Unix())
	if len(names) > 0 {
		fmt.Fprintf(b, " TAGS=\"%s\"", html.EscapeString(strings.Join(names, ",")))
	}
	fmt.Fprintf(b, ">%s</A>\n", html.EscapeString(bm.Title))
}
