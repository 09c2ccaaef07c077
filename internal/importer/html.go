package importer

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ParsedBookmark is a bookmark pulled from a Netscape bookmark file,
// before it is written into a user's working set.
type ParsedBookmark struct {
	Title      string
	URL        string
	Collection string   // containing folder name, empty for root level
	Tags       []string // from the TAGS attribute browsers emit on export
}

// ParseHTML parses Netscape bookmark HTML (the format every browser exports)
// and returns the bookmarks it contains. Folder nesting is flattened to the
// innermost folder name, since collections have no hierarchy here.
func ParseHTML(r io.Reader) ([]ParsedBookmark, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var bookmarks []ParsedBookmark

	// Track the current folder stack; the innermost name wins.
	var folderStack []string
	var pendingFolder string

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				if name := getTextContent(n); name != "" {
					// Pushed when the folder's DL opens.
					pendingFolder = name
				}
				return

			case "a":
				href := getAttr(n, "href")
				if href == "" {
					return
				}

				title := getTextContent(n)
				if title == "" {
					title = href
				}

				var collection string
				if len(folderStack) > 0 {
					collection = folderStack[len(folderStack)-1]
				}

				bookmarks = append(bookmarks, ParsedBookmark{
					Title:      title,
					URL:        href,
					Collection: collection,
					Tags:       splitTags(getAttr(n, "tags")),
				})
				return

			case "dl":
				pushed := false
				if pendingFolder != "" {
					folderStack = append(folderStack, pendingFolder)
					pendingFolder = ""
					pushed = true
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushed {
					folderStack = folderStack[:len(folderStack)-1]
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return bookmarks, nil
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
