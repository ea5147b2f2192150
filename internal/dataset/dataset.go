// Package dataset loads ticket, call and survey batches from CSV exports.
// Columns are located by header name so exports with reordered or extra
// columns still load; free-text fields exported from web ticketing tools
// may carry HTML markup, which is stripped at load time.
package dataset

import (
	"strings"

	"golang.org/x/net/html"
)

// timeLayouts are tried in order when parsing date columns.
var timeLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// stripMarkup extracts the text content from an HTML-bearing field.
// Plain text passes through unchanged.
func stripMarkup(s string) string {
	if !strings.ContainsRune(s, '<') {
		return strings.TrimSpace(s)
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Fallback to string if parsing fails
		return strings.TrimSpace(s)
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}

// headerIndex maps lower-cased header names to column positions.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx
}

// field returns the named column's value for a record, empty when the
// column is absent or the record is short.
func field(record []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "si", "sí":
		return true
	}
	return false
}
