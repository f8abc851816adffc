// Package htmltext cleans webhook-supplied HTML bodies into plain text
// suitable for the draft generator.
package htmltext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Clean strips markup from raw text. Non-HTML input passes through
// trimmed; HTML input loses script/style content and is re-joined with
// blank lines between block elements.
func Clean(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !looksLikeHTML(trimmed) {
		return trimmed
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed))
	if err != nil {
		return trimmed
	}

	doc.Find("script, style, noscript").Remove()

	var parts []string
	blocks := doc.Find("p, h1, h2, h3, h4, h5, h6, li, blockquote, pre")
	if blocks.Length() == 0 {
		if text := normalize(doc.Text()); text != "" {
			return text
		}
		return trimmed
	}

	blocks.Each(func(_ int, sel *goquery.Selection) {
		if text := normalize(sel.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	return strings.Join(parts, "\n\n")
}

func looksLikeHTML(s string) bool {
	return strings.Contains(s, "<") && strings.Contains(s, ">")
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
