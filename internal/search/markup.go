// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CleanMarkup returns the visible text of s with whitespace collapsed.
// Titles and abstracts from Semantic Scholar and OpenAlex regularly carry
// inline HTML (<i>, <sub>, JATS tags, MathML) and entities; arXiv text
// carries hard line breaks.
func CleanMarkup(s string) string {
	if strings.ContainsAny(s, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
		if err == nil {
			s = doc.Text()
		}
	}
	return strings.Join(strings.Fields(s), " ")
}
