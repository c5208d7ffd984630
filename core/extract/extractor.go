// Package extract implements the Extractor interface.
// It cleans a Mastodon status body before Markdown conversion by:
//  1. Removing noise elements (scripts, media, hidden link fragments)
//  2. Unwrapping hashtag links so tags stay in the prose
package extract

import (
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// noiseSelectors are HTML elements removed before extraction.
// Mastodon wraps the scheme and tail of long URLs in span.invisible; the
// href still carries the full URL.
var noiseSelectors = []string{
	"script", "style", "noscript",
	"img", "picture", "figure", "figcaption",
	"iframe", "video", "audio",
	"svg", "canvas",
	"form", "button", "input", "select", "textarea",
	"span.invisible",
}

// hashtagSelector matches Mastodon hashtag anchors.
const hashtagSelector = "a.hashtag, a[rel~=tag]"

// HTMLExtractor strips noise from a status body and returns the cleaned fragment.
type HTMLExtractor struct{}

// New creates an HTMLExtractor.
func New() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Extract takes a status HTML fragment and returns it without noise
// elements, with hashtag anchors replaced by their plain "#tag" text.
func (e *HTMLExtractor) Extract(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	doc.Find(hashtagSelector).Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml(html.EscapeString(s.Text()))
	})

	result, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("serializing content: %w", err)
	}
	return strings.TrimSpace(result), nil
}
