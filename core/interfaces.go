// Package core defines the post model and pipeline interfaces for postpipe.
// Each stage of the pipeline is a clean, testable interface.
package core

import "context"

// Source is one configured collector: which platform to poll, for whom,
// and how many records to ask for.
type Source struct {
	Type   string
	Handle string
	Limit  int
}

// Fetcher retrieves a JSON document from a URL and decodes it into v.
type Fetcher interface {
	FetchJSON(ctx context.Context, url string, v any) error
}

// Extractor strips noise from a platform's HTML post body.
type Extractor interface {
	Extract(html string) (string, error)
}

// Normalizer converts cleaned HTML into Markdown-flavoured plain text.
type Normalizer interface {
	Normalize(html string) (string, error)
}

// Renderer turns a post collection into one document per calendar day.
type Renderer interface {
	Render(posts []Post) []string
	// Extension returns the file extension for this renderer (e.g. ".gmi").
	Extension() string
}
