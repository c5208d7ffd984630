// Package render provides output renderers for the postpipe pipeline.
// This file implements the gemtext day-document renderer.
package render

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gaurav-prasanna/postpipe/core"
)

const (
	dayLayout  = "2006-01-02"
	timeLayout = "15:04:05 (MST)"

	// undatedDay heads the group of posts that have no timestamp.
	undatedDay = "0001-01-01"

	headingPrefix = "# "
	tagsHeader    = "*tags used in this post:*"
)

// GemtextRenderer renders posts as one gemtext document per day.
type GemtextRenderer struct{}

// NewGemtextRenderer creates a GemtextRenderer.
func NewGemtextRenderer() *GemtextRenderer {
	return &GemtextRenderer{}
}

// Render returns one document per calendar day, oldest day first.
func (r *GemtextRenderer) Render(posts []core.Post) []string {
	return RenderDays(posts)
}

// Extension returns the file extension for gemtext output.
func (r *GemtextRenderer) Extension() string {
	return ".gmi"
}

// RenderPost renders a single post block.
func RenderPost(p core.Post) string {
	var lines []string

	if p.HasTimestamp() {
		lines = append(lines, fmt.Sprintf("=> %s %s", p.SourceURI, p.Timestamp.Format(timeLayout)), "")
	}

	if p.Text != "" {
		lines = append(lines, FormatLinks(p.Text), "")
	}

	if p.Author != "" {
		lines = append(lines, "post author: "+p.Author, "")
	}

	if hasTags(p.Tags) {
		lines = append(lines, tagsHeader)
		for _, tag := range p.Tags {
			if tag != "" {
				lines = append(lines, "#"+tag)
			}
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// hasTags is false for an empty list and for a list of only empty names.
func hasTags(tags []string) bool {
	return slices.ContainsFunc(tags, func(t string) bool { return t != "" })
}

// RenderDays sorts posts, groups them by calendar day and renders one
// document per day. The output is the same for any ordering of the input.
func RenderDays(posts []core.Post) []string {
	if len(posts) == 0 {
		return nil
	}

	sorted := slices.Clone(posts)
	slices.SortStableFunc(sorted, comparePosts)

	var docs []string
	for start := 0; start < len(sorted); {
		day := dayKey(sorted[start])
		end := start + 1
		for end < len(sorted) && dayKey(sorted[end]) == day {
			end++
		}
		docs = append(docs, renderDay(day, sorted[start:end]))
		start = end
	}
	return docs
}

// RenderAll renders every day document and joins them into one.
func RenderAll(posts []core.Post) string {
	return strings.Join(RenderDays(posts), "\n")
}

func renderDay(day string, posts []core.Post) string {
	blocks := make([]string, 0, len(posts))
	for _, p := range posts {
		blocks = append(blocks, RenderPost(p))
	}
	return headingPrefix + day + "\n\n" + strings.Join(blocks, "\n")
}

func dayKey(p core.Post) string {
	if !p.HasTimestamp() {
		return undatedDay
	}
	return p.Timestamp.Format(dayLayout)
}

// comparePosts orders by timestamp, untimed posts first. Equal timestamps
// fall back to the remaining fields so the order never depends on input order.
func comparePosts(a, b core.Post) int {
	var byTime int
	switch {
	case a.HasTimestamp() && b.HasTimestamp():
		byTime = a.Timestamp.Compare(*b.Timestamp)
	case a.HasTimestamp():
		byTime = 1
	case b.HasTimestamp():
		byTime = -1
	}
	return cmp.Or(
		byTime,
		strings.Compare(a.SourceApp, b.SourceApp),
		strings.Compare(a.SourceURI, b.SourceURI),
		strings.Compare(a.Author, b.Author),
		strings.Compare(a.Text, b.Text),
		slices.Compare(a.Tags, b.Tags),
	)
}

// ErrNoHeading is returned by DayOf for documents without a day heading.
var ErrNoHeading = errors.New("document has no day heading")

// DayOf returns the YYYY-MM-DD date from a day document's heading line.
func DayOf(doc string) (string, error) {
	const dayLen = len(dayLayout)
	if !strings.HasPrefix(doc, headingPrefix) || len(doc) < len(headingPrefix)+dayLen {
		return "", ErrNoHeading
	}
	day := doc[len(headingPrefix) : len(headingPrefix)+dayLen]
	for i := 0; i < dayLen; i++ {
		c := day[i]
		if i == 4 || i == 7 {
			if c != '-' {
				return "", fmt.Errorf("%w: %q", ErrNoHeading, day)
			}
			continue
		}
		if c < '0' || c > '9' {
			return "", fmt.Errorf("%w: %q", ErrNoHeading, day)
		}
	}
	return day, nil
}
