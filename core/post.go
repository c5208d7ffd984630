package core

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// timestampLayout is the upstream createdAt format: UTC with a literal Z and
// an optional fractional second.
const timestampLayout = "2006-01-02T15:04:05.999999999Z"

// ErrMalformedTimestamp is returned when an upstream timestamp does not match
// timestampLayout.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// Post is the platform-agnostic form of a single post.
// It is built once by an adapter and not modified afterwards.
type Post struct {
	// Timestamp is nil when the source gave no usable time.
	Timestamp *time.Time

	SourceURI string
	SourceApp string
	Author    string

	// Text is the post body with platform markup already converted.
	Text string

	// Tags are hashtag names without the leading '#', in extraction order.
	Tags []string
}

// HasTimestamp reports whether the post carries a timestamp.
func (p Post) HasTimestamp() bool {
	return p.Timestamp != nil
}

// At returns a pointer to t, for filling Post.Timestamp.
func At(t time.Time) *time.Time {
	return &t
}

// ParseTimestamp parses an upstream UTC timestamp and converts it to loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc), nil
}

var hashtagRegex = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)

// FindTags returns every hashtag name in text, in order of appearance.
func FindTags(text string) []string {
	matches := hashtagRegex.FindAllStringSubmatch(text, -1)
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1])
	}
	return tags
}
