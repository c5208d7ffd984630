// Package render: Text formatter.
// Pulls every hyperlink out of free text and reflows it as a gemtext link
// line, keeping the prose around it as separate paragraphs.
package render

import (
	"regexp"
	"strings"
)

// LinkKind tells which syntax a LinkMatch was written in.
type LinkKind int

const (
	// MarkdownLink is a [label](url) link. The label is dropped on output.
	MarkdownLink LinkKind = iota
	// RawURL is a bare http(s):// token.
	RawURL
)

func (k LinkKind) String() string {
	switch k {
	case MarkdownLink:
		return "markdown"
	case RawURL:
		return "raw"
	default:
		return "unknown"
	}
}

// LinkMatch is one hyperlink found in text. Start and End are byte offsets
// of the whole match.
type LinkMatch struct {
	Kind  LinkKind
	URL   string
	Start int
	End   int
}

// linkRegex tries the Markdown form first so that a Markdown link wins over
// the raw URL inside its parentheses. Each branch has exactly one named
// group; scanLinks dispatches on the name, not the position.
//
// A raw URL ends at any Unicode whitespace. RE2's \s is ASCII only, so the
// class also lists \v, \p{Z} and the control runes unicode.IsSpace accepts.
var linkRegex = regexp.MustCompile(`\[[^\]]+\]\((?P<markdown>[^\)]+)\)|(?P<raw>https?://[^\s\v\p{Z}\x1c-\x1f\x85]+)`)

var (
	markdownGroup = linkRegex.SubexpIndex("markdown")
	rawGroup      = linkRegex.SubexpIndex("raw")
)

// ScanLinks returns the non-overlapping links in text, left to right.
func ScanLinks(text string) []LinkMatch {
	locs := linkRegex.FindAllStringSubmatchIndex(text, -1)
	matches := make([]LinkMatch, 0, len(locs))
	for _, loc := range locs {
		m := LinkMatch{Start: loc[0], End: loc[1]}
		if s := loc[2*markdownGroup]; s >= 0 {
			m.Kind = MarkdownLink
			m.URL = text[s:loc[2*markdownGroup+1]]
		} else {
			m.Kind = RawURL
			m.URL = text[loc[2*rawGroup]:loc[2*rawGroup+1]]
		}
		matches = append(matches, m)
	}
	return matches
}

// FormatLinks converts text into gemtext: each link becomes its own "=> url"
// line and the prose between links becomes trimmed paragraphs, all separated
// by single blank lines. Text without links comes back trimmed and otherwise
// unchanged. The result never ends with a blank separator line.
func FormatLinks(text string) string {
	var lines []string
	last := 0

	for _, m := range ScanLinks(text) {
		if before := strings.TrimSpace(text[last:m.Start]); before != "" {
			lines = append(lines, before, "")
		}
		lines = append(lines, "=> "+m.URL, "")
		last = m.End
	}

	if rest := strings.TrimSpace(text[last:]); rest != "" {
		lines = append(lines, rest)
	}

	// A trailing link leaves a separator behind; the caller adds its own.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return strings.Join(lines, "\n")
}
