// Package collect: URL rules.
// Helpers to build API endpoints and map record identifiers to web URLs.
package collect

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	atURIPrefix      = "at://"
	blueskyWebPrefix = "https://reddwarf.app/profile/"
)

// atURIToWeb maps at://<did>/app.bsky.feed.post/<rkey> onto the web viewer
// URL https://reddwarf.app/profile/<did>/post/<rkey>.
func atURIToWeb(atURI string) string {
	web := strings.Replace(atURI, atURIPrefix, blueskyWebPrefix, 1)
	return strings.Replace(web, "/"+blueskyCollection+"/", "/post/", 1)
}

// splitAccount splits a Mastodon account "user@instance" (an optional
// leading '@' is allowed) into its parts.
func splitAccount(handle string) (user, instance string, err error) {
	user, instance, ok := strings.Cut(strings.TrimPrefix(handle, "@"), "@")
	if !ok || user == "" || instance == "" || strings.ContainsAny(instance, "@/") {
		return "", "", fmt.Errorf("invalid mastodon account %q: want user@instance", handle)
	}
	return user, instance, nil
}

// endpoint appends path and query to base, keeping any path base already has.
func endpoint(base string, path string, query url.Values) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing base URL %q: %w", base, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("base URL %q must include scheme and host", base)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	u.RawQuery = query.Encode()
	return u.String(), nil
}
