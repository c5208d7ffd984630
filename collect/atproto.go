// Package collect: AT Protocol helpers shared by the Bluesky and Kibun adapters.
package collect

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/gaurav-prasanna/postpipe/core"
)

const (
	defaultMiniDocURL = "https://slingshot.microcosm.blue/xrpc/com.bad-example.identity.resolveMiniDoc"

	blueskyCollection = "app.bsky.feed.post"
	kibunCollection   = "social.kibun.status"
)

// miniDoc is the identity summary returned by the mini-doc resolver.
type miniDoc struct {
	DID    string `json:"did"`
	Handle string `json:"handle"`
	PDS    string `json:"pds"`
}

// record is one entry of com.atproto.repo.listRecords.
type record[T any] struct {
	URI   string `json:"uri"`
	CID   string `json:"cid"`
	Value T      `json:"value"`
}

type listRecordsResponse[T any] struct {
	Records []record[T] `json:"records"`
	Cursor  string      `json:"cursor"`
}

// resolveHandle looks up the DID and PDS for an AT Protocol handle.
func (c *Collector) resolveHandle(ctx context.Context, handle string) (miniDoc, error) {
	u, err := endpoint(c.MiniDocURL, "", url.Values{"identifier": {handle}})
	if err != nil {
		return miniDoc{}, err
	}

	var doc miniDoc
	if err := c.fetcher.FetchJSON(ctx, u, &doc); err != nil {
		return miniDoc{}, fmt.Errorf("resolving %s: %w", handle, err)
	}
	if doc.DID == "" || doc.PDS == "" {
		return miniDoc{}, fmt.Errorf("resolving %s: response has no did or pds", handle)
	}
	return doc, nil
}

// listRecords fetches up to limit records of collection from the account's PDS.
func listRecords[T any](ctx context.Context, f core.Fetcher, doc miniDoc, collection string, limit int) ([]record[T], error) {
	u, err := endpoint(doc.PDS, "/xrpc/com.atproto.repo.listRecords", url.Values{
		"repo":       {doc.DID},
		"collection": {collection},
		"limit":      {strconv.Itoa(limit)},
	})
	if err != nil {
		return nil, err
	}

	var resp listRecordsResponse[T]
	if err := f.FetchJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("listing %s records: %w", collection, err)
	}
	return resp.Records, nil
}
