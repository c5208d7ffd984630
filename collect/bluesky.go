package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gaurav-prasanna/postpipe/core"
)

// blueskyPost is the value of an app.bsky.feed.post record.
type blueskyPost struct {
	Text      string          `json:"text"`
	CreatedAt string          `json:"createdAt"`
	Embed     json.RawMessage `json:"embed,omitempty"`
	Reply     json.RawMessage `json:"reply,omitempty"`
}

// standalone is false for replies and for posts that embed media, quotes
// or link cards.
func (p blueskyPost) standalone() bool {
	return len(p.Embed) == 0 && len(p.Reply) == 0
}

func (c *Collector) collectBluesky(ctx context.Context, src core.Source) ([]core.Post, error) {
	doc, err := c.resolveHandle(ctx, src.Handle)
	if err != nil {
		return nil, err
	}

	records, err := listRecords[blueskyPost](ctx, c.fetcher, doc, blueskyCollection, src.Limit)
	if err != nil {
		return nil, err
	}

	kept := records[:0]
	for _, r := range records {
		if r.Value.standalone() {
			kept = append(kept, r)
		}
	}
	c.logger.Debug("filtered bluesky records", "handle", src.Handle, "fetched", len(records), "kept", len(kept))

	return transformBluesky(kept, src.Handle, c.loc)
}

func transformBluesky(records []record[blueskyPost], handle string, loc *time.Location) ([]core.Post, error) {
	posts := make([]core.Post, 0, len(records))
	for _, r := range records {
		ts, err := core.ParseTimestamp(r.Value.CreatedAt, loc)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", r.URI, err)
		}
		posts = append(posts, core.Post{
			Timestamp: core.At(ts),
			SourceURI: atURIToWeb(r.URI),
			SourceApp: "bluesky",
			Author:    handle + " (bluesky)",
			Text:      r.Value.Text,
			Tags:      core.FindTags(r.Value.Text),
		})
	}
	return posts, nil
}
