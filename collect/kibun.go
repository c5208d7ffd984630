package collect

import (
	"context"
	"fmt"
	"time"

	"github.com/gaurav-prasanna/postpipe/core"
)

// kibunHome is used as the source link; Kibun statuses have no public page.
const kibunHome = "https://www.kibun.social/"

// kibunStatus is the value of a social.kibun.status record.
type kibunStatus struct {
	Emoji     string `json:"emoji"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

func (c *Collector) collectKibun(ctx context.Context, src core.Source) ([]core.Post, error) {
	doc, err := c.resolveHandle(ctx, src.Handle)
	if err != nil {
		return nil, err
	}

	records, err := listRecords[kibunStatus](ctx, c.fetcher, doc, kibunCollection, src.Limit)
	if err != nil {
		return nil, err
	}
	return transformKibun(records, src.Handle, c.loc)
}

func transformKibun(records []record[kibunStatus], handle string, loc *time.Location) ([]core.Post, error) {
	posts := make([]core.Post, 0, len(records))
	for _, r := range records {
		ts, err := core.ParseTimestamp(r.Value.CreatedAt, loc)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", r.URI, err)
		}
		text := r.Value.Emoji + " | " + r.Value.Text
		posts = append(posts, core.Post{
			Timestamp: core.At(ts),
			SourceURI: kibunHome,
			SourceApp: "kibun",
			Author:    handle + " (kibun)",
			Text:      text,
			Tags:      core.FindTags(text),
		})
	}
	return posts, nil
}
