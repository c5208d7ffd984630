package collect

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/gaurav-prasanna/postpipe/core"
)

type mastodonAccount struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type mastodonStatus struct {
	ID          string  `json:"id"`
	CreatedAt   string  `json:"created_at"`
	URL         string  `json:"url"`
	Content     string  `json:"content"`
	InReplyToID *string `json:"in_reply_to_id"`
	Reblog      *struct {
		ID string `json:"id"`
	} `json:"reblog"`
	Account mastodonAccount `json:"account"`
}

func (c *Collector) collectMastodon(ctx context.Context, src core.Source) ([]core.Post, error) {
	user, instance, err := splitAccount(src.Handle)
	if err != nil {
		return nil, err
	}
	base := c.Scheme + "://" + instance

	lookup, err := endpoint(base, "/api/v1/accounts/lookup", url.Values{"acct": {user}})
	if err != nil {
		return nil, err
	}
	var account mastodonAccount
	if err := c.fetcher.FetchJSON(ctx, lookup, &account); err != nil {
		return nil, fmt.Errorf("looking up %s: %w", src.Handle, err)
	}
	if account.ID == "" {
		return nil, fmt.Errorf("looking up %s: response has no account id", src.Handle)
	}

	statusesURL, err := endpoint(base, "/api/v1/accounts/"+url.PathEscape(account.ID)+"/statuses", url.Values{
		"exclude_replies": {"true"},
		"exclude_reblogs": {"true"},
		"limit":           {strconv.Itoa(src.Limit)},
	})
	if err != nil {
		return nil, err
	}
	var statuses []mastodonStatus
	if err := c.fetcher.FetchJSON(ctx, statusesURL, &statuses); err != nil {
		return nil, fmt.Errorf("listing statuses: %w", err)
	}

	// The server-side filters are not honoured by every instance.
	kept := statuses[:0]
	for _, s := range statuses {
		if s.InReplyToID == nil && s.Reblog == nil {
			kept = append(kept, s)
		}
	}
	c.logger.Debug("filtered mastodon statuses", "handle", src.Handle, "fetched", len(statuses), "kept", len(kept))

	return c.transformMastodon(kept)
}

func (c *Collector) transformMastodon(statuses []mastodonStatus) ([]core.Post, error) {
	posts := make([]core.Post, 0, len(statuses))
	for _, s := range statuses {
		ts, err := core.ParseTimestamp(s.CreatedAt, c.loc)
		if err != nil {
			return nil, fmt.Errorf("status %s: %w", s.ID, err)
		}

		cleaned, err := c.extractor.Extract(s.Content)
		if err != nil {
			return nil, fmt.Errorf("status %s: extract: %w", s.ID, err)
		}
		text, err := c.normalizer.Normalize(cleaned)
		if err != nil {
			return nil, fmt.Errorf("status %s: normalize: %w", s.ID, err)
		}

		posts = append(posts, core.Post{
			Timestamp: core.At(ts),
			SourceURI: s.URL,
			SourceApp: "mastodon",
			Author:    s.Account.Username + " (mastodon)",
			Text:      text,
			Tags:      core.FindTags(text),
		})
	}
	return posts, nil
}
