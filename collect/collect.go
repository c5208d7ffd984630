// Package collect provides the platform adapters that turn a configured
// source into normalized posts. Each adapter fetches the account's recent
// records, drops the ones that do not stand on their own (replies, reposts,
// embeds), and maps the rest onto core.Post in the display timezone.
package collect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gaurav-prasanna/postpipe/core"
)

// ErrUnknownCollector is returned for a source type no adapter handles.
var ErrUnknownCollector = errors.New("unknown collector type")

// Collector dispatches sources to the matching platform adapter.
type Collector struct {
	fetcher    core.Fetcher
	extractor  core.Extractor
	normalizer core.Normalizer
	loc        *time.Location
	logger     *slog.Logger

	// MiniDocURL is the endpoint resolving AT Protocol handles to a DID and PDS.
	MiniDocURL string

	// Scheme is used to reach Mastodon instances ("https" unless testing).
	Scheme string
}

type handlerFunc func(ctx context.Context, src core.Source) ([]core.Post, error)

// New creates a Collector. Timestamps are converted to loc.
func New(
	fetcher core.Fetcher,
	extractor core.Extractor,
	normalizer core.Normalizer,
	loc *time.Location,
	logger *slog.Logger,
) *Collector {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Collector{
		fetcher:    fetcher,
		extractor:  extractor,
		normalizer: normalizer,
		loc:        loc,
		logger:     logger,
		MiniDocURL: defaultMiniDocURL,
		Scheme:     "https",
	}
}

// Collect fetches and normalizes the posts for one source.
func (c *Collector) Collect(ctx context.Context, src core.Source) ([]core.Post, error) {
	handlers := map[string]handlerFunc{
		"bluesky":  c.collectBluesky,
		"kibun":    c.collectKibun,
		"mastodon": c.collectMastodon,
	}

	handler, ok := handlers[src.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollector, src.Type)
	}

	posts, err := handler(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%s collector for %s: %w", src.Type, src.Handle, err)
	}
	return posts, nil
}
