package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"newsarchive/internal/domain"
	"newsarchive/internal/ports"
)

const userAgent = "newsarchive/1.0"

// Poller fetches a feed URL over HTTP and parses the payload with gofeed.
// The fetch and the parse are separate steps so transport failures and
// malformed payloads surface as distinct errors.
type Poller struct {
	client *http.Client
	logger *slog.Logger
}

var _ ports.Poller = (*Poller)(nil)

// NewPoller wires an HTTP client; a nil client gets a 20s-timeout default.
func NewPoller(client *http.Client, log *slog.Logger) *Poller {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Poller{client: client, logger: log}
}

// Poll returns the feed's current entries in feed order. Entries whose
// published timestamp is absent or unparseable are still returned, with a
// zero Published; the caller decides the fallback.
func (p *Poller) Poll(ctx context.Context, src domain.FeedSource) ([]domain.FeedEntry, error) {
	p.logger.Debug("fetching feed", "source", src.Name, "url", src.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request for %s: %v", domain.ErrFeedUnreachable, src.URL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", domain.ErrFeedUnreachable, src.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", domain.ErrFeedUnreachable, src.URL, resp.Status)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrFeedMalformed, src.URL, err)
	}

	entries := make([]domain.FeedEntry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Link == "" {
			continue
		}

		var published time.Time
		switch {
		case item.PublishedParsed != nil:
			published = *item.PublishedParsed
		case item.UpdatedParsed != nil:
			published = *item.UpdatedParsed
		}

		entries = append(entries, domain.FeedEntry{
			Link:      item.Link,
			Title:     item.Title,
			Published: published,
		})
	}

	return entries, nil
}
