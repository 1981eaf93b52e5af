package ports

import (
	"context"

	"newsarchive/internal/domain"
)

// Poller fetches and parses one feed into its current entries. Errors wrap
// domain.ErrFeedUnreachable or domain.ErrFeedMalformed.
type Poller interface {
	Poll(ctx context.Context, source domain.FeedSource) ([]domain.FeedEntry, error)
}

// Extractor resolves an entry link to the full article content. Errors wrap
// domain.ErrExtraction.
type Extractor interface {
	Extract(ctx context.Context, link string) (domain.Extraction, error)
}

// ArticleStore persists one captured article and reports the path it landed
// at. Errors wrap domain.ErrStorage.
type ArticleStore interface {
	Write(record domain.ArticleRecord) (string, error)
}

// DedupIndex gates entries on their stable id. MarkSeen durably appends the
// row before the id becomes visible to HasSeen, so a crash in between can
// only lose the in-memory state, never the ledger row.
type DedupIndex interface {
	HasSeen(id string) bool
	MarkSeen(row domain.IndexRow) error
}

// Delayer blocks between network-bound steps to keep the request pattern
// polite.
type Delayer interface {
	Wait(ctx context.Context)
}
