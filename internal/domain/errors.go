package domain

import "errors"

// Failure taxonomy for a single run. Each error is attached with %w at the
// point of failure and matched with errors.Is by the orchestrator; none of
// them abort a run.
var (
	// ErrFeedUnreachable marks a feed URL that could not be fetched at all.
	// The source is skipped for the current cycle.
	ErrFeedUnreachable = errors.New("feed unreachable")

	// ErrFeedMalformed marks a feed payload that fetched fine but could not
	// be parsed as RSS/Atom. The source is skipped for the current cycle.
	ErrFeedMalformed = errors.New("feed malformed")

	// ErrExtraction marks a single entry whose article page could not be
	// fetched or yielded no usable body. Only that entry is skipped.
	ErrExtraction = errors.New("article extraction failed")

	// ErrStorage marks a failed write of the article file or its ledger row.
	// The entry must not be marked seen so the next run retries it.
	ErrStorage = errors.New("storage failure")
)
