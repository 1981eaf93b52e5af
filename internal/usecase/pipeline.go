package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"newsarchive/internal/domain"
	"newsarchive/internal/ports"
)

// PipelineDeps wires all driven adapters into the ingestion pipeline.
type PipelineDeps struct {
	Sources   []domain.FeedSource
	Poller    ports.Poller
	Extractor ports.Extractor
	Store     ports.ArticleStore
	Index     ports.DedupIndex
	Delayer   ports.Delayer
	Logger    *slog.Logger
	Now       func() time.Time
}

// Pipeline runs one complete ingestion pass: every source once, every entry
// gated through the dedup index, strictly sequential.
type Pipeline struct {
	sources   []domain.FeedSource
	poller    ports.Poller
	extractor ports.Extractor
	store     ports.ArticleStore
	index     ports.DedupIndex
	delayer   ports.Delayer
	logger    *slog.Logger
	now       func() time.Time

	madeNetworkCall bool
}

// SourceReport is the per-source outcome of a run.
type SourceReport struct {
	Source   string
	Captured int
	Skipped  int
	Failed   int
	PollErr  error
}

// RunReport summarizes one complete pass.
type RunReport struct {
	Sources []SourceReport
}

// Totals sums the per-source counters.
func (r RunReport) Totals() (captured, skipped, failed int) {
	for _, s := range r.Sources {
		captured += s.Captured
		skipped += s.Skipped
		failed += s.Failed
	}
	return captured, skipped, failed
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) (*Pipeline, error) {
	if deps.Poller == nil || deps.Extractor == nil || deps.Store == nil ||
		deps.Index == nil || deps.Delayer == nil {
		return nil, fmt.Errorf("pipeline: all adapters must be provided")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	return &Pipeline{
		sources:   deps.Sources,
		poller:    deps.Poller,
		extractor: deps.Extractor,
		store:     deps.Store,
		index:     deps.Index,
		delayer:   deps.Delayer,
		logger:    deps.Logger,
		now:       deps.Now,
	}, nil
}

// Run walks every source in registry order and captures each unseen entry.
// Network and parse failures are downgraded to logged skips at the smallest
// scope that contains them, so the pass always completes; the report says
// what happened where.
func (p *Pipeline) Run(ctx context.Context) RunReport {
	p.madeNetworkCall = false
	report := RunReport{Sources: make([]SourceReport, 0, len(p.sources))}

	for _, src := range p.sources {
		report.Sources = append(report.Sources, p.processSource(ctx, src))
	}

	captured, skipped, failed := report.Totals()
	p.logger.Info("run complete",
		"sources", len(p.sources),
		"captured", captured,
		"skipped", skipped,
		"failed", failed,
	)
	return report
}

func (p *Pipeline) processSource(ctx context.Context, src domain.FeedSource) SourceReport {
	rep := SourceReport{Source: src.Name}

	p.logger.Info("polling feed", "source", src.Name, "url", src.URL)

	p.pause(ctx)
	entries, err := p.poller.Poll(ctx, src)
	if err != nil {
		p.logger.Error("feed poll failed, skipping source", "source", src.Name, "error", err)
		rep.PollErr = err
		return rep
	}

	for i, entry := range entries {
		p.logger.Debug("processing entry",
			"source", src.Name,
			"entry", fmt.Sprintf("%d/%d", i+1, len(entries)),
			"link", entry.Link,
		)

		id := entry.ID()
		if p.index.HasSeen(id) {
			p.logger.Debug("entry already captured", "source", src.Name, "id", id)
			rep.Skipped++
			continue
		}

		if p.captureEntry(ctx, src, entry, id) {
			rep.Captured++
		} else {
			rep.Failed++
		}
	}

	p.logger.Info("source done",
		"source", src.Name,
		"captured", rep.Captured,
		"skipped", rep.Skipped,
		"failed", rep.Failed,
	)
	return rep
}

// captureEntry performs one capture: extract, write the article file, append
// the index row, then expose the id to the dedup gate. Write order matters:
// a ledger row must never point at a file that was not fully written, and a
// failed write must leave the entry unseen so the next run retries it.
func (p *Pipeline) captureEntry(ctx context.Context, src domain.FeedSource, entry domain.FeedEntry, id string) bool {
	p.pause(ctx)
	extraction, err := p.extractor.Extract(ctx, entry.Link)
	if err != nil {
		p.logger.Warn("extraction failed, skipping entry",
			"source", src.Name, "link", entry.Link, "error", err)
		return false
	}

	fetchedAt := p.now().UTC()

	published := entry.Published
	if published.IsZero() {
		published = extraction.Published
	}
	if published.IsZero() {
		published = fetchedAt
		p.logger.Warn("no publication time reported, falling back to fetch time",
			"source", src.Name, "link", entry.Link, "fetched_at", fetchedAt)
	}

	title := entry.Title
	if title == "" {
		title = extraction.Title
	}

	record := domain.ArticleRecord{
		ID:        id,
		Source:    src.Name,
		URL:       entry.Link,
		Title:     title,
		Text:      extraction.Text,
		Published: published,
		FetchedAt: fetchedAt,
	}

	path, err := p.store.Write(record)
	if err != nil {
		p.logger.Error("article write failed, entry left unseen for retry",
			"source", src.Name, "id", id, "error", err)
		return false
	}

	row := domain.IndexRow{
		ID:        id,
		Source:    src.Name,
		URL:       entry.Link,
		Published: published,
		Path:      path,
	}
	if err := p.index.MarkSeen(row); err != nil {
		p.logger.Error("index append failed, entry left unseen for retry",
			"source", src.Name, "id", id, "error", err)
		return false
	}

	p.logger.Info("captured article",
		"source", src.Name, "id", id, "path", path, "title", title)
	return true
}

// pause applies the politeness delay before a network call. The very first
// network call of the run goes out immediately.
func (p *Pipeline) pause(ctx context.Context) {
	if !p.madeNetworkCall {
		p.madeNetworkCall = true
		return
	}
	p.delayer.Wait(ctx)
}
