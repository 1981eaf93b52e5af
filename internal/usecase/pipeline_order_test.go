package usecase

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"newsarchive/internal/domain"
	"newsarchive/internal/infrastructure/storage"
)

// Scripted adapters recording the order of pipeline steps.

type scriptedPoller struct {
	calls   *[]string
	entries map[string][]domain.FeedEntry
}

func (p *scriptedPoller) Poll(_ context.Context, src domain.FeedSource) ([]domain.FeedEntry, error) {
	*p.calls = append(*p.calls, "poll:"+src.Name)
	return p.entries[src.Name], nil
}

type scriptedExtractor struct {
	calls *[]string
}

func (e *scriptedExtractor) Extract(_ context.Context, link string) (domain.Extraction, error) {
	*e.calls = append(*e.calls, "extract:"+link)
	return domain.Extraction{Title: "t", Text: "body"}, nil
}

type scriptedDelayer struct {
	calls *[]string
}

func (d *scriptedDelayer) Wait(context.Context) {
	*d.calls = append(*d.calls, "wait")
}

type failingStore struct{}

func (failingStore) Write(domain.ArticleRecord) (string, error) {
	return "", domain.ErrStorage
}

type memoryStore struct{}

func (memoryStore) Write(r domain.ArticleRecord) (string, error) {
	return "mem/" + r.ID, nil
}

// The politeness delay sits before every network call except the very first.
func TestRunDelaysBetweenNetworkCalls(t *testing.T) {
	t.Parallel()

	var calls []string
	index, err := storage.OpenIndex(storage.NewLedger(filepath.Join(t.TempDir(), "index.csv")))
	if err != nil {
		t.Fatalf("open index: %v", err)
	}

	p, err := NewPipeline(PipelineDeps{
		Sources: []domain.FeedSource{{Name: "A", URL: "http://a/rss"}, {Name: "B", URL: "http://b/rss"}},
		Poller: &scriptedPoller{calls: &calls, entries: map[string][]domain.FeedEntry{
			"A": {{Link: "http://a/1"}, {Link: "http://a/2"}},
			"B": {{Link: "http://b/1"}},
		}},
		Extractor: &scriptedExtractor{calls: &calls},
		Store:     memoryStore{},
		Index:     index,
		Delayer:   &scriptedDelayer{calls: &calls},
		Logger:    quietLogger(),
		Now:       func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}

	p.Run(context.Background())

	want := []string{
		"poll:A",
		"wait", "extract:http://a/1",
		"wait", "extract:http://a/2",
		"wait", "poll:B",
		"wait", "extract:http://b/1",
	}
	if !reflect.DeepEqual(calls, want) {
		t.Fatalf("call order mismatch:\n got %v\nwant %v", calls, want)
	}
}

// A failed write must leave the entry unseen so the next run retries it.
func TestRunStorageFailureDoesNotMarkSeen(t *testing.T) {
	t.Parallel()

	var calls []string
	index, err := storage.OpenIndex(storage.NewLedger(filepath.Join(t.TempDir(), "index.csv")))
	if err != nil {
		t.Fatalf("open index: %v", err)
	}

	p, err := NewPipeline(PipelineDeps{
		Sources: []domain.FeedSource{{Name: "A", URL: "http://a/rss"}},
		Poller: &scriptedPoller{calls: &calls, entries: map[string][]domain.FeedEntry{
			"A": {{Link: "http://a/1", Published: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}},
		}},
		Extractor: &scriptedExtractor{calls: &calls},
		Store:     failingStore{},
		Index:     index,
		Delayer:   &scriptedDelayer{calls: &calls},
		Logger:    quietLogger(),
	})
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}

	report := p.Run(context.Background())
	if _, _, failed := report.Totals(); failed != 1 {
		t.Fatalf("expected 1 failed entry, report: %+v", report)
	}
	if index.HasSeen(domain.EntryID("http://a/1")) {
		t.Fatal("entry marked seen despite storage failure")
	}
}
