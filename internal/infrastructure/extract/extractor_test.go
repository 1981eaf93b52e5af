package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"newsarchive/internal/domain"
)

const articlePage = `<html>
<head>
  <title>Fallback Title</title>
  <meta property="og:title" content="Proper Title"/>
  <meta property="article:published_time" content="2024-03-01T09:30:00Z"/>
</head>
<body>
  <nav><p>   </p></nav>
  <article>
    <p>First paragraph.</p>
    <p>Second paragraph.</p>
  </article>
</body>
</html>`

func TestExtractArticlePage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(articlePage))
	}))
	defer server.Close()

	e := NewExtractor(server.Client())
	got, err := e.Extract(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	if got.Title != "Proper Title" {
		t.Fatalf("unexpected title: %s", got.Title)
	}
	if got.Text != "First paragraph.\n\nSecond paragraph." {
		t.Fatalf("unexpected text: %q", got.Text)
	}

	want := time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)
	if !got.Published.Equal(want) {
		t.Fatalf("unexpected published: %v", got.Published)
	}
}

func TestExtractFallsBackToBodyParagraphs(t *testing.T) {
	t.Parallel()

	page := `<html><head><title>Plain</title></head>
	<body><p>Only paragraph.</p></body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	e := NewExtractor(server.Client())
	got, err := e.Extract(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	if got.Text != "Only paragraph." {
		t.Fatalf("unexpected text: %q", got.Text)
	}
	if got.Title != "Plain" {
		t.Fatalf("unexpected title: %s", got.Title)
	}
	if !got.Published.IsZero() {
		t.Fatalf("expected zero published, got %v", got.Published)
	}
}

func TestExtractNoBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div>no paragraphs here</div></body></html>`))
	}))
	defer server.Close()

	e := NewExtractor(server.Client())
	_, err := e.Extract(context.Background(), server.URL)
	if !errors.Is(err, domain.ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}

func TestExtractBadStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	e := NewExtractor(server.Client())
	_, err := e.Extract(context.Background(), server.URL)
	if !errors.Is(err, domain.ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
}
