package extract

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"newsarchive/internal/domain"
	"newsarchive/internal/ports"
)

// Article pages are fetched with a browser user agent; plenty of news sites
// serve bot UAs a consent wall or nothing at all.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Extractor fetches a live article page and pulls out title, body text and
// publication metadata.
type Extractor struct {
	client *http.Client
}

var _ ports.Extractor = (*Extractor)(nil)

// NewExtractor wires an HTTP client; a nil client gets a 20s-timeout default.
func NewExtractor(client *http.Client) *Extractor {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Extractor{client: client}
}

// Extract downloads the page at link and parses out the article fragment.
// Every failure mode, from transport errors to a page with no paragraph
// text, wraps domain.ErrExtraction.
func (e *Extractor) Extract(ctx context.Context, link string) (domain.Extraction, error) {
	doc, err := e.fetchDocument(ctx, link)
	if err != nil {
		return domain.Extraction{}, err
	}

	text := articleText(doc)
	if text == "" {
		return domain.Extraction{}, fmt.Errorf("%w: no article body found at %s", domain.ErrExtraction, link)
	}

	return domain.Extraction{
		Title:     articleTitle(doc),
		Text:      text,
		Published: articlePublished(doc),
	}, nil
}

func (e *Extractor) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request for %s: %v", domain.ErrExtraction, pageURL, err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", domain.ErrExtraction, pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", domain.ErrExtraction, pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrExtraction, pageURL, err)
	}

	return doc, nil
}

// articleText prefers paragraphs inside an <article> element and falls back
// to every paragraph on the page. Paragraphs are joined with blank lines.
func articleText(doc *goquery.Document) string {
	paragraphs := collectParagraphs(doc.Find("article p"))
	if len(paragraphs) == 0 {
		paragraphs = collectParagraphs(doc.Find("body p"))
	}
	return strings.Join(paragraphs, "\n\n")
}

func collectParagraphs(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(i int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out
}

func articleTitle(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if og = strings.TrimSpace(og); og != "" {
			return og
		}
	}
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func articlePublished(doc *goquery.Document) time.Time {
	raw, ok := doc.Find(`meta[property="article:published_time"]`).First().Attr("content")
	if !ok {
		return time.Time{}
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
