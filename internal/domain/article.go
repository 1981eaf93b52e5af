package domain

import (
	"crypto/md5"
	"encoding/hex"
	"time"
)

// FeedSource is one configured feed. Name doubles as the storage directory
// segment for everything captured from this source, so it must be unique
// across the registry; two sources sharing a name silently share a directory.
type FeedSource struct {
	Name string
	URL  string
}

// FeedEntry is a single item produced by polling a feed. It is never
// persisted directly. A zero Published means the feed reported no parseable
// publication time.
type FeedEntry struct {
	Link      string
	Title     string
	Published time.Time
}

// ID returns the entry's stable identifier.
func (e FeedEntry) ID() string {
	return EntryID(e.Link)
}

// EntryID derives a stable article identifier from the entry link. The same
// link always yields the same id, which is what makes re-polling idempotent.
func EntryID(link string) string {
	sum := md5.Sum([]byte(link))
	return hex.EncodeToString(sum[:])
}

// ArticleRecord is the captured article as persisted to disk. Immutable once
// written.
type ArticleRecord struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Published time.Time `json:"published"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Period returns the year-month bucket the record is filed under. Entries
// whose feed reported no publication time are bucketed by fetch time; that
// substitution happens before the record is built, so Published is always
// set here.
func (r ArticleRecord) Period() string {
	return r.Published.UTC().Format("2006-01")
}

// IndexRow is one line of the append-only capture ledger.
type IndexRow struct {
	ID        string
	Source    string
	URL       string
	Published time.Time
	Path      string
}

// Extraction is the fragment of article data pulled from the live page.
// Published is optional; a zero value means the page carried no usable
// publication metadata.
type Extraction struct {
	Title     string
	Text      string
	Published time.Time
}
