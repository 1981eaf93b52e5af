package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"newsarchive/internal/domain"
)

// ledgerHeader is written once when the ledger file is created. Column order
// is the IndexRow field order.
var ledgerHeader = []string{"id", "source", "url", "published", "path"}

// Ledger is the append-only CSV file recording every captured article. Rows
// are appended in capture order and flushed individually, so a row that made
// it into the file always describes a fully written article.
type Ledger struct {
	path string
}

// NewLedger points at the ledger file; nothing is opened until first use.
func NewLedger(path string) *Ledger {
	return &Ledger{path: path}
}

// Append writes one row and flushes it to the OS before returning. The
// header row is written first if the file did not exist yet.
func (l *Ledger) Append(row domain.IndexRow) error {
	_, statErr := os.Stat(l.path)
	fresh := os.IsNotExist(statErr)

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open ledger %s: %v", domain.ErrStorage, l.path, err)
	}

	w := csv.NewWriter(f)
	if fresh {
		if err := w.Write(ledgerHeader); err != nil {
			f.Close()
			return fmt.Errorf("%w: write ledger header: %v", domain.ErrStorage, err)
		}
	}

	record := []string{
		row.ID,
		row.Source,
		row.URL,
		row.Published.UTC().Format(time.RFC3339),
		row.Path,
	}
	if err := w.Write(record); err != nil {
		f.Close()
		return fmt.Errorf("%w: write ledger row %s: %v", domain.ErrStorage, row.ID, err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("%w: flush ledger row %s: %v", domain.ErrStorage, row.ID, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close ledger: %v", domain.ErrStorage, err)
	}
	return nil
}

// Load reads every row currently in the ledger. A missing file is an empty
// ledger, not an error. Cost is linear in ledger size; the file is expected
// to stay small enough for that to be fine.
func (l *Ledger) Load() ([]domain.IndexRow, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: open ledger %s: %v", domain.ErrStorage, l.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(ledgerHeader)

	var rows []domain.IndexRow
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read ledger %s: %v", domain.ErrStorage, l.path, err)
		}
		if record[0] == ledgerHeader[0] {
			continue
		}

		published, _ := time.Parse(time.RFC3339, record[3])
		rows = append(rows, domain.IndexRow{
			ID:        record[0],
			Source:    record[1],
			URL:       record[2],
			Published: published,
			Path:      record[4],
		})
	}

	return rows, nil
}
