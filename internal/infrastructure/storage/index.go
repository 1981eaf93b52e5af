package storage

import (
	"fmt"

	"newsarchive/internal/domain"
	"newsarchive/internal/ports"
)

// Index is the dedup gate backed by the ledger. At startup the whole ledger
// is read into an in-memory id set; after that HasSeen is a map lookup.
//
// MarkSeen appends the row to the ledger before recording the id in memory.
// A crash between the two leaves a durable row whose id would be re-reported
// as unseen for the rest of the (already dead) process, never a seen id
// without its row. The bias is deliberate: an article is only ever lost
// silently if its row is lost, so the row goes first.
type Index struct {
	ledger *Ledger
	seen   map[string]struct{}
}

var _ ports.DedupIndex = (*Index)(nil)

// OpenIndex loads the existing ledger into memory and returns the gate.
func OpenIndex(ledger *Ledger) (*Index, error) {
	rows, err := ledger.Load()
	if err != nil {
		return nil, fmt.Errorf("load dedup index: %w", err)
	}

	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		seen[row.ID] = struct{}{}
	}

	return &Index{ledger: ledger, seen: seen}, nil
}

// HasSeen reports whether the id was captured in any earlier run or earlier
// in the current one.
func (ix *Index) HasSeen(id string) bool {
	_, ok := ix.seen[id]
	return ok
}

// MarkSeen durably appends the row, then exposes the id to HasSeen.
func (ix *Index) MarkSeen(row domain.IndexRow) error {
	if err := ix.ledger.Append(row); err != nil {
		return err
	}
	ix.seen[row.ID] = struct{}{}
	return nil
}

// Len reports how many ids are currently known.
func (ix *Index) Len() int {
	return len(ix.seen)
}
