package store

import (
	"sync"

	"github.com/harvestly/siteharvest/internal/model"
)

// ResultStore accumulates page records during a crawl.
// Records are append-only and immutable once stored.
type ResultStore interface {
	// Append adds a record and returns the post-append count.
	// Returning the count from the same operation lets the caller check
	// checkpoint thresholds without a separate (racy) read.
	Append(record *model.PageRecord) int

	// Snapshot returns a copy of all records accumulated so far, in
	// append order. The returned slice is owned by the caller.
	Snapshot() []*model.PageRecord

	// Len returns the number of accumulated records.
	Len() int
}

// MemoryStore is the in-memory ResultStore used for single-site crawls,
// where unbounded in-memory accumulation is acceptable.
type MemoryStore struct {
	mu      sync.Mutex
	records []*model.PageRecord
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make([]*model.PageRecord, 0),
	}
}

// Append adds a record and returns the post-append count.
func (s *MemoryStore) Append(record *model.PageRecord) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return len(s.records)
}

// Snapshot returns a copy of all accumulated records in append order.
// Records themselves are immutable, so a shallow copy is sufficient.
func (s *MemoryStore) Snapshot() []*model.PageRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.PageRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of accumulated records.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
