package audit

import (
	"context"
	"sync"
)

// MemoryRepository keeps the most recent entries in a fixed-size ring.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
}

func NewMemoryRepository(capacity int) *MemoryRepository {
	if capacity <= 0 {
		capacity = MaxLimit
	}
	return &MemoryRepository{entries: make([]Entry, capacity)}
}

func (r *MemoryRepository) Append(_ context.Context, entry Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[r.next] = entry
	r.next = (r.next + 1) % len(r.entries)
	if r.next == 0 {
		r.full = true
	}
	return nil
}

// List returns entries newest first.
func (r *MemoryRepository) List(_ context.Context, filter Filter) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	size := r.next
	if r.full {
		size = len(r.entries)
	}

	out := make([]Entry, 0, min(size, limitOf(filter)))
	for i := 0; i < size && len(out) < limitOf(filter); i++ {
		idx := (r.next - 1 - i + len(r.entries)) % len(r.entries)
		e := r.entries[idx]
		if filter.Entity != "" && e.Entity != filter.Entity {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func limitOf(f Filter) int {
	if f.Limit <= 0 {
		return DefaultLimit
	}
	return min(f.Limit, MaxLimit)
}
