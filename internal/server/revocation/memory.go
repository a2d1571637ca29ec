package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryLedger keeps revoked ids in process memory. It suits a single
// instance or tests; records are lost on restart.
type MemoryLedger struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{entries: make(map[string]time.Time)}
}

func (l *MemoryLedger) Insert(_ context.Context, tokenID string, expiresAt time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[tokenID]; !ok {
		l.entries[tokenID] = expiresAt
	}
	return nil
}

func (l *MemoryLedger) Exists(_ context.Context, tokenID string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.entries[tokenID]
	return ok, nil
}

func (l *MemoryLedger) PruneExpired(_ context.Context, now time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var removed int64
	for id, exp := range l.entries {
		if !now.Before(exp) {
			delete(l.entries, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored records.
func (l *MemoryLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
