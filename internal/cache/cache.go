// Package cache stores financial records for a bounded time so repeated
// lookups do not hit upstream rate limits. Entries expire purely by TTL;
// there is no invalidation on write.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/seenimoa/entitylens/pkg/models"
)

// DefaultTTL is how long a financial record stays fresh.
const DefaultTTL = 10 * time.Minute

// keyPrefix namespaces financial records in shared stores.
const keyPrefix = "financial_data_"

// Key returns the store key for an identifier.
func Key(identifier string) string {
	return keyPrefix + identifier
}

// Store is a TTL key-value store for financial records. Implementations are
// safe for concurrent use; concurrent writers to one key race and the last
// write wins. Backend failures surface as a miss or a dropped write.
type Store interface {
	Get(ctx context.Context, key string) (models.FinancialRecord, bool)
	Set(ctx context.Context, key string, rec models.FinancialRecord, ttl time.Duration)
}

// --- In-memory store ---

type entry struct {
	rec       models.FinancialRecord
	expiresAt time.Time
}

// Memory is a thread-safe in-process Store.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// NewMemoryWithClock creates a store that reads time from now. Tests use it
// to step past a TTL without sleeping.
func NewMemoryWithClock(now func() time.Time) *Memory {
	m := NewMemory()
	m.now = now
	return m
}

// Get returns a copy of the stored record, or false if missing or expired.
func (m *Memory) Get(_ context.Context, key string) (models.FinancialRecord, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok || !m.now().Before(e.expiresAt) {
		return models.FinancialRecord{}, false
	}
	return e.rec.Clone(), true
}

// Set stores a copy of rec for ttl.
func (m *Memory) Set(_ context.Context, key string, rec models.FinancialRecord, ttl time.Duration) {
	m.mu.Lock()
	m.entries[key] = entry{
		rec:       rec.Clone(),
		expiresAt: m.now().Add(ttl),
	}
	m.mu.Unlock()
}

// Flush removes all entries.
func (m *Memory) Flush() {
	m.mu.Lock()
	m.entries = make(map[string]entry)
	m.mu.Unlock()
}

// Cleanup removes expired entries. Can be called periodically.
func (m *Memory) Cleanup() {
	m.mu.Lock()
	now := m.now()
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
		}
	}
	m.mu.Unlock()
}

// Len returns the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// RunJanitor calls Cleanup every interval until ctx is done.
func (m *Memory) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Cleanup()
		}
	}
}
