// Package session stores booking widget states between requests.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/doisellos/storefront/internal/booking"
)

type memoryEntry struct {
	raw       []byte
	expiresAt time.Time
}

// MemoryStore keeps states in process. Entries expire after ttl.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates an in-memory store. A zero ttl never expires.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryStore) Create(_ context.Context, s *booking.State) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[s.ID] = memoryEntry{raw: raw, expiresAt: m.expiry()}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*booking.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.load(id)
	if !ok {
		return nil, booking.ErrNotFound
	}
	return decode(entry.raw)
}

func (m *MemoryStore) Update(_ context.Context, id string, fn func(*booking.State) error) (*booking.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.load(id)
	if !ok {
		return nil, booking.ErrNotFound
	}
	st, err := decode(entry.raw)
	if err != nil {
		return nil, err
	}
	if err := fn(st); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("session: encode: %w", err)
	}
	m.entries[id] = memoryEntry{raw: raw, expiresAt: m.expiry()}
	return st, nil
}

// Sweep drops expired entries and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id := range m.entries {
		if _, ok := m.load(id); !ok {
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// load must be called with mu held; it evicts the entry when expired.
func (m *MemoryStore) load(id string) (memoryEntry, bool) {
	entry, ok := m.entries[id]
	if !ok {
		return memoryEntry{}, false
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		delete(m.entries, id)
		return memoryEntry{}, false
	}
	return entry, true
}

func (m *MemoryStore) expiry() time.Time {
	if m.ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(m.ttl)
}

func decode(raw []byte) (*booking.State, error) {
	var st booking.State
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("session: decode: %w", err)
	}
	return &st, nil
}
