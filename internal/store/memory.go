package store

import (
	"context"
	"sync"
	"time"

	"github.com/dgallion1/findoc/internal/document"
)

type memEntry struct {
	data     []byte
	hash     string
	summary  document.Summary
	storedAt time.Time
}

// Memory is an in-process Store. Bundles are kept encoded so callers never
// share state with the store. A positive ttl evicts bundles that old.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]memEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *Memory) Put(_ context.Context, b *document.Bundle) error {
	data, err := encode(b)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[b.ID] = memEntry{
		data:     data,
		hash:     b.ContentHash,
		summary:  b.Summarize(),
		storedAt: m.now(),
	}
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*document.Bundle, error) {
	m.mu.Lock()
	e, ok := m.live(id)
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decode(e.data)
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.live(id); !ok {
		return ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *Memory) List(_ context.Context) ([]document.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]document.Summary, 0, len(m.entries))
	for id := range m.entries {
		if e, ok := m.live(id); ok {
			out = append(out, e.summary)
		}
	}
	sortSummaries(out)
	return out, nil
}

func (m *Memory) FindByHash(_ context.Context, hash string) (string, error) {
	if hash == "" {
		return "", nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.entries {
		if e, ok := m.live(id); ok && e.hash == hash {
			return id, nil
		}
	}
	return "", nil
}

// Cleanup removes expired bundles.
func (m *Memory) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.entries {
		m.live(id)
	}
}

func (m *Memory) Close() error { return nil }

// live returns the entry for id, evicting it when expired. Callers hold mu.
func (m *Memory) live(id string) (memEntry, bool) {
	e, ok := m.entries[id]
	if !ok {
		return memEntry{}, false
	}
	if m.ttl > 0 && m.now().Sub(e.storedAt) > m.ttl {
		delete(m.entries, id)
		return memEntry{}, false
	}
	return e, true
}
