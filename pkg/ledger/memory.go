package ledger

import (
	"context"
	"fmt"
	"sync"

	"tableflip.dev/caltrack/pkg/entry"
)

// Memory is an in-process Service. It is safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	counter int
	entries []entry.Entry
}

// NewMemory returns a Memory seeded with the provided entries. Seed entries
// without an ID get one assigned.
func NewMemory(seed ...entry.Entry) *Memory {
	m := &Memory{}
	for _, e := range seed {
		if e.ID == "" {
			e.ID = m.newID()
		}
		m.entries = append(m.entries, e)
	}
	return m
}

func (m *Memory) newID() string {
	m.counter++
	return fmt.Sprintf("id-%d", m.counter)
}

// Create implements Service.
func (m *Memory) Create(ctx context.Context, r Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := r.Validate(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.newID()
	m.entries = append(m.entries, r.Entry(id))
	return id, nil
}

// Query implements Service.
func (m *Memory) Query(ctx context.Context, q Query) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	m.mu.Lock()
	all := append([]entry.Entry(nil), m.entries...)
	m.mu.Unlock()
	return q.Apply(all), nil
}

// Len returns the number of stored entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
