package client

import (
	"sync"

	"github.com/google/uuid"
)

// mirror is a local copy of a server collection. Every write carries the
// ticket of the request that produced it and is dropped when a newer request
// has already been applied to the same entry.
type mirror[T any] struct {
	mu      sync.RWMutex
	seq     *Sequencer
	listKey string
	id      func(T) uuid.UUID
	order   []uuid.UUID
	items   map[uuid.UUID]T
}

func newMirror[T any](seq *Sequencer, listKey string, id func(T) uuid.UUID) *mirror[T] {
	return &mirror[T]{
		seq:     seq,
		listKey: listKey,
		id:      id,
		items:   make(map[uuid.UUID]T),
	}
}

// replaceAll installs a listing. Entries written by newer requests survive.
func (m *mirror[T]) replaceAll(t Ticket, listed []T) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, len(listed))
	for i, item := range listed {
		keys[i] = m.id(item).String()
	}
	ok, admitted := m.seq.AdmitAll(m.listKey, t, keys)
	if !ok {
		return false
	}

	items := make(map[uuid.UUID]T, len(listed))
	order := make([]uuid.UUID, 0, len(listed))

	// Entries created or changed after the listing was requested stay on top
	for _, id := range m.order {
		if m.seq.Last(id.String()) > t {
			items[id] = m.items[id]
			order = append(order, id)
		}
	}
	for i, item := range listed {
		// Skipped entries were changed or deleted by a newer request
		if !admitted[keys[i]] {
			continue
		}
		id := m.id(item)
		items[id] = item
		order = append(order, id)
	}

	m.items = items
	m.order = order
	return true
}

// put stores one entry; a new entry goes to the front
func (m *mirror[T]) put(t Ticket, item T) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.id(item)
	if !m.seq.Admit(id.String(), t) {
		return false
	}
	if _, exists := m.items[id]; !exists {
		m.order = append([]uuid.UUID{id}, m.order...)
	}
	m.items[id] = item
	return true
}

// remove drops one entry
func (m *mirror[T]) remove(t Ticket, id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.seq.Admit(id.String(), t) {
		return false
	}
	if _, exists := m.items[id]; !exists {
		return true
	}
	delete(m.items, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

func (m *mirror[T]) get(id uuid.UUID) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.items[id]
	return item, ok
}

func (m *mirror[T]) all() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.items[id])
	}
	return out
}
