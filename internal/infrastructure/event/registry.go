package event

import (
	"slices"
	"sync"

	"github.com/prakruthi/storefront/internal/domain/shared"
)

// Subscriptions maps event types to the handlers that receive them.
// Handlers added with no event types receive every event after the
// type-specific ones.
type Subscriptions struct {
	mu     sync.RWMutex
	byType map[string][]shared.EventHandler
	all    []shared.EventHandler
}

// NewSubscriptions creates an empty subscription table
func NewSubscriptions() *Subscriptions {
	return &Subscriptions{byType: make(map[string][]shared.EventHandler)}
}

// Add subscribes handler to eventTypes. Adding the same handler to a type twice is a no-op.
func (s *Subscriptions) Add(handler shared.EventHandler, eventTypes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(eventTypes) == 0 {
		s.all = appendUnique(s.all, handler)
		return
	}
	for _, t := range eventTypes {
		s.byType[t] = appendUnique(s.byType[t], handler)
	}
}

// Remove drops handler from every subscription
func (s *Subscriptions) Remove(handler shared.EventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.all = without(s.all, handler)
	for t, handlers := range s.byType {
		if rest := without(handlers, handler); len(rest) > 0 {
			s.byType[t] = rest
		} else {
			delete(s.byType, t)
		}
	}
}

// For returns a snapshot of the handlers for eventType
func (s *Subscriptions) For(eventType string) []shared.EventHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append(append([]shared.EventHandler(nil), s.byType[eventType]...), s.all...)
}

func appendUnique(handlers []shared.EventHandler, handler shared.EventHandler) []shared.EventHandler {
	if slices.Contains(handlers, handler) {
		return handlers
	}
	return append(handlers, handler)
}

func without(handlers []shared.EventHandler, handler shared.EventHandler) []shared.EventHandler {
	return slices.DeleteFunc(slices.Clone(handlers), func(h shared.EventHandler) bool {
		return h == handler
	})
}
