package cache

import (
	"context"
	"sync"
	"time"

	"github.com/prakruthi/storefront/internal/domain/cart"
)

type cartEntry struct {
	snapshot  cart.Snapshot
	expiresAt time.Time
}

// InMemoryCartStore implements cart.SessionStore using an in-memory map.
// It is suitable for single-instance deployments and testing.
type InMemoryCartStore struct {
	mu        sync.RWMutex
	entries   map[string]cartEntry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryCartStore creates a store whose carts expire ttl after their last save.
// It starts a background goroutine to drop expired carts.
func NewInMemoryCartStore(ttl time.Duration) *InMemoryCartStore {
	s := &InMemoryCartStore{
		entries:  make(map[string]cartEntry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop()

	return s
}

// Load returns the session's cart, or an empty cart when none is stored or it expired
func (s *InMemoryCartStore) Load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	s.mu.RLock()
	e, ok := s.entries[sessionID]
	s.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		return cart.New(), nil
	}
	return cart.FromSnapshot(e.snapshot), nil
}

// Save replaces the session's cart and extends its expiry
func (s *InMemoryCartStore) Save(ctx context.Context, sessionID string, c *cart.Cart) error {
	snap := c.Snapshot()
	snap.Items = append([]cart.LineItem(nil), snap.Items...)

	s.mu.Lock()
	s.entries[sessionID] = cartEntry{snapshot: snap, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

// Reset discards the session's cart
func (s *InMemoryCartStore) Reset(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored carts, expired ones included until cleanup
func (s *InMemoryCartStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Ping always succeeds
func (s *InMemoryCartStore) Ping(context.Context) error {
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemoryCartStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryCartStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryCartStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}

// Ensure InMemoryCartStore implements cart.SessionStore
var _ cart.SessionStore = (*InMemoryCartStore)(nil)
