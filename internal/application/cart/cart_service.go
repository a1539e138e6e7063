// Package cart implements session-scoped cart operations on top of a cart.SessionStore.
package cart

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/prakruthi/storefront/internal/domain/cart"
	"github.com/prakruthi/storefront/internal/domain/catalog"
	"github.com/prakruthi/storefront/internal/domain/shared"
	"github.com/prakruthi/storefront/internal/infrastructure/telemetry"
)

// ErrSessionRequired is returned when no cart session id is supplied
var ErrSessionRequired = shared.NewDomainError("INVALID_INPUT", "Cart session is required")

// CartService handles cart operations for browsing sessions.
// Mutations on the same session are serialized; each one loads the cart,
// applies a single change and saves the whole cart back.
type CartService struct {
	store       cart.SessionStore
	productRepo catalog.ProductRepository
	locks       sessionLocks
}

// NewCartService creates a new CartService
func NewCartService(store cart.SessionStore, productRepo catalog.ProductRepository) *CartService {
	return &CartService{
		store:       store,
		productRepo: productRepo,
	}
}

// Get returns the session's cart
func (s *CartService) Get(ctx context.Context, sessionID string) (*CartResponse, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	response := ToCartResponse(c)
	return &response, nil
}

// AddItem copies the product variant's name, label, price and image into the cart.
// Products that cannot be purchased and unavailable variants are refused.
func (s *CartService) AddItem(ctx context.Context, sessionID string, req AddItemRequest) (*CartResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cart", "add_item",
		telemetry.SpanAttrProductID, req.ProductID.String(),
		telemetry.SpanAttrQuantity, req.Quantity,
	)
	defer span.End()

	if err := requireSession(sessionID); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	variantID := strings.TrimSpace(req.VariantID)
	if variantID == "" {
		variantID = product.DefaultVariant().ID
	}
	if !product.CanAddToCart(variantID) {
		return nil, shared.ErrUnavailable
	}
	variant, _ := product.Variant(variantID)

	item := cart.LineItem{
		ProductID:    product.ID,
		VariantID:    variant.ID,
		VariantLabel: variant.Label,
		Name:         product.Name,
		Price:        variant.Price,
		Image:        product.ImageURL,
		Quantity:     req.Quantity,
	}

	return s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		return c.AddItem(item)
	})
}

// UpdateQuantity sets a line's quantity exactly; a quantity below one removes it
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, key string, quantity int) (*CartResponse, error) {
	lineKey, err := cart.ParseLineKey(key)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		return c.UpdateQuantity(lineKey, quantity)
	})
}

// RemoveItem removes a line; unknown keys are ignored
func (s *CartService) RemoveItem(ctx context.Context, sessionID, key string) (*CartResponse, error) {
	lineKey, err := cart.ParseLineKey(key)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		c.RemoveItem(lineKey)
		return nil
	})
}

// Open makes the cart visible
func (s *CartService) Open(ctx context.Context, sessionID string) (*CartResponse, error) {
	return s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		c.Open()
		return nil
	})
}

// Close hides the cart
func (s *CartService) Close(ctx context.Context, sessionID string) (*CartResponse, error) {
	return s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		c.Close()
		return nil
	})
}

// Toggle flips the cart's visibility
func (s *CartService) Toggle(ctx context.Context, sessionID string) (*CartResponse, error) {
	return s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		c.Toggle()
		return nil
	})
}

// Clear empties and closes the cart
func (s *CartService) Clear(ctx context.Context, sessionID string) (*CartResponse, error) {
	return s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
}

// Reset discards the session's cart entirely
func (s *CartService) Reset(ctx context.Context, sessionID string) error {
	if err := requireSession(sessionID); err != nil {
		return err
	}
	defer s.locks.lock(sessionID)()

	return s.store.Reset(ctx, sessionID)
}

// Consume hands the session's cart to fn while holding the session lock.
// The cart is cleared and saved only when fn succeeds, so a failed order
// write leaves the cart exactly as it was.
func (s *CartService) Consume(ctx context.Context, sessionID string, fn func(c *cart.Cart) error) error {
	_, err := s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		if err := fn(c); err != nil {
			return err
		}
		c.Clear()
		return nil
	})
	return err
}

// NewSessionID issues an id for a new browsing session
func NewSessionID() string {
	return uuid.NewString()
}

func (s *CartService) mutate(ctx context.Context, sessionID string, fn func(c *cart.Cart) error) (*CartResponse, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}

	defer s.locks.lock(sessionID)()

	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

// sessionLocks hands out one mutex per session and forgets it once the
// last holder or waiter has released it.
type sessionLocks struct {
	mu   sync.Mutex
	held map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// lock blocks until the session's mutex is held and returns its release func
func (l *sessionLocks) lock(sessionID string) (unlock func()) {
	l.mu.Lock()
	if l.held == nil {
		l.held = make(map[string]*sessionLock)
	}
	entry, ok := l.held[sessionID]
	if !ok {
		entry = &sessionLock{}
		l.held[sessionID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.held, sessionID)
		}
		l.mu.Unlock()
	}
}

// count reports how many sessions currently have a lock entry
func (l *sessionLocks) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.held)
}

func requireSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrSessionRequired
	}
	return nil
}
