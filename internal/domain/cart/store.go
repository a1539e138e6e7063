package cart

import "context"

// SessionStore keeps one cart per browsing session
type SessionStore interface {
	// Load returns the session's cart, or an empty cart if none is stored
	Load(ctx context.Context, sessionID string) (*Cart, error)

	// Save replaces the session's cart
	Save(ctx context.Context, sessionID string, c *Cart) error

	// Reset discards the session's cart
	Reset(ctx context.Context, sessionID string) error
}
