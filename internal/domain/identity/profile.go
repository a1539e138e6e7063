// Package identity resolves roles for users authenticated by the external identity provider.
package identity

import (
	"context"

	"github.com/google/uuid"
)

// Role is the access level stored on a user profile
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// UserProfile links an authenticated user to a role
type UserProfile struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}

// IsAdmin reports whether the profile may use the admin console
func (p *UserProfile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// ProfileRepository looks up user profiles
type ProfileRepository interface {
	// FindByUserID returns the profile, or shared.ErrNotFound
	FindByUserID(ctx context.Context, userID uuid.UUID) (*UserProfile, error)
}
