// Package store holds the singleton storefront profile.
package store

import (
	"strings"
	"time"

	"github.com/prakruthi/storefront/internal/domain/shared"
)

// Default profile values used until staff save their own
const (
	DefaultStoreName = "Prakruthi"
	DefaultPhone     = "+91 98765 43210"
	DefaultAddress   = "Bengaluru, Karnataka"
	DefaultAbout     = "Natural, farm-fresh products delivered from our farms to your home."
)

// ProfileID is the fixed key of the single profile record
const ProfileID = 1

// Profile is the store's display configuration
type Profile struct {
	StoreName     string
	Phone         string
	Address       string
	About         string
	StoreDisabled bool
	UpdatedAt     time.Time
}

// DefaultProfile returns the profile served before any edit is saved
func DefaultProfile() *Profile {
	return &Profile{
		StoreName: DefaultStoreName,
		Phone:     DefaultPhone,
		Address:   DefaultAddress,
		About:     DefaultAbout,
	}
}

// ProfileUpdate is a partial update; nil fields are left unchanged
type ProfileUpdate struct {
	StoreName     *string
	Phone         *string
	Address       *string
	About         *string
	StoreDisabled *bool
}

// Apply merges the update into the profile
func (p *Profile) Apply(u ProfileUpdate) error {
	if u.StoreName != nil {
		name := strings.TrimSpace(*u.StoreName)
		if name == "" {
			return shared.NewValidationError("storeName", "Store name cannot be empty")
		}
		p.StoreName = name
	}
	if u.Phone != nil {
		p.Phone = strings.TrimSpace(*u.Phone)
	}
	if u.Address != nil {
		p.Address = strings.TrimSpace(*u.Address)
	}
	if u.About != nil {
		p.About = strings.TrimSpace(*u.About)
	}
	if u.StoreDisabled != nil {
		p.StoreDisabled = *u.StoreDisabled
	}
	p.UpdatedAt = time.Now()
	return nil
}

// AcceptsOrders returns false while the store is disabled
func (p *Profile) AcceptsOrders() bool {
	return !p.StoreDisabled
}
