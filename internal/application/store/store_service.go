// Package store serves and edits the singleton store profile.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/prakruthi/storefront/internal/domain/shared"
	"github.com/prakruthi/storefront/internal/domain/store"
)

// UpdateStoreRequest merges the given fields into the store profile
type UpdateStoreRequest struct {
	StoreName     *string `json:"store_name" binding:"omitempty,notblank,max=200"`
	Phone         *string `json:"phone" binding:"omitempty,max=50"`
	Address       *string `json:"address" binding:"omitempty,max=500"`
	About         *string `json:"about" binding:"omitempty,max=2000"`
	StoreDisabled *bool   `json:"store_disabled"`
}

// StoreResponse represents the store profile in API responses
type StoreResponse struct {
	StoreName     string     `json:"store_name"`
	Phone         string     `json:"phone"`
	Address       string     `json:"address"`
	About         string     `json:"about"`
	StoreDisabled bool       `json:"store_disabled"`
	AcceptsOrders bool       `json:"accepts_orders"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// ToStoreResponse converts a domain Profile to StoreResponse
func ToStoreResponse(p *store.Profile) StoreResponse {
	response := StoreResponse{
		StoreName:     p.StoreName,
		Phone:         p.Phone,
		Address:       p.Address,
		About:         p.About,
		StoreDisabled: p.StoreDisabled,
		AcceptsOrders: p.AcceptsOrders(),
	}
	if !p.UpdatedAt.IsZero() {
		updated := p.UpdatedAt
		response.UpdatedAt = &updated
	}
	return response
}

// StoreService handles the store profile
type StoreService struct {
	profileRepo store.ProfileRepository
}

// NewStoreService creates a new StoreService
func NewStoreService(profileRepo store.ProfileRepository) *StoreService {
	return &StoreService{profileRepo: profileRepo}
}

// Get returns the saved profile, or the defaults when none was saved yet
func (s *StoreService) Get(ctx context.Context) (*StoreResponse, error) {
	profile, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	response := ToStoreResponse(profile)
	return &response, nil
}

// Update merges the given fields into the profile and saves it
func (s *StoreService) Update(ctx context.Context, req UpdateStoreRequest) (*StoreResponse, error) {
	profile, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if err := profile.Apply(store.ProfileUpdate{
		StoreName:     req.StoreName,
		Phone:         req.Phone,
		Address:       req.Address,
		About:         req.About,
		StoreDisabled: req.StoreDisabled,
	}); err != nil {
		return nil, err
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}

	response := ToStoreResponse(profile)
	return &response, nil
}

// StoreName returns the configured store name, falling back to the default on any error
func (s *StoreService) StoreName(ctx context.Context) string {
	profile, err := s.load(ctx)
	if err != nil {
		return store.DefaultStoreName
	}
	return profile.StoreName
}

func (s *StoreService) load(ctx context.Context) (*store.Profile, error) {
	profile, err := s.profileRepo.Get(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		return store.DefaultProfile(), nil
	}
	return profile, err
}
