package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/prakruthi/storefront/internal/domain/identity"
	"github.com/prakruthi/storefront/internal/domain/shared"
	"github.com/prakruthi/storefront/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserProfileRepository implements identity.ProfileRepository using GORM
type GormUserProfileRepository struct {
	db *gorm.DB
}

// NewGormUserProfileRepository creates a new GormUserProfileRepository
func NewGormUserProfileRepository(db *gorm.DB) *GormUserProfileRepository {
	return &GormUserProfileRepository{db: db}
}

// FindByUserID returns the profile of an authenticated user
func (r *GormUserProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*identity.UserProfile, error) {
	var model models.UserProfileModel
	if err := r.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save upserts a profile; used by seeding and tests
func (r *GormUserProfileRepository) Save(ctx context.Context, profile *identity.UserProfile) error {
	return r.db.WithContext(ctx).Save(models.UserProfileModelFromDomain(profile)).Error
}

// Ensure GormUserProfileRepository implements identity.ProfileRepository
var _ identity.ProfileRepository = (*GormUserProfileRepository)(nil)
