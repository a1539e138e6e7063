package persistence

import (
	"context"
	"errors"

	"github.com/prakruthi/storefront/internal/domain/shared"
	"github.com/prakruthi/storefront/internal/domain/store"
	"github.com/prakruthi/storefront/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStoreProfileRepository implements store.ProfileRepository using GORM
type GormStoreProfileRepository struct {
	db *gorm.DB
}

// NewGormStoreProfileRepository creates a new GormStoreProfileRepository
func NewGormStoreProfileRepository(db *gorm.DB) *GormStoreProfileRepository {
	return &GormStoreProfileRepository{db: db}
}

// Get returns the saved profile, or shared.ErrNotFound before the first save
func (r *GormStoreProfileRepository) Get(ctx context.Context) (*store.Profile, error) {
	var model models.StoreProfileModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", store.ProfileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save upserts the singleton profile row
func (r *GormStoreProfileRepository) Save(ctx context.Context, profile *store.Profile) error {
	return r.db.WithContext(ctx).Save(models.StoreProfileModelFromDomain(profile)).Error
}

// Ensure GormStoreProfileRepository implements store.ProfileRepository
var _ store.ProfileRepository = (*GormStoreProfileRepository)(nil)
