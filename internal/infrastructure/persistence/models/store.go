package models

import (
	"time"

	"github.com/prakruthi/storefront/internal/domain/store"
)

// StoreProfileModel is the persistence model for the singleton store profile
type StoreProfileModel struct {
	ID            int       `gorm:"primaryKey;autoIncrement:false"`
	StoreName     string    `gorm:"type:varchar(200);not null"`
	Phone         string    `gorm:"type:varchar(30)"`
	Address       string    `gorm:"type:varchar(500)"`
	About         string    `gorm:"type:text"`
	StoreDisabled bool      `gorm:"not null;default:false"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StoreProfileModel) TableName() string {
	return "store_profiles"
}

// ToDomain converts the persistence model to a domain Profile
func (m *StoreProfileModel) ToDomain() *store.Profile {
	return &store.Profile{
		StoreName:     m.StoreName,
		Phone:         m.Phone,
		Address:       m.Address,
		About:         m.About,
		StoreDisabled: m.StoreDisabled,
		UpdatedAt:     m.UpdatedAt,
	}
}

// StoreProfileModelFromDomain creates the profile row
func StoreProfileModelFromDomain(p *store.Profile) *StoreProfileModel {
	updated := p.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	return &StoreProfileModel{
		ID:            store.ProfileID,
		StoreName:     p.StoreName,
		Phone:         p.Phone,
		Address:       p.Address,
		About:         p.About,
		StoreDisabled: p.StoreDisabled,
		UpdatedAt:     updated,
	}
}
