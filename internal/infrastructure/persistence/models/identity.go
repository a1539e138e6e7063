package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/prakruthi/storefront/internal/domain/identity"
)

// UserProfileModel maps an identity-provider user to a role
type UserProfileModel struct {
	UserID    uuid.UUID     `gorm:"type:uuid;primaryKey"`
	Email     string        `gorm:"type:varchar(200)"`
	Role      identity.Role `gorm:"type:varchar(20);not null;default:'customer'"`
	CreatedAt time.Time     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserProfileModel) TableName() string {
	return "profiles"
}

// ToDomain converts the persistence model to a domain UserProfile
func (m *UserProfileModel) ToDomain() *identity.UserProfile {
	return &identity.UserProfile{
		UserID: m.UserID,
		Email:  m.Email,
		Role:   m.Role,
	}
}

// UserProfileModelFromDomain creates a profile row
func UserProfileModelFromDomain(p *identity.UserProfile) *UserProfileModel {
	return &UserProfileModel{
		UserID:    p.UserID,
		Email:     p.Email,
		Role:      p.Role,
		CreatedAt: time.Now(),
	}
}
