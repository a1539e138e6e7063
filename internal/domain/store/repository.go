package store

import "context"

// ProfileRepository persists the singleton profile
type ProfileRepository interface {
	// Get returns the stored profile, or shared.ErrNotFound if none was saved yet
	Get(ctx context.Context) (*Profile, error)

	// Save upserts the profile
	Save(ctx context.Context, profile *Profile) error
}
