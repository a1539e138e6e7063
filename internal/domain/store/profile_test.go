package store

import (
	"errors"
	"testing"

	"github.com/prakruthi/storefront/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()
	assert.Equal(t, "Prakruthi", p.StoreName)
	assert.False(t, p.StoreDisabled)
	assert.True(t, p.AcceptsOrders())
}

func TestProfile_Apply(t *testing.T) {
	t.Run("merges given fields", func(t *testing.T) {
		p := DefaultProfile()
		phone := " 080-1234 "
		disabled := true
		require.NoError(t, p.Apply(ProfileUpdate{Phone: &phone, StoreDisabled: &disabled}))

		assert.Equal(t, "080-1234", p.Phone)
		assert.Equal(t, DefaultStoreName, p.StoreName)
		assert.False(t, p.AcceptsOrders())
		assert.False(t, p.UpdatedAt.IsZero())
	})

	t.Run("rejects blank store name", func(t *testing.T) {
		p := DefaultProfile()
		blank := "  "
		err := p.Apply(ProfileUpdate{StoreName: &blank})
		assert.True(t, errors.Is(err, shared.ErrValidation))
		assert.Equal(t, DefaultStoreName, p.StoreName)
	})
}
