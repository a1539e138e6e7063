package trade

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prakruthi/storefront/internal/domain/shared"
	"github.com/prakruthi/storefront/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(price int64, qty int) OrderItem {
	return OrderItem{
		ProductID:    uuid.New(),
		VariantID:    "default",
		VariantLabel: "Default",
		Name:         "Product",
		Price:        valueobject.Money(price),
		Quantity:     qty,
	}
}

func newTestOrder(t *testing.T, items ...OrderItem) *Order {
	t.Helper()
	order, err := NewOrder(CustomerDetails{Name: "Asha"}, items)
	require.NoError(t, err)
	order.ClearDomainEvents()
	return order
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusPending, OrderStatusDelivered, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusPending, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusDelivered, false},
		{OrderStatusCancelled, OrderStatusPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}

	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.False(t, OrderStatusPending.IsTerminal())
	assert.False(t, OrderStatus("shipped").IsValid())
}

func TestNewOrder(t *testing.T) {
	t.Run("starts pending, unpaid and unmodified with cart total", func(t *testing.T) {
		order, err := NewOrder(CustomerDetails{
			Name:    "  Asha ",
			Phone:   " 98450 ",
			Street:  " 1 Main ",
			City:    "Mysuru ",
			Pincode: " 570001",
		}, []OrderItem{item(100, 2), item(50, 1)})
		require.NoError(t, err)

		assert.Equal(t, "Asha", order.CustomerName)
		assert.Equal(t, "98450", order.Phone)
		assert.Equal(t, "1 Main, Mysuru, 570001", order.FullAddress())
		assert.Equal(t, OrderStatusPending, order.Status)
		assert.False(t, order.Paid)
		assert.False(t, order.Modified)
		assert.Equal(t, valueobject.Money(250), order.Total)
		assert.NotEqual(t, uuid.Nil, order.ID)
		assert.False(t, order.CreatedAt.IsZero())

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderPlaced, events[0].EventType())
	})

	t.Run("rejects blank name", func(t *testing.T) {
		_, err := NewOrder(CustomerDetails{Name: "   "}, []OrderItem{item(100, 1)})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrValidation))

		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "customerName", de.Field)
	})

	t.Run("rejects empty items", func(t *testing.T) {
		_, err := NewOrder(CustomerDetails{Name: "Asha"}, nil)
		assert.True(t, errors.Is(err, shared.ErrCartEmpty))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewOrder(CustomerDetails{Name: "Asha"}, []OrderItem{item(100, 0)})
		assert.True(t, errors.Is(err, shared.ErrInvalidQuantity))
	})
}

func TestOrder_ApplyDefaults(t *testing.T) {
	o := &Order{CustomerName: "Walk-in"}
	o.ApplyDefaults()

	assert.NotEqual(t, uuid.Nil, o.ID)
	assert.False(t, o.CreatedAt.IsZero())
	assert.Equal(t, OrderStatusPending, o.Status)
	assert.False(t, o.Paid)
	assert.False(t, o.Modified)
	assert.NotNil(t, o.Items)

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	id := uuid.New()
	kept := &Order{Status: OrderStatusDelivered, Paid: true}
	kept.ID = id
	kept.CreatedAt = created
	kept.ApplyDefaults()
	assert.Equal(t, id, kept.ID)
	assert.Equal(t, created, kept.CreatedAt)
	assert.Equal(t, OrderStatusDelivered, kept.Status)
	assert.True(t, kept.Paid)
}

func TestOrder_LineItemEdits(t *testing.T) {
	t.Run("removing an item recomputes total and flags modified", func(t *testing.T) {
		first, second := item(100, 2), item(50, 1)
		order := newTestOrder(t, first, second)
		require.Equal(t, valueobject.Money(250), order.Total)

		require.NoError(t, order.RemoveItem(first.Key()))

		assert.Equal(t, valueobject.Money(50), order.Total)
		assert.True(t, order.Modified)
		assert.Len(t, order.Items, 1)
		assert.Equal(t, []string{EventTypeOrderItemsModified}, shared.EventTypes(order.GetDomainEvents()))
	})

	t.Run("quantity change recomputes total", func(t *testing.T) {
		first, second := item(100, 2), item(50, 1)
		order := newTestOrder(t, first, second)

		require.NoError(t, order.UpdateItemQuantity(second.Key(), 4))
		assert.Equal(t, valueobject.Money(400), order.Total)
		assert.True(t, order.Modified)
	})

	t.Run("quantity below one is rejected and nothing changes", func(t *testing.T) {
		first := item(100, 2)
		order := newTestOrder(t, first)

		err := order.UpdateItemQuantity(first.Key(), 0)
		assert.True(t, errors.Is(err, shared.ErrInvalidQuantity))
		assert.Equal(t, valueobject.Money(200), order.Total)
		assert.False(t, order.Modified)
	})

	t.Run("unknown item is not found", func(t *testing.T) {
		order := newTestOrder(t, item(100, 2))
		assert.True(t, errors.Is(order.RemoveItem("nope"), shared.ErrNotFound))
		assert.True(t, errors.Is(order.UpdateItemQuantity("nope", 2), shared.ErrNotFound))
	})

	t.Run("edits allowed after delivery", func(t *testing.T) {
		first, second := item(100, 2), item(50, 1)
		order := newTestOrder(t, first, second)
		require.NoError(t, order.Deliver())

		require.NoError(t, order.ReplaceItems([]OrderItem{second}))
		assert.Equal(t, valueobject.Money(50), order.Total)
		assert.True(t, order.Modified)
	})

	t.Run("replace validates the item set", func(t *testing.T) {
		first := item(100, 2)
		order := newTestOrder(t, first)

		require.Error(t, order.ReplaceItems([]OrderItem{first, first}))
		require.Error(t, order.ReplaceItems([]OrderItem{item(10, -1)}))
		assert.False(t, order.Modified)
	})

	t.Run("earlier item slices are not mutated", func(t *testing.T) {
		first := item(100, 2)
		order := newTestOrder(t, first)
		before := order.Items
		require.NoError(t, order.UpdateItemQuantity(first.Key(), 7))
		assert.Equal(t, 2, before[0].Quantity)
	})
}

func TestOrder_QuantityBounds(t *testing.T) {
	t.Run("wrapping quantity is rejected at placement", func(t *testing.T) {
		_, err := NewOrder(CustomerDetails{Name: "Asha"}, []OrderItem{item(100, math.MaxInt64/50)})
		assert.True(t, errors.Is(err, shared.ErrQuantityTooLarge))
	})

	t.Run("total that does not fit is rejected", func(t *testing.T) {
		_, err := NewOrder(CustomerDetails{Name: "Asha"}, []OrderItem{item(math.MaxInt64/2, 3)})
		assert.True(t, errors.Is(err, shared.ErrAmountTooLarge))

		_, err = NewOrder(CustomerDetails{Name: "Asha"}, []OrderItem{item(math.MaxInt64-10, 1), item(11, 1)})
		assert.True(t, errors.Is(err, shared.ErrAmountTooLarge))
	})

	t.Run("quantity edit above the limit leaves the order untouched", func(t *testing.T) {
		order := newTestOrder(t, item(100, 2))
		key := order.Items[0].Key()

		err := order.UpdateItemQuantity(key, shared.MaxQuantity+1)
		assert.True(t, errors.Is(err, shared.ErrInvalidQuantity))
		assert.Equal(t, 2, order.Items[0].Quantity)
		assert.Equal(t, valueobject.Money(200), order.Total)
		assert.False(t, order.Modified)

		require.NoError(t, order.UpdateItemQuantity(key, shared.MaxQuantity))
		assert.Equal(t, valueobject.Money(100*shared.MaxQuantity), order.Total)
	})

	t.Run("quantity edit that overflows the total is rejected", func(t *testing.T) {
		order := newTestOrder(t, item(math.MaxInt64/4, 1))
		err := order.UpdateItemQuantity(order.Items[0].Key(), 5)
		assert.True(t, errors.Is(err, shared.ErrAmountTooLarge))
		assert.Equal(t, 1, order.Items[0].Quantity)
	})

	t.Run("saved item sets are bounded", func(t *testing.T) {
		order := newTestOrder(t, item(100, 1))
		err := order.ReplaceItems([]OrderItem{item(100, shared.MaxQuantity+1)})
		assert.True(t, errors.Is(err, shared.ErrQuantityTooLarge))
		assert.Len(t, order.Items, 1)
	})
}

func TestOrder_StatusTransitions(t *testing.T) {
	t.Run("deliver then cancel fails", func(t *testing.T) {
		order := newTestOrder(t, item(10, 1))
		require.NoError(t, order.Deliver())
		assert.Equal(t, OrderStatusDelivered, order.Status)

		err := order.Cancel()
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
		assert.Equal(t, OrderStatusDelivered, order.Status)
	})

	t.Run("cancel is terminal", func(t *testing.T) {
		order := newTestOrder(t, item(10, 1))
		require.NoError(t, order.Cancel())
		assert.Error(t, order.Deliver())
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		order := newTestOrder(t, item(10, 1))
		assert.Error(t, order.TransitionTo("shipped"))
	})

	t.Run("paid is independent of status", func(t *testing.T) {
		order := newTestOrder(t, item(10, 1))
		require.NoError(t, order.Cancel())
		order.SetPaid(true)
		assert.True(t, order.Paid)

		order.ClearDomainEvents()
		order.SetPaid(true)
		assert.Empty(t, order.GetDomainEvents())
	})
}

func TestOrder_Apply(t *testing.T) {
	t.Run("merges paid and status", func(t *testing.T) {
		order := newTestOrder(t, item(10, 1))
		paid := true
		delivered := OrderStatusDelivered

		require.NoError(t, order.Apply(OrderUpdate{Paid: &paid, Status: &delivered}))
		assert.True(t, order.Paid)
		assert.Equal(t, OrderStatusDelivered, order.Status)
		assert.False(t, order.Modified)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		order := newTestOrder(t, item(10, 1))
		pending := OrderStatusPending
		require.NoError(t, order.Apply(OrderUpdate{Status: &pending}))
		assert.Empty(t, order.GetDomainEvents())
	})

	t.Run("items update sets modified", func(t *testing.T) {
		order := newTestOrder(t, item(10, 1))
		require.NoError(t, order.Apply(OrderUpdate{Items: []OrderItem{item(30, 3)}}))
		assert.Equal(t, valueobject.Money(90), order.Total)
		assert.True(t, order.Modified)
	})

	t.Run("invalid transition is rejected", func(t *testing.T) {
		order := newTestOrder(t, item(10, 1))
		require.NoError(t, order.Cancel())
		delivered := OrderStatusDelivered
		assert.Error(t, order.Apply(OrderUpdate{Status: &delivered}))
	})

	assert.True(t, OrderUpdate{}.IsEmpty())
}

func TestOrder_MapsURL(t *testing.T) {
	order, err := NewOrder(CustomerDetails{Name: "Asha", City: "Mysuru"}, []OrderItem{item(1, 1)})
	require.NoError(t, err)
	assert.Equal(t, "https://www.google.com/maps/search/?api=1&query=Mysuru", order.MapsURL())
	assert.Equal(t, 1, order.ItemCount())
	assert.Equal(t, 1, order.TotalQuantity())
	assert.True(t, order.IsPending())
}
