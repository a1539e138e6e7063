package event

import (
	"testing"

	"github.com/prakruthi/storefront/internal/domain/trade"
	"github.com/stretchr/testify/assert"
)

func TestSubscriptions_For(t *testing.T) {
	subs := NewSubscriptions()
	placed := newTestHandler(trade.EventTypeOrderPlaced)
	everything := newTestHandler()

	subs.Add(everything)
	subs.Add(placed, trade.EventTypeOrderPlaced, trade.EventTypeOrderStatusChanged)

	handlers := subs.For(trade.EventTypeOrderPlaced)
	if assert.Len(t, handlers, 2) {
		assert.Same(t, placed, handlers[0], "typed handlers come before catch-all ones")
		assert.Same(t, everything, handlers[1])
	}
	assert.Len(t, subs.For(trade.EventTypeOrderStatusChanged), 2)
	assert.Len(t, subs.For("ProductStockChanged"), 1)
}

func TestSubscriptions_AddTwiceIsNoop(t *testing.T) {
	subs := NewSubscriptions()
	h := newTestHandler()

	subs.Add(h, trade.EventTypeOrderPlaced)
	subs.Add(h, trade.EventTypeOrderPlaced)
	subs.Add(h)
	subs.Add(h)

	assert.Len(t, subs.For(trade.EventTypeOrderPlaced), 2)
	assert.Len(t, subs.For("other"), 1)
}

func TestSubscriptions_Remove(t *testing.T) {
	subs := NewSubscriptions()
	keep := newTestHandler()
	drop := newTestHandler()

	subs.Add(keep, trade.EventTypeOrderPlaced)
	subs.Add(drop, trade.EventTypeOrderPlaced, trade.EventTypeOrderStatusChanged)
	subs.Add(drop)

	subs.Remove(drop)

	assert.Equal(t, 1, len(subs.For(trade.EventTypeOrderPlaced)))
	assert.Empty(t, subs.For(trade.EventTypeOrderStatusChanged))
	_, tracked := subs.byType[trade.EventTypeOrderStatusChanged]
	assert.False(t, tracked)
}

func TestSubscriptions_ForReturnsCopy(t *testing.T) {
	subs := NewSubscriptions()
	subs.Add(newTestHandler(), trade.EventTypeOrderPlaced)

	handlers := subs.For(trade.EventTypeOrderPlaced)
	handlers[0] = nil

	assert.NotNil(t, subs.For(trade.EventTypeOrderPlaced)[0])
}
