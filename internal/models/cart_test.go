package models

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCartAddItemMergesLines(t *testing.T) {
	cart := NewCart(primitive.NewObjectID(), primitive.NewObjectID())
	dosa := primitive.NewObjectID()

	cart.AddItem(CartItem{ItemID: dosa, Name: "Dosa", Price: 60, Quantity: 2})
	cart.AddItem(CartItem{ItemID: primitive.NewObjectID(), Name: "Chai", Price: 15.5, Quantity: 1})
	cart.AddItem(CartItem{ItemID: dosa, Name: "Masala Dosa", Price: 65, Quantity: 1})

	require.Len(t, cart.Items, 2)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, "Masala Dosa", cart.Items[0].Name)
	assert.Equal(t, 195.0, cart.Items[0].ItemTotal)
	assert.Equal(t, 210.5, cart.Subtotal)
	assert.Equal(t, cart.Subtotal, cart.Total)
	assert.Equal(t, 4, cart.ItemCount())
}

func TestCartSetQuantity(t *testing.T) {
	cart := NewCart(primitive.NewObjectID(), primitive.NewObjectID())
	idli := primitive.NewObjectID()
	cart.AddItem(CartItem{ItemID: idli, Price: 0.1, Quantity: 1})

	changed, err := cart.SetQuantity(idli, 3)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 0.3, cart.Subtotal)

	changed, err = cart.SetQuantity(primitive.NewObjectID(), 2)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
	assert.False(t, changed)

	changed, err = cart.SetQuantity(primitive.NewObjectID(), 0)
	assert.NoError(t, err)
	assert.False(t, changed)

	changed, err = cart.SetQuantity(idli, 0)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)
}

func TestCartClear(t *testing.T) {
	cart := NewCart(primitive.NewObjectID(), primitive.NewObjectID())
	cart.AddItem(CartItem{ItemID: primitive.NewObjectID(), Price: 10, Quantity: 2})

	cart.Clear()
	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Subtotal)
}

func TestCartTotalsInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ids := make([]primitive.ObjectID, 5)
	prices := []float64{19.99, 0.1, 120, 45.5, 7.25}
	for i := range ids {
		ids[i] = primitive.NewObjectID()
	}

	cart := NewCart(primitive.NewObjectID(), primitive.NewObjectID())
	for step := 0; step < 500; step++ {
		i := rng.Intn(len(ids))
		if rng.Intn(2) == 0 {
			cart.AddItem(CartItem{ItemID: ids[i], Price: prices[i], Quantity: 1 + rng.Intn(3)})
		} else {
			_, _ = cart.SetQuantity(ids[i], rng.Intn(4))
		}

		cents := int64(0)
		for _, line := range cart.Items {
			require.Positive(t, line.Quantity)
			assert.Equal(t, lineCents(line.Price, line.Quantity), toCents(line.ItemTotal))
			cents += toCents(line.ItemTotal)
		}
		require.Equal(t, cents, toCents(cart.Subtotal), "step %d", step)
		require.Equal(t, cart.Subtotal, cart.Total)
	}
}

func toCents(amount float64) int64 {
	if amount < 0 {
		return int64(amount*100 - 0.5)
	}
	return int64(amount*100 + 0.5)
}

func lineCents(price float64, quantity int) int64 {
	return toCents(price) * int64(quantity)
}
