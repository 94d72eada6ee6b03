package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCartTotals(t *testing.T) {
	cart := &Cart{Items: []CartItem{
		{Product: primitive.NewObjectID(), Quantity: 2, Size: "M", Color: "Red", Price: 50},
		{Product: primitive.NewObjectID(), Quantity: 1, Size: "L", Color: "Blue", Price: 19.99},
	}}

	subtotal, itemCount := cart.Totals()
	assert.InDelta(t, 119.99, subtotal, 1e-9)
	assert.Equal(t, 2, itemCount) // line items, not total quantity
}

func TestCartTotalsEmpty(t *testing.T) {
	cart := &Cart{Items: []CartItem{}}
	subtotal, itemCount := cart.Totals()
	assert.Zero(t, subtotal)
	assert.Zero(t, itemCount)
}

func TestAddItemMergesSameVariant(t *testing.T) {
	productX := primitive.NewObjectID()
	cart := &Cart{}

	require.NoError(t, cart.AddItem(productX, 2, "M", "Red", 50))
	require.NoError(t, cart.AddItem(productX, 1, "M", "Red", 50))

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	subtotal, itemCount := cart.Totals()
	assert.Equal(t, 150.0, subtotal)
	assert.Equal(t, 1, itemCount)
}

func TestAddItemNewLinePerVariant(t *testing.T) {
	productX := primitive.NewObjectID()
	cart := &Cart{}

	require.NoError(t, cart.AddItem(productX, 1, "M", "Red", 50))
	require.NoError(t, cart.AddItem(productX, 1, "L", "Red", 50))
	require.NoError(t, cart.AddItem(productX, 1, "M", "Blue", 50))

	assert.Len(t, cart.Items, 3)
}

func TestAddItemKeepsCapturedPrice(t *testing.T) {
	productX := primitive.NewObjectID()
	cart := &Cart{}

	require.NoError(t, cart.AddItem(productX, 1, "M", "Red", 50))
	// Price changed between adds; the merged line keeps the captured price
	require.NoError(t, cart.AddItem(productX, 1, "M", "Red", 80))

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 50.0, cart.Items[0].Price)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	cart := &Cart{}
	assert.ErrorIs(t, cart.AddItem(primitive.NewObjectID(), 0, "M", "Red", 50), ErrInvalidQuantity)
	assert.ErrorIs(t, cart.AddItem(primitive.NewObjectID(), -1, "M", "Red", 50), ErrInvalidQuantity)
	assert.Empty(t, cart.Items)
}

func TestUpdateItemQuantity(t *testing.T) {
	cart := &Cart{}
	require.NoError(t, cart.AddItem(primitive.NewObjectID(), 1, "M", "Red", 50))
	itemID := cart.Items[0].ID

	require.NoError(t, cart.UpdateItemQuantity(itemID, 5))
	assert.Equal(t, 5, cart.Items[0].Quantity)

	assert.ErrorIs(t, cart.UpdateItemQuantity(itemID, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, cart.UpdateItemQuantity(primitive.NewObjectID(), 2), ErrCartItemNotFound)
}

func TestRemoveItem(t *testing.T) {
	cart := &Cart{}
	require.NoError(t, cart.AddItem(primitive.NewObjectID(), 1, "M", "Red", 50))
	require.NoError(t, cart.AddItem(primitive.NewObjectID(), 1, "L", "Blue", 20))
	itemID := cart.Items[0].ID

	require.NoError(t, cart.RemoveItem(itemID))
	assert.Len(t, cart.Items, 1)
	assert.ErrorIs(t, cart.RemoveItem(itemID), ErrCartItemNotFound)
}

func TestClearRetainsRecord(t *testing.T) {
	cart := &Cart{User: primitive.NewObjectID()}
	require.NoError(t, cart.AddItem(primitive.NewObjectID(), 2, "M", "Red", 50))

	cart.Clear()

	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
	subtotal, itemCount := cart.Totals()
	assert.Zero(t, subtotal)
	assert.Zero(t, itemCount)
}
