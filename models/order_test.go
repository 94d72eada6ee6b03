package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusDelivered, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusProcessing, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusShipped, false},
		{OrderStatusCancelled, OrderStatusProcessing, false},
		{OrderStatusCancelled, OrderStatusDelivered, false},
	}

	for _, tc := range cases {
		got := tc.from.CanTransitionTo(tc.to)
		assert.Equalf(t, tc.allowed, got, "%s -> %s", tc.from, tc.to)
	}
}

func TestPaymentStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to PaymentStatus
		allowed  bool
	}{
		{PaymentStatusPending, PaymentStatusPaid, true},
		{PaymentStatusPending, PaymentStatusRefunded, false},
		{PaymentStatusPaid, PaymentStatusRefunded, true},
		{PaymentStatusPaid, PaymentStatusPending, false},
		{PaymentStatusRefunded, PaymentStatusPaid, false},
		{PaymentStatusRefunded, PaymentStatusPending, false},
	}

	for _, tc := range cases {
		got := tc.from.CanTransitionTo(tc.to)
		assert.Equalf(t, tc.allowed, got, "%s -> %s", tc.from, tc.to)
	}
}

func TestNewOrderCopiesItemSnapshot(t *testing.T) {
	productX := primitive.NewObjectID()
	submitted := []OrderItem{
		{Product: productX, Name: "Linen Shirt", ImageSrc: "/img/linen-shirt.jpg", Price: 50, Quantity: 2, Size: "M", Color: "Red"},
		{Product: primitive.NewObjectID(), Name: "Denim Jacket", ImageSrc: "/img/denim.jpg", Price: 19.99, Quantity: 1, Size: "L", Color: "Blue"},
	}

	order := NewOrder(primitive.NewObjectID(), CheckoutSnapshot{
		Items:         submitted,
		PaymentMethod: "credit-card",
		Subtotal:      119.99,
		Tax:           9.6,
		Total:         129.59,
	})

	require.Len(t, order.Items, 2)
	assert.Equal(t, submitted, order.Items)
	assert.Equal(t, OrderStatusProcessing, order.Status)
	assert.Equal(t, PaymentStatusPaid, order.PaymentStatus)
	assert.InDelta(t, 119.99, order.Subtotal, 1e-9)

	// A price or name change after checkout, as a product edit would produce,
	// leaves the stored snapshot untouched
	submitted[0].Price = 80
	submitted[0].Name = "Linen Shirt (restocked)"
	assert.Equal(t, 50.0, order.Items[0].Price)
	assert.Equal(t, "Linen Shirt", order.Items[0].Name)
	assert.Equal(t, productX, order.Items[0].Product)
}

func TestStatusValid(t *testing.T) {
	assert.True(t, OrderStatusProcessing.Valid())
	assert.True(t, OrderStatusCancelled.Valid())
	assert.False(t, OrderStatus("PENDING").Valid())
	assert.False(t, OrderStatus("").Valid())

	assert.True(t, PaymentStatusPending.Valid())
	assert.False(t, PaymentStatus("chargeback").Valid())
}
