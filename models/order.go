package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo enforces processing→shipped→delivered with cancellation
// allowed from any non-terminal state. Delivered and cancelled are terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusProcessing:
		return next == OrderStatusShipped || next == OrderStatusCancelled
	case OrderStatusShipped:
		return next == OrderStatusDelivered || next == OrderStatusCancelled
	}
	return false
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded:
		return true
	}
	return false
}

// CanTransitionTo allows pending→paid and paid→refunded.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return next == PaymentStatusPaid
	case PaymentStatusPaid:
		return next == PaymentStatusRefunded
	}
	return false
}

// OrderItem is a snapshot of a cart line at checkout. Later price or name
// changes on the product must not alter it.
type OrderItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Name     string             `bson:"name" json:"name"`
	ImageSrc string             `bson:"imageSrc" json:"imageSrc"`
	Price    float64            `bson:"price" json:"price"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Size     string             `bson:"size" json:"size"`
	Color    string             `bson:"color" json:"color"`
}

type OrderAddress struct {
	Name          string `bson:"name" json:"name" validate:"required"`
	StreetAddress string `bson:"streetAddress" json:"streetAddress" validate:"required"`
	City          string `bson:"city" json:"city" validate:"required"`
	State         string `bson:"state" json:"state" validate:"required"`
	PostalCode    string `bson:"postalCode" json:"postalCode" validate:"required"`
	Country       string `bson:"country" json:"country" validate:"required"`
}

// CheckoutSnapshot carries the client-submitted order data: the item lines
// plus the totals and addresses computed at checkout time.
type CheckoutSnapshot struct {
	Items           []OrderItem
	ShippingAddress OrderAddress
	BillingAddress  OrderAddress
	PaymentMethod   string
	Subtotal        float64
	ShippingCost    float64
	Discount        float64
	Tax             float64
	Total           float64
}

// NewOrder assembles a new processing order from a checkout submission. The
// item list is copied verbatim; later edits to the live product documents
// must never alter the stored snapshot.
func NewOrder(user primitive.ObjectID, snap CheckoutSnapshot) Order {
	items := make([]OrderItem, len(snap.Items))
	copy(items, snap.Items)
	return Order{
		ID:                primitive.NewObjectID(),
		User:              user,
		Items:             items,
		Subtotal:          snap.Subtotal,
		ShippingCost:      snap.ShippingCost,
		Discount:          snap.Discount,
		Tax:               snap.Tax,
		Total:             snap.Total,
		ShippingAddress:   snap.ShippingAddress,
		BillingAddress:    snap.BillingAddress,
		PaymentMethod:     snap.PaymentMethod,
		PaymentStatus:     PaymentStatusPaid,
		Status:            OrderStatusProcessing,
		EstimatedDelivery: time.Now().Add(5 * 24 * time.Hour),
		Date:              time.Now(),
	}
}

type Order struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User              primitive.ObjectID `bson:"user" json:"user"`
	Items             []OrderItem        `bson:"items" json:"items"`
	Subtotal          float64            `bson:"subtotal" json:"subtotal"`
	ShippingCost      float64            `bson:"shippingCost" json:"shippingCost"`
	Discount          float64            `bson:"discount" json:"discount"`
	Tax               float64            `bson:"tax" json:"tax"`
	Total             float64            `bson:"total" json:"total"`
	ShippingAddress   OrderAddress       `bson:"shippingAddress" json:"shippingAddress"`
	BillingAddress    OrderAddress       `bson:"billingAddress" json:"billingAddress"`
	PaymentMethod     string             `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus     PaymentStatus      `bson:"paymentStatus" json:"paymentStatus"`
	Status            OrderStatus        `bson:"status" json:"status"`
	TrackingNumber    string             `bson:"trackingNumber,omitempty" json:"trackingNumber,omitempty"`
	TrackingURL       string             `bson:"trackingURL,omitempty" json:"trackingURL,omitempty"`
	EstimatedDelivery time.Time          `bson:"estimatedDelivery,omitempty" json:"estimatedDelivery,omitempty"`
	DeliveredDate     time.Time          `bson:"deliveredDate,omitempty" json:"deliveredDate,omitempty"`
	Date              time.Time          `bson:"date" json:"date"`
}
