package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrCartItemNotFound = errors.New("item not found in cart")
	ErrInvalidQuantity  = errors.New("quantity must be greater than 0")
)

type CartItem struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Size     string             `bson:"size" json:"size"`
	Color    string             `bson:"color" json:"color"`
	Price    float64            `bson:"price" json:"price"` // unit price captured at add-time
}

type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Items     []CartItem         `bson:"items" json:"items"`
	Version   int64              `bson:"version" json:"-"` // optimistic concurrency token
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Totals derives the cart aggregates. Subtotal uses the price captured when the
// item was added, not the live product price. ItemCount is the number of lines,
// not the total quantity.
func (c *Cart) Totals() (subtotal float64, itemCount int) {
	for _, item := range c.Items {
		subtotal += item.Price * float64(item.Quantity)
	}
	return subtotal, len(c.Items)
}

// AddItem merges into an existing (product, size, color) line by incrementing
// its quantity, otherwise appends a new line at the given unit price.
func (c *Cart) AddItem(productID primitive.ObjectID, quantity int, size, color string, price float64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	for i := range c.Items {
		if c.Items[i].Product == productID && c.Items[i].Size == size && c.Items[i].Color == color {
			c.Items[i].Quantity += quantity
			return nil
		}
	}
	c.Items = append(c.Items, CartItem{
		ID:       primitive.NewObjectID(),
		Product:  productID,
		Quantity: quantity,
		Size:     size,
		Color:    color,
		Price:    price,
	})
	return nil
}

// UpdateItemQuantity sets the quantity of an existing line.
func (c *Cart) UpdateItemQuantity(itemID primitive.ObjectID, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items[i].Quantity = quantity
			return nil
		}
	}
	return ErrCartItemNotFound
}

// RemoveItem deletes a line by id.
func (c *Cart) RemoveItem(itemID primitive.ObjectID) error {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return ErrCartItemNotFound
}

// Clear empties the item list; the cart record itself is retained.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
}
