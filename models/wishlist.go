package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Wishlist struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID   `bson:"user" json:"user"`
	Products  []primitive.ObjectID `bson:"products" json:"products"`
	DateAdded time.Time            `bson:"dateAdded" json:"dateAdded"`
}

// Contains reports wishlist membership.
func (w *Wishlist) Contains(productID primitive.ObjectID) bool {
	for _, id := range w.Products {
		if id == productID {
			return true
		}
	}
	return false
}

// Add appends a product; duplicates are the caller's error to surface.
func (w *Wishlist) Add(productID primitive.ObjectID) {
	w.Products = append(w.Products, productID)
	w.DateAdded = time.Now()
}

// Remove drops a product, reporting whether it was present.
func (w *Wishlist) Remove(productID primitive.ObjectID) bool {
	for i, id := range w.Products {
		if id == productID {
			w.Products = append(w.Products[:i], w.Products[i+1:]...)
			return true
		}
	}
	return false
}
