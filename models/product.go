package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrReviewNotFound = errors.New("review not found")

type Color struct {
	Name string `bson:"name" json:"name"`
	Hex  string `bson:"hex" json:"hex"`
}

type Review struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User     primitive.ObjectID `bson:"user" json:"user"`
	UserName string             `bson:"userName" json:"userName"`
	Rating   int                `bson:"rating" json:"rating"` // 1..5
	Text     string             `bson:"text" json:"text"`
	Date     time.Time          `bson:"date" json:"date"`
	Verified bool               `bson:"verified" json:"verified"`
}

type Product struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name               string             `bson:"name" json:"name"`
	Description        string             `bson:"description" json:"description"`
	Price              float64            `bson:"price" json:"price"`
	OriginalPrice      float64            `bson:"originalPrice,omitempty" json:"originalPrice,omitempty"`
	DiscountPercentage float64            `bson:"discountPercentage,omitempty" json:"discountPercentage,omitempty"`
	ImageSrc           string             `bson:"imageSrc" json:"imageSrc"`
	Images             []string           `bson:"images,omitempty" json:"images,omitempty"`
	Category           string             `bson:"category" json:"category"`
	Subcategory        string             `bson:"subcategory,omitempty" json:"subcategory,omitempty"`
	Tags               []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Rating             float64            `bson:"rating" json:"rating"`
	ReviewCount        int                `bson:"reviewCount" json:"reviewCount"`
	InStock            bool               `bson:"inStock" json:"inStock"`
	Sizes              []string           `bson:"sizes,omitempty" json:"sizes,omitempty"`
	Colors             []Color            `bson:"colors,omitempty" json:"colors,omitempty"`
	SKU                string             `bson:"sku" json:"sku"`
	Material           string             `bson:"material,omitempty" json:"material,omitempty"`
	Trending           bool               `bson:"trending" json:"trending"`
	BestRated          bool               `bson:"bestRated" json:"bestRated"`
	MostPopular        bool               `bson:"mostPopular" json:"mostPopular"`
	Featured           bool               `bson:"featured" json:"featured"`
	Reviews            []Review           `bson:"reviews" json:"reviews"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
}

// AverageRating is the arithmetic mean of all review ratings, 0 with no reviews.
func (p *Product) AverageRating() float64 {
	if len(p.Reviews) == 0 {
		return 0
	}
	total := 0
	for _, r := range p.Reviews {
		total += r.Rating
	}
	return float64(total) / float64(len(p.Reviews))
}

// RefreshRating recomputes the derived rating fields. Must run after every
// review mutation, before the document is saved.
func (p *Product) RefreshRating() {
	p.Rating = p.AverageRating()
	p.ReviewCount = len(p.Reviews)
}

// UpsertReview adds a review, or overwrites rating/text/date in place when the
// author already reviewed this product. The verified flag is only set on first
// submission. Returns true when a new review was appended.
func (p *Product) UpsertReview(r Review) bool {
	for i := range p.Reviews {
		if p.Reviews[i].User == r.User {
			p.Reviews[i].Rating = r.Rating
			p.Reviews[i].Text = r.Text
			p.Reviews[i].Date = r.Date
			p.RefreshRating()
			return false
		}
	}
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	p.Reviews = append(p.Reviews, r)
	p.RefreshRating()
	return true
}

// RemoveReview deletes a review by id and refreshes the derived fields.
func (p *Product) RemoveReview(reviewID primitive.ObjectID) error {
	for i := range p.Reviews {
		if p.Reviews[i].ID == reviewID {
			p.Reviews = append(p.Reviews[:i], p.Reviews[i+1:]...)
			p.RefreshRating()
			return nil
		}
	}
	return ErrReviewNotFound
}
