package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/weavewear/weavewear-backend-go/database"
	"github.com/weavewear/weavewear-backend-go/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ReviewRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Text   string `json:"text" validate:"required"`
}

func fetchProduct(c echo.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := database.DB.Collection("products").FindOne(
		c.Request().Context(),
		bson.M{"_id": id},
	).Decode(&product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// saveReviews persists the review list together with the derived rating fields
// so they are never stale relative to each other.
func saveReviews(c echo.Context, product *models.Product) error {
	_, err := database.DB.Collection("products").UpdateOne(
		c.Request().Context(),
		bson.M{"_id": product.ID},
		bson.M{"$set": bson.M{
			"reviews":     product.Reviews,
			"rating":      product.Rating,
			"reviewCount": product.ReviewCount,
		}},
	)
	return err
}

// hasDeliveredOrder reports whether the user has a delivered order containing
// the product. Checked once at review creation; never recomputed.
func hasDeliveredOrder(c echo.Context, userID, productID primitive.ObjectID) bool {
	count, err := database.DB.Collection("orders").CountDocuments(
		c.Request().Context(),
		bson.M{
			"user":          userID,
			"items.product": productID,
			"status":        models.OrderStatusDelivered,
		},
	)
	return err == nil && count > 0
}

func GetReviews(c echo.Context) error {
	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid product ID"})
	}

	product, err := fetchProduct(c, productID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, product.Reviews)
}

// AddReview adds the caller's review, or overwrites their previous one for the
// same product. The product's rating fields are refreshed before responding.
func AddReview(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid product ID"})
	}

	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	product, err := fetchProduct(c, productID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	user, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
	}

	product.UpsertReview(models.Review{
		User:     userID,
		UserName: user.Name,
		Rating:   req.Rating,
		Text:     req.Text,
		Date:     time.Now(),
		Verified: hasDeliveredOrder(c, userID, productID),
	})

	if err := saveReviews(c, product); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, product.Reviews)
}

// DeleteReview removes the caller's own review and refreshes the rating.
func DeleteReview(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid product ID"})
	}
	reviewID, err := primitive.ObjectIDFromHex(c.Param("reviewId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid review ID"})
	}

	product, err := fetchProduct(c, productID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	for _, review := range product.Reviews {
		if review.ID == reviewID && review.User != userID {
			return c.JSON(http.StatusForbidden, map[string]string{"message": "Not authorized to delete this review"})
		}
	}

	if err := product.RemoveReview(reviewID); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Review not found"})
	}

	if err := saveReviews(c, product); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Review deleted successfully"})
}
