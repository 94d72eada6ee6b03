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

type AddToWishlistRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

// WishlistItem is the product projection returned by the wishlist endpoints.
type WishlistItem struct {
	ID                 primitive.ObjectID `json:"id"`
	Name               string             `json:"name"`
	ImageSrc           string             `json:"imageSrc"`
	Price              float64            `json:"price"`
	OriginalPrice      float64            `json:"originalPrice,omitempty"`
	DiscountPercentage float64            `json:"discountPercentage,omitempty"`
	Rating             float64            `json:"rating"`
	ReviewCount        int                `json:"reviewCount"`
	InStock            bool               `json:"inStock"`
	Category           string             `json:"category"`
	DateAdded          time.Time          `json:"dateAdded"`
}

func fetchOrCreateWishlist(c echo.Context, userID primitive.ObjectID) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	err := database.DB.Collection("wishlists").FindOne(
		c.Request().Context(),
		bson.M{"user": userID},
	).Decode(&wishlist)
	if err == mongo.ErrNoDocuments {
		wishlist = models.Wishlist{
			ID:        primitive.NewObjectID(),
			User:      userID,
			Products:  []primitive.ObjectID{},
			DateAdded: time.Now(),
		}
		if _, err := database.DB.Collection("wishlists").InsertOne(c.Request().Context(), wishlist); err != nil {
			return nil, err
		}
		return &wishlist, nil
	}
	if err != nil {
		return nil, err
	}
	return &wishlist, nil
}

func wishlistResponse(c echo.Context, wishlist *models.Wishlist) error {
	ctx := c.Request().Context()
	items := []WishlistItem{}

	if len(wishlist.Products) > 0 {
		cursor, err := database.DB.Collection("products").Find(
			ctx,
			bson.M{"_id": bson.M{"$in": wishlist.Products}},
		)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
		}
		defer cursor.Close(ctx)

		for cursor.Next(ctx) {
			var product models.Product
			if err := cursor.Decode(&product); err != nil {
				return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
			}
			items = append(items, WishlistItem{
				ID:                 product.ID,
				Name:               product.Name,
				ImageSrc:           product.ImageSrc,
				Price:              product.Price,
				OriginalPrice:      product.OriginalPrice,
				DiscountPercentage: product.DiscountPercentage,
				Rating:             product.Rating,
				ReviewCount:        product.ReviewCount,
				InStock:            product.InStock,
				Category:           product.Category,
				DateAdded:          wishlist.DateAdded,
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

func GetWishlist(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	wishlist, err := fetchOrCreateWishlist(c, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}
	return wishlistResponse(c, wishlist)
}

func AddToWishlist(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	var req AddToWishlistRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid product ID"})
	}

	if _, err := fetchProduct(c, productID); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	wishlist, err := fetchOrCreateWishlist(c, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	if wishlist.Contains(productID) {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Product already in wishlist"})
	}
	wishlist.Add(productID)

	_, err = database.DB.Collection("wishlists").UpdateOne(
		c.Request().Context(),
		bson.M{"_id": wishlist.ID},
		bson.M{"$set": bson.M{"products": wishlist.Products, "dateAdded": wishlist.DateAdded}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	return wishlistResponse(c, wishlist)
}

func RemoveFromWishlist(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid product ID"})
	}

	var wishlist models.Wishlist
	err = database.DB.Collection("wishlists").FindOne(
		c.Request().Context(),
		bson.M{"user": userID},
	).Decode(&wishlist)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Wishlist not found"})
	}

	if !wishlist.Remove(productID) {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Product not found in wishlist"})
	}

	_, err = database.DB.Collection("wishlists").UpdateOne(
		c.Request().Context(),
		bson.M{"_id": wishlist.ID},
		bson.M{"$set": bson.M{"products": wishlist.Products}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	return wishlistResponse(c, &wishlist)
}
