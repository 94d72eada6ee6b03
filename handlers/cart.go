package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/weavewear/weavewear-backend-go/database"
	"github.com/weavewear/weavewear-backend-go/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required"`
	Size      string `json:"size" validate:"required"`
	Color     string `json:"color" validate:"required"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required"`
}

var errVersionConflict = errors.New("cart version conflict")

const cartWriteRetries = 3

func cartResponse(cart *models.Cart) map[string]interface{} {
	subtotal, itemCount := cart.Totals()
	return map[string]interface{}{
		"items":     cart.Items,
		"subtotal":  subtotal,
		"itemCount": itemCount,
	}
}

// fetchOrCreateCart loads the user's cart, creating it lazily.
func fetchOrCreateCart(c echo.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := database.DB.Collection("carts").FindOne(
		c.Request().Context(),
		bson.M{"user": userID},
	).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		cart = models.Cart{
			ID:        primitive.NewObjectID(),
			User:      userID,
			Items:     []models.CartItem{},
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if _, err := database.DB.Collection("carts").InsertOne(c.Request().Context(), cart); err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// saveCart writes the item list with a compare-and-swap on the version token.
func saveCart(c echo.Context, cart *models.Cart) error {
	result, err := database.DB.Collection("carts").UpdateOne(
		c.Request().Context(),
		bson.M{"_id": cart.ID, "version": cart.Version},
		bson.M{
			"$set": bson.M{"items": cart.Items, "updatedAt": time.Now()},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errVersionConflict
	}
	return nil
}

// applyCartMutation runs a read-modify-write with bounded retry on version
// conflicts. mutate returning a non-nil error aborts without writing; any
// save failure other than a version conflict aborts the loop.
func applyCartMutation(
	fetch func() (*models.Cart, error),
	save func(cart *models.Cart) error,
	mutate func(cart *models.Cart) error,
) (*models.Cart, error) {
	var lastErr error
	for attempt := 0; attempt < cartWriteRetries; attempt++ {
		cart, err := fetch()
		if err != nil {
			return nil, err
		}
		if err := mutate(cart); err != nil {
			return nil, err
		}
		lastErr = save(cart)
		if lastErr == nil {
			return cart, nil
		}
		if lastErr != errVersionConflict {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

func mutateCart(c echo.Context, userID primitive.ObjectID, mutate func(cart *models.Cart) error) (*models.Cart, error) {
	return applyCartMutation(
		func() (*models.Cart, error) { return fetchOrCreateCart(c, userID) },
		func(cart *models.Cart) error { return saveCart(c, cart) },
		mutate,
	)
}

func cartError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, models.ErrInvalidQuantity):
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Quantity must be greater than 0"})
	case errors.Is(err, models.ErrCartItemNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Item not found in cart"})
	case errors.Is(err, errVersionConflict):
		return c.JSON(http.StatusConflict, map[string]string{"message": "Cart was modified concurrently, please retry"})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
}

// GetCart returns the cart with freshly computed totals.
func GetCart(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	cart, err := fetchOrCreateCart(c, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, cartResponse(cart))
}

// AddToCart merges into an existing (product, size, color) line or appends a
// new one at the product's current price.
func AddToCart(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	var req AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Quantity <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Quantity must be greater than 0"})
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
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
	if !product.InStock {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Product is out of stock"})
	}

	cart, err := mutateCart(c, userID, func(cart *models.Cart) error {
		return cart.AddItem(productID, req.Quantity, req.Size, req.Color, product.Price)
	})
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(http.StatusOK, cartResponse(cart))
}

// UpdateCartItem sets the quantity of one line.
func UpdateCartItem(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	itemID, err := primitive.ObjectIDFromHex(c.Param("itemId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid item ID"})
	}

	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}
	if req.Quantity <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Quantity must be greater than 0"})
	}

	cart, err := mutateCart(c, userID, func(cart *models.Cart) error {
		return cart.UpdateItemQuantity(itemID, req.Quantity)
	})
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(http.StatusOK, cartResponse(cart))
}

// RemoveFromCart deletes one line.
func RemoveFromCart(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	itemID, err := primitive.ObjectIDFromHex(c.Param("itemId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid item ID"})
	}

	cart, err := mutateCart(c, userID, func(cart *models.Cart) error {
		return cart.RemoveItem(itemID)
	})
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(http.StatusOK, cartResponse(cart))
}

// ClearCart empties the item list but keeps the cart record.
func ClearCart(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	cart, err := mutateCart(c, userID, func(cart *models.Cart) error {
		cart.Clear()
		return nil
	})
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(http.StatusOK, cartResponse(cart))
}
