package handlers

import (
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/weavewear/weavewear-backend-go/database"
	"github.com/weavewear/weavewear-backend-go/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OrderItemRequest struct {
	Product  string  `json:"product" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	ImageSrc string  `json:"imageSrc" validate:"required"`
	Price    float64 `json:"price" validate:"required"`
	Quantity int     `json:"quantity" validate:"required,min=1"`
	Size     string  `json:"size" validate:"required"`
	Color    string  `json:"color" validate:"required"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest  `json:"items" validate:"required,min=1,dive"`
	ShippingAddress models.OrderAddress `json:"shippingAddress" validate:"required"`
	BillingAddress  models.OrderAddress `json:"billingAddress" validate:"required"`
	PaymentMethod   string              `json:"paymentMethod" validate:"required"`
	Subtotal        float64             `json:"subtotal"`
	ShippingCost    float64             `json:"shippingCost"`
	Discount        float64             `json:"discount"`
	Tax             float64             `json:"tax"`
	Total           float64             `json:"total"`
}

type UpdateOrderStatusRequest struct {
	Status         string `json:"status"`
	PaymentStatus  string `json:"paymentStatus"`
	TrackingNumber string `json:"trackingNumber"`
	TrackingURL    string `json:"trackingURL"`
}

// GetOrders lists the caller's orders, newest first, with an optional status
// filter and pagination.
func GetOrders(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)
	ctx := c.Request().Context()

	query := bson.M{"user": userID}
	if status := c.QueryParam("status"); status != "" && status != "all" {
		query["status"] = status
	}

	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)
	skip := (page - 1) * limit

	collection := database.DB.Collection("orders")
	cursor, err := collection.Find(
		ctx,
		query,
		options.Find().
			SetSort(bson.D{{Key: "date", Value: -1}}).
			SetSkip(skip).
			SetLimit(limit),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	for cursor.Next(ctx) {
		var order models.Order
		if err := cursor.Decode(&order); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
		}
		orders = append(orders, order)
	}

	total, err := collection.CountDocuments(ctx, query)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	totalPages := int64(math.Ceil(float64(total) / float64(limit)))
	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"pagination": map[string]interface{}{
			"totalOrders": total,
			"totalPages":  totalPages,
			"currentPage": page,
			"hasNextPage": page < totalPages,
			"hasPrevPage": page > 1,
			"limit":       limit,
		},
	})
}

// GetOrder returns one of the caller's orders.
func GetOrder(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid order ID"})
	}

	var order models.Order
	err = database.DB.Collection("orders").FindOne(
		c.Request().Context(),
		bson.M{"_id": orderID, "user": userID},
	).Decode(&order)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Order not found"})
	}

	return c.JSON(http.StatusOK, order)
}

// CreateOrder copies the submitted item snapshot verbatim into the order, then
// clears the cart, both inside one transaction. Later product price changes
// never touch the stored snapshot.
func CreateOrder(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Missing required fields"})
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := primitive.ObjectIDFromHex(item.Product)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid product ID"})
		}
		items = append(items, models.OrderItem{
			Product:  productID,
			Name:     item.Name,
			ImageSrc: item.ImageSrc,
			Price:    item.Price,
			Quantity: item.Quantity,
			Size:     item.Size,
			Color:    item.Color,
		})
	}

	order := models.NewOrder(userID, models.CheckoutSnapshot{
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		PaymentMethod:   req.PaymentMethod,
		Subtotal:        req.Subtotal,
		ShippingCost:    req.ShippingCost,
		Discount:        req.Discount,
		Tax:             req.Tax,
		Total:           req.Total,
	})

	err := database.WithTransaction(c.Request().Context(), func(sc mongo.SessionContext) error {
		if _, err := database.DB.Collection("orders").InsertOne(sc, order); err != nil {
			return err
		}
		_, err := database.DB.Collection("carts").UpdateOne(
			sc,
			bson.M{"user": userID},
			bson.M{
				"$set": bson.M{"items": []models.CartItem{}, "updatedAt": time.Now()},
				"$inc": bson.M{"version": 1},
			},
		)
		return err
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	return c.JSON(http.StatusCreated, order)
}

// UpdateOrderStatus is the fulfillment action. Transitions run through the
// state machine; anything else is rejected with the order unchanged.
func UpdateOrderStatus(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid order ID"})
	}

	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}

	var order models.Order
	err = database.DB.Collection("orders").FindOne(
		c.Request().Context(),
		bson.M{"_id": orderID, "user": userID},
	).Decode(&order)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Order not found"})
	}

	update := bson.M{}

	if req.Status != "" {
		next := models.OrderStatus(req.Status)
		if !next.Valid() || !order.Status.CanTransitionTo(next) {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid status transition"})
		}
		update["status"] = next
		if next == models.OrderStatusDelivered {
			update["deliveredDate"] = time.Now()
		}
		if next == models.OrderStatusShipped {
			if req.TrackingNumber != "" {
				update["trackingNumber"] = req.TrackingNumber
			}
			if req.TrackingURL != "" {
				update["trackingURL"] = req.TrackingURL
			}
		}
	}

	if req.PaymentStatus != "" {
		next := models.PaymentStatus(req.PaymentStatus)
		if !next.Valid() || !order.PaymentStatus.CanTransitionTo(next) {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid payment status transition"})
		}
		update["paymentStatus"] = next
	}

	if len(update) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Nothing to update"})
	}

	err = database.DB.Collection("orders").FindOneAndUpdate(
		c.Request().Context(),
		bson.M{"_id": orderID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, order)
}
