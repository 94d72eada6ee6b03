package handlers

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/weavewear/weavewear-backend-go/database"
	"github.com/weavewear/weavewear-backend-go/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Pagination struct {
	TotalProducts int64 `json:"totalProducts"`
	TotalPages    int64 `json:"totalPages"`
	CurrentPage   int64 `json:"currentPage"`
	HasNextPage   bool  `json:"hasNextPage"`
	HasPrevPage   bool  `json:"hasPrevPage"`
	Limit         int64 `json:"limit"`
}

func queryInt(c echo.Context, name string, fallback int64) int64 {
	if raw := c.QueryParam(name); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}

// applyCatalogFilters adds the shared price/size/color filters to a product query.
func applyCatalogFilters(c echo.Context, query bson.M) {
	price := bson.M{}
	if raw := c.QueryParam("minPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			price["$gte"] = v
		}
	}
	if raw := c.QueryParam("maxPrice"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			price["$lte"] = v
		}
	}
	if len(price) > 0 {
		query["price"] = price
	}

	if sizes := c.QueryParam("sizes"); sizes != "" {
		query["sizes"] = bson.M{"$in": strings.Split(sizes, ",")}
	}
	if colors := c.QueryParam("colors"); colors != "" {
		query["colors.name"] = bson.M{"$in": strings.Split(colors, ",")}
	}
}

func searchFilter(q string) bson.A {
	regex := bson.M{"$regex": q, "$options": "i"}
	return bson.A{
		bson.M{"name": regex},
		bson.M{"description": regex},
		bson.M{"tags": regex},
	}
}

func catalogSort(sort string) bson.D {
	switch sort {
	case "price-asc":
		return bson.D{{Key: "price", Value: 1}}
	case "price-desc":
		return bson.D{{Key: "price", Value: -1}}
	case "rating":
		return bson.D{{Key: "rating", Value: -1}}
	default: // "newest" and everything else
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]models.Product, error) {
	products := []models.Product{}
	defer cursor.Close(ctx)
	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, cursor.Err()
}

// listProducts runs the shared filter/sort/paginate pipeline used by the
// catalog and category endpoints.
func listProducts(c echo.Context, query bson.M) error {
	ctx := c.Request().Context()
	collection := database.DB.Collection("products")

	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)
	skip := (page - 1) * limit

	opts := options.Find().
		SetSort(catalogSort(c.QueryParam("sort"))).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := collection.Find(ctx, query, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	products, err := decodeProducts(ctx, cursor)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	total, err := collection.CountDocuments(ctx, query)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	totalPages := int64(math.Ceil(float64(total) / float64(limit)))
	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
		"pagination": Pagination{
			TotalProducts: total,
			TotalPages:    totalPages,
			CurrentPage:   page,
			HasNextPage:   page < totalPages,
			HasPrevPage:   page > 1,
			Limit:         limit,
		},
	})
}

// GetProducts lists the catalog with filtering, sorting and pagination.
func GetProducts(c echo.Context) error {
	query := bson.M{}
	if category := c.QueryParam("category"); category != "" {
		query["category"] = category
	}
	applyCatalogFilters(c, query)
	if search := c.QueryParam("search"); search != "" {
		query["$or"] = searchFilter(search)
	}
	return listProducts(c, query)
}

func GetProduct(c echo.Context) error {
	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid product ID"})
	}

	var product models.Product
	err = database.DB.Collection("products").FindOne(
		c.Request().Context(),
		bson.M{"_id": productID},
	).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, product)
}

// SearchProducts is the quick search box endpoint, capped at 20 results.
func SearchProducts(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Search query is required"})
	}

	ctx := c.Request().Context()
	cursor, err := database.DB.Collection("products").Find(
		ctx,
		bson.M{"$or": searchFilter(q)},
		options.Find().SetLimit(20),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	products, err := decodeProducts(ctx, cursor)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, products)
}

// GetNewArrivals returns the newest featured products.
func GetNewArrivals(c echo.Context) error {
	query := bson.M{"featured": c.QueryParam("featured") != "false"}
	if filter := c.QueryParam("filter"); filter != "" {
		query["gender"] = filter
	}

	ctx := c.Request().Context()
	cursor, err := database.DB.Collection("products").Find(
		ctx,
		query,
		options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(queryInt(c, "limit", 4)),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	products, err := decodeProducts(ctx, cursor)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, products)
}

// GetTopSelling returns trending/best-rated/most-popular products sorted by rating.
func GetTopSelling(c echo.Context) error {
	query := bson.M{"trending": c.QueryParam("trending") != "false"}
	switch c.QueryParam("filter") {
	case "trending":
		query = bson.M{"trending": true}
	case "best-rated":
		query = bson.M{"bestRated": true}
	case "most-popular":
		query = bson.M{"mostPopular": true}
	}

	ctx := c.Request().Context()
	cursor, err := database.DB.Collection("products").Find(
		ctx,
		query,
		options.Find().
			SetSort(bson.D{{Key: "rating", Value: -1}}).
			SetLimit(queryInt(c, "limit", 4)),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	products, err := decodeProducts(ctx, cursor)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, products)
}

// CreateProduct seeds catalog entries.
func CreateProduct(c echo.Context) error {
	var product models.Product
	if err := c.Bind(&product); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}

	product.ID = primitive.NewObjectID()
	product.Reviews = []models.Review{}
	product.CreatedAt = time.Now()
	product.RefreshRating()

	_, err := database.DB.Collection("products").InsertOne(c.Request().Context(), product)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}
	return c.JSON(http.StatusCreated, product)
}
