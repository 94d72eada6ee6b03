package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/weavewear/weavewear-backend-go/database"
	"github.com/weavewear/weavewear-backend-go/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	cursor, err := database.DB.Collection("categories").Find(
		ctx,
		bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	for cursor.Next(ctx) {
		var category models.Category
		if err := cursor.Decode(&category); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
		}
		categories = append(categories, category)
	}

	return c.JSON(http.StatusOK, categories)
}

// GetCategoryProducts browses one category with the catalog filter grammar.
func GetCategoryProducts(c echo.Context) error {
	query := bson.M{"category": c.Param("categoryName")}
	applyCatalogFilters(c, query)
	return listProducts(c, query)
}
