package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/weavewear/weavewear-backend-go/config"
	"github.com/weavewear/weavewear-backend-go/database"
	customMiddleware "github.com/weavewear/weavewear-backend-go/middleware"
	"github.com/weavewear/weavewear-backend-go/routes"
	"github.com/weavewear/weavewear-backend-go/utils"
)

func main() {
	// Load environment variables
	config.LoadEnv()

	// Initialize Echo
	e := echo.New()
	e.Validator = utils.NewRequestValidator()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(customMiddleware.Metrics())

	// Connect to MongoDB
	if err := database.ConnectDB(); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Setup routes
	routes.SetupRoutes(e)

	// Start the server
	port := config.GetEnv("PORT", "5000")
	e.Logger.Fatal(e.Start(":" + port))
}
