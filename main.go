package main

import (
	"fmt"
	"log"

	"github.com/arslanyasin/bnw-orders-backend-sub000/config"
	"github.com/arslanyasin/bnw-orders-backend-sub000/database"
	customMiddleware "github.com/arslanyasin/bnw-orders-backend-sub000/middleware"
	"github.com/arslanyasin/bnw-orders-backend-sub000/routes"
	"github.com/arslanyasin/bnw-orders-backend-sub000/utils"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load environment variables
	config.LoadEnv()

	// Initialize Echo
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(customMiddleware.MetricsMiddleware)

	// Connect to MongoDB
	if err := database.ConnectDB(); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Connect the outbound notification broker (optional)
	if err := utils.ConnectNotifier(); err != nil {
		log.Println("Failed to connect to RabbitMQ, dispatch notifications disabled:", err)
	}
	defer utils.CloseNotifier()

	// Serve stored challan documents
	e.Static("/documents", config.GetEnv("DOCUMENT_DIR", "documents"))

	// Setup routes
	routes.SetupRoutes(e)

	// Start the server
	port := config.GetEnv("PORT", "3000")
	fmt.Printf("Server starting on port %s...\n", port)
	e.Logger.Fatal(e.Start(":" + port))
}
