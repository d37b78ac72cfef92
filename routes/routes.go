package routes

import (
	"github.com/arslanyasin/bnw-orders-backend-sub000/handlers"
	customMiddleware "github.com/arslanyasin/bnw-orders-backend-sub000/middleware"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(e *echo.Echo) {
	// Public routes
	e.POST("/register", handlers.SignUp)
	e.POST("/login", handlers.Login)
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Protected API routes
	api := e.Group("/api")
	api.Use(customMiddleware.AuthMiddleware)

	// Order routes
	api.POST("/orders", handlers.CreateOrder)
	api.GET("/orders", handlers.GetOrders)
	api.GET("/orders/:id", handlers.GetOrder)
	api.GET("/orders/:id/status", handlers.GetOrderStatus)
	api.PUT("/orders/:id/status", handlers.UpdateOrderStatus)
	api.DELETE("/orders/:id", handlers.DeleteOrder)

	// Dispatch routes
	api.POST("/orders/:id/dispatch", handlers.DispatchOrder)
	api.POST("/orders/:id/dispatch/manual", handlers.ManualDispatchOrder)
	api.GET("/shipments/:id", handlers.GetShipment)
	api.GET("/shipments/:id/track", handlers.TrackShipment)
	api.PUT("/shipments/:id/status", handlers.UpdateShipmentStatus)
	api.POST("/shipments/:id/cancel", handlers.CancelShipment)

	// Challan routes
	api.POST("/orders/:id/challan", handlers.CreateChallan)
	api.GET("/challans", handlers.ListChallans)
	api.GET("/challans/:id", handlers.GetChallan)
	api.POST("/challans/:id/regenerate", handlers.RegenerateChallanPDF)
	api.POST("/challans/bulk-download", handlers.BulkDownloadChallans)

	// Purchase order routes
	api.POST("/purchase-orders", handlers.CreatePurchaseOrder)
	api.GET("/purchase-orders", handlers.ListPurchaseOrders)
	api.GET("/purchase-orders/:id", handlers.GetPurchaseOrder)
	api.PUT("/purchase-orders/:id", handlers.UpdatePurchaseOrder)
	api.POST("/purchase-orders/:id/cancel", handlers.CancelPurchaseOrder)
	api.POST("/purchase-orders/bulk-create", handlers.BulkCreateFromOrders)
	api.POST("/purchase-orders/bulk-update", handlers.BulkUpdatePurchaseOrders)
	api.POST("/purchase-orders/combine-preview", handlers.CombinePreview)
	api.POST("/purchase-orders/merge", handlers.MergePurchaseOrders)

	// Reference data routes
	api.POST("/couriers", handlers.CreateCourier)
	api.GET("/couriers", handlers.GetCouriers)
	api.GET("/couriers/:id", handlers.GetCourier)
	api.PUT("/couriers/:id", handlers.UpdateCourier)
	api.POST("/vendors", handlers.CreateVendor)
	api.GET("/vendors", handlers.GetVendors)
	api.GET("/vendors/:id", handlers.GetVendor)
	api.POST("/banks", handlers.CreateBank)
	api.GET("/banks", handlers.GetBanks)
	api.GET("/products", handlers.GetProducts)
	api.GET("/products/:id", handlers.GetProduct)
	api.POST("/products", handlers.CreateProduct)
}
