package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/arslanyasin/bnw-orders-backend-sub000/database"
	"github.com/arslanyasin/bnw-orders-backend-sub000/models"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CreateOrderRequest struct {
	Kind            models.OrderKind `json:"kind"`
	BankID          string           `json:"bankId,omitempty"`
	ReferenceNumber string           `json:"referenceNumber"`
	CustomerName    string           `json:"customerName"`
	CustomerCNIC    string           `json:"customerCnic,omitempty"`
	CustomerPhone   string           `json:"customerPhone"`
	Address         string           `json:"address"`
	City            string           `json:"city"`
	ProductID       string           `json:"productId,omitempty"`
	Quantity        int              `json:"quantity"`
	GiftValue       float64          `json:"giftValue,omitempty"`
	DeclaredValue   float64          `json:"declaredValue,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status"`
	Note   string             `json:"note,omitempty"`
}

// CreateOrder records an order handed over by the intake subsystem. Orders
// start in pending with a seeded status history.
func CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if req.Kind != models.OrderKindBank && req.Kind != models.OrderKindProgram {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Order kind must be bank or program"})
	}
	if req.CustomerName == "" || req.ReferenceNumber == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Customer name and reference number are required"})
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	order := models.Order{
		ID:              primitive.NewObjectID(),
		Kind:            req.Kind,
		ReferenceNumber: req.ReferenceNumber,
		CustomerName:    req.CustomerName,
		CustomerCNIC:    req.CustomerCNIC,
		CustomerPhone:   req.CustomerPhone,
		Address:         req.Address,
		City:            req.City,
		Quantity:        req.Quantity,
		GiftValue:       req.GiftValue,
		DeclaredValue:   req.DeclaredValue,
		Status:          models.OrderStatusPending,
		StatusHistory: []models.StatusHistoryEntry{{
			Status:    models.OrderStatusPending,
			Timestamp: now,
			Note:      "Order received",
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if req.BankID != "" {
		bankID, err := primitive.ObjectIDFromHex(req.BankID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid bank ID"})
		}
		order.BankID = bankID
	}
	if req.ProductID != "" {
		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
		}
		count, err := database.DB.Collection("products").CountDocuments(ctx, bson.M{"_id": productID})
		if err != nil || count == 0 {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not found"})
		}
		order.ProductID = productID
	}

	if _, err := database.DB.Collection("orders").InsertOne(ctx, order); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create order"})
	}

	return c.JSON(http.StatusCreated, order)
}

// UpdateOrderStatus handles the intake-side transitions: pending→processing
// and cancellation from pending/processing. Dispatch-owned transitions
// (dispatched, delivered) go through the dispatch endpoints only.
func UpdateOrderStatus(c echo.Context) error {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if req.Status != models.OrderStatusProcessing && req.Status != models.OrderStatusCancelled {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Only processing or cancelled may be set here"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var order models.Order
	err = database.DB.Collection("orders").FindOne(ctx, bson.M{"_id": orderID, "isDeleted": false}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Order not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch order"})
	}

	if !order.Status.CanIntakeTransitionTo(req.Status) {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{
			"error": fmt.Sprintf("Cannot transition order from %s to %s", order.Status, req.Status),
		})
	}

	now := time.Now()
	res, err := database.DB.Collection("orders").UpdateOne(ctx,
		bson.M{"_id": order.ID, "status": order.Status},
		bson.M{
			"$set": bson.M{"status": req.Status, "updatedAt": now},
			"$push": bson.M{"statusHistory": models.StatusHistoryEntry{
				Status:    req.Status,
				Timestamp: now,
				Note:      req.Note,
			}},
		},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update order"})
	}
	if res.MatchedCount == 0 {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Order status changed concurrently"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": string(req.Status)})
}

// GetOrders lists non-deleted orders, filterable by status and kind.
func GetOrders(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"isDeleted": false}
	if status := c.QueryParam("status"); status != "" {
		filter["status"] = status
	}
	if kind := c.QueryParam("kind"); kind != "" {
		filter["kind"] = kind
	}

	cursor, err := database.DB.Collection("orders").Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch orders"})
	}

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to decode orders"})
	}

	return c.JSON(http.StatusOK, orders)
}

// GetOrder returns one order by ID.
func GetOrder(c echo.Context) error {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	var order models.Order
	err = database.DB.Collection("orders").FindOne(c.Request().Context(), bson.M{"_id": orderID, "isDeleted": false}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Order not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch order"})
	}

	return c.JSON(http.StatusOK, order)
}

// GetOrderStatus is the lightweight polling endpoint.
func GetOrderStatus(c echo.Context) error {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	var order models.Order
	err = database.DB.Collection("orders").FindOne(c.Request().Context(), bson.M{"_id": orderID, "isDeleted": false}).Decode(&order)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Order not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": string(order.Status)})
}

// DeleteOrder soft-deletes an order. Orders are never physically removed.
func DeleteOrder(c echo.Context) error {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := database.DB.Collection("orders").UpdateOne(ctx,
		bson.M{"_id": orderID, "isDeleted": false},
		bson.M{"$set": bson.M{"isDeleted": true, "updatedAt": time.Now()}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete order"})
	}
	if res.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Order not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Order deleted"})
}
