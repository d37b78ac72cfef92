package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/arslanyasin/bnw-orders-backend-sub000/courier"
	"github.com/arslanyasin/bnw-orders-backend-sub000/database"
	"github.com/arslanyasin/bnw-orders-backend-sub000/middleware"
	"github.com/arslanyasin/bnw-orders-backend-sub000/models"
	"github.com/arslanyasin/bnw-orders-backend-sub000/utils"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type DispatchRequest struct {
	CourierID     string  `json:"courierId"`
	DeclaredValue float64 `json:"declaredValue,omitempty"`
	Remarks       string  `json:"remarks,omitempty"`
}

type ManualDispatchRequest struct {
	CourierID         string `json:"courierId"`
	TrackingNumber    string `json:"trackingNumber"`
	ConsignmentNumber string `json:"consignmentNumber,omitempty"`
	Remarks           string `json:"remarks,omitempty"`
}

type CancelShipmentRequest struct {
	Reason string `json:"reason,omitempty"`
}

type UpdateShipmentStatusRequest struct {
	Status models.ShipmentStatus `json:"status"`
	Note   string                `json:"note,omitempty"`
}

// DispatchOrder books a shipment with the courier's API and moves the order
// from processing to dispatched. No order or shipment state is written unless
// the booking succeeds.
func DispatchOrder(c echo.Context) error {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	var req DispatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	courierID, err := primitive.ObjectIDFromHex(req.CourierID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid courier ID"})
	}

	// The courier call can be slow, so this budget is wider than the usual 10s.
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	order, courierDoc, ok := validateDispatch(ctx, c, orderID, courierID)
	if !ok {
		return nil
	}
	if courierDoc.Type == models.CourierTypeManual {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Courier requires manual dispatch"})
	}

	var product models.Product
	err = database.DB.Collection("products").FindOne(ctx, bson.M{"_id": order.ProductID}).Decode(&product)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Product assigned to order not found"})
	}

	gw, err := courier.ForCourier(*courierDoc)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	bookingReq := buildBookingRequest(*order, product, req.DeclaredValue, req.Remarks)
	result := gw.BookShipment(ctx, *courierDoc, bookingReq)
	if !result.Success {
		middleware.BookingTotal.WithLabelValues(courierDoc.Code, "failure").Inc()
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error":  "Courier booking failed",
			"detail": result.Error,
		})
	}
	middleware.BookingTotal.WithLabelValues(courierDoc.Code, "success").Inc()

	shipment := models.Shipment{
		ID:                primitive.NewObjectID(),
		OrderID:           order.ID,
		OrderKind:         order.Kind,
		CourierID:         courierDoc.ID,
		TrackingNumber:    result.TrackingNumber,
		ConsignmentNumber: result.ConsignmentNumber,
		Status:            models.ShipmentStatusBooked,
		BookingDate:       time.Now(),
		RawResponse:       result.RawResponse,
		Remarks:           req.Remarks,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	if !commitDispatch(ctx, c, order, &shipment) {
		return nil
	}

	finishDispatch(ctx, order, &shipment, courierDoc)
	return c.JSON(http.StatusCreated, shipment)
}

// ManualDispatchOrder records a dispatch performed outside any courier API.
// The operator supplies the tracking number; validation matches DispatchOrder.
func ManualDispatchOrder(c echo.Context) error {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	var req ManualDispatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	courierID, err := primitive.ObjectIDFromHex(req.CourierID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid courier ID"})
	}
	if req.TrackingNumber == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Tracking number is required for manual dispatch"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	order, courierDoc, ok := validateDispatch(ctx, c, orderID, courierID)
	if !ok {
		return nil
	}
	if !courierDoc.ManualCapable() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Courier does not support manual dispatch"})
	}

	shipment := models.Shipment{
		ID:                primitive.NewObjectID(),
		OrderID:           order.ID,
		OrderKind:         order.Kind,
		CourierID:         courierDoc.ID,
		TrackingNumber:    req.TrackingNumber,
		ConsignmentNumber: req.ConsignmentNumber,
		Status:            models.ShipmentStatusBooked,
		BookingDate:       time.Now(),
		Remarks:           req.Remarks,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	if !commitDispatch(ctx, c, order, &shipment) {
		return nil
	}

	finishDispatch(ctx, order, &shipment, courierDoc)
	return c.JSON(http.StatusCreated, shipment)
}

// validateDispatch runs the shared pre-booking checks: order exists and is in
// processing, no live shipment references it, courier exists and is active.
// On failure it writes the error response and returns ok=false.
func validateDispatch(ctx context.Context, c echo.Context, orderID, courierID primitive.ObjectID) (*models.Order, *models.Courier, bool) {
	var order models.Order
	err := database.DB.Collection("orders").FindOne(ctx, bson.M{"_id": orderID, "isDeleted": false}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, map[string]string{"error": "Order not found"})
		} else {
			c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch order"})
		}
		return nil, nil, false
	}

	count, err := database.DB.Collection("shipments").CountDocuments(ctx, bson.M{"orderId": orderID, "isDeleted": false})
	if err != nil {
		c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to check existing shipments"})
		return nil, nil, false
	}
	if count > 0 {
		c.JSON(http.StatusConflict, map[string]string{"error": "Order already has a shipment"})
		return nil, nil, false
	}

	if order.Status != models.OrderStatusProcessing {
		c.JSON(http.StatusUnprocessableEntity, map[string]string{
			"error": fmt.Sprintf("Order must be in processing status, currently %s", order.Status),
		})
		return nil, nil, false
	}

	var courierDoc models.Courier
	err = database.DB.Collection("couriers").FindOne(ctx, bson.M{"_id": courierID, "isActive": true}).Decode(&courierDoc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, map[string]string{"error": "Courier not found or inactive"})
		} else {
			c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch courier"})
		}
		return nil, nil, false
	}

	return &order, &courierDoc, true
}

// commitDispatch persists the shipment and flips the order to dispatched.
// The order update is conditional on it still being in processing; losing
// that race rolls the shipment insert back. On failure the error response is
// already written.
func commitDispatch(ctx context.Context, c echo.Context, order *models.Order, shipment *models.Shipment) bool {
	_, err := database.DB.Collection("shipments").InsertOne(ctx, shipment)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, map[string]string{"error": "Order already has a shipment"})
		} else {
			c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create shipment"})
		}
		return false
	}

	now := time.Now()
	res, err := database.DB.Collection("orders").UpdateOne(ctx,
		bson.M{"_id": order.ID, "status": models.OrderStatusProcessing},
		bson.M{
			"$set": bson.M{
				"status":     models.OrderStatusDispatched,
				"shipmentId": shipment.ID,
				"updatedAt":  now,
			},
			"$push": bson.M{"statusHistory": models.StatusHistoryEntry{
				Status:    models.OrderStatusDispatched,
				Timestamp: now,
				Note:      "Dispatched via " + shipment.TrackingNumber,
			}},
		},
	)
	if err != nil || res.MatchedCount == 0 {
		// Another request changed the order under us; undo the shipment.
		if _, delErr := database.DB.Collection("shipments").DeleteOne(ctx, bson.M{"_id": shipment.ID}); delErr != nil {
			log.Printf("Failed to roll back shipment %s after lost order transition: %v", shipment.ID.Hex(), delErr)
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update order"})
		} else {
			c.JSON(http.StatusConflict, map[string]string{"error": "Order status changed during dispatch"})
		}
		return false
	}

	order.Status = models.OrderStatusDispatched
	order.ShipmentID = &shipment.ID
	return true
}

// finishDispatch runs the best-effort side effects after a committed
// dispatch: challan auto-creation and the outbound customer notification.
// Their failures are logged and never undo the dispatch.
func finishDispatch(ctx context.Context, order *models.Order, shipment *models.Shipment, courierDoc *models.Courier) {
	if _, err := autoCreateChallan(ctx, *order, *shipment); err != nil {
		log.Printf("Failed to auto-create challan for order %s: %v", order.ID.Hex(), err)
	}

	utils.NotifyDispatch(utils.DispatchNotification{
		Phone:             order.CustomerPhone,
		CustomerName:      order.CustomerName,
		CourierName:       courierDoc.Name,
		TrackingNumber:    shipment.TrackingNumber,
		ConsignmentNumber: shipment.ConsignmentNumber,
		ReferenceNumber:   order.ReferenceNumber,
	})
}

// buildBookingRequest maps order fields onto the provider-agnostic booking
// shape. Declared value falls back from the request to the order's declared
// value and finally the gift value.
func buildBookingRequest(order models.Order, product models.Product, declaredValue float64, remarks string) courier.BookingRequest {
	dv := declaredValue
	if dv == 0 {
		dv = order.DeclaredValue
	}
	if dv == 0 {
		dv = order.GiftValue
	}
	return courier.BookingRequest{
		OrderRef:        order.ReferenceNumber,
		ConsigneeName:   order.CustomerName,
		ConsigneeCNIC:   order.CustomerCNIC,
		ConsigneePhone:  order.CustomerPhone,
		Address:         order.Address,
		City:            order.City,
		Pieces:          order.Quantity,
		DeclaredValue:   dv,
		ItemDescription: fmt.Sprintf("%s x %d", product.Code, order.Quantity),
		Remarks:         remarks,
	}
}

// CancelShipment cancels a booked shipment with the courier and reverts the
// owning order to processing. This is the only path that moves an order
// status backward.
func CancelShipment(c echo.Context) error {
	shipmentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid shipment ID"})
	}

	var req CancelShipmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	// No isDeleted filter here: a cancelled shipment is soft-deleted but a
	// second cancel attempt should still be told it is already cancelled.
	var shipment models.Shipment
	err = database.DB.Collection("shipments").FindOne(ctx, bson.M{"_id": shipmentID}).Decode(&shipment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Shipment not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch shipment"})
	}

	if !shipment.Status.CanCancel() {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{
			"error": fmt.Sprintf("Cannot cancel a %s shipment", shipment.Status),
		})
	}

	var courierDoc models.Courier
	err = database.DB.Collection("couriers").FindOne(ctx, bson.M{"_id": shipment.CourierID}).Decode(&courierDoc)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Courier for shipment not found"})
	}

	gw, err := courier.ForCourier(courierDoc)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result := gw.CancelShipment(ctx, courierDoc, shipment.TrackingNumber, req.Reason)
	if !result.Success {
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error":  "Courier cancellation failed",
			"detail": result.Error,
		})
	}

	// Conditional on status so a concurrent delivery update cannot be
	// clobbered. The cancelled shipment is also soft-deleted so the order can
	// be re-dispatched; the document itself stays behind for audit.
	now := time.Now()
	res, err := database.DB.Collection("shipments").UpdateOne(ctx,
		bson.M{"_id": shipment.ID, "status": bson.M{"$nin": bson.A{models.ShipmentStatusDelivered, models.ShipmentStatusCancelled}}},
		bson.M{"$set": bson.M{
			"status":    models.ShipmentStatusCancelled,
			"isDeleted": true,
			"remarks":   req.Reason,
			"updatedAt": now,
		}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update shipment"})
	}
	if res.MatchedCount == 0 {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Shipment status changed during cancellation"})
	}

	note := "Shipment cancelled"
	if req.Reason != "" {
		note = "Shipment cancelled: " + req.Reason
	}
	_, err = database.DB.Collection("orders").UpdateOne(ctx,
		bson.M{"_id": shipment.OrderID},
		bson.M{
			"$set": bson.M{"status": models.OrderStatusProcessing, "updatedAt": now},
			"$unset": bson.M{"shipmentId": ""},
			"$push": bson.M{"statusHistory": models.StatusHistoryEntry{
				Status:    models.OrderStatusProcessing,
				Timestamp: now,
				Note:      note,
			}},
		},
	)
	if err != nil {
		log.Printf("Failed to revert order %s after cancelling shipment %s: %v", shipment.OrderID.Hex(), shipment.ID.Hex(), err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Shipment cancelled", "shipmentId": shipment.ID.Hex()})
}

// UpdateShipmentStatus applies a courier status update. A delivered shipment
// also moves the owning order to delivered in the same logical operation.
func UpdateShipmentStatus(c echo.Context) error {
	shipmentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid shipment ID"})
	}

	var req UpdateShipmentStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var shipment models.Shipment
	err = database.DB.Collection("shipments").FindOne(ctx, bson.M{"_id": shipmentID, "isDeleted": false}).Decode(&shipment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Shipment not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch shipment"})
	}

	if !shipment.Status.CanTransitionTo(req.Status) {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{
			"error": fmt.Sprintf("Cannot transition shipment from %s to %s", shipment.Status, req.Status),
		})
	}

	now := time.Now()
	update := bson.M{"status": req.Status, "updatedAt": now}
	if req.Status == models.ShipmentStatusDelivered {
		update["actualDeliveryDate"] = now
	}

	res, err := database.DB.Collection("shipments").UpdateOne(ctx,
		bson.M{"_id": shipment.ID, "status": shipment.Status},
		bson.M{"$set": update},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update shipment"})
	}
	if res.MatchedCount == 0 {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Shipment status changed concurrently"})
	}

	if req.Status == models.ShipmentStatusDelivered {
		note := req.Note
		if note == "" {
			note = "Delivered by courier"
		}
		_, err = database.DB.Collection("orders").UpdateOne(ctx,
			bson.M{"_id": shipment.OrderID, "status": models.OrderStatusDispatched},
			bson.M{
				"$set": bson.M{"status": models.OrderStatusDelivered, "updatedAt": now},
				"$push": bson.M{"statusHistory": models.StatusHistoryEntry{
					Status:    models.OrderStatusDelivered,
					Timestamp: now,
					Note:      note,
				}},
			},
		)
		if err != nil {
			log.Printf("Failed to mark order %s delivered: %v", shipment.OrderID.Hex(), err)
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"status": string(req.Status)})
}

// GetShipment returns one shipment by ID.
func GetShipment(c echo.Context) error {
	shipmentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid shipment ID"})
	}

	var shipment models.Shipment
	err = database.DB.Collection("shipments").FindOne(c.Request().Context(), bson.M{"_id": shipmentID}).Decode(&shipment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Shipment not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch shipment"})
	}

	return c.JSON(http.StatusOK, shipment)
}

// TrackShipment proxies a live tracking lookup to the courier API.
func TrackShipment(c echo.Context) error {
	shipmentID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid shipment ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	var shipment models.Shipment
	err = database.DB.Collection("shipments").FindOne(ctx, bson.M{"_id": shipmentID, "isDeleted": false}).Decode(&shipment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Shipment not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch shipment"})
	}

	var courierDoc models.Courier
	err = database.DB.Collection("couriers").FindOne(ctx, bson.M{"_id": shipment.CourierID}).Decode(&courierDoc)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Courier for shipment not found"})
	}

	gw, err := courier.ForCourier(courierDoc)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	info, err := gw.TrackShipment(ctx, courierDoc, shipment.TrackingNumber)
	if err != nil {
		if err == courier.ErrTrackingNotSupported {
			return c.JSON(http.StatusNotImplemented, map[string]string{"error": "Tracking is not supported for this courier"})
		}
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Courier tracking failed", "detail": err.Error()})
	}

	return c.JSON(http.StatusOK, info)
}
