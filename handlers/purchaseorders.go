package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
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

type POItemInput struct {
	ProductID    string `json:"productId"`
	Description  string `json:"description,omitempty"`
	Quantity     int    `json:"quantity"`
	UnitPrice    string `json:"unitPrice"`
	SerialNumber string `json:"serialNumber,omitempty"`
}

type CreatePORequest struct {
	VendorID string        `json:"vendorId"`
	OrderID  string        `json:"orderId,omitempty"`
	Items    []POItemInput `json:"items"`
	Remarks  string        `json:"remarks,omitempty"`
}

type BulkCreatePORequest struct {
	VendorID  string   `json:"vendorId"`
	UnitPrice string   `json:"unitPrice"`
	OrderIDs  []string `json:"orderIds"`
}

type CombinePORequest struct {
	POIDs []string `json:"poIds"`
}

type MergePORequest struct {
	POIDs       []string `json:"poIds"`
	NewPONumber string   `json:"newPoNumber,omitempty"`
}

type UpdatePOItemInput struct {
	ProductID    string  `json:"productId"`
	SerialNumber *string `json:"serialNumber,omitempty"`
	Quantity     *int    `json:"quantity,omitempty"`
}

type UpdatePORequest struct {
	Items []UpdatePOItemInput `json:"items"`
}

type BulkUpdatePOEntry struct {
	POID         string  `json:"poId"`
	ProductID    string  `json:"productId"`
	SerialNumber *string `json:"serialNumber,omitempty"`
	Quantity     *int    `json:"quantity,omitempty"`
}

type BulkUpdatePORequest struct {
	Updates []BulkUpdatePOEntry `json:"updates"`
}

// BatchResult is the uniform partial-failure report for bulk operations.
type BatchResult struct {
	SuccessCount int           `json:"successCount"`
	FailedCount  int           `json:"failedCount"`
	Successes    []interface{} `json:"successes"`
	Failures     []BatchError  `json:"failures"`
}

type BatchError struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// CreatePurchaseOrder validates vendor and products, computes line and order
// totals, allocates the next PO number and persists.
func CreatePurchaseOrder(c echo.Context) error {
	var req CreatePORequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "At least one line item is required"})
	}

	vendorID, err := primitive.ObjectIDFromHex(req.VendorID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid vendor ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var vendor models.Vendor
	err = database.DB.Collection("vendors").FindOne(ctx, bson.M{"_id": vendorID}).Decode(&vendor)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Vendor not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch vendor"})
	}

	items := make([]models.POLineItem, 0, len(req.Items))
	for _, in := range req.Items {
		productID, err := primitive.ObjectIDFromHex(in.ProductID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID: " + in.ProductID})
		}
		if in.Quantity <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Quantity must be positive"})
		}

		var product models.Product
		err = database.DB.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not found: " + in.ProductID})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch product"})
		}

		price, total, err := models.ComputeLineTotal(in.UnitPrice, in.Quantity)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}

		description := in.Description
		if description == "" {
			description = product.Name
		}
		items = append(items, models.POLineItem{
			ProductID:    productID,
			ProductCode:  product.Code,
			Description:  description,
			Quantity:     in.Quantity,
			UnitPrice:    price,
			LineTotal:    total,
			SerialNumber: in.SerialNumber,
		})
	}

	total, err := models.ComputeTotalAmount(items)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to compute total"})
	}

	var orderID *primitive.ObjectID
	if req.OrderID != "" {
		oid, err := primitive.ObjectIDFromHex(req.OrderID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
		}
		orderID = &oid
	}

	number, err := nextDocumentNumber(ctx, "po", "PO", "purchase_orders")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to allocate PO number"})
	}

	now := time.Now()
	po := models.PurchaseOrder{
		ID:          primitive.NewObjectID(),
		Number:      number,
		VendorID:    vendorID,
		OrderID:     orderID,
		Items:       items,
		TotalAmount: total,
		Status:      models.POStatusActive,
		Remarks:     req.Remarks,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := database.DB.Collection("purchase_orders").InsertOne(ctx, po); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "PO number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create purchase order"})
	}

	return c.JSON(http.StatusCreated, po)
}

// BulkCreateFromOrders creates one PO per order for a batch of orders that
// must all resolve to the same product. Validation failures abort before any
// write; per-order insert failures accumulate into the batch report.
func BulkCreateFromOrders(c echo.Context) error {
	var req BulkCreatePORequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if len(req.OrderIDs) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No order IDs supplied"})
	}

	vendorID, err := primitive.ObjectIDFromHex(req.VendorID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid vendor ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var vendor models.Vendor
	err = database.DB.Collection("vendors").FindOne(ctx, bson.M{"_id": vendorID}).Decode(&vendor)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Vendor not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch vendor"})
	}

	// Load every order up front; any gap fails the whole batch before a write.
	orders := make([]models.Order, 0, len(req.OrderIDs))
	var productID primitive.ObjectID
	for _, raw := range req.OrderIDs {
		oid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID: " + raw})
		}
		var order models.Order
		err = database.DB.Collection("orders").FindOne(ctx, bson.M{"_id": oid, "isDeleted": false}).Decode(&order)
		if err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Order not found: " + raw})
		}
		if order.ProductID.IsZero() {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Order has no assigned product: " + raw})
		}
		if productID.IsZero() {
			productID = order.ProductID
		} else if order.ProductID != productID {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Orders reference different products"})
		}
		orders = append(orders, order)
	}

	var product models.Product
	err = database.DB.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Product assigned to orders not found"})
	}

	result := BatchResult{Successes: []interface{}{}, Failures: []BatchError{}}
	for _, order := range orders {
		po, err := createPOForOrder(ctx, vendorID, product, order, req.UnitPrice)
		if err != nil {
			result.FailedCount++
			result.Failures = append(result.Failures, BatchError{ID: order.ID.Hex(), Error: err.Error()})
			continue
		}
		result.SuccessCount++
		result.Successes = append(result.Successes, po)
	}

	return c.JSON(http.StatusOK, result)
}

func createPOForOrder(ctx context.Context, vendorID primitive.ObjectID, product models.Product, order models.Order, unitPrice string) (*models.PurchaseOrder, error) {
	price, total, err := models.ComputeLineTotal(unitPrice, order.Quantity)
	if err != nil {
		return nil, err
	}

	number, err := nextDocumentNumber(ctx, "po", "PO", "purchase_orders")
	if err != nil {
		return nil, fmt.Errorf("failed to allocate PO number: %w", err)
	}

	now := time.Now()
	po := models.PurchaseOrder{
		ID:       primitive.NewObjectID(),
		Number:   number,
		VendorID: vendorID,
		OrderID:  &order.ID,
		Items: []models.POLineItem{{
			ProductID:   product.ID,
			ProductCode: product.Code,
			Description: product.Name,
			Quantity:    order.Quantity,
			UnitPrice:   price,
			LineTotal:   total,
		}},
		TotalAmount: total,
		Status:      models.POStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := database.DB.Collection("purchase_orders").InsertOne(ctx, po); err != nil {
		return nil, fmt.Errorf("failed to persist purchase order: %w", err)
	}
	return &po, nil
}

// CombinePreview returns a synthetic combined view of several POs without
// mutating anything.
func CombinePreview(c echo.Context) error {
	var req CombinePORequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pos, ok := loadPurchaseOrders(ctx, c, req.POIDs)
	if !ok {
		return nil
	}

	combined, err := models.CombinePurchaseOrders(pos)
	if err != nil {
		return c.JSON(combineErrorStatus(err), map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, combined)
}

// MergePurchaseOrders permanently merges POs: a new PO absorbs all line items
// and the old POs flip to merged. If the flip phase fails partway the new PO
// is deleted and already-flipped POs are reverted best-effort.
func MergePurchaseOrders(c echo.Context) error {
	var req MergePORequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pos, ok := loadPurchaseOrders(ctx, c, req.POIDs)
	if !ok {
		return nil
	}

	combined, err := models.CombinePurchaseOrders(pos)
	if err != nil {
		return c.JSON(combineErrorStatus(err), map[string]string{"error": err.Error()})
	}

	number := req.NewPONumber
	if number != "" {
		count, err := database.DB.Collection("purchase_orders").CountDocuments(ctx, bson.M{"number": number})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to check PO number"})
		}
		if count > 0 {
			return c.JSON(http.StatusConflict, map[string]string{"error": "PO number already exists: " + number})
		}
	} else {
		number, err = nextDocumentNumber(ctx, "po", "PO", "purchase_orders")
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to allocate PO number"})
		}
	}

	now := time.Now()
	merged := models.PurchaseOrder{
		ID:          primitive.NewObjectID(),
		Number:      number,
		VendorID:    combined.VendorID,
		OrderIDs:    combined.OrderIDs,
		Items:       combined.Items,
		TotalAmount: combined.TotalAmount,
		Status:      models.POStatusActive,
		MergedFrom:  combined.MergedFrom,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := database.DB.Collection("purchase_orders").InsertOne(ctx, merged); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "PO number already exists: " + number})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create merged purchase order"})
	}

	// Phase two: flip the absorbed POs. On partial failure, compensate by
	// reverting the flipped ones and deleting the new PO.
	flipped := make([]models.PurchaseOrder, 0, len(pos))
	for _, po := range pos {
		_, err := database.DB.Collection("purchase_orders").UpdateOne(ctx,
			bson.M{"_id": po.ID},
			bson.M{"$set": bson.M{
				"status":     models.POStatusMerged,
				"mergedInto": merged.ID,
				"updatedAt":  now,
			}},
		)
		if err != nil {
			compensateMerge(ctx, merged.ID, flipped)
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "Failed to merge purchase orders; operation rolled back",
			})
		}
		flipped = append(flipped, po)
	}

	return c.JSON(http.StatusCreated, merged)
}

func compensateMerge(ctx context.Context, mergedID primitive.ObjectID, flipped []models.PurchaseOrder) {
	for _, po := range flipped {
		_, err := database.DB.Collection("purchase_orders").UpdateOne(ctx,
			bson.M{"_id": po.ID},
			bson.M{
				"$set":   bson.M{"status": po.Status, "updatedAt": time.Now()},
				"$unset": bson.M{"mergedInto": ""},
			},
		)
		if err != nil {
			log.Printf("Merge compensation failed to revert PO %s: %v", po.Number, err)
		}
	}
	if _, err := database.DB.Collection("purchase_orders").DeleteOne(ctx, bson.M{"_id": mergedID}); err != nil {
		log.Printf("Merge compensation failed to delete merged PO %s: %v", mergedID.Hex(), err)
	}
}

func combineErrorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrAlreadyMerged):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrMixedVendors), errors.Is(err, models.ErrTooFewToCombine):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// loadPurchaseOrders fetches every referenced PO, writing the error response
// and returning ok=false when one is missing.
func loadPurchaseOrders(ctx context.Context, c echo.Context, ids []string) ([]models.PurchaseOrder, bool) {
	if len(ids) == 0 {
		c.JSON(http.StatusBadRequest, map[string]string{"error": "No PO IDs supplied"})
		return nil, false
	}

	pos := make([]models.PurchaseOrder, 0, len(ids))
	for _, raw := range ids {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid PO ID: " + raw})
			return nil, false
		}
		var po models.PurchaseOrder
		err = database.DB.Collection("purchase_orders").FindOne(ctx, bson.M{"_id": id, "isDeleted": false}).Decode(&po)
		if err != nil {
			c.JSON(http.StatusNotFound, map[string]string{"error": "Purchase order not found: " + raw})
			return nil, false
		}
		pos = append(pos, po)
	}
	return pos, true
}

// UpdatePurchaseOrder applies serial-number and quantity edits to line items,
// located by product reference. Merged and cancelled POs are immutable.
func UpdatePurchaseOrder(c echo.Context) error {
	poID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid PO ID"})
	}

	var req UpdatePORequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No item updates supplied"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var po models.PurchaseOrder
	err = database.DB.Collection("purchase_orders").FindOne(ctx, bson.M{"_id": poID, "isDeleted": false}).Decode(&po)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Purchase order not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch purchase order"})
	}

	if po.Immutable() {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{
			"error": fmt.Sprintf("Cannot edit a %s purchase order", po.Status),
		})
	}

	if err := applyItemUpdates(&po, req.Items); err != nil {
		if errors.Is(err, errItemNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	po.UpdatedAt = time.Now()
	_, err = database.DB.Collection("purchase_orders").UpdateOne(ctx,
		bson.M{"_id": po.ID},
		bson.M{"$set": bson.M{"items": po.Items, "totalAmount": po.TotalAmount, "updatedAt": po.UpdatedAt}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update purchase order"})
	}

	return c.JSON(http.StatusOK, po)
}

var errItemNotFound = errors.New("product is not part of this purchase order")

func applyItemUpdates(po *models.PurchaseOrder, updates []UpdatePOItemInput) error {
	for _, in := range updates {
		productID, err := primitive.ObjectIDFromHex(in.ProductID)
		if err != nil {
			return fmt.Errorf("invalid product ID %q", in.ProductID)
		}

		found := false
		for i := range po.Items {
			if po.Items[i].ProductID != productID {
				continue
			}
			found = true
			if in.SerialNumber != nil {
				po.Items[i].SerialNumber = *in.SerialNumber
			}
			if in.Quantity != nil {
				if *in.Quantity <= 0 {
					return fmt.Errorf("quantity must be positive")
				}
				price, total, err := models.ComputeLineTotal(po.Items[i].UnitPrice, *in.Quantity)
				if err != nil {
					return err
				}
				po.Items[i].Quantity = *in.Quantity
				po.Items[i].UnitPrice = price
				po.Items[i].LineTotal = total
			}
			break
		}
		if !found {
			return fmt.Errorf("%w: %s", errItemNotFound, in.ProductID)
		}
	}

	total, err := models.ComputeTotalAmount(po.Items)
	if err != nil {
		return err
	}
	po.TotalAmount = total
	return nil
}

// BulkUpdatePurchaseOrders applies many line-item edits, reporting success
// and failure per entry instead of aborting mid-batch.
func BulkUpdatePurchaseOrders(c echo.Context) error {
	var req BulkUpdatePORequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if len(req.Updates) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No updates supplied"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result := BatchResult{Successes: []interface{}{}, Failures: []BatchError{}}
	for _, entry := range req.Updates {
		if err := applySingleBulkUpdate(ctx, entry); err != nil {
			result.FailedCount++
			result.Failures = append(result.Failures, BatchError{ID: entry.POID, Error: err.Error()})
			continue
		}
		result.SuccessCount++
		result.Successes = append(result.Successes, entry.POID)
	}

	return c.JSON(http.StatusOK, result)
}

func applySingleBulkUpdate(ctx context.Context, entry BulkUpdatePOEntry) error {
	poID, err := primitive.ObjectIDFromHex(entry.POID)
	if err != nil {
		return fmt.Errorf("invalid PO ID")
	}

	var po models.PurchaseOrder
	err = database.DB.Collection("purchase_orders").FindOne(ctx, bson.M{"_id": poID, "isDeleted": false}).Decode(&po)
	if err != nil {
		return fmt.Errorf("purchase order not found")
	}
	if po.Immutable() {
		return fmt.Errorf("cannot edit a %s purchase order", po.Status)
	}

	err = applyItemUpdates(&po, []UpdatePOItemInput{{
		ProductID:    entry.ProductID,
		SerialNumber: entry.SerialNumber,
		Quantity:     entry.Quantity,
	}})
	if err != nil {
		return err
	}

	_, err = database.DB.Collection("purchase_orders").UpdateOne(ctx,
		bson.M{"_id": po.ID},
		bson.M{"$set": bson.M{"items": po.Items, "totalAmount": po.TotalAmount, "updatedAt": time.Now()}},
	)
	return err
}

// CancelPurchaseOrder flips an active or draft PO to cancelled. Line items
// and amounts are left untouched.
func CancelPurchaseOrder(c echo.Context) error {
	poID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid PO ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var po models.PurchaseOrder
	err = database.DB.Collection("purchase_orders").FindOne(ctx, bson.M{"_id": poID, "isDeleted": false}).Decode(&po)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Purchase order not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch purchase order"})
	}

	if po.Immutable() {
		return c.JSON(http.StatusConflict, map[string]string{
			"error": fmt.Sprintf("Purchase order is already %s", po.Status),
		})
	}

	_, err = database.DB.Collection("purchase_orders").UpdateOne(ctx,
		bson.M{"_id": po.ID},
		bson.M{"$set": bson.M{"status": models.POStatusCancelled, "updatedAt": time.Now()}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to cancel purchase order"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Purchase order cancelled", "number": po.Number})
}

// GetPurchaseOrder returns one PO by ID.
func GetPurchaseOrder(c echo.Context) error {
	poID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid PO ID"})
	}

	var po models.PurchaseOrder
	err = database.DB.Collection("purchase_orders").FindOne(c.Request().Context(), bson.M{"_id": poID, "isDeleted": false}).Decode(&po)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Purchase order not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch purchase order"})
	}

	return c.JSON(http.StatusOK, po)
}

// ListPurchaseOrders returns non-deleted POs, optionally filtered by status
// or vendor.
func ListPurchaseOrders(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"isDeleted": false}
	if status := c.QueryParam("status"); status != "" {
		filter["status"] = status
	}
	if vendor := c.QueryParam("vendorId"); vendor != "" {
		vendorID, err := primitive.ObjectIDFromHex(vendor)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid vendor ID"})
		}
		filter["vendorId"] = vendorID
	}

	cursor, err := database.DB.Collection("purchase_orders").Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch purchase orders"})
	}

	var pos []models.PurchaseOrder
	if err := cursor.All(ctx, &pos); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to decode purchase orders"})
	}

	return c.JSON(http.StatusOK, pos)
}
