package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/arslanyasin/bnw-orders-backend-sub000/database"
	"github.com/arslanyasin/bnw-orders-backend-sub000/middleware"
	"github.com/arslanyasin/bnw-orders-backend-sub000/models"
	"github.com/arslanyasin/bnw-orders-backend-sub000/utils"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var docStore = utils.NewDocumentStore()

var errChallanExists = errors.New("challan already exists for this shipment")

type CreateChallanRequest struct {
	// SerialNumber overrides the PO-derived serial lookup when supplied.
	SerialNumber string `json:"serialNumber,omitempty"`
}

type BulkDownloadRequest struct {
	ChallanIDs []string `json:"challanIds,omitempty"`
	OrderIDs   []string `json:"orderIds,omitempty"`
}

// CreateChallan generates a delivery challan for a dispatched order. An
// existing live challan for the same shipment is a conflict on this explicit
// path; only the post-dispatch auto-create treats it as idempotent success.
func CreateChallan(c echo.Context) error {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	var req CreateChallanRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var order models.Order
	err = database.DB.Collection("orders").FindOne(ctx, bson.M{"_id": orderID, "isDeleted": false}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Order not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch order"})
	}

	if order.Status != models.OrderStatusDispatched || order.ShipmentID == nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "Order must be dispatched before generating a challan"})
	}

	var shipment models.Shipment
	err = database.DB.Collection("shipments").FindOne(ctx, bson.M{"_id": *order.ShipmentID, "isDeleted": false}).Decode(&shipment)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Shipment for order not found"})
	}

	challan, err := generateChallan(ctx, order, shipment, req.SerialNumber)
	if err != nil {
		if errors.Is(err, errChallanExists) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "Challan already exists for this shipment"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create challan"})
	}

	return c.JSON(http.StatusCreated, challan)
}

// autoCreateChallan is the dispatch orchestrator's trigger. Idempotent: an
// existing challan for the shipment is returned as success.
func autoCreateChallan(ctx context.Context, order models.Order, shipment models.Shipment) (*models.Challan, error) {
	challan, err := generateChallan(ctx, order, shipment, "")
	if errors.Is(err, errChallanExists) {
		return challan, nil
	}
	return challan, err
}

// generateChallan is the shared creation path: uniqueness check, serial
// resolution, number allocation, persist, then best-effort render+store.
func generateChallan(ctx context.Context, order models.Order, shipment models.Shipment, serialOverride string) (*models.Challan, error) {
	var existing models.Challan
	err := database.DB.Collection("challans").FindOne(ctx, bson.M{"shipmentId": shipment.ID, "isDeleted": false}).Decode(&existing)
	if err == nil {
		return &existing, errChallanExists
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	var product models.Product
	if err := database.DB.Collection("products").FindOne(ctx, bson.M{"_id": order.ProductID}).Decode(&product); err != nil && err != mongo.ErrNoDocuments {
		return nil, err
	}
	var courierDoc models.Courier
	if err := database.DB.Collection("couriers").FindOne(ctx, bson.M{"_id": shipment.CourierID}).Decode(&courierDoc); err != nil && err != mongo.ErrNoDocuments {
		return nil, err
	}

	var candidates []models.PurchaseOrder
	if serialOverride == "" {
		candidates, err = loadSerialCandidates(ctx, order)
		if err != nil {
			// An unresolved serial is an informational gap, not a failure.
			log.Printf("Serial lookup failed for order %s: %v", order.ID.Hex(), err)
		}
	}
	serial := models.PickSerialNumber(serialOverride, order.ID, order.ProductID, candidates)

	number, err := nextDocumentNumber(ctx, "challan", "DC", "challans")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	challan := models.Challan{
		ID:                primitive.NewObjectID(),
		Number:            number,
		ShipmentID:        shipment.ID,
		OrderID:           order.ID,
		OrderKind:         order.Kind,
		CustomerName:      order.CustomerName,
		CustomerCNIC:      order.CustomerCNIC,
		CustomerPhone:     order.CustomerPhone,
		Address:           order.Address,
		City:              order.City,
		ReferenceNumber:   order.ReferenceNumber,
		ProductCode:       product.Code,
		ProductName:       product.Name,
		Quantity:          order.Quantity,
		SerialNumber:      serial,
		CourierName:       courierDoc.Name,
		TrackingNumber:    shipment.TrackingNumber,
		ConsignmentNumber: shipment.ConsignmentNumber,
		PrintStatus:       models.PrintStatusUnprinted,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if _, err := database.DB.Collection("challans").InsertOne(ctx, challan); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if ferr := database.DB.Collection("challans").FindOne(ctx, bson.M{"shipmentId": shipment.ID, "isDeleted": false}).Decode(&existing); ferr == nil {
				return &existing, errChallanExists
			}
		}
		return nil, err
	}
	middleware.ChallansGenerated.Inc()

	// Render/store failure keeps the persisted challan; the document can be
	// regenerated on demand later.
	if url, err := renderAndStore(challan); err != nil {
		log.Printf("Failed to render/store PDF for challan %s: %v", challan.Number, err)
	} else {
		challan.DocumentURL = url
		_, err := database.DB.Collection("challans").UpdateOne(ctx,
			bson.M{"_id": challan.ID},
			bson.M{"$set": bson.M{"documentUrl": url, "updatedAt": time.Now()}},
		)
		if err != nil {
			log.Printf("Failed to record document URL on challan %s: %v", challan.Number, err)
		}
	}

	return &challan, nil
}

// loadSerialCandidates loads the POs that could carry the shipped unit's
// serial; the priority matching happens in the model helper.
func loadSerialCandidates(ctx context.Context, order models.Order) ([]models.PurchaseOrder, error) {
	filter := bson.M{
		"status": bson.M{"$ne": models.POStatusCancelled},
		"$or": bson.A{
			bson.M{"orderId": order.ID},
			bson.M{"orderIds": order.ID},
			bson.M{"items.productId": order.ProductID},
		},
	}
	cursor, err := database.DB.Collection("purchase_orders").Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var pos []models.PurchaseOrder
	if err := cursor.All(ctx, &pos); err != nil {
		return nil, err
	}
	return pos, nil
}

func renderAndStore(challan models.Challan) (string, error) {
	data, err := utils.RenderChallanPDF(challanDocument(challan))
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("challans/%s.pdf", uuid.NewString())
	return docStore.Store(data, key)
}

func challanDocument(challan models.Challan) utils.ChallanDocument {
	return utils.ChallanDocument{
		Number:            challan.Number,
		Date:              challan.CreatedAt,
		CustomerName:      challan.CustomerName,
		CustomerCNIC:      challan.CustomerCNIC,
		CustomerPhone:     challan.CustomerPhone,
		Address:           challan.Address,
		City:              challan.City,
		ReferenceNumber:   challan.ReferenceNumber,
		ProductCode:       challan.ProductCode,
		ProductName:       challan.ProductName,
		Quantity:          challan.Quantity,
		SerialNumber:      challan.SerialNumber,
		CourierName:       challan.CourierName,
		TrackingNumber:    challan.TrackingNumber,
		ConsignmentNumber: challan.ConsignmentNumber,
	}
}

// nextDocumentNumber allocates the next year-scoped business number, seeding
// the counter from the greatest existing number when no counter row exists yet.
func nextDocumentNumber(ctx context.Context, counterName, prefix, collection string) (string, error) {
	year := time.Now().Year()
	yearPrefix := utils.NumberPrefix(prefix, year)

	floor := 0
	opts := options.FindOne().SetSort(bson.D{{Key: "number", Value: -1}})
	var top struct {
		Number string `bson:"number"`
	}
	err := database.DB.Collection(collection).FindOne(ctx,
		bson.M{"number": bson.M{"$regex": "^" + yearPrefix}}, opts).Decode(&top)
	if err == nil {
		floor = utils.NumericSuffix(top.Number)
	} else if err != mongo.ErrNoDocuments {
		return "", err
	}

	seq, err := database.NextSequence(ctx, counterName, year, floor)
	if err != nil {
		return "", err
	}
	return utils.FormatNumber(prefix, year, seq), nil
}

// GetChallan returns one challan by ID.
func GetChallan(c echo.Context) error {
	challanID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid challan ID"})
	}

	var challan models.Challan
	err = database.DB.Collection("challans").FindOne(c.Request().Context(), bson.M{"_id": challanID, "isDeleted": false}).Decode(&challan)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Challan not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch challan"})
	}

	return c.JSON(http.StatusOK, challan)
}

// ListChallans returns non-deleted challans, optionally filtered by print status.
func ListChallans(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"isDeleted": false}
	if ps := c.QueryParam("printStatus"); ps != "" {
		filter["printStatus"] = ps
	}

	cursor, err := database.DB.Collection("challans").Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch challans"})
	}

	var challans []models.Challan
	if err := cursor.All(ctx, &challans); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to decode challans"})
	}

	return c.JSON(http.StatusOK, challans)
}

// BulkDownloadChallans merges the PDFs of the selected challans into a single
// document and marks every included challan printed exactly once per call.
func BulkDownloadChallans(c echo.Context) error {
	var req BulkDownloadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if len(req.ChallanIDs) == 0 && len(req.OrderIDs) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No challan or order IDs supplied"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	challans, ok := resolveChallanSelectors(ctx, c, req)
	if !ok {
		return nil
	}

	docs := make([][]byte, 0, len(challans))
	ids := make([]primitive.ObjectID, 0, len(challans))
	for _, challan := range challans {
		data := fetchOrRegenerate(challan)
		if data == nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": fmt.Sprintf("Failed to produce PDF for challan %s", challan.Number),
			})
		}
		docs = append(docs, data)
		ids = append(ids, challan.ID)
	}

	merged, err := utils.MergePDFs(docs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to merge challan PDFs"})
	}

	// One print mark per challan per call, regardless of page count.
	now := time.Now()
	_, err = database.DB.Collection("challans").UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{
			"$inc": bson.M{"printCount": 1},
			"$set": bson.M{"printStatus": models.PrintStatusPrinted, "printedAt": now, "updatedAt": now},
		},
	)
	if err != nil {
		log.Printf("Failed to mark %d challans printed: %v", len(ids), err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="challans.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", merged)
}

// resolveChallanSelectors maps a mix of challan IDs and order IDs onto
// challan records, failing the whole request on the first unresolvable
// selector. On failure the error response is already written.
func resolveChallanSelectors(ctx context.Context, c echo.Context, req BulkDownloadRequest) ([]models.Challan, bool) {
	seen := map[primitive.ObjectID]bool{}
	var challans []models.Challan

	appendChallan := func(challan models.Challan) {
		if !seen[challan.ID] {
			seen[challan.ID] = true
			challans = append(challans, challan)
		}
	}

	for _, raw := range req.ChallanIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid challan ID: " + raw})
			return nil, false
		}
		var challan models.Challan
		err = database.DB.Collection("challans").FindOne(ctx, bson.M{"_id": id, "isDeleted": false}).Decode(&challan)
		if err != nil {
			c.JSON(http.StatusNotFound, map[string]string{"error": "Challan not found: " + raw})
			return nil, false
		}
		appendChallan(challan)
	}

	for _, raw := range req.OrderIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID: " + raw})
			return nil, false
		}
		var challan models.Challan
		err = database.DB.Collection("challans").FindOne(ctx, bson.M{"orderId": id, "isDeleted": false}).Decode(&challan)
		if err != nil {
			c.JSON(http.StatusNotFound, map[string]string{"error": "No challan found for order: " + raw})
			return nil, false
		}
		appendChallan(challan)
	}

	return challans, true
}

// fetchOrRegenerate returns the stored PDF bytes for a challan, rendering a
// fresh copy from the denormalized snapshot when storage has nothing usable.
func fetchOrRegenerate(challan models.Challan) []byte {
	if challan.DocumentURL != "" {
		if data, err := docStore.Fetch(challan.DocumentURL); err == nil {
			return data
		} else {
			log.Printf("Stored PDF fetch failed for challan %s, regenerating: %v", challan.Number, err)
		}
	}
	data, err := utils.RenderChallanPDF(challanDocument(challan))
	if err != nil {
		log.Printf("Failed to regenerate PDF for challan %s: %v", challan.Number, err)
		return nil
	}
	return data
}

// RegenerateChallanPDF re-renders and re-stores a challan document, used when
// the original render/store attempt failed after dispatch.
func RegenerateChallanPDF(c echo.Context) error {
	challanID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid challan ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var challan models.Challan
	err = database.DB.Collection("challans").FindOne(ctx, bson.M{"_id": challanID, "isDeleted": false}).Decode(&challan)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Challan not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch challan"})
	}

	url, err := renderAndStore(challan)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to regenerate challan PDF"})
	}

	_, err = database.DB.Collection("challans").UpdateOne(ctx,
		bson.M{"_id": challan.ID},
		bson.M{"$set": bson.M{"documentUrl": url, "updatedAt": time.Now()}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to record document URL"})
	}

	challan.DocumentURL = url
	return c.JSON(http.StatusOK, challan)
}
