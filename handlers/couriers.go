package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/arslanyasin/bnw-orders-backend-sub000/database"
	"github.com/arslanyasin/bnw-orders-backend-sub000/models"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func CreateCourier(c echo.Context) error {
	var courier models.Courier
	if err := c.Bind(&courier); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if courier.Name == "" || courier.Code == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Name and code are required"})
	}
	if courier.Type != models.CourierTypeAPI && courier.Type != models.CourierTypeManual {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Courier type must be api or manual"})
	}

	courier.ID = primitive.NewObjectID()
	courier.CreatedAt = time.Now()
	courier.UpdatedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.DB.Collection("couriers").InsertOne(ctx, courier); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create courier"})
	}

	return c.JSON(http.StatusCreated, courier)
}

func GetCouriers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if c.QueryParam("active") == "true" {
		filter["isActive"] = true
	}

	cursor, err := database.DB.Collection("couriers").Find(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch couriers"})
	}

	var couriers []models.Courier
	if err := cursor.All(ctx, &couriers); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to decode couriers"})
	}

	return c.JSON(http.StatusOK, couriers)
}

func GetCourier(c echo.Context) error {
	courierID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid courier ID"})
	}

	var courier models.Courier
	err = database.DB.Collection("couriers").FindOne(c.Request().Context(), bson.M{"_id": courierID}).Decode(&courier)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Courier not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch courier"})
	}

	return c.JSON(http.StatusOK, courier)
}

func UpdateCourier(c echo.Context) error {
	courierID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid courier ID"})
	}

	var req models.Courier
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	update := bson.M{
		"name":           req.Name,
		"type":           req.Type,
		"isActive":       req.IsActive,
		"apiBaseUrl":     req.APIBaseURL,
		"accountNumber":  req.AccountNumber,
		"shipperName":    req.ShipperName,
		"shipperAddress": req.ShipperAddress,
		"shipperCity":    req.ShipperCity,
		"shipperPhone":   req.ShipperPhone,
		"updatedAt":      time.Now(),
	}
	if req.APIKey != "" {
		update["apiKey"] = req.APIKey
	}
	if req.APISecret != "" {
		update["apiSecret"] = req.APISecret
	}

	res, err := database.DB.Collection("couriers").UpdateOne(ctx, bson.M{"_id": courierID}, bson.M{"$set": update})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update courier"})
	}
	if res.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Courier not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Courier updated"})
}
