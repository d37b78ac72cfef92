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

func CreateVendor(c echo.Context) error {
	var vendor models.Vendor
	if err := c.Bind(&vendor); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if vendor.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Vendor name is required"})
	}

	vendor.ID = primitive.NewObjectID()
	vendor.IsActive = true
	vendor.CreatedAt = time.Now()
	vendor.UpdatedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.DB.Collection("vendors").InsertOne(ctx, vendor); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create vendor"})
	}

	return c.JSON(http.StatusCreated, vendor)
}

func GetVendors(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection("vendors").Find(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch vendors"})
	}

	var vendors []models.Vendor
	if err := cursor.All(ctx, &vendors); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to decode vendors"})
	}

	return c.JSON(http.StatusOK, vendors)
}

func GetVendor(c echo.Context) error {
	vendorID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid vendor ID"})
	}

	var vendor models.Vendor
	err = database.DB.Collection("vendors").FindOne(c.Request().Context(), bson.M{"_id": vendorID}).Decode(&vendor)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Vendor not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch vendor"})
	}

	return c.JSON(http.StatusOK, vendor)
}

func CreateBank(c echo.Context) error {
	var bank models.Bank
	if err := c.Bind(&bank); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if bank.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Bank name is required"})
	}

	bank.ID = primitive.NewObjectID()
	bank.IsActive = true
	bank.CreatedAt = time.Now()
	bank.UpdatedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.DB.Collection("banks").InsertOne(ctx, bank); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create bank"})
	}

	return c.JSON(http.StatusCreated, bank)
}

func GetBanks(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection("banks").Find(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch banks"})
	}

	var banks []models.Bank
	if err := cursor.All(ctx, &banks); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to decode banks"})
	}

	return c.JSON(http.StatusOK, banks)
}
