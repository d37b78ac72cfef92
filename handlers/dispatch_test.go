package handlers

import (
	"testing"

	"github.com/arslanyasin/bnw-orders-backend-sub000/models"
)

func TestBuildBookingRequest(t *testing.T) {
	order := models.Order{
		ReferenceNumber: "BNK-001",
		CustomerName:    "Ali Raza",
		CustomerCNIC:    "35202-1234567-1",
		CustomerPhone:   "03001234567",
		Address:         "House 1, Street 2",
		City:            "Lahore",
		Quantity:        2,
		GiftValue:       4000,
		DeclaredValue:   5000,
	}
	product := models.Product{Code: "WATCH-01", Name: "Gift Watch"}

	req := buildBookingRequest(order, product, 0, "handle with care")

	if req.OrderRef != "BNK-001" || req.ConsigneeName != "Ali Raza" || req.City != "Lahore" {
		t.Errorf("consignee fields not copied: %+v", req)
	}
	if req.Pieces != 2 {
		t.Errorf("pieces = %d, want 2", req.Pieces)
	}
	if req.ItemDescription != "WATCH-01 x 2" {
		t.Errorf("item description = %q, want %q", req.ItemDescription, "WATCH-01 x 2")
	}
	if req.Remarks != "handle with care" {
		t.Errorf("remarks = %q", req.Remarks)
	}
}

func TestBuildBookingRequestDeclaredValueFallback(t *testing.T) {
	tests := []struct {
		name          string
		requested     float64
		orderDeclared float64
		giftValue     float64
		want          float64
	}{
		{"request value wins", 7500, 5000, 4000, 7500},
		{"order declared value second", 0, 5000, 4000, 5000},
		{"gift value last", 0, 0, 4000, 4000},
		{"all zero", 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := models.Order{Quantity: 1, DeclaredValue: tt.orderDeclared, GiftValue: tt.giftValue}
			req := buildBookingRequest(order, models.Product{Code: "X"}, tt.requested, "")
			if req.DeclaredValue != tt.want {
				t.Errorf("declared value = %v, want %v", req.DeclaredValue, tt.want)
			}
		})
	}
}
