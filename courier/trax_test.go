package courier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arslanyasin/bnw-orders-backend-sub000/models"
)

func traxCourier(baseURL string) models.Courier {
	return models.Courier{
		Code:          models.CourierCodeTrax,
		Type:          models.CourierTypeAPI,
		APIBaseURL:    baseURL,
		APIKey:        "trax-key",
		APISecret:     "trax-secret",
		AccountNumber: "ACC-9",
	}
}

func TestTraxBookShipmentSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/booking" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("API-KEY") != "trax-key" || r.Header.Get("API-SECRET") != "trax-secret" {
			t.Error("missing API credential headers")
		}
		var payload map[string]interface{}
		json.NewDecoder(r.Body).Decode(&payload)
		if payload["phone"] != "923009998877" {
			t.Errorf("phone = %v, want normalized 923009998877", payload["phone"])
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":      1,
			"tracking_no": "TRX-1001",
			"cn_number":   "CN-1001",
		})
	}))
	defer srv.Close()

	gw := &Trax{}
	res := gw.BookShipment(context.Background(), traxCourier(srv.URL), BookingRequest{
		OrderRef:       "BNK-002",
		ConsigneeName:  "Sana Khan",
		ConsigneePhone: "0300 999 8877",
		City:           "Islamabad",
		Pieces:         2,
	})

	if !res.Success {
		t.Fatalf("BookShipment failed: %s", res.Error)
	}
	if res.TrackingNumber != "TRX-1001" || res.ConsignmentNumber != "CN-1001" {
		t.Errorf("result = %+v", res)
	}
}

func TestTraxBookShipmentRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  0,
			"message": "service not available in this city",
		})
	}))
	defer srv.Close()

	gw := &Trax{}
	res := gw.BookShipment(context.Background(), traxCourier(srv.URL), BookingRequest{ConsigneeName: "Sana"})
	if res.Success {
		t.Fatal("expected rejection when provider status != 1")
	}
	if res.Error != "service not available in this city" {
		t.Errorf("error = %q", res.Error)
	}
}

func TestTraxBookShipmentUnparseableResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway timeout</html>"))
	}))
	defer srv.Close()

	gw := &Trax{}
	res := gw.BookShipment(context.Background(), traxCourier(srv.URL), BookingRequest{ConsigneeName: "Sana"})
	if res.Success {
		t.Fatal("expected failure on non-JSON body")
	}
	if res.RawResponse == "" {
		t.Error("raw body should be preserved for audit even when unparseable")
	}
}

func TestTraxTrackingNotSupported(t *testing.T) {
	gw := &Trax{}
	_, err := gw.TrackShipment(context.Background(), traxCourier("http://unused"), "TRX-1")
	if !errors.Is(err, ErrTrackingNotSupported) {
		t.Errorf("TrackShipment error = %v, want ErrTrackingNotSupported", err)
	}
}

func TestTraxCancelShipment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/booking/cancel" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"status": 1, "message": "cancelled"})
	}))
	defer srv.Close()

	gw := &Trax{}
	res := gw.CancelShipment(context.Background(), traxCourier(srv.URL), "TRX-1001", "duplicate order")
	if !res.Success {
		t.Fatalf("CancelShipment failed: %s", res.Error)
	}
}
