package courier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arslanyasin/bnw-orders-backend-sub000/models"
)

func leopardsTestServer(t *testing.T, authCalls, bookCalls *int, bookHandler http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/token", func(w http.ResponseWriter, r *http.Request) {
		*authCalls++
		var creds map[string]string
		json.NewDecoder(r.Body).Decode(&creds)
		if creds["apiKey"] != "key" || creds["apiSecret"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"token": "tok-123", "expiresIn": 3600})
	})
	mux.HandleFunc("/api/shipments/book", func(w http.ResponseWriter, r *http.Request) {
		*bookCalls++
		bookHandler(w, r)
	})
	return httptest.NewServer(mux)
}

func leopardsCourier(baseURL string) models.Courier {
	return models.Courier{
		Code:          models.CourierCodeLeopards,
		Type:          models.CourierTypeAPI,
		APIBaseURL:    baseURL,
		APIKey:        "key",
		APISecret:     "secret",
		AccountNumber: "ACC-1",
		ShipperName:   "BNW Warehouse",
		ShipperCity:   "Lahore",
		ShipperPhone:  "0421234567",
	}
}

func TestLeopardsBookShipmentSuccess(t *testing.T) {
	var authCalls, bookCalls int
	srv := leopardsTestServer(t, &authCalls, &bookCalls, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization header = %q, want %q", got, "Bearer tok-123")
		}
		var payload struct {
			Consignee struct {
				Name  string `json:"name"`
				Phone string `json:"phone"`
			} `json:"consignee"`
		}
		json.NewDecoder(r.Body).Decode(&payload)
		if payload.Consignee.Phone != "923001234567" {
			t.Errorf("consignee phone = %q, want normalized 923001234567", payload.Consignee.Phone)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"status":            "success",
			"trackingNumber":    "LEO-900001",
			"consignmentNumber": "CN-900001",
		})
	})
	defer srv.Close()

	gw := &Leopards{}
	res := gw.BookShipment(context.Background(), leopardsCourier(srv.URL), BookingRequest{
		OrderRef:       "BNK-001",
		ConsigneeName:  "Ali Raza",
		ConsigneePhone: "0300-1234567",
		Address:        "House 1, Street 2",
		City:           "Karachi",
		Pieces:         1,
		DeclaredValue:  5000,
	})

	if !res.Success {
		t.Fatalf("BookShipment failed: %s", res.Error)
	}
	if res.TrackingNumber != "LEO-900001" {
		t.Errorf("tracking number = %q, want LEO-900001", res.TrackingNumber)
	}
	if res.ConsignmentNumber != "CN-900001" {
		t.Errorf("consignment number = %q, want CN-900001", res.ConsignmentNumber)
	}
	if res.RawResponse == "" {
		t.Error("raw response should be retained for audit")
	}
}

func TestLeopardsBookShipmentRejected(t *testing.T) {
	var authCalls, bookCalls int
	srv := leopardsTestServer(t, &authCalls, &bookCalls, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "error",
			"errors": []map[string]string{
				{"field": "consignee.city", "message": "city not serviced"},
				{"message": "declared value too high"},
			},
		})
	})
	defer srv.Close()

	gw := &Leopards{}
	res := gw.BookShipment(context.Background(), leopardsCourier(srv.URL), BookingRequest{ConsigneeName: "Ali"})

	if res.Success {
		t.Fatal("expected booking rejection")
	}
	want := "consignee.city: city not serviced; declared value too high"
	if res.Error != want {
		t.Errorf("error = %q, want %q", res.Error, want)
	}
}

func TestLeopardsTokenReuse(t *testing.T) {
	var authCalls, bookCalls int
	srv := leopardsTestServer(t, &authCalls, &bookCalls, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "success", "trackingNumber": "LEO-1"})
	})
	defer srv.Close()

	gw := &Leopards{}
	c := leopardsCourier(srv.URL)
	for i := 0; i < 3; i++ {
		if res := gw.BookShipment(context.Background(), c, BookingRequest{ConsigneeName: "Ali"}); !res.Success {
			t.Fatalf("booking %d failed: %s", i, res.Error)
		}
	}

	if authCalls != 1 {
		t.Errorf("auth endpoint called %d times, want 1 (token should be cached)", authCalls)
	}
	if bookCalls != 3 {
		t.Errorf("book endpoint called %d times, want 3", bookCalls)
	}
}

func TestLeopardsTokenRefreshOnExpiry(t *testing.T) {
	var authCalls, bookCalls int
	srv := leopardsTestServer(t, &authCalls, &bookCalls, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "success", "trackingNumber": "LEO-1"})
	})
	defer srv.Close()

	gw := &Leopards{}
	c := leopardsCourier(srv.URL)
	if res := gw.BookShipment(context.Background(), c, BookingRequest{ConsigneeName: "Ali"}); !res.Success {
		t.Fatalf("first booking failed: %s", res.Error)
	}

	// Force the cached token inside the renewal window.
	gw.mu.Lock()
	for key, tok := range gw.tokens {
		tok.expiry = time.Now().Add(10 * time.Second)
		gw.tokens[key] = tok
	}
	gw.mu.Unlock()

	if res := gw.BookShipment(context.Background(), c, BookingRequest{ConsigneeName: "Ali"}); !res.Success {
		t.Fatalf("second booking failed: %s", res.Error)
	}
	if authCalls != 2 {
		t.Errorf("auth endpoint called %d times, want 2 (expired token must be refetched)", authCalls)
	}
}

func TestLeopardsTokenPerCredentials(t *testing.T) {
	var authCalls int
	var seenTokens []string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/token", func(w http.ResponseWriter, r *http.Request) {
		authCalls++
		var creds map[string]string
		json.NewDecoder(r.Body).Decode(&creds)
		json.NewEncoder(w).Encode(map[string]interface{}{"token": "tok-" + creds["apiKey"], "expiresIn": 3600})
	})
	mux.HandleFunc("/api/shipments/book", func(w http.ResponseWriter, r *http.Request) {
		seenTokens = append(seenTokens, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"status": "success", "trackingNumber": "LEO-1"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	first := leopardsCourier(srv.URL)
	second := leopardsCourier(srv.URL)
	second.APIKey = "key2"
	second.APISecret = "secret2"

	gw := &Leopards{}
	for _, c := range []models.Courier{first, second, first} {
		if res := gw.BookShipment(context.Background(), c, BookingRequest{ConsigneeName: "Ali"}); !res.Success {
			t.Fatalf("booking failed: %s", res.Error)
		}
	}

	if authCalls != 2 {
		t.Errorf("auth endpoint called %d times, want 2 (one token per credential pair)", authCalls)
	}
	want := []string{"Bearer tok-key", "Bearer tok-key2", "Bearer tok-key"}
	for i, tok := range seenTokens {
		if tok != want[i] {
			t.Errorf("booking %d sent %q, want %q", i, tok, want[i])
		}
	}
}

func TestLeopardsAuthFailure(t *testing.T) {
	var authCalls, bookCalls int
	srv := leopardsTestServer(t, &authCalls, &bookCalls, func(w http.ResponseWriter, r *http.Request) {
		t.Error("book endpoint must not be reached when auth fails")
	})
	defer srv.Close()

	c := leopardsCourier(srv.URL)
	c.APISecret = "wrong"

	gw := &Leopards{}
	res := gw.BookShipment(context.Background(), c, BookingRequest{ConsigneeName: "Ali"})
	if res.Success {
		t.Fatal("expected auth failure to surface as unsuccessful booking")
	}
	if bookCalls != 0 {
		t.Errorf("book endpoint called %d times, want 0", bookCalls)
	}
}

func TestLeopardsTrackShipment(t *testing.T) {
	var authCalls, bookCalls int
	srv := leopardsTestServer(t, &authCalls, &bookCalls, nil)
	mux := srv.Config.Handler.(*http.ServeMux)
	mux.HandleFunc("/api/shipments/track/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":     "in_transit",
			"checkpoint": "Lahore hub",
			"updatedAt":  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		})
	})
	defer srv.Close()

	gw := &Leopards{}
	info, err := gw.TrackShipment(context.Background(), leopardsCourier(srv.URL), "LEO-900001")
	if err != nil {
		t.Fatalf("TrackShipment: %v", err)
	}
	if info.Status != "in_transit" || info.Checkpoint != "Lahore hub" {
		t.Errorf("tracking info = %+v", info)
	}
}

func TestLeopardsCancelShipment(t *testing.T) {
	var authCalls, bookCalls int
	srv := leopardsTestServer(t, &authCalls, &bookCalls, nil)
	mux := srv.Config.Handler.(*http.ServeMux)
	mux.HandleFunc("/api/shipments/cancel", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["trackingNumber"] != "LEO-900001" {
			t.Errorf("cancel payload tracking number = %q", req["trackingNumber"])
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "success", "message": "cancelled"})
	})
	defer srv.Close()

	gw := &Leopards{}
	res := gw.CancelShipment(context.Background(), leopardsCourier(srv.URL), "LEO-900001", "customer request")
	if !res.Success {
		t.Fatalf("CancelShipment failed: %s", res.Error)
	}
}
