package courier

import (
	"context"
	"testing"

	"github.com/arslanyasin/bnw-orders-backend-sub000/models"
)

func TestForCourier(t *testing.T) {
	tests := []struct {
		name    string
		courier models.Courier
		want    Gateway
		wantErr bool
	}{
		{"leopards by code", models.Courier{Type: models.CourierTypeAPI, Code: models.CourierCodeLeopards}, leopardsGateway, false},
		{"trax by code", models.Courier{Type: models.CourierTypeAPI, Code: models.CourierCodeTrax}, traxGateway, false},
		{"manual type wins over code", models.Courier{Type: models.CourierTypeManual, Code: models.CourierCodeLeopards}, manualGateway, false},
		{"unknown code", models.Courier{Type: models.CourierTypeAPI, Code: "speedex"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ForCourier(tt.courier)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error for unmapped courier code")
				}
				return
			}
			if err != nil {
				t.Fatalf("ForCourier: %v", err)
			}
			if got != tt.want {
				t.Errorf("ForCourier returned %T, want %T", got, tt.want)
			}
		})
	}
}

func TestManualGateway(t *testing.T) {
	gw := &Manual{}
	c := models.Courier{Type: models.CourierTypeManual, Name: "Local Rider"}

	book := gw.BookShipment(context.Background(), c, BookingRequest{ConsigneeName: "Ali"})
	if book.Success {
		t.Error("manual gateway must refuse API booking")
	}

	if _, err := gw.TrackShipment(context.Background(), c, "MAN-1"); err != ErrTrackingNotSupported {
		t.Errorf("TrackShipment error = %v, want ErrTrackingNotSupported", err)
	}

	cancel := gw.CancelShipment(context.Background(), c, "MAN-1", "wrong address")
	if !cancel.Success {
		t.Errorf("manual cancel should succeed locally, got %+v", cancel)
	}
}
