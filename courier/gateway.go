package courier

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/arslanyasin/bnw-orders-backend-sub000/models"
)

// ErrTrackingNotSupported is returned by providers without a tracking API.
var ErrTrackingNotSupported = errors.New("tracking not supported for this courier")

// BookingRequest is the provider-agnostic shape the orchestrator builds.
// Provider-specific formatting (phone normalization, name clamping) happens
// inside each gateway, never in the caller.
type BookingRequest struct {
	OrderRef        string
	ConsigneeName   string
	ConsigneeCNIC   string
	ConsigneePhone  string
	Address         string
	City            string
	Pieces          int
	DeclaredValue   float64
	ItemDescription string
	Remarks         string
}

// BookingResult is the single failure channel for booking: business
// rejections and transport errors both come back as Success=false.
type BookingResult struct {
	Success           bool   `json:"success"`
	TrackingNumber    string `json:"trackingNumber,omitempty"`
	ConsignmentNumber string `json:"consignmentNumber,omitempty"`
	Error             string `json:"error,omitempty"`
	RawResponse       string `json:"-"`
}

type TrackingInfo struct {
	Status     string    `json:"status"`
	Checkpoint string    `json:"checkpoint,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type CancelResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Gateway interface {
	BookShipment(ctx context.Context, courier models.Courier, req BookingRequest) BookingResult
	TrackShipment(ctx context.Context, courier models.Courier, trackingNumber string) (*TrackingInfo, error)
	CancelShipment(ctx context.Context, courier models.Courier, trackingNumber, reason string) CancelResult
}

var httpClient = &http.Client{Timeout: 30 * time.Second}

var (
	leopardsGateway = &Leopards{}
	traxGateway     = &Trax{}
	manualGateway   = &Manual{}
)

// ForCourier selects the gateway implementation for a courier. Manual-type
// couriers always get the no-network gateway regardless of code.
func ForCourier(c models.Courier) (Gateway, error) {
	if c.Type == models.CourierTypeManual {
		return manualGateway, nil
	}
	switch c.Code {
	case models.CourierCodeLeopards:
		return leopardsGateway, nil
	case models.CourierCodeTrax:
		return traxGateway, nil
	default:
		return nil, fmt.Errorf("no gateway implementation for courier %q", c.Code)
	}
}
