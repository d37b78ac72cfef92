package courier

import (
	"context"

	"github.com/arslanyasin/bnw-orders-backend-sub000/models"
)

// Manual is the no-network gateway for couriers without an API integration.
// Booking never happens here: the operator supplies tracking numbers directly
// through the manual dispatch endpoint.
type Manual struct{}

func (m *Manual) BookShipment(ctx context.Context, c models.Courier, req BookingRequest) BookingResult {
	return BookingResult{
		Success: false,
		Error:   "courier requires manual dispatch with an operator-entered tracking number",
	}
}

func (m *Manual) TrackShipment(ctx context.Context, c models.Courier, trackingNumber string) (*TrackingInfo, error) {
	return nil, ErrTrackingNotSupported
}

func (m *Manual) CancelShipment(ctx context.Context, c models.Courier, trackingNumber, reason string) CancelResult {
	// Nothing to call out to; cancellation is recorded locally.
	return CancelResult{Success: true, Message: "shipment cancelled locally"}
}
