package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ShipmentStatus string

const (
	ShipmentStatusBooked         ShipmentStatus = "booked"
	ShipmentStatusInTransit      ShipmentStatus = "in_transit"
	ShipmentStatusOutForDelivery ShipmentStatus = "out_for_delivery"
	ShipmentStatusDelivered      ShipmentStatus = "delivered"
	ShipmentStatusReturned       ShipmentStatus = "returned"
	ShipmentStatusCancelled      ShipmentStatus = "cancelled"
	ShipmentStatusFailed         ShipmentStatus = "failed"
)

var shipmentTransitions = map[ShipmentStatus][]ShipmentStatus{
	ShipmentStatusBooked:         {ShipmentStatusInTransit, ShipmentStatusOutForDelivery, ShipmentStatusCancelled, ShipmentStatusFailed},
	ShipmentStatusInTransit:      {ShipmentStatusOutForDelivery, ShipmentStatusDelivered, ShipmentStatusReturned, ShipmentStatusCancelled, ShipmentStatusFailed},
	ShipmentStatusOutForDelivery: {ShipmentStatusDelivered, ShipmentStatusReturned, ShipmentStatusFailed},
}

func (s ShipmentStatus) CanTransitionTo(next ShipmentStatus) bool {
	for _, allowed := range shipmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s ShipmentStatus) IsTerminal() bool {
	return len(shipmentTransitions[s]) == 0
}

// CanCancel reports whether the shipment may still be cancelled. Delivered
// shipments are final and cancelling twice is rejected rather than repeated.
func (s ShipmentStatus) CanCancel() bool {
	return s != ShipmentStatusDelivered && s != ShipmentStatusCancelled
}

type Shipment struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID              primitive.ObjectID `bson:"orderId" json:"orderId"`
	OrderKind            OrderKind          `bson:"orderKind" json:"orderKind"`
	CourierID            primitive.ObjectID `bson:"courierId" json:"courierId"`
	TrackingNumber       string             `bson:"trackingNumber" json:"trackingNumber"`
	ConsignmentNumber    string             `bson:"consignmentNumber,omitempty" json:"consignmentNumber,omitempty"`
	Status               ShipmentStatus     `bson:"status" json:"status"`
	BookingDate          time.Time          `bson:"bookingDate" json:"bookingDate"`
	ExpectedDeliveryDate *time.Time         `bson:"expectedDeliveryDate,omitempty" json:"expectedDeliveryDate,omitempty"`
	ActualDeliveryDate   *time.Time         `bson:"actualDeliveryDate,omitempty" json:"actualDeliveryDate,omitempty"`
	// RawResponse keeps the provider's booking response verbatim for audit.
	RawResponse string    `bson:"rawResponse,omitempty" json:"rawResponse,omitempty"`
	Remarks     string    `bson:"remarks,omitempty" json:"remarks,omitempty"`
	IsDeleted   bool      `bson:"isDeleted" json:"-"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}
