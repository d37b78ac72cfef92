package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusDispatched OrderStatus = "dispatched"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type OrderKind string

const (
	OrderKindBank    OrderKind = "bank"
	OrderKindProgram OrderKind = "program"
)

// orderTransitions defines the allowed order status transitions.
// dispatched → processing is the reverse path taken only by shipment cancellation.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusDispatched, OrderStatusCancelled},
	OrderStatusDispatched: {OrderStatusDelivered, OrderStatusProcessing},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// intakeTransitions is the subset the order status endpoint may apply.
// The dispatched→processing reversal is reserved for shipment cancellation,
// which also cleans up the shipment itself.
var intakeTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusCancelled},
}

func (s OrderStatus) CanIntakeTransitionTo(next OrderStatus) bool {
	for _, allowed := range intakeTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// StatusHistoryEntry is an append-only record of a single status change.
type StatusHistoryEntry struct {
	Status    OrderStatus `bson:"status" json:"status"`
	Timestamp time.Time   `bson:"timestamp" json:"timestamp"`
	Note      string      `bson:"note,omitempty" json:"note,omitempty"`
}

type Order struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Kind            OrderKind            `bson:"kind" json:"kind"`
	BankID          primitive.ObjectID   `bson:"bankId,omitempty" json:"bankId,omitempty"`
	ReferenceNumber string               `bson:"referenceNumber" json:"referenceNumber"`
	CustomerName    string               `bson:"customerName" json:"customerName"`
	CustomerCNIC    string               `bson:"customerCnic" json:"customerCnic"`
	CustomerPhone   string               `bson:"customerPhone" json:"customerPhone"`
	Address         string               `bson:"address" json:"address"`
	City            string               `bson:"city" json:"city"`
	ProductID       primitive.ObjectID   `bson:"productId,omitempty" json:"productId,omitempty"`
	Quantity        int                  `bson:"quantity" json:"quantity"`
	GiftValue       float64              `bson:"giftValue,omitempty" json:"giftValue,omitempty"`
	DeclaredValue   float64              `bson:"declaredValue,omitempty" json:"declaredValue,omitempty"`
	Status          OrderStatus          `bson:"status" json:"status"`
	StatusHistory   []StatusHistoryEntry `bson:"statusHistory" json:"statusHistory"`
	ShipmentID      *primitive.ObjectID  `bson:"shipmentId,omitempty" json:"shipmentId,omitempty"`
	IsDeleted       bool                 `bson:"isDeleted" json:"-"`
	CreatedAt       time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt" json:"updatedAt"`
}
