package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PrintStatus string

const (
	PrintStatusUnprinted PrintStatus = "unprinted"
	PrintStatusPrinted   PrintStatus = "printed"
)

// Challan is the delivery receipt produced for a dispatched shipment.
// Customer, product and courier fields are denormalized so the document
// stays valid even if the source order is edited later.
type Challan struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Number     string             `bson:"number" json:"number"`
	ShipmentID primitive.ObjectID `bson:"shipmentId" json:"shipmentId"`
	OrderID    primitive.ObjectID `bson:"orderId" json:"orderId"`
	OrderKind  OrderKind          `bson:"orderKind" json:"orderKind"`

	CustomerName    string `bson:"customerName" json:"customerName"`
	CustomerCNIC    string `bson:"customerCnic" json:"customerCnic"`
	CustomerPhone   string `bson:"customerPhone" json:"customerPhone"`
	Address         string `bson:"address" json:"address"`
	City            string `bson:"city" json:"city"`
	ReferenceNumber string `bson:"referenceNumber" json:"referenceNumber"`

	ProductCode  string `bson:"productCode" json:"productCode"`
	ProductName  string `bson:"productName" json:"productName"`
	Quantity     int    `bson:"quantity" json:"quantity"`
	SerialNumber string `bson:"serialNumber,omitempty" json:"serialNumber,omitempty"`

	CourierName       string `bson:"courierName" json:"courierName"`
	TrackingNumber    string `bson:"trackingNumber" json:"trackingNumber"`
	ConsignmentNumber string `bson:"consignmentNumber,omitempty" json:"consignmentNumber,omitempty"`

	DocumentURL string      `bson:"documentUrl,omitempty" json:"documentUrl,omitempty"`
	PrintStatus PrintStatus `bson:"printStatus" json:"printStatus"`
	PrintedAt   *time.Time  `bson:"printedAt,omitempty" json:"printedAt,omitempty"`
	PrintCount  int         `bson:"printCount" json:"printCount"`

	IsDeleted bool      `bson:"isDeleted" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
