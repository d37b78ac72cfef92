package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CourierType string

const (
	CourierTypeAPI    CourierType = "api"
	CourierTypeManual CourierType = "manual"
)

// Courier provider codes with a gateway implementation.
const (
	CourierCodeLeopards = "leopards"
	CourierCodeTrax     = "trax"
)

type Courier struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Code          string             `bson:"code" json:"code"`
	Type          CourierType        `bson:"type" json:"type"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	APIBaseURL    string             `bson:"apiBaseUrl,omitempty" json:"apiBaseUrl,omitempty"`
	APIKey        string             `bson:"apiKey,omitempty" json:"-"`
	APISecret     string             `bson:"apiSecret,omitempty" json:"-"`
	AccountNumber string             `bson:"accountNumber,omitempty" json:"accountNumber,omitempty"`
	// ShipperName/ShipperAddress are printed on booking payloads as the origin party.
	ShipperName    string    `bson:"shipperName,omitempty" json:"shipperName,omitempty"`
	ShipperAddress string    `bson:"shipperAddress,omitempty" json:"shipperAddress,omitempty"`
	ShipperCity    string    `bson:"shipperCity,omitempty" json:"shipperCity,omitempty"`
	ShipperPhone   string    `bson:"shipperPhone,omitempty" json:"shipperPhone,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ManualCapable reports whether the courier may be used for manual dispatch.
func (c *Courier) ManualCapable() bool {
	return c.Type == CourierTypeManual
}
