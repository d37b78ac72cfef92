package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type POStatus string

const (
	POStatusDraft     POStatus = "draft"
	POStatusActive    POStatus = "active"
	POStatusMerged    POStatus = "merged"
	POStatusCancelled POStatus = "cancelled"
)

var (
	ErrMixedVendors    = errors.New("purchase orders belong to different vendors")
	ErrAlreadyMerged   = errors.New("purchase order is already merged")
	ErrTooFewToCombine = errors.New("at least two purchase orders are required")
)

// POLineItem is a single line on a purchase order. Monetary amounts are
// stored as decimal strings and parsed only for arithmetic.
type POLineItem struct {
	ProductID    primitive.ObjectID `bson:"productId" json:"productId"`
	ProductCode  string             `bson:"productCode" json:"productCode"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Quantity     int                `bson:"quantity" json:"quantity"`
	UnitPrice    string             `bson:"unitPrice" json:"unitPrice"`
	LineTotal    string             `bson:"lineTotal" json:"lineTotal"`
	SerialNumber string             `bson:"serialNumber,omitempty" json:"serialNumber,omitempty"`
	// SourcePO records which PO a line came from when POs are combined.
	SourcePO string `bson:"sourcePo,omitempty" json:"sourcePo,omitempty"`
}

type PurchaseOrder struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Number      string               `bson:"number" json:"number"`
	VendorID    primitive.ObjectID   `bson:"vendorId" json:"vendorId"`
	OrderID     *primitive.ObjectID  `bson:"orderId,omitempty" json:"orderId,omitempty"`
	OrderIDs    []primitive.ObjectID `bson:"orderIds,omitempty" json:"orderIds,omitempty"`
	Items       []POLineItem         `bson:"items" json:"items"`
	TotalAmount string               `bson:"totalAmount" json:"totalAmount"`
	Status      POStatus             `bson:"status" json:"status"`
	MergedFrom  []string             `bson:"mergedFrom,omitempty" json:"mergedFrom,omitempty"`
	MergedInto  *primitive.ObjectID  `bson:"mergedInto,omitempty" json:"mergedInto,omitempty"`
	Remarks     string               `bson:"remarks,omitempty" json:"remarks,omitempty"`
	IsDeleted   bool                 `bson:"isDeleted" json:"-"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Immutable reports whether the PO may no longer be edited.
func (p *PurchaseOrder) Immutable() bool {
	return p.Status == POStatusMerged || p.Status == POStatusCancelled
}

// ComputeLineTotal parses unitPrice, multiplies by quantity and returns
// both as canonical decimal strings.
func ComputeLineTotal(unitPrice string, quantity int) (price, total string, err error) {
	d, err := decimal.NewFromString(unitPrice)
	if err != nil {
		return "", "", fmt.Errorf("invalid unit price %q: %w", unitPrice, err)
	}
	t := d.Mul(decimal.NewFromInt(int64(quantity)))
	return d.String(), t.String(), nil
}

// ComputeTotalAmount sums the line totals of items.
func ComputeTotalAmount(items []POLineItem) (string, error) {
	sum := decimal.Zero
	for _, it := range items {
		d, err := decimal.NewFromString(it.LineTotal)
		if err != nil {
			return "", fmt.Errorf("invalid line total %q: %w", it.LineTotal, err)
		}
		sum = sum.Add(d)
	}
	return sum.String(), nil
}

// CombinedPO is the synthetic read-only view produced by a combine preview
// and the payload persisted by a permanent merge.
type CombinedPO struct {
	VendorID    primitive.ObjectID   `json:"vendorId"`
	Items       []POLineItem         `json:"items"`
	TotalAmount string               `json:"totalAmount"`
	OrderIDs    []primitive.ObjectID `json:"orderIds"`
	MergedFrom  []string             `json:"mergedFrom"`
}

// CombinePurchaseOrders validates that all POs belong to one vendor and none
// is already merged, then returns the combined view. Input POs are not mutated:
// line items are copied and tagged with their source PO number.
func CombinePurchaseOrders(pos []PurchaseOrder) (*CombinedPO, error) {
	if len(pos) < 2 {
		return nil, ErrTooFewToCombine
	}
	vendorID := pos[0].VendorID
	combined := &CombinedPO{VendorID: vendorID}
	total := decimal.Zero
	seenOrders := map[primitive.ObjectID]bool{}
	for _, po := range pos {
		if po.VendorID != vendorID {
			return nil, ErrMixedVendors
		}
		if po.Status == POStatusMerged {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyMerged, po.Number)
		}
		for _, it := range po.Items {
			tagged := it
			tagged.SourcePO = po.Number
			combined.Items = append(combined.Items, tagged)
		}
		d, err := decimal.NewFromString(po.TotalAmount)
		if err != nil {
			return nil, fmt.Errorf("invalid total on %s: %w", po.Number, err)
		}
		total = total.Add(d)
		combined.MergedFrom = append(combined.MergedFrom, po.Number)
		for _, oid := range po.SourceOrderIDs() {
			if !seenOrders[oid] {
				seenOrders[oid] = true
				combined.OrderIDs = append(combined.OrderIDs, oid)
			}
		}
	}
	combined.TotalAmount = total.String()
	return combined, nil
}

// SourceOrderIDs returns every order this PO originates from.
func (p *PurchaseOrder) SourceOrderIDs() []primitive.ObjectID {
	if len(p.OrderIDs) > 0 {
		return p.OrderIDs
	}
	if p.OrderID != nil {
		return []primitive.ObjectID{*p.OrderID}
	}
	return nil
}

// PickSerialNumber applies an operator-supplied serial override before
// falling back to the PO-derived resolution.
func PickSerialNumber(override string, orderID, productID primitive.ObjectID, pos []PurchaseOrder) string {
	if override != "" {
		return override
	}
	return ResolveSerialNumber(orderID, productID, pos)
}

// ResolveSerialNumber finds the serial number for a dispatched order from PO
// line items. Preference order: a line matching the order's product on a PO
// raised for this exact order, then a product match on any PO, then the first
// line with any serial on a PO raised for this order. Returns "" when nothing
// matches; an unresolved serial is an informational gap, not an error.
func ResolveSerialNumber(orderID, productID primitive.ObjectID, pos []PurchaseOrder) string {
	for _, po := range pos {
		if !po.forOrder(orderID) {
			continue
		}
		for _, it := range po.Items {
			if it.ProductID == productID && it.SerialNumber != "" {
				return it.SerialNumber
			}
		}
	}
	for _, po := range pos {
		for _, it := range po.Items {
			if it.ProductID == productID && it.SerialNumber != "" {
				return it.SerialNumber
			}
		}
	}
	for _, po := range pos {
		if !po.forOrder(orderID) {
			continue
		}
		for _, it := range po.Items {
			if it.SerialNumber != "" {
				return it.SerialNumber
			}
		}
	}
	return ""
}

func (p *PurchaseOrder) forOrder(orderID primitive.ObjectID) bool {
	for _, oid := range p.SourceOrderIDs() {
		if oid == orderID {
			return true
		}
	}
	return false
}
