package models

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestComputeLineTotal(t *testing.T) {
	tests := []struct {
		name      string
		unitPrice string
		quantity  int
		wantPrice string
		wantTotal string
		wantErr   bool
	}{
		{"whole number", "1500", 2, "1500", "3000", false},
		{"fractional price", "99.99", 3, "99.99", "299.97", false},
		{"single unit", "0.5", 1, "0.5", "0.5", false},
		{"zero quantity", "250", 0, "250", "0", false},
		{"bad price", "abc", 1, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, total, err := ComputeLineTotal(tt.unitPrice, tt.quantity)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ComputeLineTotal: %v", err)
			}
			if price != tt.wantPrice || total != tt.wantTotal {
				t.Errorf("got (%q, %q), want (%q, %q)", price, total, tt.wantPrice, tt.wantTotal)
			}
		})
	}
}

func TestComputeTotalAmount(t *testing.T) {
	items := []POLineItem{
		{LineTotal: "100.50"},
		{LineTotal: "249.50"},
		{LineTotal: "0"},
	}
	total, err := ComputeTotalAmount(items)
	if err != nil {
		t.Fatalf("ComputeTotalAmount: %v", err)
	}
	if total != "350" {
		t.Errorf("total = %q, want 350", total)
	}

	if _, err := ComputeTotalAmount([]POLineItem{{LineTotal: "??"}}); err == nil {
		t.Error("expected error for malformed line total")
	}
}

func TestCombinePurchaseOrders(t *testing.T) {
	vendor := primitive.NewObjectID()
	orderA := primitive.NewObjectID()
	orderB := primitive.NewObjectID()
	prod := primitive.NewObjectID()

	poA := PurchaseOrder{
		Number:      "PO-2024-0001",
		VendorID:    vendor,
		OrderID:     &orderA,
		Items:       []POLineItem{{ProductID: prod, ProductCode: "WATCH", Quantity: 1, UnitPrice: "100", LineTotal: "100"}},
		TotalAmount: "100",
		Status:      POStatusActive,
	}
	poB := PurchaseOrder{
		Number:      "PO-2024-0002",
		VendorID:    vendor,
		OrderIDs:    []primitive.ObjectID{orderA, orderB},
		Items:       []POLineItem{{ProductID: prod, ProductCode: "WATCH", Quantity: 2, UnitPrice: "125", LineTotal: "250"}},
		TotalAmount: "250",
		Status:      POStatusActive,
	}

	combined, err := CombinePurchaseOrders([]PurchaseOrder{poA, poB})
	if err != nil {
		t.Fatalf("CombinePurchaseOrders: %v", err)
	}

	if combined.TotalAmount != "350" {
		t.Errorf("combined total = %q, want 350", combined.TotalAmount)
	}
	if len(combined.Items) != 2 {
		t.Fatalf("combined items = %d, want 2", len(combined.Items))
	}
	if combined.Items[0].SourcePO != "PO-2024-0001" || combined.Items[1].SourcePO != "PO-2024-0002" {
		t.Errorf("source tags = %q, %q", combined.Items[0].SourcePO, combined.Items[1].SourcePO)
	}
	if got, want := combined.MergedFrom, []string{"PO-2024-0001", "PO-2024-0002"}; len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("mergedFrom = %v", got)
	}
	// orderA appears on both POs but must be listed once.
	if len(combined.OrderIDs) != 2 {
		t.Errorf("combined order IDs = %v, want exactly [%s %s]", combined.OrderIDs, orderA.Hex(), orderB.Hex())
	}

	// Preview must not touch its inputs.
	if poA.Items[0].SourcePO != "" || poB.Items[0].SourcePO != "" {
		t.Error("input purchase orders were mutated")
	}
}

func TestCombinePurchaseOrdersValidation(t *testing.T) {
	vendor := primitive.NewObjectID()
	base := PurchaseOrder{Number: "PO-2024-0001", VendorID: vendor, TotalAmount: "10", Status: POStatusActive}

	t.Run("too few", func(t *testing.T) {
		_, err := CombinePurchaseOrders([]PurchaseOrder{base})
		if !errors.Is(err, ErrTooFewToCombine) {
			t.Errorf("err = %v, want ErrTooFewToCombine", err)
		}
	})

	t.Run("mixed vendors", func(t *testing.T) {
		other := base
		other.Number = "PO-2024-0002"
		other.VendorID = primitive.NewObjectID()
		_, err := CombinePurchaseOrders([]PurchaseOrder{base, other})
		if !errors.Is(err, ErrMixedVendors) {
			t.Errorf("err = %v, want ErrMixedVendors", err)
		}
	})

	t.Run("already merged", func(t *testing.T) {
		merged := base
		merged.Number = "PO-2024-0003"
		merged.Status = POStatusMerged
		_, err := CombinePurchaseOrders([]PurchaseOrder{base, merged})
		if !errors.Is(err, ErrAlreadyMerged) {
			t.Errorf("err = %v, want ErrAlreadyMerged", err)
		}
	})
}

func TestResolveSerialNumber(t *testing.T) {
	order := primitive.NewObjectID()
	otherOrder := primitive.NewObjectID()
	product := primitive.NewObjectID()
	otherProduct := primitive.NewObjectID()

	ownPOProductMatch := PurchaseOrder{
		Number:  "PO-2024-0010",
		OrderID: &order,
		Items:   []POLineItem{{ProductID: product, SerialNumber: "SN-OWN"}},
	}
	foreignPOProductMatch := PurchaseOrder{
		Number:  "PO-2024-0011",
		OrderID: &otherOrder,
		Items:   []POLineItem{{ProductID: product, SerialNumber: "SN-FOREIGN"}},
	}
	ownPOOtherProduct := PurchaseOrder{
		Number:  "PO-2024-0012",
		OrderID: &order,
		Items:   []POLineItem{{ProductID: otherProduct, SerialNumber: "SN-FALLBACK"}},
	}

	tests := []struct {
		name string
		pos  []PurchaseOrder
		want string
	}{
		{"own PO product match preferred", []PurchaseOrder{foreignPOProductMatch, ownPOProductMatch}, "SN-OWN"},
		{"any PO product match second", []PurchaseOrder{ownPOOtherProduct, foreignPOProductMatch}, "SN-FOREIGN"},
		{"own PO any serial last", []PurchaseOrder{ownPOOtherProduct}, "SN-FALLBACK"},
		{"no match", []PurchaseOrder{{Number: "PO-X", OrderID: &otherOrder}}, ""},
		{"no purchase orders", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveSerialNumber(order, product, tt.pos); got != tt.want {
				t.Errorf("ResolveSerialNumber = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPickSerialNumber(t *testing.T) {
	order := primitive.NewObjectID()
	product := primitive.NewObjectID()
	pos := []PurchaseOrder{{
		Number:  "PO-2024-0020",
		OrderID: &order,
		Items:   []POLineItem{{ProductID: product, SerialNumber: "SN-FROM-PO"}},
	}}

	if got := PickSerialNumber("SN-OPERATOR", order, product, pos); got != "SN-OPERATOR" {
		t.Errorf("override ignored: got %q", got)
	}
	if got := PickSerialNumber("", order, product, pos); got != "SN-FROM-PO" {
		t.Errorf("empty override should fall back to PO resolution, got %q", got)
	}
	if got := PickSerialNumber("", order, product, nil); got != "" {
		t.Errorf("no override and no POs should yield empty, got %q", got)
	}
}

func TestPurchaseOrderImmutable(t *testing.T) {
	tests := []struct {
		status POStatus
		want   bool
	}{
		{POStatusDraft, false},
		{POStatusActive, false},
		{POStatusMerged, true},
		{POStatusCancelled, true},
	}
	for _, tt := range tests {
		po := PurchaseOrder{Status: tt.status}
		if got := po.Immutable(); got != tt.want {
			t.Errorf("Immutable() with status %s = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestSourceOrderIDs(t *testing.T) {
	single := primitive.NewObjectID()
	many := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}

	po := PurchaseOrder{OrderID: &single}
	if got := po.SourceOrderIDs(); len(got) != 1 || got[0] != single {
		t.Errorf("single-order PO returned %v", got)
	}

	po = PurchaseOrder{OrderID: &single, OrderIDs: many}
	if got := po.SourceOrderIDs(); len(got) != 2 {
		t.Errorf("multi-order PO returned %v, orderIds must win", got)
	}

	po = PurchaseOrder{}
	if got := po.SourceOrderIDs(); got != nil {
		t.Errorf("orphan PO returned %v, want nil", got)
	}
}
