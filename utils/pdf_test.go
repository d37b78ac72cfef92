package utils

import (
	"bytes"
	"testing"
	"time"
)

func sampleChallan(number string) ChallanDocument {
	return ChallanDocument{
		Number:          number,
		Date:            time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		CustomerName:    "Ali Raza",
		CustomerCNIC:    "35202-1234567-1",
		CustomerPhone:   "03001234567",
		Address:         "House 1, Street 2, DHA",
		City:            "Lahore",
		ReferenceNumber: "BNK-001",
		ProductCode:     "WATCH-01",
		ProductName:     "Gift Watch",
		Quantity:        1,
		SerialNumber:    "SN-778899",
		CourierName:     "Leopards",
		TrackingNumber:  "LEO-900001",
	}
}

func TestRenderChallanPDF(t *testing.T) {
	out, err := RenderChallanPDF(sampleChallan("DC-2024-0001"))
	if err != nil {
		t.Fatalf("RenderChallanPDF: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header")
	}
}

func TestRenderChallanPDFMissingSerial(t *testing.T) {
	doc := sampleChallan("DC-2024-0002")
	doc.SerialNumber = ""
	if _, err := RenderChallanPDF(doc); err != nil {
		t.Fatalf("RenderChallanPDF without serial: %v", err)
	}
}

func TestMergePDFs(t *testing.T) {
	a, err := RenderChallanPDF(sampleChallan("DC-2024-0001"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := RenderChallanPDF(sampleChallan("DC-2024-0002"))
	if err != nil {
		t.Fatal(err)
	}

	merged, err := MergePDFs([][]byte{a, b})
	if err != nil {
		t.Fatalf("MergePDFs: %v", err)
	}
	if !bytes.HasPrefix(merged, []byte("%PDF")) {
		t.Error("merged output is not a PDF")
	}
	if len(merged) <= len(a) {
		t.Errorf("merged size %d not larger than a single challan %d", len(merged), len(a))
	}
}

func TestMergePDFsSingleInput(t *testing.T) {
	a, err := RenderChallanPDF(sampleChallan("DC-2024-0001"))
	if err != nil {
		t.Fatal(err)
	}
	merged, err := MergePDFs([][]byte{a})
	if err != nil {
		t.Fatalf("MergePDFs: %v", err)
	}
	if !bytes.Equal(merged, a) {
		t.Error("single-document merge should return the document unchanged")
	}
}

func TestMergePDFsEmpty(t *testing.T) {
	if _, err := MergePDFs(nil); err == nil {
		t.Error("expected error for empty input")
	}
}
