package utils

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ChallanDocument carries the denormalized fields printed on a delivery challan.
type ChallanDocument struct {
	Number            string
	Date              time.Time
	CustomerName      string
	CustomerCNIC      string
	CustomerPhone     string
	Address           string
	City              string
	ReferenceNumber   string
	ProductCode       string
	ProductName       string
	Quantity          int
	SerialNumber      string
	CourierName       string
	TrackingNumber    string
	ConsignmentNumber string
}

// RenderChallanPDF renders a single-page delivery challan.
func RenderChallanPDF(doc ChallanDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "DELIVERY CHALLAN", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 8, "Challan No: "+doc.Number, "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 8, "Date: "+doc.Date.Format("02-Jan-2006"), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Consignee", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	rows := [][2]string{
		{"Name", doc.CustomerName},
		{"CNIC", doc.CustomerCNIC},
		{"Phone", doc.CustomerPhone},
		{"Address", doc.Address},
		{"City", doc.City},
		{"Reference No", doc.ReferenceNumber},
	}
	for _, row := range rows {
		pdf.CellFormat(50, 7, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(140, 7, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Item", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	serial := doc.SerialNumber
	if serial == "" {
		serial = "-"
	}
	rows = [][2]string{
		{"Product", fmt.Sprintf("%s (%s)", doc.ProductName, doc.ProductCode)},
		{"Quantity", fmt.Sprintf("%d", doc.Quantity)},
		{"Serial No", serial},
	}
	for _, row := range rows {
		pdf.CellFormat(50, 7, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(140, 7, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Dispatch", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	rows = [][2]string{
		{"Courier", doc.CourierName},
		{"Tracking No", doc.TrackingNumber},
		{"Consignment No", doc.ConsignmentNumber},
	}
	for _, row := range rows {
		pdf.CellFormat(50, 7, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(140, 7, row[1], "", 1, "L", false, 0, "")
	}

	pdf.Ln(20)
	pdf.CellFormat(95, 8, "_____________________", "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 8, "_____________________", "", 1, "R", false, 0, "")
	pdf.CellFormat(95, 8, "Dispatched By", "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 8, "Received By", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MergePDFs concatenates the pages of every input document into one PDF.
func MergePDFs(docs [][]byte) ([]byte, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("nothing to merge")
	}
	if len(docs) == 1 {
		return docs[0], nil
	}
	readers := make([]io.ReadSeeker, len(docs))
	for i, d := range docs {
		readers[i] = bytes.NewReader(d)
	}
	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, nil); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
