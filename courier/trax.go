package courier

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/arslanyasin/bnw-orders-backend-sub000/models"
)

// Trax is the simpler synchronous provider: static API-key/secret headers
// and a flat booking payload.
type Trax struct{}

type traxBookResponse struct {
	Status     int    `json:"status"`
	TrackingNo string `json:"tracking_no"`
	CNNumber   string `json:"cn_number"`
	Message    string `json:"message"`
}

func (t *Trax) BookShipment(ctx context.Context, c models.Courier, req BookingRequest) BookingResult {
	payload := map[string]interface{}{
		"account_no":     c.AccountNumber,
		"order_ref":      req.OrderRef,
		"consignee_name": ClampName(req.ConsigneeName, 1, 50),
		"consignee_cnic": req.ConsigneeCNIC,
		"phone":          NormalizePhone(req.ConsigneePhone),
		"address":        req.Address,
		"city":           req.City,
		"pieces":         req.Pieces,
		"declared_value": req.DeclaredValue,
		"description":    req.ItemDescription,
	}
	body, _ := json.Marshal(payload)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIBaseURL+"/api/booking", bytes.NewReader(body))
	if err != nil {
		return BookingResult{Success: false, Error: err.Error()}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("API-KEY", c.APIKey)
	httpReq.Header.Set("API-SECRET", c.APISecret)

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return BookingResult{Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var booked traxBookResponse
	if err := json.Unmarshal(raw, &booked); err != nil {
		return BookingResult{Success: false, Error: "courier returned unparseable response", RawResponse: string(raw)}
	}

	// status 1 means booked.
	if resp.StatusCode != http.StatusOK || booked.Status != 1 {
		msg := booked.Message
		if msg == "" {
			msg = "courier rejected the booking"
		}
		return BookingResult{Success: false, Error: msg, RawResponse: string(raw)}
	}

	return BookingResult{
		Success:           true,
		TrackingNumber:    booked.TrackingNo,
		ConsignmentNumber: booked.CNNumber,
		RawResponse:       string(raw),
	}
}

func (t *Trax) TrackShipment(ctx context.Context, c models.Courier, trackingNumber string) (*TrackingInfo, error) {
	return nil, ErrTrackingNotSupported
}

func (t *Trax) CancelShipment(ctx context.Context, c models.Courier, trackingNumber, reason string) CancelResult {
	body, _ := json.Marshal(map[string]string{"tracking_no": trackingNumber, "reason": reason})
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIBaseURL+"/api/booking/cancel", bytes.NewReader(body))
	if err != nil {
		return CancelResult{Success: false, Error: err.Error()}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("API-KEY", c.APIKey)
	httpReq.Header.Set("API-SECRET", c.APISecret)

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return CancelResult{Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	var out struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return CancelResult{Success: false, Error: err.Error()}
	}
	if resp.StatusCode != http.StatusOK || out.Status != 1 {
		return CancelResult{Success: false, Error: out.Message}
	}
	return CancelResult{Success: true, Message: out.Message}
}
