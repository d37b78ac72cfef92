package courier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/arslanyasin/bnw-orders-backend-sub000/models"
)

// Leopards books through a token-authenticated API: a short-lived bearer
// token is fetched from /api/auth/token and cached in-process until expiry.
// The cache is keyed by credentials so couriers sharing the provider code
// but holding different accounts never reuse each other's token.
type Leopards struct {
	mu     sync.Mutex
	tokens map[string]bearerToken
}

type bearerToken struct {
	value  string
	expiry time.Time
}

// tokenSkew renews the token slightly before the provider expires it.
const tokenSkew = 30 * time.Second

type leopardsAuthResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
	Message   string `json:"message"`
}

func (l *Leopards) accessToken(ctx context.Context, c models.Courier) (string, error) {
	key := c.APIKey + "|" + c.APISecret
	l.mu.Lock()
	defer l.mu.Unlock()

	if tok, ok := l.tokens[key]; ok && time.Now().Before(tok.expiry.Add(-tokenSkew)) {
		return tok.value, nil
	}

	body, _ := json.Marshal(map[string]string{
		"apiKey":    c.APIKey,
		"apiSecret": c.APISecret,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIBaseURL+"/api/auth/token", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var auth leopardsAuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return "", fmt.Errorf("courier auth: %w", err)
	}
	if resp.StatusCode != http.StatusOK || auth.Token == "" {
		return "", fmt.Errorf("courier auth failed: %s", auth.Message)
	}

	if l.tokens == nil {
		l.tokens = make(map[string]bearerToken)
	}
	l.tokens[key] = bearerToken{
		value:  auth.Token,
		expiry: time.Now().Add(time.Duration(auth.ExpiresIn) * time.Second),
	}
	return auth.Token, nil
}

type leopardsBookResponse struct {
	Status            string `json:"status"`
	TrackingNumber    string `json:"trackingNumber"`
	ConsignmentNumber string `json:"consignmentNumber"`
	Message           string `json:"message"`
	Errors            []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (l *Leopards) BookShipment(ctx context.Context, c models.Courier, req BookingRequest) BookingResult {
	token, err := l.accessToken(ctx, c)
	if err != nil {
		return BookingResult{Success: false, Error: err.Error()}
	}

	payload := map[string]interface{}{
		"shipper": map[string]interface{}{
			"account": c.AccountNumber,
			"name":    c.ShipperName,
			"address": c.ShipperAddress,
			"city":    c.ShipperCity,
			"phone":   NormalizePhone(c.ShipperPhone),
		},
		"consignee": map[string]interface{}{
			"name":    ClampName(req.ConsigneeName, 3, 30),
			"cnic":    req.ConsigneeCNIC,
			"phone":   NormalizePhone(req.ConsigneePhone),
			"address": req.Address,
			"city":    req.City,
		},
		"shipment": map[string]interface{}{
			"orderRef":      req.OrderRef,
			"pieces":        req.Pieces,
			"declaredValue": req.DeclaredValue,
			"description":   req.ItemDescription,
			"remarks":       req.Remarks,
		},
	}
	body, _ := json.Marshal(payload)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIBaseURL+"/api/shipments/book", bytes.NewReader(body))
	if err != nil {
		return BookingResult{Success: false, Error: err.Error()}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return BookingResult{Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var booked leopardsBookResponse
	if err := json.Unmarshal(raw, &booked); err != nil {
		return BookingResult{Success: false, Error: "courier returned unparseable response", RawResponse: string(raw)}
	}

	if resp.StatusCode != http.StatusOK || booked.Status != "success" {
		return BookingResult{Success: false, Error: leopardsError(booked), RawResponse: string(raw)}
	}

	return BookingResult{
		Success:           true,
		TrackingNumber:    booked.TrackingNumber,
		ConsignmentNumber: booked.ConsignmentNumber,
		RawResponse:       string(raw),
	}
}

// leopardsError flattens the provider's error shape, which is either a
// structured error list or a bare message field.
func leopardsError(resp leopardsBookResponse) string {
	if len(resp.Errors) > 0 {
		parts := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			if e.Field != "" {
				parts = append(parts, e.Field+": "+e.Message)
			} else {
				parts = append(parts, e.Message)
			}
		}
		return strings.Join(parts, "; ")
	}
	if resp.Message != "" {
		return resp.Message
	}
	return "courier rejected the booking"
}

func (l *Leopards) TrackShipment(ctx context.Context, c models.Courier, trackingNumber string) (*TrackingInfo, error) {
	token, err := l.accessToken(ctx, c)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIBaseURL+"/api/shipments/track/"+trackingNumber, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out struct {
		Status     string    `json:"status"`
		Checkpoint string    `json:"checkpoint"`
		UpdatedAt  time.Time `json:"updatedAt"`
		Message    string    `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("courier tracking failed: %s", out.Message)
	}
	return &TrackingInfo{Status: out.Status, Checkpoint: out.Checkpoint, UpdatedAt: out.UpdatedAt}, nil
}

func (l *Leopards) CancelShipment(ctx context.Context, c models.Courier, trackingNumber, reason string) CancelResult {
	token, err := l.accessToken(ctx, c)
	if err != nil {
		return CancelResult{Success: false, Error: err.Error()}
	}

	body, _ := json.Marshal(map[string]string{"trackingNumber": trackingNumber, "reason": reason})
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIBaseURL+"/api/shipments/cancel", bytes.NewReader(body))
	if err != nil {
		return CancelResult{Success: false, Error: err.Error()}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return CancelResult{Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	var out struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return CancelResult{Success: false, Error: err.Error()}
	}
	if resp.StatusCode != http.StatusOK || out.Status != "success" {
		return CancelResult{Success: false, Error: out.Message}
	}
	return CancelResult{Success: true, Message: out.Message}
}
