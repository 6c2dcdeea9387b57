package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"projectnest/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*RazorpayGateway)(nil)

// RazorpayGateway implements adapter.PaymentGateway against the Razorpay Orders REST API.
type RazorpayGateway struct {
	keyID     string
	keySecret string
	baseURL   string // e.g. https://api.razorpay.com/v1
	client    *http.Client
}

func NewRazorpayGateway(keyID, keySecret, baseURL string) (*RazorpayGateway, error) {
	if keyID == "" || keySecret == "" {
		return nil, errors.New("razorpay key id/secret empty")
	}
	if baseURL == "" {
		baseURL = "https://api.razorpay.com/v1"
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid razorpay base url: %w", err)
	}
	return &RazorpayGateway{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (r *RazorpayGateway) Name() string  { return "razorpay" }
func (r *RazorpayGateway) KeyID() string { return r.keyID }

type razorpayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder calls POST /orders and returns the provider order.
func (r *RazorpayGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (adapter.GatewayOrder, error) {
	payload := map[string]any{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		payload["notes"] = notes
	}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/orders", bytes.NewReader(b))
	if err != nil {
		return adapter.GatewayOrder{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(r.keyID, r.keySecret)

	resp, err := r.client.Do(req)
	if err != nil {
		return adapter.GatewayOrder{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e razorpayError
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error.Description != "" {
			return adapter.GatewayOrder{}, fmt.Errorf("razorpay create order: http %d: %s", resp.StatusCode, e.Error.Description)
		}
		return adapter.GatewayOrder{}, fmt.Errorf("razorpay create order: http %d", resp.StatusCode)
	}

	var out struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Receipt  string `json:"receipt"`
		Status   string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return adapter.GatewayOrder{}, err
	}
	if out.ID == "" {
		return adapter.GatewayOrder{}, errors.New("razorpay create order: empty order id")
	}
	return adapter.GatewayOrder{
		ID:       out.ID,
		Amount:   out.Amount,
		Currency: out.Currency,
		Receipt:  out.Receipt,
		Status:   out.Status,
	}, nil
}

func (r *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(r.keySecret, orderID, paymentID, signature)
}
