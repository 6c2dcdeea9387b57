package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"   // gateway order created; awaiting checkout
	PaymentStatusCompleted PaymentStatus = "completed" // signature verified and entitlement granted
	PaymentStatusFailed    PaymentStatus = "failed"    // abandoned or explicitly failed
)

// Payment records one gateway order.
type Payment struct {
	ID                int64         `json:"id"`
	UserID            string        `json:"userId"`
	Amount            int64         `json:"amount"` // rupees, as priced by the pack
	RazorpayOrderID   string        `json:"razorpayOrderId"`
	RazorpayPaymentID *string       `json:"razorpayPaymentId"` // set after capture
	Status            PaymentStatus `json:"status"`
	PackID            int64         `json:"packId"`
	CreatedAt         time.Time     `json:"createdAt"`
}

func (p *Payment) IsPending() bool { return p.Status == PaymentStatusPending }

// Order is what the client needs to open the hosted checkout.
type Order struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"` // subunits
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}
