package adapter

import "context"

// GatewayOrder is the provider's view of an order we created.
type GatewayOrder struct {
	ID       string
	Amount   int64 // subunits (paise)
	Currency string
	Receipt  string
	Status   string
}

// PaymentGateway is the hex port for payment providers.
type PaymentGateway interface {
	Name() string

	// KeyID is the publishable key handed to the client checkout. Never the secret.
	KeyID() string

	// CreateOrder reserves an order for amount (in subunits) with the provider.
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (GatewayOrder, error)

	// VerifySignature checks the checkout callback signature for (orderID, paymentID).
	VerifySignature(orderID, paymentID, signature string) bool
}
