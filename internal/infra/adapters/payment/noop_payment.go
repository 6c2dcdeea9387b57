package payment

import (
	"context"
	"fmt"
	"sync"

	"projectnest/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*NoopPaymentGateway)(nil)

// NoopPaymentGateway is a simple in-memory gateway for tests and local runs.
// Signatures are real HMACs over the configured secret, so Sign can fake a checkout.
type NoopPaymentGateway struct {
	mu     sync.Mutex
	seq    int64
	secret string
	orders map[string]adapter.GatewayOrder
}

func NewNoopPaymentGateway(secret string) *NoopPaymentGateway {
	return &NoopPaymentGateway{
		secret: secret,
		orders: make(map[string]adapter.GatewayOrder),
	}
}

func (g *NoopPaymentGateway) Name() string  { return "noop" }
func (g *NoopPaymentGateway) KeyID() string { return "rzp_test_noop" }

func (g *NoopPaymentGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string, _ map[string]string) (adapter.GatewayOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	o := adapter.GatewayOrder{
		ID:       fmt.Sprintf("order_noop_%d", g.seq),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}
	g.orders[o.ID] = o
	return o, nil
}

func (g *NoopPaymentGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(g.secret, orderID, paymentID, signature)
}

// Order returns a previously created order.
func (g *NoopPaymentGateway) Order(id string) (adapter.GatewayOrder, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	o, ok := g.orders[id]
	return o, ok
}
