package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"projectnest/internal/domain"
	"projectnest/internal/domain/model"
	"projectnest/internal/domain/ports/adapter"
	"projectnest/internal/domain/ports/repository"
	"projectnest/internal/infra/logging"
	"projectnest/internal/infra/metrics"
	"projectnest/internal/infra/worker"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

// VerifyInput is the checkout callback triple plus the pack the client claims to have bought.
type VerifyInput struct {
	OrderID   string
	PaymentID string
	Signature string
	PackID    int64
}

// VerifyResult describes a completed purchase. Pack is nil when the pack was
// removed from the catalog after the order was created.
type VerifyResult struct {
	Payment *model.Payment
	Pack    *model.PremiumPack
	User    *model.User
}

type PaymentUseCase interface {
	// CreateOrder reserves a gateway order for the pack and records a pending payment.
	CreateOrder(ctx context.Context, userID string, packID int64) (*model.Order, error)
	// Verify checks the gateway signature, then completes the pending payment and
	// grants the pack in one transaction. userID may be empty, in which case a valid
	// signature still yields domain.ErrUnauthorized.
	Verify(ctx context.Context, userID string, in VerifyInput) (*VerifyResult, error)
	// ExpireStale fails pending payments created before olderThan.
	ExpireStale(ctx context.Context, olderThan time.Time) (int64, error)
}

type paymentUC struct {
	payments repository.PaymentRepository
	packs    repository.PremiumPackRepository
	users    repository.UserRepository
	tm       repository.TransactionManager
	gateway  adapter.PaymentGateway
	email    adapter.EmailSender
	alerts   adapter.AdminNotifier
	jobs     worker.Submitter
	currency string
	log      *zerolog.Logger
}

func NewPaymentUseCase(
	payments repository.PaymentRepository,
	packs repository.PremiumPackRepository,
	users repository.UserRepository,
	tm repository.TransactionManager,
	gateway adapter.PaymentGateway,
	email adapter.EmailSender,
	alerts adapter.AdminNotifier,
	jobs worker.Submitter,
	currency string,
	logger *zerolog.Logger,
) *paymentUC {
	if currency == "" {
		currency = "INR"
	}
	return &paymentUC{
		payments: payments,
		packs:    packs,
		users:    users,
		tm:       tm,
		gateway:  gateway,
		email:    email,
		alerts:   alerts,
		jobs:     jobs,
		currency: currency,
		log:      logger,
	}
}

func (p *paymentUC) CreateOrder(ctx context.Context, userID string, packID int64) (*model.Order, error) {
	defer logging.TraceDuration(p.log, "PaymentUC.CreateOrder")()

	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	pack, err := p.packs.FindByID(ctx, repository.NoTX, packID)
	if err != nil {
		return nil, err
	}

	receipt := "receipt_" + ulid.Make().String()
	notes := map[string]string{
		"userId": userID,
		"packId": strconv.FormatInt(pack.ID, 10),
	}
	order, err := p.gateway.CreateOrder(ctx, pack.GatewayAmount(), p.currency, receipt, notes)
	if err != nil {
		metrics.IncPayment("gateway_error")
		logging.With(ctx, p.log).Error().Err(err).Int64("pack_id", pack.ID).Msg("gateway order creation failed")
		return nil, fmt.Errorf("%w: payment initialization failed", domain.ErrProvider)
	}

	payment := &model.Payment{
		UserID:          userID,
		Amount:          pack.Price,
		RazorpayOrderID: order.ID,
		Status:          model.PaymentStatusPending,
		PackID:          pack.ID,
		CreatedAt:       time.Now(),
	}
	if err := p.payments.Save(ctx, repository.NoTX, payment); err != nil {
		return nil, err
	}
	metrics.IncPayment(string(model.PaymentStatusPending))

	out := &model.Order{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    p.gateway.KeyID(),
	}
	if out.Amount == 0 {
		out.Amount = pack.GatewayAmount()
	}
	if out.Currency == "" {
		out.Currency = p.currency
	}
	logging.With(ctx, p.log).Info().Str("order_id", order.ID).Int64("pack_id", pack.ID).Str("receipt", receipt).Msg("payment order created")
	return out, nil
}

func (p *paymentUC) Verify(ctx context.Context, userID string, in VerifyInput) (res *VerifyResult, err error) {
	defer logging.TraceDuration(p.log, "PaymentUC.Verify")()

	start := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = "fail"
		}
		metrics.PaymentVerifyDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
		metrics.PaymentVerifyRequests.WithLabelValues(result, verifyReason(err)).Inc()
	}()

	in.OrderID = strings.TrimSpace(in.OrderID)
	in.PaymentID = strings.TrimSpace(in.PaymentID)
	if in.OrderID == "" || in.PaymentID == "" || !p.gateway.VerifySignature(in.OrderID, in.PaymentID, in.Signature) {
		return nil, domain.ErrInvalidSignature
	}
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}

	res = &VerifyResult{}
	err = p.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		pay, err := p.payments.FindByOrderID(ctx, tx, in.OrderID)
		if err != nil {
			return err
		}
		if !pay.IsPending() {
			return domain.ErrPaymentNotPending
		}
		if pay.UserID != userID {
			return domain.ErrPaymentOwnership
		}
		if pay.PackID != in.PackID {
			return domain.ErrPackMismatch
		}

		pack, err := p.packs.FindByID(ctx, tx, pay.PackID)
		switch {
		case errors.Is(err, domain.ErrPackNotFound):
			// Pack withdrawn after checkout; the payment still completes.
			p.log.Warn().Int64("pack_id", pay.PackID).Str("order_id", pay.RazorpayOrderID).Msg("pack missing at verify; no entitlement change")
		case err != nil:
			return err
		default:
			u, err := grantPack(ctx, p.users, tx, userID, pack)
			if err != nil {
				return err
			}
			res.Pack = pack
			res.User = u
		}

		ok, err := p.payments.MarkCompleted(ctx, tx, pay.ID, in.PaymentID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrPaymentNotPending
		}
		pay.Status = model.PaymentStatusCompleted
		paymentID := in.PaymentID
		pay.RazorpayPaymentID = &paymentID
		res.Payment = pay
		return nil
	})
	if err != nil {
		logging.With(ctx, p.log).Warn().Err(err).Str("order_id", in.OrderID).Msg("payment verification rejected")
		return nil, err
	}

	metrics.IncPayment(string(model.PaymentStatusCompleted))
	metrics.AddPaymentRevenue(p.currency, res.Payment.Amount)
	logging.With(ctx, p.log).Info().
		Str("order_id", in.OrderID).
		Str("payment_id", logging.Redact(in.PaymentID, false)).
		Int64("pack_id", res.Payment.PackID).
		Msg("payment completed")

	if res.Pack != nil && res.User != nil {
		p.notifyPurchase(res.User, res.Pack, res.Payment)
	}
	return res, nil
}

func (p *paymentUC) ExpireStale(ctx context.Context, olderThan time.Time) (int64, error) {
	defer logging.TraceDuration(p.log, "PaymentUC.ExpireStale")()

	n, err := p.payments.FailStalePending(ctx, repository.NoTX, olderThan)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.AddPayments(string(model.PaymentStatusFailed), n)
		p.log.Info().Int64("count", n).Time("older_than", olderThan).Msg("stale pending payments failed")
	}
	return n, nil
}

// notifyPurchase queues the receipt email and the admin alert. Both are best effort.
func (p *paymentUC) notifyPurchase(u *model.User, pack *model.PremiumPack, pay *model.Payment) {
	if p.jobs == nil {
		return
	}
	if p.email != nil && u.Email != "" {
		subject := "Your ProjectNest purchase: " + pack.Name
		body := fmt.Sprintf("Hi %s,\n\nThanks for buying %s (%d %s).\nOrder: %s\nStatus: %s\n\nHappy reading!\n",
			displayName(u), pack.Name, pay.Amount, p.currency, pay.RazorpayOrderID, u.SubscriptionStatus)
		p.submit("purchase_email", func(ctx context.Context) error {
			err := p.email.Send(ctx, u.Email, subject, body)
			metrics.IncPaymentNotify("email", notifyStatus(err))
			return err
		})
	}
	if p.alerts != nil {
		text := fmt.Sprintf("New purchase: %s bought %s for %d %s (order %s)",
			displayName(u), pack.Name, pay.Amount, p.currency, pay.RazorpayOrderID)
		p.submit("purchase_alert", func(ctx context.Context) error {
			err := p.alerts.NotifyAdmins(ctx, text)
			metrics.IncPaymentNotify("telegram", notifyStatus(err))
			return err
		})
	}
}

func (p *paymentUC) submit(kind string, task worker.Task) {
	if err := p.jobs.Submit(kind, task); err != nil {
		p.log.Warn().Err(err).Str("kind", kind).Msg("failed to queue purchase notification")
	}
}

func displayName(u *model.User) string {
	if u.Username != "" {
		return u.Username
	}
	return u.ID
}

func notifyStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "sent"
}

func verifyReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrInvalidSignature):
		return "bad_signature"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrPaymentNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrPaymentNotPending):
		return "not_pending"
	case errors.Is(err, domain.ErrPaymentOwnership):
		return "ownership"
	case errors.Is(err, domain.ErrPackMismatch):
		return "pack_mismatch"
	default:
		return "unknown"
	}
}
