package sched

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	red "projectnest/internal/infra/redis"
)

// StalePaymentExpirer is the slice of the payment use case the reconciler drives.
type StalePaymentExpirer interface {
	ExpireStale(ctx context.Context, olderThan time.Time) (int64, error)
}

const reconcileLockKey = "lock:payment-reconciler"

// PaymentReconciler periodically fails pending payments whose checkout was never
// completed. With a Locker configured only one replica runs each tick.
type PaymentReconciler struct {
	payments   StalePaymentExpirer
	locker     red.Locker
	log        *zerolog.Logger
	interval   time.Duration // how often to scan
	staleAfter time.Duration // how old a pending payment must be to expire
	now        func() time.Time
}

func NewPaymentReconciler(payments StalePaymentExpirer, locker red.Locker, log *zerolog.Logger, interval, staleAfter time.Duration) *PaymentReconciler {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 24 * time.Hour
	}
	return &PaymentReconciler{
		payments:   payments,
		locker:     locker,
		log:        log,
		interval:   interval,
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// Start blocks until ctx is cancelled.
func (w *PaymentReconciler) Start(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	w.log.Info().Dur("interval", w.interval).Dur("stale_after", w.staleAfter).Msg("payment reconciler started")
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("payment reconciler stopped")
			return
		case <-t.C:
			runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			w.tick(runCtx)
			cancel()
		}
	}
}

func (w *PaymentReconciler) tick(ctx context.Context) {
	if w.locker != nil {
		token, err := w.locker.TryLock(ctx, reconcileLockKey, w.interval)
		if err != nil {
			if !errors.Is(err, red.ErrLockHeld) {
				w.log.Warn().Err(err).Msg("payment-reconciler: lock failed")
			}
			return
		}
		defer func() {
			if err := w.locker.Unlock(context.Background(), reconcileLockKey, token); err != nil {
				w.log.Warn().Err(err).Msg("payment-reconciler: unlock failed")
			}
		}()
	}

	cutoff := w.now().Add(-w.staleAfter)
	n, err := w.payments.ExpireStale(ctx, cutoff)
	if err != nil {
		w.log.Error().Err(err).Msg("payment-reconciler: expire stale failed")
		return
	}
	if n > 0 {
		w.log.Info().Int64("expired", n).Time("cutoff", cutoff).Msg("payment-reconciler: stale payments failed")
	}
}
