package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"subscription-api/internal/domain/model"
	"subscription-api/internal/infra/metrics"
)

// Expirer is the slice of the subscription use case the worker drives.
type Expirer interface {
	FinishExpired(ctx context.Context) (int, error)
}

// StatusCounter refreshes the per-status gauge after a sweep.
type StatusCounter interface {
	CountByStatus(ctx context.Context) (map[model.SubscriptionStatus]int, error)
}

// ExpiryWorker periodically transitions due active subscriptions to expired.
type ExpiryWorker struct {
	interval time.Duration
	expirer  Expirer
	counter  StatusCounter
	log      *zerolog.Logger
}

func NewExpiryWorker(interval time.Duration, expirer Expirer, counter StatusCounter, logger *zerolog.Logger) *ExpiryWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	exprLog := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{
		interval: interval,
		expirer:  expirer,
		counter:  counter,
		log:      &exprLog,
	}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting expiry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpiryWorker) sweep(ctx context.Context) {
	n, err := w.expirer.FinishExpired(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("expiry worker error")
	}
	if n > 0 {
		metrics.IncSubscriptionsExpired(n)
		w.log.Info().Int("count", n).Msg("expired subscriptions finished")
	}
	if w.counter == nil {
		return
	}
	counts, err := w.counter.CountByStatus(ctx)
	if err != nil {
		w.log.Warn().Err(err).Msg("failed to refresh subscription status gauge")
		return
	}
	metrics.SetSubscriptionsTotal(counts)
}
