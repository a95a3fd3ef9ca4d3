package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"subscription-api/internal/domain"
	"subscription-api/internal/domain/model"
	"subscription-api/internal/domain/ports/repository"
	"subscription-api/internal/infra/metrics"
)

const defaultCancelReason = "user requested cancellation"

// SubscriptionUseCase is the lifecycle engine: the only component that
// changes subscription status. All mutations are single atomic statements or
// run inside one transaction, and the at-most-one-active invariant is carried
// by the storage constraint, not by a check-then-insert here.
type SubscriptionUseCase struct {
	subRepo   repository.SubscriptionRepository
	planRepo  repository.SubscriptionPlanRepository
	tm        repository.TransactionManager
	batchSize int
	log       *zerolog.Logger
}

func NewSubscriptionUseCase(
	subRepo repository.SubscriptionRepository,
	planRepo repository.SubscriptionPlanRepository,
	tm repository.TransactionManager,
	sweepBatchSize int,
	logger *zerolog.Logger,
) *SubscriptionUseCase {
	if sweepBatchSize <= 0 {
		sweepBatchSize = 500
	}
	ucLog := logger.With().Str("component", "SubscriptionUseCase").Logger()
	return &SubscriptionUseCase{
		subRepo:   subRepo,
		planRepo:  planRepo,
		tm:        tm,
		batchSize: sweepBatchSize,
		log:       &ucLog,
	}
}

// Subscribe creates a new active subscription for the user. If the user
// already holds an active subscription the insert violates the partial unique
// index and the caller gets ErrConflict; no second active row can exist even
// under concurrent callers.
func (uc *SubscriptionUseCase) Subscribe(ctx context.Context, userID, planID string) (sub *model.UserSubscription, err error) {
	defer func() { metrics.IncLifecycleOp("subscribe", outcome(err)) }()

	if userID == "" || planID == "" {
		return nil, domain.ErrInvalidArgument
	}
	plan, err := uc.findUsablePlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	sub, err = model.NewUserSubscription(uuid.NewString(), userID, plan, time.Now())
	if err != nil {
		return nil, err
	}
	if err = uc.subRepo.Insert(ctx, repository.NoTX, sub); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			uc.log.Debug().Str("user_id", userID).Msg("subscribe rejected: user already has an active subscription")
		}
		return nil, err
	}
	uc.log.Info().Str("user_id", userID).Str("plan_id", planID).Str("sub_id", sub.ID).Msg("subscription created")
	return sub, nil
}

// Renew extends the user's active subscription by its plan's duration,
// chained from the current end date so early renewals never shorten the
// entitlement. The extension is a conditional update keyed on status: if the
// sweeper expires the row first, the caller gets ErrConflict and must
// subscribe again.
func (uc *SubscriptionUseCase) Renew(ctx context.Context, userID string) (sub *model.UserSubscription, err error) {
	defer func() { metrics.IncLifecycleOp("renew", outcome(err)) }()

	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	err = uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		active, err := uc.subRepo.FindActiveByUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		plan, err := uc.planRepo.FindByID(ctx, tx, active.PlanID)
		if err != nil {
			return err
		}
		sub, err = uc.subRepo.ExtendActive(ctx, tx, active.ID, plan.DurationDays)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", userID).Str("sub_id", sub.ID).Time("end_at", sub.EndAt).Msg("subscription renewed")
	return sub, nil
}

// Cancel transitions the user's active subscription to cancelled with an
// immediate end boundary. A second cancel finds no active row and fails with
// ErrNotFound.
func (uc *SubscriptionUseCase) Cancel(ctx context.Context, userID, reason string) (sub *model.UserSubscription, err error) {
	defer func() { metrics.IncLifecycleOp("cancel", outcome(err)) }()

	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if reason == "" {
		reason = defaultCancelReason
	}
	sub, err = uc.subRepo.CancelActive(ctx, repository.NoTX, userID, reason, time.Now())
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", userID).Str("sub_id", sub.ID).Msg("subscription cancelled")
	return sub, nil
}

// SwitchPlan moves the user onto a different plan: the current active
// subscription (if any) is cancelled and a fresh active row for the new plan
// is inserted, both inside one transaction. Switching to the plan the user is
// already on is a conflict.
func (uc *SubscriptionUseCase) SwitchPlan(ctx context.Context, userID, planID string) (sub *model.UserSubscription, err error) {
	defer func() { metrics.IncLifecycleOp("switch", outcome(err)) }()

	if userID == "" || planID == "" {
		return nil, domain.ErrInvalidArgument
	}
	plan, err := uc.findUsablePlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	err = uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		now := time.Now()
		current, err := uc.subRepo.FindActiveByUser(ctx, tx, userID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			// no active subscription: the switch degrades to a plain subscribe
		case err != nil:
			return err
		default:
			if current.PlanID == planID {
				return domain.ErrConflict
			}
			reason := fmt.Sprintf("switched to plan %q", plan.Name)
			if _, err := uc.subRepo.CancelActive(ctx, tx, userID, reason, now); err != nil {
				return err
			}
		}

		sub, err = model.NewUserSubscription(uuid.NewString(), userID, plan, now)
		if err != nil {
			return err
		}
		return uc.subRepo.Insert(ctx, tx, sub)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", userID).Str("plan_id", planID).Str("sub_id", sub.ID).Msg("subscription switched")
	return sub, nil
}

// FinishExpired transitions all due active subscriptions to expired in
// bounded batches. It is driven by the expiry worker and is safe to run
// concurrently with lifecycle operations.
func (uc *SubscriptionUseCase) FinishExpired(ctx context.Context) (int, error) {
	total := 0
	for {
		n, err := uc.subRepo.ExpireDue(ctx, repository.NoTX, time.Now(), uc.batchSize)
		total += n
		if err != nil {
			return total, err
		}
		if n < uc.batchSize {
			return total, nil
		}
	}
}

func (uc *SubscriptionUseCase) findUsablePlan(ctx context.Context, planID string) (*model.SubscriptionPlan, error) {
	plan, err := uc.planRepo.FindByID(ctx, repository.NoTX, planID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrPlanNotAvailable
		}
		return nil, err
	}
	if !plan.Active {
		return nil, domain.ErrPlanNotAvailable
	}
	return plan, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
