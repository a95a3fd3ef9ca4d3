package repository

import (
	"context"
	"time"

	"subscription-api/internal/domain/model"
)

// SubscriptionRepository is the port for user subscriptions.
//
// Write methods are conditional where the state machine demands it: a zero-row
// update means the targeted row was no longer active, and the implementation
// reports that as domain.ErrNotFound or domain.ErrConflict so racing writers
// never silently overwrite each other.
type SubscriptionRepository interface {
	// Insert persists a new subscription row. A second active row for the
	// same user violates the partial unique index and surfaces as
	// domain.ErrConflict.
	Insert(ctx context.Context, tx Tx, sub *model.UserSubscription) error

	FindActiveByUser(ctx context.Context, tx Tx, userID string) (*model.UserSubscription, error)

	// ExtendActive pushes end_at forward by the given number of days, but only
	// while the row is still active. Returns domain.ErrConflict when the row
	// was expired or cancelled in the meantime.
	ExtendActive(ctx context.Context, tx Tx, subID string, days int) (*model.UserSubscription, error)

	// CancelActive transitions the user's active subscription to cancelled
	// with an immediate end boundary. Returns domain.ErrNotFound when the
	// user holds no active subscription.
	CancelActive(ctx context.Context, tx Tx, userID, reason string, at time.Time) (*model.UserSubscription, error)

	// ExpireDue transitions at most batchSize active rows whose end_at has
	// passed to expired, skipping rows locked by concurrent writers.
	ExpireDue(ctx context.Context, tx Tx, now time.Time, batchSize int) (int, error)

	// --- Read projections ---

	ActiveProjection(ctx context.Context, tx Tx, userID string) (*model.SubscriptionProjection, error)
	HistoryPage(ctx context.Context, tx Tx, userID string, limit, offset int) ([]*model.SubscriptionProjection, error)
	CountByUser(ctx context.Context, tx Tx, userID string) (int, error)

	// --- Statistics read-only methods ---

	CountByStatus(ctx context.Context, tx Tx) (map[model.SubscriptionStatus]int, error)

	// CountActiveByPlan returns active subscription counts keyed by plan name.
	CountActiveByPlan(ctx context.Context, tx Tx) (map[string]int, error)
}
