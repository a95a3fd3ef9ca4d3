package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/shopspring/decimal"

	"subscription-api/internal/domain"
	"subscription-api/internal/domain/model"
	"subscription-api/internal/domain/ports/repository"
)

// Ensure subscriptionRepo implements repository.SubscriptionRepository
var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

const subColumns = `id, user_id, plan_id, start_at, end_at, status, auto_renew, COALESCE(cancellation_reason,''), created_at`

func (r *subscriptionRepo) Insert(ctx context.Context, tx repository.Tx, s *model.UserSubscription) error {
	const q = `
INSERT INTO user_subscriptions (id, user_id, plan_id, start_at, end_at, status, auto_renew, cancellation_reason, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8,''), $9);`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	// The partial unique index on (user_id) WHERE status='active' turns a
	// concurrent duplicate into ErrConflict here.
	if _, err := ex.Exec(ctx, q,
		s.ID, s.UserID, s.PlanID, s.StartAt, s.EndAt, s.Status, s.AutoRenew, s.CancellationReason, s.CreatedAt,
	); err != nil {
		return classify(err)
	}
	return nil
}

func (r *subscriptionRepo) FindActiveByUser(ctx context.Context, tx repository.Tx, userID string) (*model.UserSubscription, error) {
	const q = `
SELECT ` + subColumns + `
  FROM user_subscriptions
 WHERE user_id = $1 AND status = 'active'
 ORDER BY start_at DESC
 LIMIT 1;`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	return scanSub(ex.QueryRow(ctx, q, userID))
}

func (r *subscriptionRepo) ExtendActive(ctx context.Context, tx repository.Tx, subID string, days int) (*model.UserSubscription, error) {
	if days <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	const q = `
UPDATE user_subscriptions
   SET end_at = end_at + ($2::int * INTERVAL '1 day')
 WHERE id = $1 AND status = 'active'
RETURNING ` + subColumns + `;`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	sub, err := scanSub(ex.QueryRow(ctx, q, subID, days))
	if err != nil {
		// Zero rows means the row stopped being active under us: the renewal
		// lost the race against the sweeper (or a cancellation).
		if err == domain.ErrNotFound {
			return nil, domain.ErrConflict
		}
		return nil, err
	}
	return sub, nil
}

func (r *subscriptionRepo) CancelActive(ctx context.Context, tx repository.Tx, userID, reason string, at time.Time) (*model.UserSubscription, error) {
	const q = `
UPDATE user_subscriptions
   SET status = 'cancelled',
       end_at = $2,
       auto_renew = FALSE,
       cancellation_reason = NULLIF($3,'')
 WHERE user_id = $1 AND status = 'active'
RETURNING ` + subColumns + `;`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	return scanSub(ex.QueryRow(ctx, q, userID, at, reason))
}

func (r *subscriptionRepo) ExpireDue(ctx context.Context, tx repository.Tx, now time.Time, batchSize int) (int, error) {
	if batchSize <= 0 {
		return 0, domain.ErrInvalidArgument
	}
	// Bounded batch with SKIP LOCKED so a sweep never queues behind lifecycle
	// writers; the re-check on s.status makes the update conditional per row.
	const q = `
WITH due AS (
  SELECT id
    FROM user_subscriptions
   WHERE status = 'active' AND end_at <= $1
   ORDER BY end_at
   LIMIT $2
     FOR UPDATE SKIP LOCKED
)
UPDATE user_subscriptions s
   SET status = 'expired'
  FROM due
 WHERE s.id = due.id AND s.status = 'active';`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return 0, err
	}
	tag, err := ex.Exec(ctx, q, now, batchSize)
	if err != nil {
		return 0, classify(err)
	}
	return int(tag.RowsAffected()), nil
}

const projectionColumns = `
       s.id, s.user_id, s.plan_id, s.start_at, s.end_at, s.status, s.auto_renew, s.created_at,
       p.name, p.price::text, p.duration_days, COALESCE(p.features,'')`

func (r *subscriptionRepo) ActiveProjection(ctx context.Context, tx repository.Tx, userID string) (*model.SubscriptionProjection, error) {
	// Single-row limit keeps the lookup O(1) on the (user_id, status) index
	// and degrades to "most recently started" if the invariant were ever
	// violated.
	const q = `
SELECT` + projectionColumns + `
  FROM user_subscriptions s
  JOIN plans p ON p.id = s.plan_id
 WHERE s.user_id = $1 AND s.status = 'active'
 ORDER BY s.start_at DESC
 LIMIT 1;`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	return scanProjection(ex.QueryRow(ctx, q, userID))
}

func (r *subscriptionRepo) HistoryPage(ctx context.Context, tx repository.Tx, userID string, limit, offset int) ([]*model.SubscriptionProjection, error) {
	const q = `
SELECT` + projectionColumns + `
  FROM user_subscriptions s
  JOIN plans p ON p.id = s.plan_id
 WHERE s.user_id = $1
 ORDER BY s.start_at DESC
 LIMIT $2 OFFSET $3;`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var out []*model.SubscriptionProjection
	for rows.Next() {
		p, err := scanProjection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// CountByUser is the narrow pagination count query, kept separate from the
// page fetch on purpose.
func (r *subscriptionRepo) CountByUser(ctx context.Context, tx repository.Tx, userID string) (int, error) {
	const q = `SELECT COUNT(id) FROM user_subscriptions WHERE user_id = $1;`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return 0, err
	}
	var n int
	if err := ex.QueryRow(ctx, q, userID).Scan(&n); err != nil {
		return 0, classify(err)
	}
	return n, nil
}

func (r *subscriptionRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.SubscriptionStatus]int, error) {
	const q = `SELECT status, COUNT(*) FROM user_subscriptions GROUP BY status;`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, q)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	counts := make(map[model.SubscriptionStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		counts[model.SubscriptionStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return counts, nil
}

func (r *subscriptionRepo) CountActiveByPlan(ctx context.Context, tx repository.Tx) (map[string]int, error) {
	// Keyed by plan name for the admin stats payload; the status filter still
	// rides the (plan_id, status) index.
	const q = `
SELECT p.name, COUNT(*)
  FROM user_subscriptions s
  JOIN plans p ON p.id = s.plan_id
 WHERE s.status = 'active'
 GROUP BY p.name;`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, q)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	m := make(map[string]int)
	for rows.Next() {
		var name string
		var c int
		if err := rows.Scan(&name, &c); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		m[name] = c
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return m, nil
}

func scanSub(row rowScanner) (*model.UserSubscription, error) {
	s := &model.UserSubscription{}
	var status string
	if err := row.Scan(&s.ID, &s.UserID, &s.PlanID, &s.StartAt, &s.EndAt, &status, &s.AutoRenew, &s.CancellationReason, &s.CreatedAt); err != nil {
		return nil, classify(err)
	}
	s.Status = model.SubscriptionStatus(status)
	return s, nil
}

func scanProjection(row rowScanner) (*model.SubscriptionProjection, error) {
	p := &model.SubscriptionProjection{}
	var status, price string
	if err := row.Scan(
		&p.SubscriptionID, &p.UserID, &p.PlanID, &p.StartAt, &p.EndAt, &status, &p.AutoRenew, &p.CreatedAt,
		&p.PlanName, &price, &p.PlanDurationDays, &p.PlanFeatures,
	); err != nil {
		return nil, classify(err)
	}
	p.Status = model.SubscriptionStatus(status)
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	p.PlanPrice = d
	return p, nil
}
