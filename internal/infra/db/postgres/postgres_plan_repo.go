package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/shopspring/decimal"

	"subscription-api/internal/domain"
	"subscription-api/internal/domain/model"
	"subscription-api/internal/domain/ports/repository"
)

// Ensure interface compliance
var _ repository.SubscriptionPlanRepository = (*planRepo)(nil)

type planRepo struct {
	pool *pgxpool.Pool
}

func NewPlanRepo(pool *pgxpool.Pool) *planRepo {
	return &planRepo{pool: pool}
}

func (r *planRepo) Save(ctx context.Context, tx repository.Tx, plan *model.SubscriptionPlan) error {
	const q = `
INSERT INTO plans (id, name, description, price, duration_days, features, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
  name          = EXCLUDED.name,
  description   = EXCLUDED.description,
  price         = EXCLUDED.price,
  duration_days = EXCLUDED.duration_days,
  features      = EXCLUDED.features,
  is_active     = EXCLUDED.is_active,
  updated_at    = NOW();`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	if _, err := ex.Exec(ctx, q,
		plan.ID, plan.Name, plan.Description, plan.Price.String(), plan.DurationDays,
		plan.Features, plan.Active, plan.CreatedAt, plan.UpdatedAt,
	); err != nil {
		return classify(err)
	}
	return nil
}

func (r *planRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionPlan, error) {
	const q = `
SELECT id, name, COALESCE(description,''), price::text, duration_days, COALESCE(features,''), is_active, created_at, updated_at
  FROM plans
 WHERE id = $1;`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	return scanPlan(ex.QueryRow(ctx, q, id))
}

func (r *planRepo) List(ctx context.Context, tx repository.Tx, activeOnly bool) ([]*model.SubscriptionPlan, error) {
	const q = `
SELECT id, name, COALESCE(description,''), price::text, duration_days, COALESCE(features,''), is_active, created_at, updated_at
  FROM plans
 WHERE NOT $1::bool OR is_active
 ORDER BY price;`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, q, activeOnly)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var out []*model.SubscriptionPlan
	for rows.Next() {
		p, err := scanPlan(rows)
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

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlan(row rowScanner) (*model.SubscriptionPlan, error) {
	var p model.SubscriptionPlan
	var price string
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &p.DurationDays, &p.Features, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, classify(err)
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	p.Price = d
	return &p, nil
}
