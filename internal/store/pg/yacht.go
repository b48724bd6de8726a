package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/helmsman/internal/domain/repository"
)

type yachtRepo struct {
	pool *pgxpool.Pool
}

// NewYachtRepository crea el repositorio de yachts.
func NewYachtRepository(pool *pgxpool.Pool) repository.YachtRepository {
	return &yachtRepo{pool: pool}
}

func (r *yachtRepo) GetByID(ctx context.Context, id string) (*repository.Yacht, error) {
	const query = `
		SELECT id, name, plan_id, created_at, updated_at
		FROM yacht
		WHERE id = $1 AND deleted_at IS NULL
	`
	var y repository.Yacht
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&y.ID, &y.Name, &y.PlanID, &y.CreatedAt, &y.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &y, nil
}

type planRepo struct {
	pool *pgxpool.Pool
}

// NewPlanRepository crea el repositorio de planes.
func NewPlanRepository(pool *pgxpool.Pool) repository.PlanRepository {
	return &planRepo{pool: pool}
}

func (r *planRepo) GetByID(ctx context.Context, id string) (*repository.Plan, error) {
	const query = `
		SELECT id, features, limits, active
		FROM plan
		WHERE id = $1
	`
	var p repository.Plan
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Features, &p.Limits, &p.Active,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
