package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/helmsman/internal/domain/repository"
)

type userRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepository crea el repositorio de usuarios.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepo{pool: pool}
}

const userColumns = `
	id, email, username, display_name, role, yacht_id, permissions,
	password_hash, active, created_at, updated_at
`

func (r *userRepo) scanOne(row pgx.Row) (*repository.User, error) {
	var u repository.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.DisplayName, &u.Role, &u.YachtID,
		&u.Permissions, &u.PasswordHash, &u.Active, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	const query = `SELECT ` + userColumns + ` FROM app_user WHERE lower(email) = lower($1)`
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*repository.User, error) {
	const query = `SELECT ` + userColumns + ` FROM app_user WHERE username = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, username))
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*repository.User, error) {
	const query = `SELECT ` + userColumns + ` FROM app_user WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}
