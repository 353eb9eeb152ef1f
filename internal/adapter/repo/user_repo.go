package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"charityhub/internal/domain"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(pool *pgxpool.Pool) *UserRepositoryPG {
	return &UserRepositoryPG{pool: pool}
}

const userColumns = `id, name, email, password_hash, role, experience, active, created_at, updated_at`

// CreateUser inserts a new user row.
func (r *UserRepositoryPG) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO users (id, name, email, password_hash, role, experience, active)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`, user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.Experience, user.Active)
	return err
}

// GetUserByID fetches a user by id.
func (r *UserRepositoryPG) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetUserByEmail fetches a user by email.
func (r *UserRepositoryPG) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// UpdateUser persists mutable user fields.
func (r *UserRepositoryPG) UpdateUser(ctx context.Context, user *domain.User) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE users
SET name = $2, email = $3, password_hash = $4, role = $5, active = $6, updated_at = NOW()
WHERE id = $1;
`, user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.Active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddExperience atomically increments the experience total.
func (r *UserRepositoryPG) AddExperience(ctx context.Context, id string, amount int64) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE users
SET experience = experience + $2, updated_at = NOW()
WHERE id = $1
RETURNING `+userColumns+`;
`, id, amount)
	return scanUser(row)
}

// ListUsers returns all users ordered by creation time.
func (r *UserRepositoryPG) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Experience, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
