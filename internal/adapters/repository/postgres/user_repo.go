package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/vitalya420/loyalty-auth-core/internal/domain"
)

// UserRepository implements ports.UserRepository against PostgreSQL.
type UserRepository struct {
	db querier
}

// NewUserRepository creates a new UserRepository bound to q, which may be a
// *pgxpool.Pool or a pgx.Tx (see UnitOfWork).
func NewUserRepository(q querier) *UserRepository {
	return &UserRepository{db: q}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
		INSERT INTO users (id, phone, password_hash, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Phone, user.PasswordHash, user.IsAdmin, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `
		SELECT id, phone, password_hash, is_admin, created_at, updated_at
		FROM users WHERE id = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	const query = `
		SELECT id, phone, password_hash, is_admin, created_at, updated_at
		FROM users WHERE phone = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, phone))
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
		UPDATE users SET phone = $2, password_hash = $3, is_admin = $4, updated_at = $5
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.Phone, user.PasswordHash, user.IsAdmin, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *UserRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE phone = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, phone).Scan(&exists); err != nil {
		return false, fmt.Errorf("check phone existence: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) scanOne(row pgx.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(&user.ID, &user.Phone, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}
