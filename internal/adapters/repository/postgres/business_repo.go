package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/vitalya420/loyalty-auth-core/internal/domain"
)

// BusinessRepository implements ports.BusinessRepository against PostgreSQL.
type BusinessRepository struct {
	db querier
}

// NewBusinessRepository creates a new BusinessRepository bound to q.
func NewBusinessRepository(q querier) *BusinessRepository {
	return &BusinessRepository{db: q}
}

func (r *BusinessRepository) Create(ctx context.Context, business *domain.Business) error {
	const query = `
		INSERT INTO businesses (code, name, image, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		business.Code, business.Name, business.Image, business.OwnerID, business.CreatedAt, business.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrBusinessHasOwner
		}
		return fmt.Errorf("insert business: %w", err)
	}
	return nil
}

func (r *BusinessRepository) GetByCode(ctx context.Context, code string) (*domain.Business, error) {
	const query = `
		SELECT code, name, image, owner_id, created_at, updated_at
		FROM businesses WHERE code = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, code))
}

func (r *BusinessRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*domain.Business, error) {
	const query = `
		SELECT code, name, image, owner_id, created_at, updated_at
		FROM businesses WHERE owner_id = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, ownerID))
}

func (r *BusinessRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM businesses WHERE code = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("check business code existence: %w", err)
	}
	return exists, nil
}

func (r *BusinessRepository) scanOne(row pgx.Row) (*domain.Business, error) {
	business := &domain.Business{}
	err := row.Scan(&business.Code, &business.Name, &business.Image, &business.OwnerID, &business.CreatedAt, &business.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan business: %w", err)
	}
	return business, nil
}
