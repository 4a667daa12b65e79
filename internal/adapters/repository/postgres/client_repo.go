package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/vitalya420/loyalty-auth-core/internal/domain"
)

// ClientRepository implements ports.ClientRepository against PostgreSQL.
type ClientRepository struct {
	db querier
}

// NewClientRepository creates a new ClientRepository bound to q.
func NewClientRepository(q querier) *ClientRepository {
	return &ClientRepository{db: q}
}

func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	const query = `
		INSERT INTO clients (user_id, business_code, first_name, last_name, bonuses, image, is_staff, qr_code, deleted, deleted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(ctx, query,
		client.UserID, client.BusinessCode, client.FirstName, client.LastName, client.Bonuses,
		client.Image, client.IsStaff, client.QRCode, client.Deleted, client.DeletedAt,
		client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (r *ClientRepository) GetByUserAndBusiness(ctx context.Context, userID uuid.UUID, businessCode string) (*domain.Client, error) {
	const query = `
		SELECT user_id, business_code, first_name, last_name, bonuses, image, is_staff, qr_code, deleted, deleted_at, created_at, updated_at
		FROM clients WHERE user_id = $1 AND business_code = $2
	`
	row := r.db.QueryRow(ctx, query, userID, businessCode)
	client := &domain.Client{}
	err := row.Scan(
		&client.UserID, &client.BusinessCode, &client.FirstName, &client.LastName, &client.Bonuses,
		&client.Image, &client.IsStaff, &client.QRCode, &client.Deleted, &client.DeletedAt,
		&client.CreatedAt, &client.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan client: %w", err)
	}
	return client, nil
}

func (r *ClientRepository) Update(ctx context.Context, client *domain.Client) error {
	const query = `
		UPDATE clients
		SET first_name = $3, last_name = $4, bonuses = $5, image = $6, is_staff = $7,
		    qr_code = $8, deleted = $9, deleted_at = $10, updated_at = $11
		WHERE user_id = $1 AND business_code = $2
	`
	_, err := r.db.Exec(ctx, query,
		client.UserID, client.BusinessCode, client.FirstName, client.LastName, client.Bonuses,
		client.Image, client.IsStaff, client.QRCode, client.Deleted, client.DeletedAt, client.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}
