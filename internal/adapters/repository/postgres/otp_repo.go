package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/vitalya420/loyalty-auth-core/internal/domain"
)

// OTPRepository implements ports.OTPRepository against PostgreSQL. OTP rows
// are the rate limiter's audit trail: there is deliberately no delete path
// here, only revoke/mark-used.
type OTPRepository struct {
	db querier
}

// NewOTPRepository creates a new OTPRepository bound to q.
func NewOTPRepository(q querier) *OTPRepository {
	return &OTPRepository{db: q}
}

func (r *OTPRepository) Create(ctx context.Context, otp *domain.OTP) error {
	const query = `
		INSERT INTO otps (id, phone, business_code, realm, code, sent_at, expires_at, used, revoked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		otp.ID, otp.Phone, otp.BusinessCode, otp.Realm, otp.Code, otp.SentAt, otp.ExpiresAt, otp.Used, otp.Revoked,
	)
	if err != nil {
		return fmt.Errorf("insert otp: %w", err)
	}
	return nil
}

func (r *OTPRepository) GetLive(ctx context.Context, phone, businessCode string) (*domain.OTP, error) {
	const query = `
		SELECT id, phone, business_code, realm, code, sent_at, expires_at, used, revoked
		FROM otps
		WHERE phone = $1 AND business_code = $2 AND NOT used AND NOT revoked AND expires_at > now()
		ORDER BY sent_at DESC
		LIMIT 1
	`
	row := r.db.QueryRow(ctx, query, phone, businessCode)
	otp := &domain.OTP{}
	err := row.Scan(&otp.ID, &otp.Phone, &otp.BusinessCode, &otp.Realm, &otp.Code, &otp.SentAt, &otp.ExpiresAt, &otp.Used, &otp.Revoked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan otp: %w", err)
	}
	return otp, nil
}

func (r *OTPRepository) CountSince(ctx context.Context, phone, businessCode string, since time.Time) (int, error) {
	const query = `
		SELECT count(*) FROM otps
		WHERE phone = $1 AND business_code = $2 AND sent_at >= $3
	`
	var count int
	if err := r.db.QueryRow(ctx, query, phone, businessCode, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count otps: %w", err)
	}
	return count, nil
}

func (r *OTPRepository) RevokeLive(ctx context.Context, phone, businessCode string) error {
	const query = `
		UPDATE otps SET revoked = true
		WHERE phone = $1 AND business_code = $2 AND NOT used AND NOT revoked
	`
	_, err := r.db.Exec(ctx, query, phone, businessCode)
	if err != nil {
		return fmt.Errorf("revoke live otps: %w", err)
	}
	return nil
}

func (r *OTPRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE otps SET used = true WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark otp used: %w", err)
	}
	return nil
}
