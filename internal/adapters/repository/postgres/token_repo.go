package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/vitalya420/loyalty-auth-core/internal/domain"
)

// AccessTokenRepository implements ports.AccessTokenRepository against
// PostgreSQL.
type AccessTokenRepository struct {
	db querier
}

// NewAccessTokenRepository creates a new AccessTokenRepository bound to q.
func NewAccessTokenRepository(q querier) *AccessTokenRepository {
	return &AccessTokenRepository{db: q}
}

func (r *AccessTokenRepository) Create(ctx context.Context, token *domain.AccessToken) error {
	const query = `
		INSERT INTO access_tokens (jti, user_id, realm, business_code, ip_address, user_agent, issued_at, expires_at, revoked, refresh_token_jti)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		token.JTI, token.UserID, token.Realm, token.BusinessCode, token.IPAddress, token.UserAgent,
		token.IssuedAt, token.ExpiresAt, token.Revoked, token.RefreshTokenID,
	)
	if err != nil {
		return fmt.Errorf("insert access token: %w", err)
	}
	return nil
}

func (r *AccessTokenRepository) GetByJTI(ctx context.Context, jti uuid.UUID, aliveOnly bool) (*domain.AccessToken, error) {
	query := `
		SELECT jti, user_id, realm, business_code, ip_address, user_agent, issued_at, expires_at, revoked, refresh_token_jti
		FROM access_tokens WHERE jti = $1
	`
	if aliveOnly {
		query += ` AND NOT revoked AND expires_at > now()`
	}
	return r.scanOne(r.db.QueryRow(ctx, query, jti))
}

func (r *AccessTokenRepository) GetByRefreshJTI(ctx context.Context, refreshJTI uuid.UUID) (*domain.AccessToken, error) {
	const query = `
		SELECT jti, user_id, realm, business_code, ip_address, user_agent, issued_at, expires_at, revoked, refresh_token_jti
		FROM access_tokens WHERE refresh_token_jti = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, refreshJTI))
}

func (r *AccessTokenRepository) Revoke(ctx context.Context, jti uuid.UUID) (bool, error) {
	const query = `UPDATE access_tokens SET revoked = true WHERE jti = $1 AND NOT revoked`
	tag, err := r.db.Exec(ctx, query, jti)
	if err != nil {
		return false, fmt.Errorf("revoke access token: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *AccessTokenRepository) RevokeForUser(ctx context.Context, userID uuid.UUID, realm domain.Realm, businessCode string, exceptJTI uuid.UUID) (int, error) {
	const query = `
		UPDATE access_tokens SET revoked = true
		WHERE user_id = $1 AND realm = $2 AND business_code = $3 AND jti != $4 AND NOT revoked
	`
	tag, err := r.db.Exec(ctx, query, userID, realm, businessCode, exceptJTI)
	if err != nil {
		return 0, fmt.Errorf("revoke access tokens for user: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *AccessTokenRepository) List(ctx context.Context, userID uuid.UUID, realm domain.Realm, businessCode string, limit, offset int) ([]*domain.AccessToken, error) {
	query := `
		SELECT jti, user_id, realm, business_code, ip_address, user_agent, issued_at, expires_at, revoked, refresh_token_jti
		FROM access_tokens
		WHERE user_id = $1 AND realm = $2 AND business_code = $3
		ORDER BY issued_at DESC
	`
	args := []interface{}{userID, realm, businessCode}
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, limit, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list access tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*domain.AccessToken
	for rows.Next() {
		token := &domain.AccessToken{}
		if err := rows.Scan(
			&token.JTI, &token.UserID, &token.Realm, &token.BusinessCode, &token.IPAddress, &token.UserAgent,
			&token.IssuedAt, &token.ExpiresAt, &token.Revoked, &token.RefreshTokenID,
		); err != nil {
			return nil, fmt.Errorf("scan access token row: %w", err)
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

func (r *AccessTokenRepository) Count(ctx context.Context, userID uuid.UUID, realm domain.Realm, businessCode string) (int, error) {
	const query = `
		SELECT count(*) FROM access_tokens WHERE user_id = $1 AND realm = $2 AND business_code = $3
	`
	var count int
	if err := r.db.QueryRow(ctx, query, userID, realm, businessCode).Scan(&count); err != nil {
		return 0, fmt.Errorf("count access tokens: %w", err)
	}
	return count, nil
}

func (r *AccessTokenRepository) scanOne(row pgx.Row) (*domain.AccessToken, error) {
	token := &domain.AccessToken{}
	err := row.Scan(
		&token.JTI, &token.UserID, &token.Realm, &token.BusinessCode, &token.IPAddress, &token.UserAgent,
		&token.IssuedAt, &token.ExpiresAt, &token.Revoked, &token.RefreshTokenID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan access token: %w", err)
	}
	return token, nil
}

// RefreshTokenRepository implements ports.RefreshTokenRepository against
// PostgreSQL.
type RefreshTokenRepository struct {
	db querier
}

// NewRefreshTokenRepository creates a new RefreshTokenRepository bound to q.
func NewRefreshTokenRepository(q querier) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: q}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	const query = `
		INSERT INTO refresh_tokens (jti, user_id, realm, business_code, issued_at, expires_at, revoked, access_token_jti)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		token.JTI, token.UserID, token.Realm, token.BusinessCode, token.IssuedAt, token.ExpiresAt, token.Revoked, token.AccessTokenID,
	)
	if err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) GetByJTI(ctx context.Context, jti uuid.UUID, aliveOnly bool) (*domain.RefreshToken, error) {
	query := `
		SELECT jti, user_id, realm, business_code, issued_at, expires_at, revoked, access_token_jti
		FROM refresh_tokens WHERE jti = $1
	`
	if aliveOnly {
		query += ` AND NOT revoked AND expires_at > now()`
	}
	row := r.db.QueryRow(ctx, query, jti)
	token := &domain.RefreshToken{}
	err := row.Scan(&token.JTI, &token.UserID, &token.Realm, &token.BusinessCode, &token.IssuedAt, &token.ExpiresAt, &token.Revoked, &token.AccessTokenID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan refresh token: %w", err)
	}
	return token, nil
}

func (r *RefreshTokenRepository) Revoke(ctx context.Context, jti uuid.UUID) (bool, error) {
	const query = `UPDATE refresh_tokens SET revoked = true WHERE jti = $1 AND NOT revoked`
	tag, err := r.db.Exec(ctx, query, jti)
	if err != nil {
		return false, fmt.Errorf("revoke refresh token: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RefreshTokenRepository) SetAccessTokenID(ctx context.Context, refreshJTI, accessJTI uuid.UUID) error {
	const query = `UPDATE refresh_tokens SET access_token_jti = $2 WHERE jti = $1`
	_, err := r.db.Exec(ctx, query, refreshJTI, accessJTI)
	if err != nil {
		return fmt.Errorf("link refresh token to access token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) RevokeForUser(ctx context.Context, userID uuid.UUID, realm domain.Realm, businessCode string, exceptJTI uuid.UUID) (int, error) {
	const query = `
		UPDATE refresh_tokens SET revoked = true
		WHERE user_id = $1 AND realm = $2 AND business_code = $3 AND jti != $4 AND NOT revoked
	`
	tag, err := r.db.Exec(ctx, query, userID, realm, businessCode, exceptJTI)
	if err != nil {
		return 0, fmt.Errorf("revoke refresh tokens for user: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
