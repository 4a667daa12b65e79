package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vitalya420/loyalty-auth-core/internal/ports"
)

// UnitOfWork implements ports.UnitOfWork over a pgxpool.Pool: Execute opens
// a pgx.Tx, runs fn against repositories bound to that transaction, and
// commits iff fn returns nil.
type UnitOfWork struct {
	pool *pgxpool.Pool
}

// NewUnitOfWork creates a UnitOfWork bound to pool.
func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{pool: pool}
}

func (u *UnitOfWork) Execute(ctx context.Context, fn func(tx ports.Transaction) error) error {
	pgxTx, err := u.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	tx := &transaction{q: pgxTx}
	if err := fn(tx); err != nil {
		if rbErr := pgxTx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}

	if err := pgxTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// transaction implements ports.Transaction, lazily constructing each
// repository bound to the same pgx.Tx on first access.
type transaction struct {
	q querier

	users      *UserRepository
	businesses *BusinessRepository
	clients    *ClientRepository
	otps       *OTPRepository
	access     *AccessTokenRepository
	refresh    *RefreshTokenRepository
}

func (t *transaction) Users() ports.UserRepository {
	if t.users == nil {
		t.users = NewUserRepository(t.q)
	}
	return t.users
}

func (t *transaction) Businesses() ports.BusinessRepository {
	if t.businesses == nil {
		t.businesses = NewBusinessRepository(t.q)
	}
	return t.businesses
}

func (t *transaction) Clients() ports.ClientRepository {
	if t.clients == nil {
		t.clients = NewClientRepository(t.q)
	}
	return t.clients
}

func (t *transaction) OTPs() ports.OTPRepository {
	if t.otps == nil {
		t.otps = NewOTPRepository(t.q)
	}
	return t.otps
}

func (t *transaction) AccessTokens() ports.AccessTokenRepository {
	if t.access == nil {
		t.access = NewAccessTokenRepository(t.q)
	}
	return t.access
}

func (t *transaction) RefreshTokens() ports.RefreshTokenRepository {
	if t.refresh == nil {
		t.refresh = NewRefreshTokenRepository(t.q)
	}
	return t.refresh
}
