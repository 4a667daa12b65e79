// Package ports defines the interfaces (ports) the application layer uses
// to reach the outside world.
//
// MICROSERVICES PATTERN: Ports (Hexagonal Architecture)
// =====================================================
// Ports are interfaces that define how the outside world interacts with
// our application. There are two kinds:
//
// 1. PRIMARY PORTS (Driving) - how external actors call our app (HTTP).
// 2. SECONDARY PORTS (Driven) - how our app calls external systems
//    (database repositories, cache, SMS, event bus). These are CALLED BY
//    the application layer.
//
// This file holds secondary ports for persistence.
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vitalya420/loyalty-auth-core/internal/domain"
)

// UserRepository is the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
}

// BusinessRepository is the contract for business persistence.
type BusinessRepository interface {
	Create(ctx context.Context, business *domain.Business) error
	GetByCode(ctx context.Context, code string) (*domain.Business, error)
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*domain.Business, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// ClientRepository is the contract for client (user↔business) persistence.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByUserAndBusiness(ctx context.Context, userID uuid.UUID, businessCode string) (*domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
}

// OTPRepository is the contract for OTP persistence. OTP rows double as the
// audit trail the rate limiter counts against, so they are retained rather
// than deleted — there is deliberately no DeleteExpired here.
type OTPRepository interface {
	// Create stores a new OTP row.
	Create(ctx context.Context, otp *domain.OTP) error

	// GetLive returns the single row satisfying the liveness predicate for
	// (phone, businessCode), or nil if there is none.
	GetLive(ctx context.Context, phone, businessCode string) (*domain.OTP, error)

	// CountSince counts rows for (phone, businessCode) with sent_at >= since.
	// Used for both the cooldown check (since = now - cooldown) and the
	// window-limit check (since = now - window).
	CountSince(ctx context.Context, phone, businessCode string, since time.Time) (int, error)

	// RevokeLive sets revoked=true on every ¬revoked ∧ ¬used row for
	// (phone, businessCode).
	RevokeLive(ctx context.Context, phone, businessCode string) error

	// MarkUsed sets used=true on the row with the given id. Idempotent.
	MarkUsed(ctx context.Context, id uuid.UUID) error
}

// AccessTokenRepository is the contract for access-token persistence.
type AccessTokenRepository interface {
	Create(ctx context.Context, token *domain.AccessToken) error
	GetByJTI(ctx context.Context, jti uuid.UUID, aliveOnly bool) (*domain.AccessToken, error)
	GetByRefreshJTI(ctx context.Context, refreshJTI uuid.UUID) (*domain.AccessToken, error)

	// Revoke sets revoked=true where jti=$1 AND revoked=false, returning
	// true iff a row was actually updated (the race-loser observes false).
	Revoke(ctx context.Context, jti uuid.UUID) (bool, error)

	// RevokeForUser atomically revokes every non-revoked row (expired rows
	// included) for (userID, realm, businessCode) except exceptJTI,
	// returning the count of rows updated.
	RevokeForUser(ctx context.Context, userID uuid.UUID, realm domain.Realm, businessCode string, exceptJTI uuid.UUID) (int, error)

	// List returns access tokens for (userID, realm, businessCode) ordered
	// newest first, paginated.
	List(ctx context.Context, userID uuid.UUID, realm domain.Realm, businessCode string, limit, offset int) ([]*domain.AccessToken, error)

	// Count mirrors List's filter without pagination.
	Count(ctx context.Context, userID uuid.UUID, realm domain.Realm, businessCode string) (int, error)
}

// RefreshTokenRepository is the contract for refresh-token persistence.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByJTI(ctx context.Context, jti uuid.UUID, aliveOnly bool) (*domain.RefreshToken, error)

	// Revoke sets revoked=true where jti=$1 AND revoked=false, returning
	// true iff a row was actually updated.
	Revoke(ctx context.Context, jti uuid.UUID) (bool, error)

	// SetAccessTokenID back-patches the cyclic FK after the paired access
	// row has been inserted, inside the same transaction.
	SetAccessTokenID(ctx context.Context, refreshJTI, accessJTI uuid.UUID) error

	RevokeForUser(ctx context.Context, userID uuid.UUID, realm domain.Realm, businessCode string, exceptJTI uuid.UUID) (int, error)
}

// UnitOfWork provides transaction management across repositories.
//
// PATTERN: Unit of Work.
// Maintains a list of objects affected by a business transaction and
// coordinates the writing out of changes atomically.
//
// Example:
//
//	err := uow.Execute(ctx, func(tx Transaction) error {
//	    if err := tx.RefreshTokens().Create(ctx, refresh); err != nil {
//	        return err // rolled back
//	    }
//	    return nil // committed
//	})
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(tx Transaction) error) error
}

// Transaction provides access to repositories bound to a single transaction.
type Transaction interface {
	Users() UserRepository
	Businesses() BusinessRepository
	Clients() ClientRepository
	OTPs() OTPRepository
	AccessTokens() AccessTokenRepository
	RefreshTokens() RefreshTokenRepository
}
