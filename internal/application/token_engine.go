package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vitalya420/loyalty-auth-core/internal/apperr"
	"github.com/vitalya420/loyalty-auth-core/internal/cache"
	"github.com/vitalya420/loyalty-auth-core/internal/domain"
	"github.com/vitalya420/loyalty-auth-core/internal/ports"
)

// TokenEngine owns the token-pair lifecycle: issuance, cache-through reads,
// rotation, and cascading revocation. Every mutating operation publishes a
// matching domain event after its transaction commits.
type TokenEngine struct {
	uow        ports.UnitOfWork
	access     ports.AccessTokenRepository
	refresh    ports.RefreshTokenRepository
	businesses ports.BusinessRepository
	c          ports.Cache
	events     ports.EventPublisher
	logger     ports.Logger
}

// NewTokenEngine wires a Token Engine.
func NewTokenEngine(
	uow ports.UnitOfWork,
	access ports.AccessTokenRepository,
	refresh ports.RefreshTokenRepository,
	businesses ports.BusinessRepository,
	c ports.Cache,
	events ports.EventPublisher,
	logger ports.Logger,
) *TokenEngine {
	return &TokenEngine{uow: uow, access: access, refresh: refresh, businesses: businesses, c: c, events: events, logger: logger}
}

// Issue inserts a fresh cross-linked (access, refresh) pair in one
// transaction, back-patching the refresh row's access_token_jti, then
// caches both entities. Mobile issuance requires a non-empty businessCode;
// web issuance requires an empty one.
func (e *TokenEngine) Issue(ctx context.Context, userID uuid.UUID, realm domain.Realm, businessCode, ip, ua string) (*domain.AccessToken, *domain.RefreshToken, error) {
	if realm == domain.RealmMobile && businessCode == "" {
		return nil, nil, apperr.New(apperr.KindBadRequest, "business_code is required for mobile tokens")
	}
	if realm == domain.RealmWeb && businessCode != "" {
		return nil, nil, apperr.New(apperr.KindBadRequest, "business_code must be empty for web tokens")
	}
	if businessCode != "" {
		business, err := cache.WithCache[domain.Business](ctx, e.c, domain.BusinessCanonicalKey(businessCode), nil,
			func(ctx context.Context) (*domain.Business, error) {
				return e.businesses.GetByCode(ctx, businessCode)
			})
		if err != nil {
			return nil, nil, apperr.Wrap(apperr.KindInternal, "failed to load business", err)
		}
		if business == nil {
			return nil, nil, apperr.Wrap(apperr.KindNotFound, "business not found", domain.ErrBusinessNotFound)
		}
	}

	now := time.Now().UTC()
	access, refresh := domain.NewTokenPair(userID, realm, businessCode, ip, ua, now)

	err := e.uow.Execute(ctx, func(tx ports.Transaction) error {
		if err := tx.RefreshTokens().Create(ctx, refresh); err != nil {
			return apperr.Wrap(apperr.KindInternal, "failed to store refresh token", err)
		}
		if err := tx.AccessTokens().Create(ctx, access); err != nil {
			return apperr.Wrap(apperr.KindInternal, "failed to store access token", err)
		}
		if err := tx.RefreshTokens().SetAccessTokenID(ctx, refresh.JTI, access.JTI); err != nil {
			return apperr.Wrap(apperr.KindInternal, "failed to link token pair", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	_ = cache.CacheEntity[domain.AccessToken](ctx, e.c, access, cache.DefaultTTL)
	_ = cache.CacheEntity[domain.RefreshToken](ctx, e.c, refresh, cache.DefaultTTL)

	e.publish(ctx, ports.EventTokenIssued, map[string]interface{}{
		"user_id":       userID.String(),
		"realm":         string(realm),
		"business_code": businessCode,
		"access_jti":    access.JTI.String(),
	})

	return access, refresh, nil
}

// GetAccess is the cache-through read for an access token by jti.
func (e *TokenEngine) GetAccess(ctx context.Context, jti uuid.UUID, aliveOnly bool) (*domain.AccessToken, error) {
	token, err := cache.WithCache[domain.AccessToken](ctx, e.c, domain.AccessTokenCanonicalKey(jti), nil,
		func(ctx context.Context) (*domain.AccessToken, error) {
			return e.access.GetByJTI(ctx, jti, aliveOnly)
		})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load access token", err)
	}
	if token == nil || (aliveOnly && !token.IsAlive(time.Now().UTC())) {
		return nil, apperr.Wrap(apperr.KindUnauthorized, "access token not found", domain.ErrTokenNotFound)
	}
	return token, nil
}

// GetRefresh is the cache-through read for a refresh token by jti.
func (e *TokenEngine) GetRefresh(ctx context.Context, jti uuid.UUID, aliveOnly bool) (*domain.RefreshToken, error) {
	token, err := cache.WithCache[domain.RefreshToken](ctx, e.c, domain.RefreshTokenCanonicalKey(jti), nil,
		func(ctx context.Context) (*domain.RefreshToken, error) {
			return e.refresh.GetByJTI(ctx, jti, aliveOnly)
		})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load refresh token", err)
	}
	if token == nil || (aliveOnly && !token.IsAlive(time.Now().UTC())) {
		return nil, apperr.Wrap(apperr.KindBadRequest, "refresh token not found", domain.ErrTokenNotFound)
	}
	return token, nil
}

// Refresh rotates a (refresh, access) pair: the old pair is revoked and
// invalidated in the store before the new pair is issued, so the new pair
// is never observable alongside a still-alive old pair.
func (e *TokenEngine) Refresh(ctx context.Context, refreshJTI uuid.UUID, ip, ua string) (*domain.AccessToken, *domain.RefreshToken, error) {
	oldRefresh, err := e.GetRefresh(ctx, refreshJTI, true)
	if err != nil {
		return nil, nil, err
	}
	oldAccess, err := e.access.GetByRefreshJTI(ctx, oldRefresh.JTI)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.KindInternal, "failed to load paired access token", err)
	}

	err = e.uow.Execute(ctx, func(tx ports.Transaction) error {
		revoked, err := tx.RefreshTokens().Revoke(ctx, oldRefresh.JTI)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "failed to revoke refresh token", err)
		}
		if !revoked {
			return apperr.Wrap(apperr.KindBadRequest, "refresh token not found", domain.ErrTokenRevoked)
		}
		if oldAccess != nil {
			if _, err := tx.AccessTokens().Revoke(ctx, oldAccess.JTI); err != nil {
				return apperr.Wrap(apperr.KindInternal, "failed to revoke access token", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	_ = cache.InvalidateKey(ctx, e.c, domain.RefreshTokenCanonicalKey(oldRefresh.JTI))
	if oldAccess != nil {
		_ = cache.InvalidateKey(ctx, e.c, domain.AccessTokenCanonicalKey(oldAccess.JTI))
	}

	newAccess, newRefresh, err := e.Issue(ctx, oldRefresh.UserID, oldRefresh.Realm, oldRefresh.BusinessCode, ip, ua)
	if err != nil {
		return nil, nil, err
	}

	e.publish(ctx, ports.EventTokenRefreshed, map[string]interface{}{
		"user_id":        oldRefresh.UserID.String(),
		"old_access_jti": accessJTIOrEmpty(oldAccess),
		"new_access_jti": newAccess.JTI.String(),
	})

	return newAccess, newRefresh, nil
}

// RevokeAccess marks an access token and its paired refresh token revoked,
// invalidating both caches. Idempotent.
func (e *TokenEngine) RevokeAccess(ctx context.Context, jti uuid.UUID) error {
	access, err := e.access.GetByJTI(ctx, jti, false)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to load access token", err)
	}
	if access == nil {
		return apperr.Wrap(apperr.KindNotFound, "access token not found", domain.ErrTokenNotFound)
	}

	err = e.uow.Execute(ctx, func(tx ports.Transaction) error {
		if _, err := tx.AccessTokens().Revoke(ctx, access.JTI); err != nil {
			return apperr.Wrap(apperr.KindInternal, "failed to revoke access token", err)
		}
		if _, err := tx.RefreshTokens().Revoke(ctx, access.RefreshTokenID); err != nil {
			return apperr.Wrap(apperr.KindInternal, "failed to revoke refresh token", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	_ = cache.InvalidateKey(ctx, e.c, domain.AccessTokenCanonicalKey(access.JTI))
	_ = cache.InvalidateKey(ctx, e.c, domain.RefreshTokenCanonicalKey(access.RefreshTokenID))

	e.publish(ctx, ports.EventTokenRevoked, map[string]interface{}{
		"access_jti": access.JTI.String(),
		"user_id":    access.UserID.String(),
	})
	return nil
}

// UserRevokesByJTI is RevokeAccess scoped to the requesting user: it fails
// closed if the token does not belong to userID.
func (e *TokenEngine) UserRevokesByJTI(ctx context.Context, userID, jti uuid.UUID) error {
	access, err := e.access.GetByJTI(ctx, jti, false)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to load access token", err)
	}
	if access == nil || access.UserID != userID {
		return apperr.New(apperr.KindNotFound, "access token not found")
	}
	return e.RevokeAccess(ctx, jti)
}

// RevokeAllExceptCurrent bulk-revokes every non-revoked pair (expired ones
// included) for
// (userID, realm, businessCode) other than the pair whose access jti is
// exceptAccessJTI, invalidating cache entries for each. Returns the count
// revoked.
func (e *TokenEngine) RevokeAllExceptCurrent(ctx context.Context, userID uuid.UUID, realm domain.Realm, businessCode string, exceptAccessJTI uuid.UUID) (int, error) {
	tokens, err := e.access.List(ctx, userID, realm, businessCode, 0, 0)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "failed to list access tokens", err)
	}

	var exceptRefreshJTI uuid.UUID
	for _, t := range tokens {
		if t.JTI == exceptAccessJTI {
			exceptRefreshJTI = t.RefreshTokenID
			break
		}
	}

	var revoked int
	err = e.uow.Execute(ctx, func(tx ports.Transaction) error {
		n, err := tx.AccessTokens().RevokeForUser(ctx, userID, realm, businessCode, exceptAccessJTI)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "failed to revoke access tokens", err)
		}
		if _, err := tx.RefreshTokens().RevokeForUser(ctx, userID, realm, businessCode, exceptRefreshJTI); err != nil {
			return apperr.Wrap(apperr.KindInternal, "failed to revoke refresh tokens", err)
		}
		revoked = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, t := range tokens {
		if t.JTI == exceptAccessJTI {
			continue
		}
		_ = cache.InvalidateKey(ctx, e.c, domain.AccessTokenCanonicalKey(t.JTI))
		_ = cache.InvalidateKey(ctx, e.c, domain.RefreshTokenCanonicalKey(t.RefreshTokenID))
	}

	e.publish(ctx, ports.EventTokenRevoked, map[string]interface{}{
		"user_id": userID.String(),
		"realm":   string(realm),
		"count":   revoked,
	})
	return revoked, nil
}

// List returns paginated access tokens for (userID, realm, businessCode).
func (e *TokenEngine) List(ctx context.Context, userID uuid.UUID, realm domain.Realm, businessCode string, limit, offset int) ([]*domain.AccessToken, error) {
	tokens, err := e.access.List(ctx, userID, realm, businessCode, limit, offset)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list access tokens", err)
	}
	return tokens, nil
}

// Count mirrors List's filter without pagination.
func (e *TokenEngine) Count(ctx context.Context, userID uuid.UUID, realm domain.Realm, businessCode string) (int, error) {
	n, err := e.access.Count(ctx, userID, realm, businessCode)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "failed to count access tokens", err)
	}
	return n, nil
}

func (e *TokenEngine) publish(ctx context.Context, eventType string, payload map[string]interface{}) {
	if e.events == nil {
		return
	}
	if err := e.events.Publish(ctx, ports.Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		e.logger.Warn("failed to publish event", ports.String("type", eventType), ports.Err(err))
	}
}

func accessJTIOrEmpty(t *domain.AccessToken) string {
	if t == nil {
		return ""
	}
	return t.JTI.String()
}
