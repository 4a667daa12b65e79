package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Token-related domain errors.
var (
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token has expired")
	ErrTokenRevoked  = errors.New("token has been revoked")
	ErrInvalidToken  = errors.New("invalid token")
)

// AccessTokenDuration and RefreshTokenDuration fix the two sides of a pair's
// lifetime. Rotation, not renewal, is the only way to extend a session past
// these windows.
const (
	AccessTokenDuration  = 7 * 24 * time.Hour
	RefreshTokenDuration = 14 * 24 * time.Hour
)

// AccessToken is the short(er)-lived half of a token pair. Its jti is the
// subject of the bearer credential handed to callers; the credential
// carries the jti and claims, not the row.
type AccessToken struct {
	JTI            uuid.UUID `json:"jti"`
	UserID         uuid.UUID `json:"user_id"`
	Realm          Realm     `json:"realm"`
	BusinessCode   string    `json:"business_code,omitempty"`
	IPAddress      string    `json:"ip_address,omitempty"`
	UserAgent      string    `json:"user_agent,omitempty"`
	IssuedAt       time.Time `json:"issued_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	Revoked        bool      `json:"revoked"`
	RefreshTokenID uuid.UUID `json:"refresh_token_jti"`
}

// CanonicalKey implements cacheable.Keyed.
func (a *AccessToken) CanonicalKey() string { return AccessTokenCanonicalKey(a.JTI) }

// ReferenceKeys implements cacheable.Keyed; tokens have no reference attrs.
func (a *AccessToken) ReferenceKeys() []string { return nil }

// AccessTokenCanonicalKey mirrors CanonicalKey for lookup by a known jti.
func AccessTokenCanonicalKey(jti uuid.UUID) string { return "access_tokens:" + jti.String() }

// IsAlive reports ¬revoked ∧ expires_at > now.
func (a *AccessToken) IsAlive(now time.Time) bool {
	return !a.Revoked && a.ExpiresAt.After(now)
}

// RefreshToken is the long-lived, single-use half of a token pair.
type RefreshToken struct {
	JTI           uuid.UUID `json:"jti"`
	UserID        uuid.UUID `json:"user_id"`
	Realm         Realm     `json:"realm"`
	BusinessCode  string    `json:"business_code,omitempty"`
	IssuedAt      time.Time `json:"issued_at"`
	ExpiresAt     time.Time `json:"expires_at"`
	Revoked       bool      `json:"revoked"`
	AccessTokenID uuid.UUID `json:"access_token_jti"`
}

// CanonicalKey implements cacheable.Keyed.
func (r *RefreshToken) CanonicalKey() string { return RefreshTokenCanonicalKey(r.JTI) }

// ReferenceKeys implements cacheable.Keyed; tokens have no reference attrs.
func (r *RefreshToken) ReferenceKeys() []string { return nil }

// RefreshTokenCanonicalKey mirrors CanonicalKey for lookup by a known jti.
func RefreshTokenCanonicalKey(jti uuid.UUID) string { return "refresh_tokens:" + jti.String() }

// IsAlive reports ¬revoked ∧ expires_at > now.
func (r *RefreshToken) IsAlive(now time.Time) bool {
	return !r.Revoked && r.ExpiresAt.After(now)
}

// NewTokenPair builds an alive (access, refresh) pair carrying the same
// (user_id, realm, business_code), cross-linked by jti. Both rows share one
// issued_at so their lifetimes are comparable.
func NewTokenPair(userID uuid.UUID, realm Realm, businessCode, ip, ua string, now time.Time) (*AccessToken, *RefreshToken) {
	refreshJTI := uuid.New()
	accessJTI := uuid.New()

	refresh := &RefreshToken{
		JTI:           refreshJTI,
		UserID:        userID,
		Realm:         realm,
		BusinessCode:  businessCode,
		IssuedAt:      now,
		ExpiresAt:     now.Add(RefreshTokenDuration),
		AccessTokenID: accessJTI,
	}
	access := &AccessToken{
		JTI:            accessJTI,
		UserID:         userID,
		Realm:          realm,
		BusinessCode:   businessCode,
		IPAddress:      ip,
		UserAgent:      ua,
		IssuedAt:       now,
		ExpiresAt:      now.Add(AccessTokenDuration),
		RefreshTokenID: refreshJTI,
	}
	return access, refresh
}
