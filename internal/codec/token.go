// Package codec implements the Token Codec: a pure, stateless function over
// a token row that produces and parses the bearer credential handed to
// callers. It never touches the store or the cache — revocation is only
// authoritative there.
//
// Grounded in the teacher's JWTTokenService (internal/adapters/external/token.go):
// same library (golang-jwt/jwt/v5), same HS256/HMAC shape, generalized from a
// single access-token claims set to the shared access/refresh envelope this
// system requires.
package codec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vitalya420/loyalty-auth-core/internal/domain"
)

// TokenType distinguishes an access envelope from a refresh envelope.
type TokenType string

const (
	TypeAccess  TokenType = "access"
	TypeRefresh TokenType = "refresh"
)

var (
	// ErrMalformed covers parse failures, bad signatures, and claims that
	// fail the envelope's own structural checks (missing jti, bad type).
	ErrMalformed = errors.New("malformed or invalid token")
	// ErrTokenExpired is returned by Decode (but not DecodeAllowExpired).
	ErrTokenExpired = errors.New("token has expired")
)

// Claims is the envelope carried by every bearer credential this system
// issues: {jti, user_id, realm, business_code|null, issued_at, expires_at, type}.
type Claims struct {
	jwt.RegisteredClaims
	JTI          uuid.UUID    `json:"jti"`
	UserID       uuid.UUID    `json:"user_id"`
	Realm        domain.Realm `json:"realm"`
	BusinessCode string       `json:"business_code,omitempty"`
	Type         TokenType    `json:"type"`
}

// Codec signs and verifies token envelopes with a single symmetric secret.
// It is the only process-wide secret the system carries (see design notes
// on global state): inject it once at startup, never as a singleton.
type Codec struct {
	secret []byte
}

// NewCodec constructs a Codec over the given HMAC secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Encode signs an envelope for jti/userID/realm/businessCode/typ, valid from
// issuedAt to expiresAt.
func (c *Codec) Encode(jti, userID uuid.UUID, realm domain.Realm, businessCode string, typ TokenType, issuedAt, expiresAt time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		JTI:          jti,
		UserID:       userID,
		Realm:        realm,
		BusinessCode: businessCode,
		Type:         typ,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies signature and expiry and returns the claims. It does not
// check revocation.
func (c *Codec) Decode(raw string) (*Claims, error) {
	return c.decode(raw, false)
}

// DecodeAllowExpired verifies signature only, skipping the expiry check, for
// callers that explicitly need to inspect an expired envelope (e.g. error
// messages that distinguish "expired" from "malformed").
func (c *Codec) DecodeAllowExpired(raw string) (*Claims, error) {
	return c.decode(raw, true)
}

func (c *Codec) decode(raw string, allowExpired bool) (*Claims, error) {
	var opts []jwt.ParserOption
	if allowExpired {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, opts...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || (!allowExpired && !token.Valid) {
		return nil, ErrMalformed
	}
	if claims.JTI == uuid.Nil || claims.UserID == uuid.Nil {
		return nil, ErrMalformed
	}
	if claims.Type != TypeAccess && claims.Type != TypeRefresh {
		return nil, ErrMalformed
	}
	return claims, nil
}
