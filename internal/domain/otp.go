package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// OTP-related domain errors.
var (
	ErrOTPNotFound = errors.New("otp not found")
)

// Realm is the deployment surface a credential was issued for.
type Realm string

const (
	RealmWeb    Realm = "web"
	RealmMobile Realm = "mobile"
)

// OTP is a one-time password row. It doubles as the audit trail that the
// rate limiter counts against, so it is never deleted on expiry alone.
type OTP struct {
	ID           uuid.UUID `json:"id"`
	Phone        string    `json:"phone"`
	BusinessCode string    `json:"business_code,omitempty"`
	Realm        Realm     `json:"realm"`
	Code         string    `json:"-"`
	SentAt       time.Time `json:"sent_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	Used         bool      `json:"used"`
	Revoked      bool      `json:"revoked"`
}

// NewOTP creates an OTP row. sentAt/expiresAt are passed in rather than
// computed from time.Now so that the OTP Engine can use a single `now`
// value consistently across the cooldown check, the window check, and the
// insert within one transaction.
func NewOTP(phone, businessCode string, realm Realm, code string, sentAt time.Time, lifetime time.Duration) *OTP {
	return &OTP{
		ID:           uuid.New(),
		Phone:        phone,
		BusinessCode: businessCode,
		Realm:        realm,
		Code:         code,
		SentAt:       sentAt,
		ExpiresAt:    sentAt.Add(lifetime),
		Used:         false,
		Revoked:      false,
	}
}

// IsLive reports whether this OTP satisfies the liveness predicate:
// ¬revoked ∧ ¬used ∧ expires_at > now.
func (o *OTP) IsLive(now time.Time) bool {
	return !o.Revoked && !o.Used && o.ExpiresAt.After(now)
}

// MarkUsed sets used=true. Idempotent: calling it twice leaves the same
// terminal state.
func (o *OTP) MarkUsed() { o.Used = true }

// Revoke sets revoked=true. Idempotent for the same reason.
func (o *OTP) Revoke() { o.Revoked = true }
