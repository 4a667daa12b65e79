// Package domain contains the core business entities and invariants of the
// authentication and session core.
//
// MICROSERVICES PATTERN: Domain Layer (Hexagonal Architecture)
// ============================================================
// The domain layer is the innermost layer. It contains:
// - Business entities (User, Business, Client, OTP, AccessToken, RefreshToken)
// - Business rules and validation
// - Domain errors
//
// IMPORTANT: This layer has NO external dependencies. It doesn't know about
// databases, HTTP, gRPC, or caching. This makes it highly testable and portable.
package domain

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Domain errors - business-level errors that can occur in our domain logic.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidPhone      = errors.New("invalid phone format")
	ErrWeakPassword      = errors.New("password must be at least 8 characters")
)

// User is the identity anchor of the system. Mobile-only users (the common
// case) carry no password hash; a hash is set only for users that can log
// in through the web realm.
//
// MICROSERVICES PATTERN: Entity
// User has a unique identity (ID) that persists over time even as other
// attributes change.
type User struct {
	ID           uuid.UUID `json:"id"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CanonicalKey implements cacheable.Keyed: users are the "users" table,
// keyed canonically by id.
func (u *User) CanonicalKey() string { return "users:" + u.ID.String() }

// ReferenceKeys implements cacheable.Keyed. Phone is the sole reference
// attribute per the cache key schema.
func (u *User) ReferenceKeys() []string { return []string{"ref:users:phone:" + u.Phone} }

// UserCanonicalKey mirrors CanonicalKey for lookup by a known id, without an
// instance in hand (the class-level half of the cacheable protocol).
func UserCanonicalKey(id uuid.UUID) string { return "users:" + id.String() }

// UserReferenceKeyByPhone mirrors ReferenceKeys for lookup by a known phone.
func UserReferenceKeyByPhone(phone string) string { return "ref:users:phone:" + phone }

// NewUser creates a mobile-origin User: no password, never an admin. This is
// the entity the Auth Flow Coordinator creates on first OTP confirmation.
func NewUser(phone string) (*User, error) {
	if !isValidPhone(phone) {
		return nil, ErrInvalidPhone
	}
	now := time.Now().UTC()
	return &User{
		ID:        uuid.New(),
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewAdminUser creates an admin-origin User carrying a password hash,
// bypassing OTP. The hash is computed by the caller (the application layer
// owns the PasswordHasher port); this factory only protects the phone
// invariant.
func NewAdminUser(phone, passwordHash string) (*User, error) {
	if !isValidPhone(phone) {
		return nil, ErrInvalidPhone
	}
	now := time.Now().UTC()
	return &User{
		ID:           uuid.New(),
		Phone:        phone,
		PasswordHash: passwordHash,
		IsAdmin:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// SetPassword stores an already-hashed password. Hashing itself happens in
// the application layer via the PasswordHasher port, offloaded to a worker
// pool since bcrypt is CPU-bound.
func (u *User) SetPassword(passwordHash string) {
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()
}

// HasPassword reports whether the user can attempt a web password login.
func (u *User) HasPassword() bool { return u.PasswordHash != "" }

// isValidPhone validates the E.164-like normalized form emitted by the
// phone normalizer: "+" followed by digits only.
func isValidPhone(phone string) bool {
	matched, _ := regexp.MatchString(`^\+\d{7,15}$`, phone)
	return matched
}

// ValidatePassword checks a plaintext password against the system's minimum
// strength requirement. Standalone because it runs before a User
// necessarily exists (admin bootstrap, registration).
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}
	return nil
}
