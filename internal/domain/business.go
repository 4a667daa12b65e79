package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Business-related domain errors.
var (
	ErrBusinessNotFound  = errors.New("business not found")
	ErrBusinessHasOwner  = errors.New("owner already has a business")
	ErrUserHasNoBusiness = errors.New("user has no businesses")
)

// BusinessCodeLength is the fixed length of a generated business code:
// 16 uppercase ASCII letters.
const BusinessCodeLength = 16

// Business is a tenant in the loyalty program, owned by exactly one User.
type Business struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Image     string    `json:"image,omitempty"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanonicalKey implements cacheable.Keyed: businesses are keyed canonically
// by their generated code. Businesses have no reference attrs.
func (b *Business) CanonicalKey() string { return "businesses:" + b.Code }

// ReferenceKeys implements cacheable.Keyed.
func (b *Business) ReferenceKeys() []string { return nil }

// BusinessCanonicalKey mirrors CanonicalKey for lookup by a known code.
func BusinessCanonicalKey(code string) string { return "businesses:" + code }

// NewBusiness creates a Business entity. code must already have been
// generated by the random code generator (domain does not generate its own
// entropy, per the Cacheable Protocol's separation of identity from
// randomness source).
func NewBusiness(code, name string, ownerID uuid.UUID) *Business {
	now := time.Now().UTC()
	return &Business{
		Code:      code,
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
