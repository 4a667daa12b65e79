package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QRCodeLength is the fixed length of a generated client QR/reference code:
// zero-padded decimal digits.
const QRCodeLength = 16

// Client joins a User to a Business. It is created lazily, the first time
// the pair authenticates in the mobile realm.
type Client struct {
	UserID       uuid.UUID       `json:"user_id"`
	BusinessCode string          `json:"business_code"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name,omitempty"`
	Bonuses      decimal.Decimal `json:"bonuses"`
	Image        string          `json:"image,omitempty"`
	IsStaff      bool            `json:"is_staff"`
	QRCode       string          `json:"qr_code"`
	Deleted      bool            `json:"deleted"`
	DeletedAt    *time.Time      `json:"deleted_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CanonicalKey implements cacheable.Keyed. Clients have a composite primary
// key, so the canonical suffix is the joined (user_id, business_code) pair
// rather than a single attribute value.
func (c *Client) CanonicalKey() string {
	return ClientCanonicalKey(c.UserID, c.BusinessCode)
}

// ReferenceKeys implements cacheable.Keyed. Clients have no reference attrs.
func (c *Client) ReferenceKeys() []string { return nil }

// ClientCanonicalKey mirrors CanonicalKey for lookup by a known
// (user_id, business_code) pair.
func ClientCanonicalKey(userID uuid.UUID, businessCode string) string {
	return "clients:" + userID.String() + ":" + businessCode
}

// NewClient creates a Client entity for a (user, business) pair. qrCode must
// already have been generated by the random code generator.
func NewClient(userID uuid.UUID, businessCode, firstName, qrCode string) *Client {
	now := time.Now().UTC()
	return &Client{
		UserID:       userID,
		BusinessCode: businessCode,
		FirstName:    firstName,
		Bonuses:      decimal.Zero,
		QRCode:       qrCode,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// SoftDelete marks the client as deleted without removing the row; the
// mobile realm never hard-deletes a client once bonuses have accrued.
func (c *Client) SoftDelete() {
	now := time.Now().UTC()
	c.Deleted = true
	c.DeletedAt = &now
	c.UpdatedAt = now
}
