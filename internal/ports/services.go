package ports

import (
	"context"
	"time"
)

// PasswordHasher is the contract for password hashing.
//
// WHY AN INTERFACE?
// - We might want to upgrade algorithms (bcrypt -> argon2).
// - Testing: we can substitute a cheap hasher to keep unit tests fast.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(password, hash string) error
}

// SMSService is the contract for the fire-and-forget SMS sink. The OTP
// Engine never depends on SendOTP succeeding: the OTP row is the audit
// trail and is already committed by the time this is called.
type SMSService interface {
	SendOTP(ctx context.Context, phone, code string) error
}

// OTPGenerator produces the numeric code used by the OTP Engine.
// Implementations MUST use a cryptographically secure source.
type OTPGenerator interface {
	Generate(length int) string
}

// CodeGenerator produces the random uppercase-ASCII identifiers used for
// business codes and the zero-padded decimal identifiers used for client
// QR/reference codes.
type CodeGenerator interface {
	BusinessCode() string
	QRCode() string
}

// PhoneNormalizer extracts a relaxed phone number into the canonical
// "+{country}{area}{g1}{g2}{g3}" form, rejecting anything that does not
// match.
type PhoneNormalizer interface {
	Normalize(raw string) (string, error)
}

// EventPublisher is the contract for publishing domain events.
//
// MICROSERVICES PATTERN: Event-Driven Architecture
// ================================================
// When something important happens (OTP sent, token issued/revoked), we
// publish an event. Other services can subscribe; this service never
// blocks on delivery.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// Event represents a domain event.
type Event struct {
	Type      string                 `json:"type"`
	Payload   map[string]interface{} `json:"payload"`
	Timestamp time.Time              `json:"timestamp"`
	TraceID   string                 `json:"trace_id,omitempty"`
}

// Well-known event types.
const (
	EventOTPSent       = "otp.sent"
	EventUserCreated   = "user.created"
	EventTokenIssued   = "token.issued"
	EventTokenRefreshed = "token.refreshed"
	EventTokenRevoked  = "token.revoked"
)

// Logger is the contract for structured logging.
//
// We use an interface instead of a concrete logger so we can:
// - Switch implementations.
// - Mock in tests.
// - Attach request-scoped fields (trace id, user id) via WithFields.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	WithFields(fields ...Field) Logger
}

// Field is a key-value pair for structured logging.
type Field struct {
	Key   string
	Value interface{}
}

func String(key, value string) Field         { return Field{Key: key, Value: value} }
func Int(key string, value int) Field        { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field      { return Field{Key: key, Value: value} }
func Err(err error) Field                    { return Field{Key: "error", Value: err} }
func Any(key string, value interface{}) Field { return Field{Key: key, Value: value} }
