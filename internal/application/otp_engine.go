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

// OTPEngineParams tunes the rate limiting and lifetime of issued codes. The
// zero value is never used directly; NewOTPEngine fills in the defaults
// below for any numeric or duration field left at zero. RevokeOld is used
// as given, so a zero-value params turns revoke-old off.
type OTPEngineParams struct {
	CodeLifetime   time.Duration
	SMSCooldown    time.Duration
	RevokeOld      bool
	SMSLimit       int
	SMSLimitWindow time.Duration
	CodeLength     int
}

// DefaultOTPEngineParams returns the engine's default rate-limit policy.
func DefaultOTPEngineParams() OTPEngineParams {
	return OTPEngineParams{
		CodeLifetime:   5 * time.Minute,
		SMSCooldown:    30 * time.Second,
		RevokeOld:      true,
		SMSLimit:       10,
		SMSLimitWindow: 3 * time.Hour,
		CodeLength:     6,
	}
}

// OTPEngine generates, rate-limits, and verifies one-time passwords. OTP
// rows double as the audit trail the rate limiter counts against, so they
// are never deleted — only revoked or marked used.
type OTPEngine struct {
	uow        ports.UnitOfWork
	otps       ports.OTPRepository
	cache      ports.Cache
	businesses ports.BusinessRepository
	sms        ports.SMSService
	generator  ports.OTPGenerator
	events     ports.EventPublisher
	logger     ports.Logger
	params     OTPEngineParams
}

// NewOTPEngine wires an OTP Engine. params with zero-valued numeric and
// duration fields fall back to DefaultOTPEngineParams' corresponding field;
// RevokeOld is not defaulted.
func NewOTPEngine(
	uow ports.UnitOfWork,
	otps ports.OTPRepository,
	businesses ports.BusinessRepository,
	c ports.Cache,
	sms ports.SMSService,
	generator ports.OTPGenerator,
	events ports.EventPublisher,
	logger ports.Logger,
	params OTPEngineParams,
) *OTPEngine {
	defaults := DefaultOTPEngineParams()
	if params.CodeLifetime == 0 {
		params.CodeLifetime = defaults.CodeLifetime
	}
	if params.SMSCooldown == 0 {
		params.SMSCooldown = defaults.SMSCooldown
	}
	if params.SMSLimit == 0 {
		params.SMSLimit = defaults.SMSLimit
	}
	if params.SMSLimitWindow == 0 {
		params.SMSLimitWindow = defaults.SMSLimitWindow
	}
	if params.CodeLength == 0 {
		params.CodeLength = defaults.CodeLength
	}
	return &OTPEngine{
		uow:        uow,
		otps:       otps,
		businesses: businesses,
		cache:      c,
		sms:        sms,
		generator:  generator,
		events:     events,
		logger:     logger,
		params:     params,
	}
}

// Send runs the send-otp algorithm: cooldown check, window-limit check,
// old-code revocation, and insert, all inside one transaction, followed by
// a fire-and-forget SMS dispatch and domain event once committed.
func (e *OTPEngine) Send(ctx context.Context, phone, businessCode string, realm domain.Realm) (*domain.OTP, error) {
	if businessCode != "" {
		if _, err := e.resolveBusiness(ctx, businessCode); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	var created *domain.OTP

	err := e.uow.Execute(ctx, func(tx ports.Transaction) error {
		otps := tx.OTPs()

		cooldownSince := now.Add(-e.params.SMSCooldown)
		inCooldown, err := otps.CountSince(ctx, phone, businessCode, cooldownSince)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "failed to check otp cooldown", err)
		}
		if inCooldown >= 1 {
			return apperr.New(apperr.KindSmsCooldown, "please wait before requesting another code")
		}

		windowSince := now.Add(-e.params.SMSLimitWindow)
		sentInWindow, err := otps.CountSince(ctx, phone, businessCode, windowSince)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "failed to check otp rate limit", err)
		}
		if sentInWindow >= e.params.SMSLimit {
			return apperr.New(apperr.KindSmsCooldown, "too many codes requested, try again later")
		}

		if e.params.RevokeOld {
			if err := otps.RevokeLive(ctx, phone, businessCode); err != nil {
				return apperr.Wrap(apperr.KindInternal, "failed to revoke previous codes", err)
			}
		}

		code := e.generator.Generate(e.params.CodeLength)
		otp := domain.NewOTP(phone, businessCode, realm, code, now, e.params.CodeLifetime)
		if err := otps.Create(ctx, otp); err != nil {
			return apperr.Wrap(apperr.KindInternal, "failed to store otp", err)
		}
		created = otp
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := e.sms.SendOTP(ctx, phone, created.Code); err != nil {
		e.logger.Warn("otp sms dispatch failed", ports.String("phone", phone), ports.Err(err))
	}
	e.publish(ctx, ports.EventOTPSent, map[string]interface{}{
		"phone":         phone,
		"business_code": businessCode,
		"realm":         string(realm),
	})

	return created, nil
}

// GetLive returns the single live OTP for (phone, businessCode), or
// domain.ErrOTPNotFound if there is none.
func (e *OTPEngine) GetLive(ctx context.Context, phone, businessCode string) (*domain.OTP, error) {
	otp, err := e.otps.GetLive(ctx, phone, businessCode)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load otp", err)
	}
	if otp == nil {
		return nil, apperr.Wrap(apperr.KindBadRequest, "otp expired or not found", domain.ErrOTPNotFound)
	}
	return otp, nil
}

// MarkUsed marks an OTP row used. Idempotent.
func (e *OTPEngine) MarkUsed(ctx context.Context, id uuid.UUID) error {
	if err := e.otps.MarkUsed(ctx, id); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to mark otp used", err)
	}
	return nil
}

func (e *OTPEngine) resolveBusiness(ctx context.Context, code string) (*domain.Business, error) {
	business, err := cache.WithCache[domain.Business](ctx, e.cache, domain.BusinessCanonicalKey(code), nil,
		func(ctx context.Context) (*domain.Business, error) {
			b, err := e.businesses.GetByCode(ctx, code)
			if err != nil {
				return nil, err
			}
			if b == nil {
				return nil, domain.ErrBusinessNotFound
			}
			return b, nil
		})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNotFound, "business not found", err)
	}
	return business, nil
}

func (e *OTPEngine) publish(ctx context.Context, eventType string, payload map[string]interface{}) {
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
