package application

import (
	"context"

	"github.com/vitalya420/loyalty-auth-core/internal/apperr"
	"github.com/vitalya420/loyalty-auth-core/internal/domain"
	"github.com/vitalya420/loyalty-auth-core/internal/ports"
)

// AuthFlow coordinates the OTP-path (mobile) and password-path (web)
// authentication flows end-to-end, composing the OTP Engine, Token Engine,
// and IdentityService without owning any persistence itself.
type AuthFlow struct {
	otp      *OTPEngine
	tokens   *TokenEngine
	identity *IdentityService
	hasher   ports.PasswordHasher
	logger   ports.Logger
}

// NewAuthFlow wires an AuthFlow.
func NewAuthFlow(otp *OTPEngine, tokens *TokenEngine, identity *IdentityService, hasher ports.PasswordHasher, logger ports.Logger) *AuthFlow {
	return &AuthFlow{otp: otp, tokens: tokens, identity: identity, hasher: hasher, logger: logger}
}

// MobileStartResult is returned by StartMobile; it carries nothing beyond
// confirmation that a code was dispatched.
type MobileStartResult struct {
	Phone        string
	BusinessCode string
}

// StartMobile issues an OTP for (phone, businessCode) without creating any
// session. The caller confirms separately via ConfirmMobile.
func (f *AuthFlow) StartMobile(ctx context.Context, phone, businessCode string) (*MobileStartResult, error) {
	if businessCode == "" {
		return nil, apperr.New(apperr.KindBadRequest, "business_code is required")
	}
	if _, err := f.otp.Send(ctx, phone, businessCode, domain.RealmMobile); err != nil {
		return nil, err
	}
	return &MobileStartResult{Phone: phone, BusinessCode: businessCode}, nil
}

// MobileConfirmResult bundles the resolved client and the freshly issued
// token pair returned by a successful confirmation.
type MobileConfirmResult struct {
	Client  *domain.Client
	Access  *domain.AccessToken
	Refresh *domain.RefreshToken
}

// ConfirmMobile validates a submitted OTP code, gets-or-creates the user
// and client for (phone, businessCode), and issues a mobile token pair.
func (f *AuthFlow) ConfirmMobile(ctx context.Context, phone, businessCode, code, ip, ua string) (*MobileConfirmResult, error) {
	live, err := f.otp.GetLive(ctx, phone, businessCode)
	if err != nil {
		return nil, err
	}
	if live.Code != code {
		return nil, apperr.New(apperr.KindBadRequest, "wrong code")
	}
	if err := f.otp.MarkUsed(ctx, live.ID); err != nil {
		return nil, err
	}

	user, err := f.identity.GetOrCreateUser(ctx, phone)
	if err != nil {
		return nil, err
	}
	client, err := f.identity.GetOrCreateClient(ctx, user.ID, businessCode, "")
	if err != nil {
		return nil, err
	}

	access, refresh, err := f.tokens.Issue(ctx, user.ID, domain.RealmMobile, businessCode, ip, ua)
	if err != nil {
		return nil, err
	}

	return &MobileConfirmResult{Client: client, Access: access, Refresh: refresh}, nil
}

// WebLoginResult bundles the resolved user, their owned business, and the
// freshly issued token pair returned by a successful web login.
type WebLoginResult struct {
	User     *domain.User
	Business *domain.Business
	Access   *domain.AccessToken
	Refresh  *domain.RefreshToken
}

// LoginWeb authenticates a business owner by phone and password, issuing a
// web token pair scoped to no business code. Password comparison runs on
// the hasher's bounded worker pool, never inline on the calling goroutine.
func (f *AuthFlow) LoginWeb(ctx context.Context, phone, password, ip, ua string) (*WebLoginResult, error) {
	user, err := f.identity.GetUserByPhone(ctx, phone)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBadRequest, "user does not exist", err)
	}

	business, err := f.identity.GetBusinessByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if !user.HasPassword() {
		return nil, apperr.New(apperr.KindInternal, "business owner has no password set")
	}
	if err := f.hasher.Compare(password, user.PasswordHash); err != nil {
		return nil, apperr.New(apperr.KindBadRequest, "wrong password")
	}

	access, refresh, err := f.tokens.Issue(ctx, user.ID, domain.RealmWeb, "", ip, ua)
	if err != nil {
		return nil, err
	}

	return &WebLoginResult{User: user, Business: business, Access: access, Refresh: refresh}, nil
}

// BootstrapAdmin creates an admin user with a password hash directly,
// bypassing OTP. Fails UserExists if the phone is already taken.
func (f *AuthFlow) BootstrapAdmin(ctx context.Context, phone, password string) (*domain.User, error) {
	return f.identity.CreateAdmin(ctx, phone, password)
}
