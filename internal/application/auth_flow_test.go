package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/vitalya420/loyalty-auth-core/internal/apperr"
	"github.com/vitalya420/loyalty-auth-core/internal/domain"
)

func randomOwnerID() uuid.UUID { return uuid.New() }

func newTestAuthFlow() (*AuthFlow, *fakeTx) {
	tx := &fakeTx{
		users:      newFakeUserRepo(),
		businesses: newFakeBusinessRepo(),
		clients:    newFakeClientRepo(),
		otps:       newFakeOTPRepo(),
		access:     newFakeAccessRepo(),
		refresh:    newFakeRefreshRepo(),
	}
	uow := &fakeUOW{tx: tx}
	c := newMemCache()

	otpEngine := NewOTPEngine(uow, tx.otps, tx.businesses, c, &fakeSMS{}, fixedOTPGenerator{code: "654321"}, noopEvents{}, noopLogger{}, OTPEngineParams{})
	tokenEngine := NewTokenEngine(uow, tx.access, tx.refresh, tx.businesses, c, noopEvents{}, noopLogger{})
	identity := NewIdentityService(tx.users, tx.businesses, tx.clients, plaintextHasher{}, fixedCodeGenerator{business: "BIZCODE", qr: "1234567890123456"}, c)
	flow := NewAuthFlow(otpEngine, tokenEngine, identity, plaintextHasher{}, noopLogger{})
	return flow, tx
}

func seedBusiness(t *testing.T, tx *fakeTx, code string) {
	t.Helper()
	if err := tx.businesses.Create(context.Background(), domain.NewBusiness(code, "Acme Loyalty", randomOwnerID())); err != nil {
		t.Fatalf("failed to seed business %q: %v", code, err)
	}
}

func TestAuthFlow_MobileStartAndConfirm(t *testing.T) {
	flow, tx := newTestAuthFlow()
	ctx := context.Background()
	seedBusiness(t, tx, "BIZCODE")

	if _, err := flow.StartMobile(ctx, "+15551234567", "BIZCODE"); err != nil {
		t.Fatalf("StartMobile() error = %v", err)
	}

	result, err := flow.ConfirmMobile(ctx, "+15551234567", "BIZCODE", "654321", "1.2.3.4", "agent")
	if err != nil {
		t.Fatalf("ConfirmMobile() error = %v", err)
	}
	if result.Client == nil || result.Access == nil || result.Refresh == nil {
		t.Fatal("ConfirmMobile() must return a client and a fresh token pair")
	}
	if result.Access.Realm != domain.RealmMobile {
		t.Errorf("issued token realm = %v, want mobile", result.Access.Realm)
	}
}

func TestAuthFlow_MobileConfirm_WrongCode(t *testing.T) {
	flow, tx := newTestAuthFlow()
	ctx := context.Background()
	seedBusiness(t, tx, "BIZCODE")

	if _, err := flow.StartMobile(ctx, "+15551234567", "BIZCODE"); err != nil {
		t.Fatalf("StartMobile() error = %v", err)
	}

	_, err := flow.ConfirmMobile(ctx, "+15551234567", "BIZCODE", "000000", "", "")
	if apperr.KindOf(err) != apperr.KindBadRequest {
		t.Errorf("KindOf(err) = %v, want KindBadRequest", apperr.KindOf(err))
	}
}

func TestAuthFlow_MobileConfirm_SecondUseFailsOtpExpired(t *testing.T) {
	flow, tx := newTestAuthFlow()
	ctx := context.Background()
	seedBusiness(t, tx, "BIZCODE")

	if _, err := flow.StartMobile(ctx, "+15551234567", "BIZCODE"); err != nil {
		t.Fatalf("StartMobile() error = %v", err)
	}
	if _, err := flow.ConfirmMobile(ctx, "+15551234567", "BIZCODE", "654321", "", ""); err != nil {
		t.Fatalf("first ConfirmMobile() error = %v", err)
	}

	_, err := flow.ConfirmMobile(ctx, "+15551234567", "BIZCODE", "654321", "", "")
	if apperr.KindOf(err) != apperr.KindBadRequest {
		t.Errorf("KindOf(err) = %v, want KindBadRequest on re-use of a consumed OTP", apperr.KindOf(err))
	}
}

func TestAuthFlow_LoginWeb_Success(t *testing.T) {
	flow, tx := newTestAuthFlow()
	ctx := context.Background()

	admin, err := flow.BootstrapAdmin(ctx, "+15559998888", "correcthorsebattery")
	if err != nil {
		t.Fatalf("BootstrapAdmin() error = %v", err)
	}
	business := domain.NewBusiness("BIZCODE", "Acme Loyalty", admin.ID)
	if err := tx.businesses.Create(ctx, business); err != nil {
		t.Fatalf("failed to seed business: %v", err)
	}

	result, err := flow.LoginWeb(ctx, "+15559998888", "correcthorsebattery", "9.9.9.9", "browser")
	if err != nil {
		t.Fatalf("LoginWeb() error = %v", err)
	}
	if result.Access.Realm != domain.RealmWeb || result.Access.BusinessCode != "" {
		t.Errorf("web token must carry realm=web and no business_code, got realm=%v business_code=%q", result.Access.Realm, result.Access.BusinessCode)
	}
	if result.Business.Code != "BIZCODE" {
		t.Errorf("Business.Code = %q, want BIZCODE", result.Business.Code)
	}
}

func TestAuthFlow_LoginWeb_WrongPassword(t *testing.T) {
	flow, tx := newTestAuthFlow()
	ctx := context.Background()

	admin, err := flow.BootstrapAdmin(ctx, "+15559998888", "correcthorsebattery")
	if err != nil {
		t.Fatalf("BootstrapAdmin() error = %v", err)
	}
	if err := tx.businesses.Create(ctx, domain.NewBusiness("BIZCODE", "Acme Loyalty", admin.ID)); err != nil {
		t.Fatalf("failed to seed business: %v", err)
	}

	_, err = flow.LoginWeb(ctx, "+15559998888", "wrongpassword", "", "")
	if apperr.KindOf(err) != apperr.KindBadRequest {
		t.Errorf("KindOf(err) = %v, want KindBadRequest", apperr.KindOf(err))
	}
}

func TestAuthFlow_LoginWeb_NoBusiness(t *testing.T) {
	flow, _ := newTestAuthFlow()
	ctx := context.Background()

	if _, err := flow.BootstrapAdmin(ctx, "+15559998888", "correcthorsebattery"); err != nil {
		t.Fatalf("BootstrapAdmin() error = %v", err)
	}

	_, err := flow.LoginWeb(ctx, "+15559998888", "correcthorsebattery", "", "")
	if apperr.KindOf(err) != apperr.KindBadRequest {
		t.Errorf("KindOf(err) = %v, want KindBadRequest for an owner with no business", apperr.KindOf(err))
	}
}

func TestAuthFlow_BootstrapAdmin_DuplicatePhone(t *testing.T) {
	flow, _ := newTestAuthFlow()
	ctx := context.Background()

	if _, err := flow.BootstrapAdmin(ctx, "+15559998888", "correcthorsebattery"); err != nil {
		t.Fatalf("first BootstrapAdmin() error = %v", err)
	}

	_, err := flow.BootstrapAdmin(ctx, "+15559998888", "anotherpassword")
	if apperr.KindOf(err) != apperr.KindUserExists {
		t.Errorf("KindOf(err) = %v, want KindUserExists", apperr.KindOf(err))
	}
}
