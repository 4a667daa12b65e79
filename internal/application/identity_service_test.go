package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/vitalya420/loyalty-auth-core/internal/apperr"
)

func newTestIdentityService() (*IdentityService, *fakeUserRepo, *fakeBusinessRepo, *fakeClientRepo) {
	users := newFakeUserRepo()
	businesses := newFakeBusinessRepo()
	clients := newFakeClientRepo()
	c := newMemCache()
	svc := NewIdentityService(users, businesses, clients, plaintextHasher{}, fixedCodeGenerator{business: "ABCDEFGHIJKLMNOP", qr: "9999999999999999"}, c)
	return svc, users, businesses, clients
}

func TestIdentityService_GetOrCreateUser_CreatesOnce(t *testing.T) {
	svc, users, _, _ := newTestIdentityService()
	ctx := context.Background()

	first, err := svc.GetOrCreateUser(ctx, "+15551234567")
	if err != nil {
		t.Fatalf("GetOrCreateUser() error = %v", err)
	}
	second, err := svc.GetOrCreateUser(ctx, "+15551234567")
	if err != nil {
		t.Fatalf("GetOrCreateUser() second call error = %v", err)
	}
	if first.ID != second.ID {
		t.Error("GetOrCreateUser() must return the same user on a second call for the same phone")
	}
	if len(users.byID) != 1 {
		t.Errorf("expected exactly one stored user, got %d", len(users.byID))
	}
}

func TestIdentityService_GetUserByID_NotFound(t *testing.T) {
	svc, _, _, _ := newTestIdentityService()
	_, err := svc.GetUserByID(context.Background(), uuid.New())
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("KindOf(err) = %v, want KindNotFound", apperr.KindOf(err))
	}
}

func TestIdentityService_CreateBusiness_RejectsSecondForSameOwner(t *testing.T) {
	svc, _, _, _ := newTestIdentityService()
	ctx := context.Background()
	owner := uuid.New()

	if _, err := svc.CreateBusiness(ctx, "First Shop", owner); err != nil {
		t.Fatalf("CreateBusiness() error = %v", err)
	}
	_, err := svc.CreateBusiness(ctx, "Second Shop", owner)
	if apperr.KindOf(err) != apperr.KindBadRequest {
		t.Errorf("KindOf(err) = %v, want KindBadRequest for a second business owned by the same user", apperr.KindOf(err))
	}
}

func TestIdentityService_GetOrCreateClient_CreatesWithQRCode(t *testing.T) {
	svc, _, businesses, _ := newTestIdentityService()
	ctx := context.Background()
	owner := uuid.New()

	business, err := svc.CreateBusiness(ctx, "Shop", owner)
	if err != nil {
		t.Fatalf("CreateBusiness() error = %v", err)
	}
	if _, ok := businesses.byCode[business.Code]; !ok {
		t.Fatal("business was not persisted")
	}

	client, err := svc.GetOrCreateClient(ctx, uuid.New(), business.Code, "Ada")
	if err != nil {
		t.Fatalf("GetOrCreateClient() error = %v", err)
	}
	if client.QRCode != "9999999999999999" {
		t.Errorf("QRCode = %q, want the generated code", client.QRCode)
	}
}
