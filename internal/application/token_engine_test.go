package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/vitalya420/loyalty-auth-core/internal/apperr"
	"github.com/vitalya420/loyalty-auth-core/internal/domain"
)

func newTestTokenEngine() (*TokenEngine, *fakeAccessRepo, *fakeRefreshRepo) {
	access := newFakeAccessRepo()
	refresh := newFakeRefreshRepo()
	businesses := newFakeBusinessRepo()
	tx := &fakeTx{access: access, refresh: refresh}
	uow := &fakeUOW{tx: tx}
	engine := NewTokenEngine(uow, access, refresh, businesses, newMemCache(), noopEvents{}, noopLogger{})
	_ = businesses.Create(context.Background(), domain.NewBusiness("BIZCODE", "Acme Loyalty", uuid.New()))
	return engine, access, refresh
}

func TestTokenEngine_Issue_MobileRequiresBusinessCode(t *testing.T) {
	engine, _, _ := newTestTokenEngine()
	_, _, err := engine.Issue(context.Background(), uuid.New(), domain.RealmMobile, "", "1.2.3.4", "agent")
	if apperr.KindOf(err) != apperr.KindBadRequest {
		t.Errorf("KindOf(err) = %v, want KindBadRequest", apperr.KindOf(err))
	}
}

func TestTokenEngine_Issue_WebRejectsBusinessCode(t *testing.T) {
	engine, _, _ := newTestTokenEngine()
	_, _, err := engine.Issue(context.Background(), uuid.New(), domain.RealmWeb, "BIZCODE", "1.2.3.4", "agent")
	if apperr.KindOf(err) != apperr.KindBadRequest {
		t.Errorf("KindOf(err) = %v, want KindBadRequest", apperr.KindOf(err))
	}
}

func TestTokenEngine_IssueAndGet_RoundTrip(t *testing.T) {
	engine, _, _ := newTestTokenEngine()
	ctx := context.Background()
	userID := uuid.New()

	access, refresh, err := engine.Issue(ctx, userID, domain.RealmMobile, "BIZCODE", "1.2.3.4", "agent")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if refresh.AccessTokenID != access.JTI {
		t.Error("refresh token was not back-patched with the access jti")
	}

	gotAccess, err := engine.GetAccess(ctx, access.JTI, true)
	if err != nil {
		t.Fatalf("GetAccess() error = %v", err)
	}
	if gotAccess.JTI != access.JTI {
		t.Errorf("GetAccess() JTI = %v, want %v", gotAccess.JTI, access.JTI)
	}
}

func TestTokenEngine_Refresh_RevokesOldPairAndIssuesNew(t *testing.T) {
	engine, access, refresh := newTestTokenEngine()
	ctx := context.Background()
	userID := uuid.New()

	oldAccess, oldRefresh, err := engine.Issue(ctx, userID, domain.RealmMobile, "BIZCODE", "1.1.1.1", "a")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	newAccess, newRefresh, err := engine.Refresh(ctx, oldRefresh.JTI, "2.2.2.2", "b")
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if newAccess.JTI == oldAccess.JTI || newRefresh.JTI == oldRefresh.JTI {
		t.Error("Refresh() must mint fresh jtis, not reuse the old pair")
	}

	if !access.rows[oldAccess.JTI].Revoked {
		t.Error("old access token was not revoked")
	}
	if !refresh.rows[oldRefresh.JTI].Revoked {
		t.Error("old refresh token was not revoked")
	}

	_, err = engine.GetRefresh(ctx, oldRefresh.JTI, true)
	if apperr.KindOf(err) != apperr.KindBadRequest {
		t.Error("old refresh token should no longer be alive")
	}
}

func TestTokenEngine_RevokeAccess_CascadesToRefresh(t *testing.T) {
	engine, _, refresh := newTestTokenEngine()
	ctx := context.Background()
	userID := uuid.New()

	access, refreshToken, err := engine.Issue(ctx, userID, domain.RealmWeb, "", "", "")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if err := engine.RevokeAccess(ctx, access.JTI); err != nil {
		t.Fatalf("RevokeAccess() error = %v", err)
	}

	if !refresh.rows[refreshToken.JTI].Revoked {
		t.Error("revoking an access token must cascade to its paired refresh token")
	}
}

func TestTokenEngine_UserRevokesByJTI_FailsForOtherUsersToken(t *testing.T) {
	engine, _, _ := newTestTokenEngine()
	ctx := context.Background()

	access, _, err := engine.Issue(ctx, uuid.New(), domain.RealmWeb, "", "", "")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	err = engine.UserRevokesByJTI(ctx, uuid.New(), access.JTI)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("KindOf(err) = %v, want KindNotFound for a token owned by someone else", apperr.KindOf(err))
	}
}

func TestTokenEngine_RevokeAllExceptCurrent(t *testing.T) {
	engine, _, _ := newTestTokenEngine()
	ctx := context.Background()
	userID := uuid.New()

	keep, keepRefresh, err := engine.Issue(ctx, userID, domain.RealmMobile, "BIZCODE", "", "")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	other1, otherRefresh1, _ := engine.Issue(ctx, userID, domain.RealmMobile, "BIZCODE", "", "")
	other2, _, _ := engine.Issue(ctx, userID, domain.RealmMobile, "BIZCODE", "", "")

	count, err := engine.RevokeAllExceptCurrent(ctx, userID, domain.RealmMobile, "BIZCODE", keep.JTI)
	if err != nil {
		t.Fatalf("RevokeAllExceptCurrent() error = %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	if _, err := engine.GetAccess(ctx, keep.JTI, true); err != nil {
		t.Error("the excluded token must remain alive")
	}
	if _, err := engine.GetRefresh(ctx, keepRefresh.JTI, true); err != nil {
		t.Error("the excluded pair's refresh token must remain alive, not just its access token")
	}
	if _, err := engine.GetAccess(ctx, other1.JTI, true); err == nil {
		t.Error("other1 should have been revoked")
	}
	if _, err := engine.GetRefresh(ctx, otherRefresh1.JTI, true); err == nil {
		t.Error("other1's refresh token should have been revoked too")
	}
	if _, err := engine.GetAccess(ctx, other2.JTI, true); err == nil {
		t.Error("other2 should have been revoked")
	}
}
