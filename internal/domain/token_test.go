package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewTokenPair(t *testing.T) {
	userID := uuid.New()
	now := time.Now().UTC()

	access, refresh := NewTokenPair(userID, RealmMobile, "ABCDEFGHIJKLMNOP", "1.2.3.4", "curl/8", now)

	if access.RefreshTokenID != refresh.JTI {
		t.Error("access.RefreshTokenID must equal refresh.JTI")
	}
	if refresh.AccessTokenID != access.JTI {
		t.Error("refresh.AccessTokenID must equal access.JTI")
	}
	if access.UserID != refresh.UserID || access.UserID != userID {
		t.Error("pair must share user_id")
	}
	if access.Realm != refresh.Realm {
		t.Error("pair must share realm")
	}
	if access.BusinessCode != refresh.BusinessCode {
		t.Error("pair must share business_code")
	}
	if !access.IssuedAt.Equal(now) || !refresh.IssuedAt.Equal(now) {
		t.Error("pair must share issued_at")
	}
	if !access.ExpiresAt.After(access.IssuedAt) {
		t.Error("access.IssuedAt must precede access.ExpiresAt")
	}
	if !refresh.ExpiresAt.After(refresh.IssuedAt) {
		t.Error("refresh.IssuedAt must precede refresh.ExpiresAt")
	}
	if access.ExpiresAt.Sub(access.IssuedAt) != AccessTokenDuration {
		t.Errorf("access duration = %v, want %v", access.ExpiresAt.Sub(access.IssuedAt), AccessTokenDuration)
	}
	if refresh.ExpiresAt.Sub(refresh.IssuedAt) != RefreshTokenDuration {
		t.Errorf("refresh duration = %v, want %v", refresh.ExpiresAt.Sub(refresh.IssuedAt), RefreshTokenDuration)
	}
}

func TestAccessToken_IsAlive(t *testing.T) {
	now := time.Now().UTC()
	access, _ := NewTokenPair(uuid.New(), RealmWeb, "", "", "", now)

	if !access.IsAlive(now) {
		t.Error("freshly issued access token should be alive")
	}
	if access.IsAlive(access.ExpiresAt) {
		t.Error("access token must not be alive at exactly expires_at")
	}
	if !access.IsAlive(access.ExpiresAt.Add(-time.Nanosecond)) {
		t.Error("access token must be alive just before expires_at")
	}

	access.Revoked = true
	if access.IsAlive(now) {
		t.Error("revoked access token must not be alive")
	}
}

func TestRefreshToken_IsAlive(t *testing.T) {
	now := time.Now().UTC()
	_, refresh := NewTokenPair(uuid.New(), RealmWeb, "", "", "", now)

	if !refresh.IsAlive(now) {
		t.Error("freshly issued refresh token should be alive")
	}
	refresh.Revoked = true
	if refresh.IsAlive(now) {
		t.Error("revoked refresh token must not be alive")
	}
}

func TestOTP_Liveness(t *testing.T) {
	now := time.Now().UTC()
	otp := NewOTP("+15551234567", "ABCDEFGHIJKLMNOP", RealmMobile, "123456", now, 5*time.Minute)

	if !otp.IsLive(now) {
		t.Error("freshly sent OTP should be live")
	}
	if otp.IsLive(otp.ExpiresAt) {
		t.Error("OTP must not be live at exactly expires_at")
	}

	t.Run("used", func(t *testing.T) {
		o := NewOTP("+15551234567", "ABCDEFGHIJKLMNOP", RealmMobile, "123456", now, 5*time.Minute)
		o.MarkUsed()
		if o.IsLive(now) {
			t.Error("used OTP must not be live")
		}
		o.MarkUsed()
		if !o.Used {
			t.Error("MarkUsed must be idempotent")
		}
	})

	t.Run("revoked", func(t *testing.T) {
		o := NewOTP("+15551234567", "ABCDEFGHIJKLMNOP", RealmMobile, "123456", now, 5*time.Minute)
		o.Revoke()
		if o.IsLive(now) {
			t.Error("revoked OTP must not be live")
		}
	})
}
