package codec

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/vitalya420/loyalty-auth-core/internal/domain"
)

func TestCodec_EncodeDecodeRoundTrip(t *testing.T) {
	c := NewCodec("test-secret-key-32-chars-long!!")
	jti := uuid.New()
	userID := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)
	expires := now.Add(time.Hour)

	raw, err := c.Encode(jti, userID, domain.RealmMobile, "ABCDEFGHIJKLMNOP", TypeAccess, now, expires)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	claims, err := c.Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if claims.JTI != jti {
		t.Errorf("JTI = %v, want %v", claims.JTI, jti)
	}
	if claims.UserID != userID {
		t.Errorf("UserID = %v, want %v", claims.UserID, userID)
	}
	if claims.Realm != domain.RealmMobile {
		t.Errorf("Realm = %v, want %v", claims.Realm, domain.RealmMobile)
	}
	if claims.BusinessCode != "ABCDEFGHIJKLMNOP" {
		t.Errorf("BusinessCode = %v, want %v", claims.BusinessCode, "ABCDEFGHIJKLMNOP")
	}
	if claims.Type != TypeAccess {
		t.Errorf("Type = %v, want %v", claims.Type, TypeAccess)
	}
	if !claims.IssuedAt.Time.Equal(now) {
		t.Errorf("IssuedAt = %v, want %v", claims.IssuedAt.Time, now)
	}
	if !claims.ExpiresAt.Time.Equal(expires) {
		t.Errorf("ExpiresAt = %v, want %v", claims.ExpiresAt.Time, expires)
	}
}

func TestCodec_DecodeExpired(t *testing.T) {
	c := NewCodec("test-secret-key-32-chars-long!!")
	now := time.Now().UTC()
	raw, _ := c.Encode(uuid.New(), uuid.New(), domain.RealmWeb, "", TypeRefresh, now.Add(-2*time.Hour), now.Add(-time.Hour))

	if _, err := c.Decode(raw); err != ErrTokenExpired {
		t.Errorf("Decode() error = %v, want ErrTokenExpired", err)
	}

	claims, err := c.DecodeAllowExpired(raw)
	if err != nil {
		t.Fatalf("DecodeAllowExpired() error = %v", err)
	}
	if claims.Type != TypeRefresh {
		t.Errorf("Type = %v, want %v", claims.Type, TypeRefresh)
	}
}

func TestCodec_DecodeWrongSecret(t *testing.T) {
	c1 := NewCodec("secret-key-one-32-chars-long!!!")
	c2 := NewCodec("secret-key-two-32-chars-long!!!")
	now := time.Now().UTC()

	raw, _ := c1.Encode(uuid.New(), uuid.New(), domain.RealmWeb, "", TypeAccess, now, now.Add(time.Hour))

	if _, err := c2.Decode(raw); err == nil {
		t.Error("token signed with a different secret must fail to decode")
	}
}

func TestCodec_DecodeMalformed(t *testing.T) {
	c := NewCodec("test-secret-key-32-chars-long!!")
	if _, err := c.Decode("not.a.token"); err == nil {
		t.Error("malformed token must fail to decode")
	}
}
