package domain

import "testing"

func TestNewUser(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		wantErr error
	}{
		{"valid phone", "+15551234567", nil},
		{"missing plus", "15551234567", ErrInvalidPhone},
		{"too short", "+1555", ErrInvalidPhone},
		{"non-digit", "+1555abc4567", ErrInvalidPhone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := NewUser(tt.phone)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Fatalf("NewUser() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewUser() unexpected error = %v", err)
			}
			if user.Phone != tt.phone {
				t.Errorf("Phone = %v, want %v", user.Phone, tt.phone)
			}
			if user.IsAdmin {
				t.Error("a mobile-origin user must not be admin")
			}
			if user.HasPassword() {
				t.Error("a mobile-origin user must not have a password")
			}
		})
	}
}

func TestNewAdminUser(t *testing.T) {
	user, err := NewAdminUser("+15551234567", "bcrypt-hash")
	if err != nil {
		t.Fatalf("NewAdminUser() unexpected error = %v", err)
	}
	if !user.IsAdmin {
		t.Error("admin user must have IsAdmin=true")
	}
	if !user.HasPassword() {
		t.Error("admin user must have a password hash")
	}
}

func TestUser_CacheKeys(t *testing.T) {
	user, _ := NewUser("+15551234567")
	if got, want := user.CanonicalKey(), "users:"+user.ID.String(); got != want {
		t.Errorf("CanonicalKey() = %v, want %v", got, want)
	}
	refs := user.ReferenceKeys()
	if len(refs) != 1 || refs[0] != "ref:users:phone:+15551234567" {
		t.Errorf("ReferenceKeys() = %v", refs)
	}
	if UserCanonicalKey(user.ID) != user.CanonicalKey() {
		t.Error("UserCanonicalKey must mirror instance CanonicalKey")
	}
	if UserReferenceKeyByPhone(user.Phone) != refs[0] {
		t.Error("UserReferenceKeyByPhone must mirror instance ReferenceKeys")
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid password", "password123", false},
		{"exactly 8 chars", "12345678", false},
		{"too short", "1234567", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
