package external

import "testing"

func TestSecureOTPGenerator_Generate(t *testing.T) {
	generator := NewSecureOTPGenerator()

	otp1 := generator.Generate(6)
	otp2 := generator.Generate(6)

	if len(otp1) != 6 {
		t.Errorf("OTP length = %d, want 6", len(otp1))
	}

	for _, c := range otp1 {
		if c < '0' || c > '9' {
			t.Errorf("OTP contains non-digit character: %c", c)
		}
	}

	if otp1 == otp2 {
		t.Log("Warning: two consecutive OTPs were the same (unlikely but possible)")
	}
}

func TestSecureOTPGenerator_LengthVariants(t *testing.T) {
	generator := NewSecureOTPGenerator()

	for _, length := range []int{4, 6, 8, 16} {
		otp := generator.Generate(length)
		if len(otp) != length {
			t.Errorf("Generate(%d) produced code of length %d, want %d", length, len(otp), length)
		}
	}
}

func TestSecureOTPGenerator_DefaultsOnInvalidLength(t *testing.T) {
	generator := NewSecureOTPGenerator()
	if got := len(generator.Generate(0)); got != 6 {
		t.Errorf("Generate(0) length = %d, want 6 (default)", got)
	}
}

func TestSecureOTPGenerator_LeadingZeros(t *testing.T) {
	generator := NewSecureOTPGenerator()

	hasLeadingZero := false
	for i := 0; i < 100; i++ {
		otp := generator.Generate(6)
		if otp[0] == '0' {
			hasLeadingZero = true
			break
		}
	}

	if !hasLeadingZero {
		t.Log("Note: No OTP with leading zero found in 100 tries (unlikely but possible)")
	}
}
