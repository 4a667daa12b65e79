package external

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// SecureOTPGenerator implements ports.OTPGenerator using crypto/rand.
//
// SECURITY: Why crypto/rand?
// ==========================
// - math/rand is not cryptographically secure.
// - crypto/rand uses the OS's cryptographic random number generator.
// - Ensures OTPs are truly random and unpredictable.
type SecureOTPGenerator struct{}

// NewSecureOTPGenerator creates a new OTP generator.
func NewSecureOTPGenerator() *SecureOTPGenerator { return &SecureOTPGenerator{} }

// Generate creates a zero-padded numeric code of the given length.
func (g *SecureOTPGenerator) Generate(length int) string {
	if length <= 0 {
		length = 6
	}
	return randomNumericString(length)
}

// randomNumericString returns a cryptographically random, zero-padded
// decimal string of the given length. Shared by the OTP generator and the
// client QR/reference code generator, which both need "length zero-padded
// decimal" per the random-identifier format.
func randomNumericString(length int) string {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		// crypto/rand failing indicates a broken host RNG; degrade to an
		// all-zero code rather than panicking mid-request.
		n = big.NewInt(0)
	}
	return fmt.Sprintf("%0*d", length, n)
}
