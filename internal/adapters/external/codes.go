package external

import "crypto/rand"

const uppercaseAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// RandomCodeGenerator implements ports.CodeGenerator: uppercase-ASCII
// business codes and zero-padded decimal client QR/reference codes, both
// drawn from crypto/rand per the random-identifier format.
type RandomCodeGenerator struct{}

// NewRandomCodeGenerator creates a new code generator.
func NewRandomCodeGenerator() *RandomCodeGenerator { return &RandomCodeGenerator{} }

// BusinessCode returns a fresh length-16 uppercase-ASCII code.
func (g *RandomCodeGenerator) BusinessCode() string {
	return randomUppercaseString(16)
}

// QRCode returns a fresh length-16 zero-padded decimal code.
func (g *RandomCodeGenerator) QRCode() string {
	return randomNumericString(16)
}

func randomUppercaseString(length int) string {
	out := make([]byte, length)
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing indicates a broken host RNG; degrade to a
		// fixed code rather than panicking mid-request.
		for i := range out {
			out[i] = 'A'
		}
		return string(out)
	}
	for i, b := range buf {
		out[i] = uppercaseAlphabet[int(b)%len(uppercaseAlphabet)]
	}
	return string(out)
}
