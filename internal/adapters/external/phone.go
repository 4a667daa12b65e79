package external

import (
	"errors"
	"regexp"
)

// ErrInvalidPhone is returned when the input does not match the relaxed
// phone pattern the normalizer accepts.
var ErrInvalidPhone = errors.New("phone number does not match expected pattern")

// phonePattern extracts country code, area code, and three digit groups
// from a relaxed, loosely-punctuated phone number.
var phonePattern = regexp.MustCompile(`^\+?(\d{1,3})[\s.-]?\(?(\d{2,4})\)?[\s.-]?(\d{2,4})[\s.-]?(\d{2,4})[\s.-]?(\d{0,4})$`)

// RegexPhoneNormalizer implements ports.PhoneNormalizer.
type RegexPhoneNormalizer struct{}

// NewRegexPhoneNormalizer creates a new phone normalizer.
func NewRegexPhoneNormalizer() *RegexPhoneNormalizer { return &RegexPhoneNormalizer{} }

// Normalize extracts country, area, and digit groups from raw and emits
// "+{country}{area}{g1}{g2}{g3}". Input that does not match is rejected.
func (n *RegexPhoneNormalizer) Normalize(raw string) (string, error) {
	m := phonePattern.FindStringSubmatch(raw)
	if m == nil {
		return "", ErrInvalidPhone
	}
	country, area, g1, g2, g3 := m[1], m[2], m[3], m[4], m[5]
	if country == "" || area == "" || g1 == "" {
		return "", ErrInvalidPhone
	}
	return "+" + country + area + g1 + g2 + g3, nil
}
