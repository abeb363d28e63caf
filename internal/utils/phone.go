package utils

import (
	"errors"
	"strings"
)

var (
	ErrEmptyPhone     = errors.New("phone number is required")
	ErrInvalidPhone   = errors.New("invalid phone number")
	ErrInvalidCountry = errors.New("invalid country code")
)

const malaysia = "60"

// NormaliseE164 builds "+<cc><national>" from a country code selector such as
// "+60" and whatever the user typed into the phone box. Non-digits are
// dropped, a repeated country prefix and the Malaysian trunk 0 are removed.
func NormaliseE164(countryCode, raw string) (string, error) {
	cc := digitsOnly(countryCode)
	if cc == "" || len(cc) > 3 {
		return "", ErrInvalidCountry
	}
	national := digitsOnly(raw)
	if national == "" {
		return "", ErrEmptyPhone
	}

	// "+60 60123..." or "0060123..."
	national = strings.TrimPrefix(national, "00"+cc)
	if strings.HasPrefix(national, cc) && len(national)-len(cc) >= 7 {
		national = national[len(cc):]
	}
	if cc == malaysia {
		national = strings.TrimPrefix(national, "0")
		if len(national) < 9 || len(national) > 11 {
			return "", ErrInvalidPhone
		}
	}
	if len(national) < 4 || len(cc)+len(national) > 15 {
		return "", ErrInvalidPhone
	}
	return "+" + cc + national, nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
