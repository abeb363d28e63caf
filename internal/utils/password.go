package utils

import (
	"unicode"
	"unicode/utf8"
)

const MinPasswordLength = 8

// PasswordPolicyViolations lists what a password is missing under the
// registration policy. Empty means the password is acceptable.
func PasswordPolicyViolations(pw string) []string {
	var (
		upper, digit, symbol bool
		out                  []string
	)
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	if utf8.RuneCountInString(pw) < MinPasswordLength {
		out = append(out, "Must be at least 8 characters")
	}
	if !upper {
		out = append(out, "Must include an uppercase letter")
	}
	if !digit {
		out = append(out, "Must include a number")
	}
	if !symbol {
		out = append(out, "Must include a symbol")
	}
	return out
}
