package utils

import "strings"

func NormaliseEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsEmail accepts a bare address with a dotted domain, no display name.
func IsEmail(s string) bool {
	if validate.Var(s, "required,email") != nil {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	return at > 0 && strings.Contains(s[at+1:], ".")
}
