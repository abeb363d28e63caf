package services

import (
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	HashPassword(plain string) (string, error)
	// CheckPassword reports whether plain matches hash. needsRehash is set
	// when hash is a legacy format that should be replaced with bcrypt.
	CheckPassword(hash, plain string) (ok, needsRehash bool)
}

type authService struct {
	cost int
}

func NewAuthService() AuthService {
	return &authService{cost: bcrypt.DefaultCost}
}

// newAuthServiceWithCost lets tests use the minimum bcrypt cost.
func newAuthServiceWithCost(cost int) AuthService {
	return &authService{cost: cost}
}

func (s *authService) HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), s.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *authService) CheckPassword(hash, plain string) (bool, bool) {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return false, false
	}
	if strings.HasPrefix(hash, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil, false
	}
	if isLegacySHA1(hash) {
		sum := sha1.Sum([]byte(plain))
		got := hex.EncodeToString(sum[:])
		ok := subtle.ConstantTimeCompare([]byte(got), []byte(strings.ToLower(hash))) == 1
		return ok, ok
	}
	return false, false
}

// accounts imported from the old storefront carry unsalted sha1 hex
func isLegacySHA1(h string) bool {
	if len(h) != 40 {
		return false
	}
	_, err := hex.DecodeString(h)
	return err == nil
}
