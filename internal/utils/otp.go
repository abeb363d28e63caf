package utils

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"math/big"
	"strconv"
)

const (
	otpMin = 100000
	otpMax = 999999
)

// GenerateOTP returns a uniformly random six digit code in [100000, 999999].
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+otpMin, 10), nil
}

// HashOTP is a keyed fast hash of the code's decimal form. It is not used for
// account passwords.
func HashOTP(code, pepper string) string {
	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(code))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyOTP compares in constant time.
func VerifyOTP(code, pepper, storedHash string) bool {
	got := HashOTP(code, pepper)
	return subtle.ConstantTimeCompare([]byte(got), []byte(storedHash)) == 1
}
