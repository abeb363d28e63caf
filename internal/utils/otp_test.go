package utils

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP_Range(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestHashOTP(t *testing.T) {
	h := HashOTP("123456", "pepper")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashOTP("123456", "pepper"))
	assert.NotEqual(t, h, HashOTP("123456", "other"))
	assert.NotEqual(t, h, HashOTP("123457", "pepper"))
}

func TestVerifyOTP(t *testing.T) {
	stored := HashOTP("654321", "p")

	assert.True(t, VerifyOTP("654321", "p", stored))
	assert.False(t, VerifyOTP("654320", "p", stored))
	assert.False(t, VerifyOTP("654321", "q", stored))
	assert.False(t, VerifyOTP("", "p", stored))
}
