package utils_test

import (
	"testing"

	"github.com/apphgio/tools_platform_app/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashRefreshTokenDeterministic(t *testing.T) {
	raw, err := utils.GenerateSecureRandomString(32)
	require.NoError(t, err)
	assert.Len(t, raw, 64)

	assert.Equal(t, utils.HashRefreshToken(raw), utils.HashRefreshToken(raw))
	assert.NotEqual(t, raw, utils.HashRefreshToken(raw))
}

func TestCompareRefreshTokenHash(t *testing.T) {
	hash := utils.HashRefreshToken("token-a")

	assert.True(t, utils.CompareRefreshTokenHash("token-a", hash))
	assert.False(t, utils.CompareRefreshTokenHash("token-b", hash))
}

func TestGenerateSecureRandomStringRejectsNonPositiveLength(t *testing.T) {
	_, err := utils.GenerateSecureRandomString(0)
	assert.Error(t, err)
}
