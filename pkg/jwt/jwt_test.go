package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/horizon-library/pkg/errors"
)

func TestManager_GenerateAndParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	tok, err := m.GenerateToken(7, "alice", "librarian")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), tok.ExpiresIn)

	claims, err := m.ParseToken(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "librarian", claims.Role)
	assert.Equal(t, "7", claims.Subject)
}

func TestManager_ParseToken_Failures(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	t.Run("过期Token", func(t *testing.T) {
		expired := NewManager("test-secret", -time.Minute)
		tok, err := expired.GenerateToken(1, "bob", "librarian")
		require.NoError(t, err)

		_, err = m.ParseToken(tok.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})

	t.Run("签名密钥不同", func(t *testing.T) {
		other := NewManager("other-secret", time.Hour)
		tok, err := other.GenerateToken(1, "bob", "librarian")
		require.NoError(t, err)

		_, err = m.ParseToken(tok.AccessToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("格式错误", func(t *testing.T) {
		_, err := m.ParseToken("not-a-jwt")
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("非HMAC签名算法", func(t *testing.T) {
		tok := gojwt.NewWithClaims(gojwt.SigningMethodNone, Claims{Role: "librarian"})
		s, err := tok.SignedString(gojwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.ParseToken(s)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}
