package services

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"bijou/internal/authz"
	"bijou/internal/middleware"
)

func TestPasswordHashing(t *testing.T) {
	svc := NewAuthService()

	hash, err := svc.HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", hash)

	require.True(t, svc.CheckPassword(hash, "s3cret-pass"))
	require.False(t, svc.CheckPassword(hash, "wrong-pass"))
	require.False(t, svc.CheckPassword("not-a-hash", "s3cret-pass"))
}

func TestIssueAccessToken(t *testing.T) {
	svc := NewAuthService()

	tokenStr, err := svc.IssueAccessToken(42, authz.RoleMember)
	require.NoError(t, err)

	claims := &middleware.Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return middleware.JWTKey, nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	require.Equal(t, 42, claims.UserID)
	require.Equal(t, authz.RoleMember, claims.Role)
	require.NotNil(t, claims.ExpiresAt)
}
