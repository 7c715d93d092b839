package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"parcelbee/internal/domain"
	"parcelbee/internal/service/auth"
)

var secret = []byte("test-secret")

func TestTokens_IssueAndParse(t *testing.T) {
	tokens := auth.NewTokens(secret, 0)
	u := domain.User{ID: 7, Email: "a@example.com", Role: domain.RolePartner}

	raw, err := tokens.Issue(u)
	require.NoError(t, err)

	claims, err := tokens.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, int64(7), claims.UserID)
	require.Equal(t, "a@example.com", claims.Email)
	require.Equal(t, "partner", claims.Role)
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	require.Equal(t, auth.DefaultTokenTTL, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestTokens_RejectsWrongKey(t *testing.T) {
	raw, err := auth.NewTokens([]byte("other"), time.Hour).Issue(domain.User{ID: 1, Role: domain.RoleCustomer})
	require.NoError(t, err)

	_, err = auth.NewTokens(secret, time.Hour).Parse(raw)
	require.Error(t, err)
}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return raw
}

func TestTokens_RejectsExpired(t *testing.T) {
	past := time.Now().Add(-8 * 24 * time.Hour)
	raw := sign(t, jwt.SigningMethodHS256, secret, auth.Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(auth.DefaultTokenTTL)),
		},
	})

	_, err := auth.NewTokens(secret, 0).Parse(raw)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokens_RejectsOtherAlgorithms(t *testing.T) {
	now := time.Now()
	claims := auth.Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}

	raw := sign(t, jwt.SigningMethodHS512, secret, claims)
	_, err := auth.NewTokens(secret, 0).Parse(raw)
	require.Error(t, err)

	none := sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, claims)
	_, err = auth.NewTokens(secret, 0).Parse(none)
	require.Error(t, err)
}

func TestTokens_RequiresExpiryAndUser(t *testing.T) {
	raw := sign(t, jwt.SigningMethodHS256, secret, auth.Claims{UserID: 1})
	_, err := auth.NewTokens(secret, 0).Parse(raw)
	require.Error(t, err)

	raw = sign(t, jwt.SigningMethodHS256, secret, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	_, err = auth.NewTokens(secret, 0).Parse(raw)
	require.Error(t, err)
}

func TestTokens_Garbage(t *testing.T) {
	_, err := auth.NewTokens(secret, 0).Parse("not-a-token")
	require.Error(t, err)
}
