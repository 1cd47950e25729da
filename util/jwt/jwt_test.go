package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func verify(t *testing.T, token, key string) (*gojwt.Token, gojwt.MapClaims) {
	t.Helper()
	parsed, err := gojwt.Parse(token, func(*gojwt.Token) (interface{}, error) {
		return []byte(key), nil
	}, gojwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	return parsed, parsed.Claims.(gojwt.MapClaims)
}

func TestIssue_Claims(t *testing.T) {
	tok, err := Issue(secret, 42, "ana@example.com", 24)
	require.NoError(t, err)

	_, claims := verify(t, tok, secret)
	require.EqualValues(t, 42, claims["sub"])
	require.Equal(t, "ana@example.com", claims["email"])
	require.NotEmpty(t, claims["jti"])

	exp := time.Unix(int64(claims["exp"].(float64)), 0)
	require.WithinDuration(t, time.Now().Add(24*time.Hour), exp, time.Minute)
}

func TestIssue_SignedWithHS256(t *testing.T) {
	tok, err := Issue(secret, 1, "a@b.c", 1)
	require.NoError(t, err)

	parsed, _ := verify(t, tok, secret)
	require.Equal(t, gojwt.SigningMethodHS256, parsed.Method)
}

func TestIssue_WrongSecretFailsVerification(t *testing.T) {
	tok, err := Issue(secret, 1, "a@b.c", 1)
	require.NoError(t, err)

	_, err = gojwt.Parse(tok, func(*gojwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	}, gojwt.WithValidMethods([]string{"HS256"}))
	require.Error(t, err)
}

// Each token gets its own jti, so revoking one does not revoke the rest.
func TestIssue_UniqueJTIPerToken(t *testing.T) {
	a, err := Issue(secret, 1, "a@b.c", 1)
	require.NoError(t, err)
	b, err := Issue(secret, 1, "a@b.c", 1)
	require.NoError(t, err)

	_, ca := verify(t, a, secret)
	_, cb := verify(t, b, secret)
	require.NotEqual(t, ca["jti"], cb["jti"])
}
