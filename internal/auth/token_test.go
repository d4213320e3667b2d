package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	m := NewTokenManager([]byte("super-secret"), 0, 0)

	access, err := m.IssueAccessToken(42)
	require.NoError(t, err)

	userID, err := m.VerifyAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)

	refresh, err := m.IssueRefreshToken(42)
	require.NoError(t, err)

	userID, err = m.VerifyRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := issuedAt
	m := NewTokenManager([]byte("secret"), 30*time.Minute, 7*24*time.Hour, WithClock(func() time.Time { return clock }))

	access, err := m.IssueAccessToken(7)
	require.NoError(t, err)
	refresh, err := m.IssueRefreshToken(7)
	require.NoError(t, err)

	clock = issuedAt.Add(29 * time.Minute)
	_, err = m.VerifyAccessToken(access)
	require.NoError(t, err)

	clock = issuedAt.Add(31 * time.Minute)
	_, err = m.VerifyAccessToken(access)
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = m.VerifyRefreshToken(refresh)
	require.NoError(t, err, "refresh token lives seven days")

	clock = issuedAt.Add(7*24*time.Hour + time.Second)
	_, err = m.VerifyRefreshToken(refresh)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenManager([]byte("right-secret"), 0, 0).IssueAccessToken(1)
	require.NoError(t, err)

	_, err = NewTokenManager([]byte("wrong-secret"), 0, 0).VerifyAccessToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := NewTokenManager([]byte("k"), 0, 0).VerifyAccessToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_TokenTypeIsEnforced(t *testing.T) {
	t.Parallel()

	m := NewTokenManager([]byte("secret"), 0, 0)

	access, err := m.IssueAccessToken(5)
	require.NoError(t, err)
	refresh, err := m.IssueRefreshToken(5)
	require.NoError(t, err)

	_, err = m.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.VerifyAccessToken(refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID:    9,
		TokenType: AccessToken,
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = NewTokenManager(secret, 0, 0).VerifyAccessToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_TokenWithoutTypeIsRejected(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	legacy := jwt.MapClaims{
		"id_usuario": 3,
		"exp":        time.Now().Add(time.Hour).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, legacy).SignedString(secret)
	require.NoError(t, err)

	m := NewTokenManager(secret, 0, 0)
	_, err = m.VerifyAccessToken(tok)
	assert.True(t, errors.Is(err, ErrWrongTokenType))
	_, err = m.VerifyRefreshToken(tok)
	assert.True(t, errors.Is(err, ErrWrongTokenType))
}

func TestIssuePair(t *testing.T) {
	t.Parallel()

	m := NewTokenManager([]byte("secret"), 0, 0)
	pair, err := m.IssuePair(11)
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	id, err := m.VerifyRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, uint(11), id)
}
