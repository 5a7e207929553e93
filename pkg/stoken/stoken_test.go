package stoken_test

import (
	"testing"
	"time"

	"github.com/dietlog/server/pkg/stoken"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("someSecret")

func TestNewJWT(t *testing.T) {
	jwtToken, err := stoken.NewJWT("someID", stoken.AccessToken, time.Hour, secret)
	require.NoError(t, err)

	token, err := stoken.ValidateJWT(jwtToken, stoken.AccessToken, secret)
	require.NoError(t, err)
	assert.True(t, token.Valid)

	claims, err := stoken.GetClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "someID", claims.Subject)
	assert.Equal(t, stoken.AccessToken, claims.TokenType)
}

func TestFailValidate(t *testing.T) {
	jwtToken, err := stoken.NewJWT("someID", stoken.AccessToken, time.Hour, secret)
	require.NoError(t, err)

	token, err := stoken.ValidateJWT(jwtToken, stoken.AccessToken, []byte("wrongSecret"))
	assert.Error(t, err)
	assert.Nil(t, token)

	_, err = stoken.ValidateJWT(jwtToken, stoken.RefreshToken, secret)
	assert.ErrorIs(t, err, stoken.ErrInvalidTokenType)
}

func TestExpiredToken(t *testing.T) {
	jwtToken, err := stoken.NewJWT("someID", stoken.AccessToken, -time.Minute, secret)
	require.NoError(t, err)

	_, err = stoken.ValidateJWT(jwtToken, stoken.AccessToken, secret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestRejectsOtherAlgorithms(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, stoken.DefaultClaims{TokenType: stoken.AccessToken})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = stoken.ValidateJWT(raw, stoken.AccessToken, secret)
	assert.Error(t, err)
}
