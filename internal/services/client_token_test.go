package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientTokenRoundTrip(t *testing.T) {
	m := NewClientTokenManager("secret")
	id := uuid.New()

	token, err := m.Generate(id, "pro")
	require.NoError(t, err)

	got, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestClientTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewClientTokenManager("secret").Generate(uuid.New(), "pro")
	require.NoError(t, err)

	_, err = NewClientTokenManager("other").Validate(token)
	assert.ErrorIs(t, err, ErrInvalidClientToken)
}

func TestClientTokenExpires(t *testing.T) {
	m := NewClientTokenManager("secret")
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	token, err := m.Generate(uuid.New(), "starter")
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(ClientTokenDuration + time.Minute) }
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidClientToken)
}

func TestClientTokenRejectsOtherAlgorithms(t *testing.T) {
	claims := ClientClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject: uuid.NewString(),
		Issuer:  clientTokenIssuer,
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewClientTokenManager("secret").Validate(token)
	assert.ErrorIs(t, err, ErrInvalidClientToken)

	_, err = NewClientTokenManager("secret").Validate("")
	assert.ErrorIs(t, err, ErrInvalidClientToken)
}
