package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewTokenRoundTrip(t *testing.T) {
	token, err := SignPreviewToken("hello-world", "s3cret", time.Hour)
	require.NoError(t, err)

	claims, err := ValidatePreviewToken(token, "s3cret")
	require.NoError(t, err)
	assert.True(t, claims.Preview)
	assert.Equal(t, "hello-world", claims.Slug)
	assert.NotEmpty(t, claims.ID)
}

func TestPreviewTokenRejectsWrongSecret(t *testing.T) {
	token, err := SignPreviewToken("x", "s3cret", time.Hour)
	require.NoError(t, err)

	_, err = ValidatePreviewToken(token, "other")
	assert.True(t, errors.Is(err, ErrInvalidPreviewToken))
}

func TestPreviewTokenRejectsExpired(t *testing.T) {
	token, err := SignPreviewToken("x", "s3cret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidatePreviewToken(token, "s3cret")
	assert.ErrorIs(t, err, ErrInvalidPreviewToken)
}

func TestPreviewTokenRejectsOtherAlgorithms(t *testing.T) {
	claims := PreviewClaims{Preview: true, RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidatePreviewToken(unsigned, "s3cret")
	assert.ErrorIs(t, err, ErrInvalidPreviewToken)
}

func TestPreviewTokenRequiresSecret(t *testing.T) {
	_, err := SignPreviewToken("x", "", time.Hour)
	assert.Error(t, err)

	_, err = ValidatePreviewToken("abc", "")
	assert.ErrorIs(t, err, ErrInvalidPreviewToken)
}

func TestGenerators(t *testing.T) {
	assert.Len(t, GenerateULID(), 26)

	key, err := GenerateSecureKey(64)
	require.NoError(t, err)
	assert.Len(t, key, 64)

	assert.True(t, SecretsEqual("abc", "abc"))
	assert.False(t, SecretsEqual("abc", "abd"))
	assert.False(t, SecretsEqual("", "abc"))
}
