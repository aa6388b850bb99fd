package serverutils

import (
	"errors"
	"testing"
	"time"

	"health-portal-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, key string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer  abc "))
	assert.Empty(t, BearerToken("Basic abc"))
	assert.Empty(t, BearerToken(""))
}

func TestParseUserId(t *testing.T) {
	SetJwtSecret("s3cret")
	exp := time.Now().Add(time.Hour).Unix()

	uid, err := ParseUserId(sign(t, "s3cret", jwt.MapClaims{"sub": "user-1", "exp": exp}))
	require.NoError(t, err)
	assert.Equal(t, "user-1", uid)

	uid, err = ParseUserId(sign(t, "s3cret", jwt.MapClaims{"user_id": "legacy-9", "exp": exp}))
	require.NoError(t, err)
	assert.Equal(t, "legacy-9", uid)

	_, err = ParseUserId(sign(t, "other", jwt.MapClaims{"sub": "user-1", "exp": exp}))
	assert.Error(t, err, "wrong key")

	_, err = ParseUserId(sign(t, "s3cret", jwt.MapClaims{"sub": "user-1", "exp": time.Now().Add(-time.Minute).Unix()}))
	assert.Error(t, err, "expired")

	_, err = ParseUserId(sign(t, "s3cret", jwt.MapClaims{"exp": exp}))
	assert.Error(t, err, "no subject")
}

func TestParseUserId_Issuer(t *testing.T) {
	SetJwtSecret("s3cret")
	SetJwtIssuer("https://id.example.org")
	t.Cleanup(func() { SetJwtIssuer("") })
	exp := time.Now().Add(time.Hour).Unix()

	uid, err := ParseUserId(sign(t, "s3cret", jwt.MapClaims{"sub": "user-1", "iss": "https://id.example.org", "exp": exp}))
	require.NoError(t, err)
	assert.Equal(t, "user-1", uid)

	_, err = ParseUserId(sign(t, "s3cret", jwt.MapClaims{"sub": "user-1", "iss": "https://elsewhere", "exp": exp}))
	assert.Error(t, err)

	_, err = ParseUserId(sign(t, "s3cret", jwt.MapClaims{"sub": "user-1", "exp": exp}))
	assert.Error(t, err)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, fiber.StatusBadRequest, StatusFor(apperror.Validation("x")))
	assert.Equal(t, fiber.StatusUnauthorized, StatusFor(apperror.Unauthorized("x")))
	assert.Equal(t, fiber.StatusForbidden, StatusFor(apperror.Forbidden("x")))
	assert.Equal(t, fiber.StatusNotFound, StatusFor(apperror.NotFound("x")))
	assert.Equal(t, fiber.StatusInternalServerError, StatusFor(apperror.Internal("x", nil)))
	assert.Equal(t, fiber.StatusTeapot, StatusFor(fiber.NewError(fiber.StatusTeapot, "tea")))
	assert.Equal(t, fiber.StatusInternalServerError, StatusFor(errors.New("boom")))
}

func TestPublicMessageHidesUnknownErrors(t *testing.T) {
	assert.Equal(t, "Internal server error", publicMessage(errors.New("pq: connection refused"), fiber.StatusInternalServerError))
	assert.Equal(t, "Failed to load", publicMessage(apperror.Internal("Failed to load", errors.New("pq: timeout")), fiber.StatusInternalServerError))
}

type sampleRequest struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(&sampleRequest{Name: "a", Email: "a@example.com"}))

	err := ValidateRequest(&sampleRequest{Email: "nope"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Equal(t, "Name is required, Email must be a valid email", err.Error())
}
