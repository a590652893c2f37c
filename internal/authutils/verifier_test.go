package authutils

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sequence-server/internal/models"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims *models.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestNewJWTVerifier_EmptySecret(t *testing.T) {
	_, err := NewJWTVerifier("", nil)
	assert.Error(t, err)
}

func TestVerifyToken_Valid(t *testing.T) {
	v, err := NewJWTVerifier(testSecret, nil)
	require.NoError(t, err)

	userID := uuid.New()
	tokenString := signToken(t, testSecret, &models.Claims{
		UserID: userID,
		Roles:  []string{"user"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := v.VerifyToken(context.Background(), tokenString)

	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, []string{"user"}, claims.Roles)
}

func TestVerifyToken_Expired(t *testing.T) {
	v, err := NewJWTVerifier(testSecret, nil)
	require.NoError(t, err)

	tokenString := signToken(t, testSecret, &models.Claims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	_, err = v.VerifyToken(context.Background(), tokenString)
	assert.ErrorIs(t, err, models.ErrTokenExpired)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	v, err := NewJWTVerifier(testSecret, nil)
	require.NoError(t, err)

	tokenString := signToken(t, "other-secret", &models.Claims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err = v.VerifyToken(context.Background(), tokenString)
	assert.ErrorIs(t, err, models.ErrTokenInvalid)
}

func TestVerifyToken_Malformed(t *testing.T) {
	v, err := NewJWTVerifier(testSecret, nil)
	require.NoError(t, err)

	_, err = v.VerifyToken(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, models.ErrTokenMalformed)
}

func TestVerifyToken_MissingUserID(t *testing.T) {
	v, err := NewJWTVerifier(testSecret, nil)
	require.NoError(t, err)

	tokenString := signToken(t, testSecret, &models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err = v.VerifyToken(context.Background(), tokenString)
	assert.ErrorIs(t, err, models.ErrTokenInvalid)
}
