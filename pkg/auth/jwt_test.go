package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugohenrick/chatbot-llm-web/internal/domain/user"
)

func newTestService(t *testing.T) *JWTService {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "chave-de-teste")
	service, err := NewJWTService()
	require.NoError(t, err)
	return service
}

func testUser() *user.User {
	return &user.User{
		ID:       "user-1",
		Username: "maria",
		Email:    "maria@example.com",
	}
}

func TestNewJWTServiceRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	_, err := NewJWTService()
	assert.ErrorIs(t, err, ErrMissingJWTKey)
}

func TestGenerateAndValidateToken(t *testing.T) {
	service := newTestService(t)

	token, err := service.GenerateToken(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "maria", claims.Username)
	assert.Equal(t, "maria@example.com", claims.Email)
	assert.Equal(t, "chatbot-llm-web-api", claims.Issuer)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	service := newTestService(t)

	_, err := service.ValidateToken("não-é-um-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	service := newTestService(t)
	token, err := service.GenerateToken(testUser())
	require.NoError(t, err)

	t.Setenv("JWT_SECRET_KEY", "outra-chave")
	other, err := NewJWTService()
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	service := newTestService(t)
	service.expiration = -time.Hour

	token, err := service.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenRejectsWrongSigningMethod(t *testing.T) {
	service := newTestService(t)

	// Token assinado com alg "none" deve ser rejeitado
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, JWTClaims{UserID: "user-1"})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
