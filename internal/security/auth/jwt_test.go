package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
)

func TestGenerateAndValidateToken(t *testing.T) {
	tm := NewTokenManager("secret", "")
	token, err := tm.GenerateToken("user-1", domain.RoleStaff, "staff@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.Actor{ID: "user-1", Role: domain.RoleStaff}, claims.Actor())
	assert.Equal(t, "staff@example.com", claims.Email)
}

func TestGenerateTokenRejectsUnknownRole(t *testing.T) {
	tm := NewTokenManager("secret", "")
	_, err := tm.GenerateToken("user-1", domain.Role("owner"), "", time.Hour)
	assert.Error(t, err)
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	token, err := NewTokenManager("one", "").GenerateToken("user-1", domain.RoleAdmin, "", time.Hour)
	require.NoError(t, err)

	_, err = NewTokenManager("two", "").ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", "")
	token, err := tm.GenerateToken("user-1", domain.RoleAdmin, "", -time.Minute)
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.Error(t, err)
}

func TestExtractToken(t *testing.T) {
	tok, err := ExtractToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", tok)

	_, err = ExtractToken("Basic abc")
	assert.Error(t, err)
	_, err = ExtractToken("Bearer")
	assert.Error(t, err)
}
