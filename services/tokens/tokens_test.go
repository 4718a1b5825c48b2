package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService("test-secret-key-for-testing")
}

func TestSessionTokenRoundTrip(t *testing.T) {
	svc := newTestService()

	token, err := svc.NewSessionToken("user-123", "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "user", claims.Role)
}

func TestParseSessionTokenBadSecret(t *testing.T) {
	token, err := newTestService().NewSessionToken("user-123", "user")
	require.NoError(t, err)

	other := NewService("a-different-secret")
	claims, err := other.ParseSessionToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestTempTokenRoundTrip(t *testing.T) {
	svc := newTestService()

	token, err := svc.NewTempToken("brie@example.com", "signup")
	require.NoError(t, err)

	claims, err := svc.ParseTempToken(token, "brie@example.com", "signup")
	require.NoError(t, err)
	assert.Equal(t, "brie@example.com", claims.Email)
	assert.Equal(t, "signup", claims.Purpose)
}

func TestParseTempTokenWrongEmailOrPurpose(t *testing.T) {
	svc := newTestService()

	token, err := svc.NewTempToken("brie@example.com", "signup")
	require.NoError(t, err)

	_, err = svc.ParseTempToken(token, "other@example.com", "signup")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ParseTempToken(token, "brie@example.com", "reset")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenScopesDoNotMix(t *testing.T) {
	svc := newTestService()

	temp, err := svc.NewTempToken("brie@example.com", "signup")
	require.NoError(t, err)
	_, err = svc.ParseSessionToken(temp)
	assert.ErrorIs(t, err, ErrWrongTokenScope)

	session, err := svc.NewSessionToken("user-123", "user")
	require.NoError(t, err)
	_, err = svc.ParseTempToken(session, "brie@example.com", "signup")
	assert.ErrorIs(t, err, ErrWrongTokenScope)
}
