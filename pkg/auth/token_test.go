package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService([]byte("test-secret"))
	require.NoError(t, err)
	return ts
}

func TestNewTokenService(t *testing.T) {
	_, err := NewTokenService(nil)
	assert.Error(t, err, "an empty secret must be rejected")
}

func TestUserTokenRoundTrip(t *testing.T) {
	ts := newTestService(t)

	token, err := ts.IssueUserToken("u1")
	require.NoError(t, err)

	claims, err := ts.VerifyUserToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, PrincipalUser, claims.Kind())
}

func TestAdminTokenRoundTrip(t *testing.T) {
	ts := newTestService(t)

	token, err := ts.IssueAdminToken("root")
	require.NoError(t, err)

	claims, err := ts.VerifyAdminToken(token)
	require.NoError(t, err)
	assert.Equal(t, "root", claims.Username)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, PrincipalAdmin, claims.Kind())
}

func TestVerifyRejectsGarbage(t *testing.T) {
	ts := newTestService(t)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := ts.VerifyUserToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
		_, err = ts.VerifyAdminToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	ts := newTestService(t)
	other, err := NewTokenService([]byte("other-secret"))
	require.NoError(t, err)

	token, err := other.IssueUserToken("u1")
	require.NoError(t, err)

	_, err = ts.VerifyUserToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpiry(t *testing.T) {
	ts := newTestService(t)

	issued := time.Now()
	ts.now = func() time.Time { return issued }

	token, err := ts.IssueUserToken("u1")
	require.NoError(t, err)

	// Just inside the lifetime the token still verifies
	ts.now = func() time.Time { return issued.Add(TokenLifetime - time.Minute) }
	_, err = ts.VerifyUserToken(token)
	assert.NoError(t, err)

	// Past the lifetime it does not
	ts.now = func() time.Time { return issued.Add(TokenLifetime + time.Minute) }
	_, err = ts.VerifyUserToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// The two token namespaces never cross: a user token fails admin verification
// and an admin token fails user verification.
func TestTokenNamespacesAreDisjoint(t *testing.T) {
	ts := newTestService(t)

	userToken, err := ts.IssueUserToken("u1")
	require.NoError(t, err)
	_, err = ts.VerifyAdminToken(userToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	adminToken, err := ts.IssueAdminToken("root")
	require.NoError(t, err)
	_, err = ts.VerifyUserToken(adminToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
