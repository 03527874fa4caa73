package services_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore/internal/domain"
	"bookstore/internal/repos"
	"bookstore/internal/services"
)

func newAuth(t *testing.T) *services.AuthService {
	t.Helper()
	db := memdb(t)
	require.NoError(t, repos.EnsureAdmin(db, "admin", "admin123"))
	return services.NewAuthService(repos.NewUserRepo(db), "test-secret", time.Hour)
}

func TestLogin(t *testing.T) {
	auth := newAuth(t)

	tok, u, err := auth.Login("admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)

	claims, err := auth.Authorize(tok)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Name)
	assert.Equal(t, u.ID, claims.Subject)

	_, _, err = auth.Login("admin", "wrong-password")
	assert.True(t, errors.Is(err, services.ErrBadCreds))
	_, _, err = auth.Login("nobody", "admin123")
	assert.True(t, errors.Is(err, services.ErrBadCreds))
}

func TestAuthorize_RejectsEverythingButSignedAdminTokens(t *testing.T) {
	auth := newAuth(t)

	_, err := auth.Authorize("")
	assert.True(t, errors.Is(err, services.ErrUnauthorized))

	// long opaque strings are not credentials
	for _, tok := range []string{"admin-token", "this-is-a-very-long-token-string"} {
		_, err = auth.Authorize(tok)
		assert.True(t, errors.Is(err, services.ErrForbidden), tok)
	}

	u := &domain.User{ID: "u-admin", Name: "admin", Role: domain.RoleAdmin}

	other := services.NewAuthService(nil, "other-secret", time.Hour)
	forged, err := other.IssueToken(u)
	require.NoError(t, err)
	_, err = auth.Authorize(forged)
	assert.True(t, errors.Is(err, services.ErrForbidden))

	auth.Now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := auth.IssueToken(u)
	require.NoError(t, err)
	auth.Now = time.Now
	_, err = auth.Authorize(expired)
	assert.True(t, errors.Is(err, services.ErrForbidden))

	notAdmin, err := jwt.NewWithClaims(jwt.SigningMethodHS256, services.AdminClaims{
		Name: "bob", Role: "user",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "bookstore",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = auth.Authorize(notAdmin)
	assert.True(t, errors.Is(err, services.ErrForbidden))

	good, err := auth.IssueToken(u)
	require.NoError(t, err)
	_, err = auth.Authorize(good)
	assert.NoError(t, err)
}
