package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/testutil"
	"go-inventory-api/pkg/jwt"
)

func newAuth(t *testing.T) (AuthService, repository.TokenRepository) {
	db := testutil.NewDB(t)
	manager, err := jwt.NewManager("test-secret", time.Hour)
	require.NoError(t, err)
	tokens := repository.NewTokenRepo(db)
	return NewAuthService(repository.NewUserRepo(db), tokens, manager, nil), tokens
}

func TestRegisterLoginMeLogout(t *testing.T) {
	auth, _ := newAuth(t)

	user, err := auth.Register(RegisterRequest{Name: "Ani", Email: "Ani@Example.com", Password: "abcd", PasswordConfirmation: "abcd"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.Equal(t, "ani@example.com", user.Email)

	result, err := auth.Login(LoginRequest{Email: "ani@example.com", Password: "abcd"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	principal, err := auth.Authenticate(result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.User.ID)
	assert.Equal(t, user.ID, principal.Actor().ID)

	me, err := auth.Me(principal.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ani", me.Name)

	require.NoError(t, auth.Logout(principal.TokenID))
	_, err = auth.Authenticate(result.Token)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestRegisterValidation(t *testing.T) {
	auth, _ := newAuth(t)

	_, err := auth.Register(RegisterRequest{Name: "", Email: "x", Password: "abc", PasswordConfirmation: "zzz"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"email", "name", "password", "password_confirmation"}, verr.Errors.Fields())

	_, err = auth.Register(RegisterRequest{Name: "A", Email: "a@example.com", Password: "abcd", PasswordConfirmation: "abcd"})
	require.NoError(t, err)

	_, err = auth.Register(RegisterRequest{Name: "B", Email: "a@example.com", Password: "abcd", PasswordConfirmation: "abcd"})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"email sudah terdaftar."}, verr.Errors["email"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth, _ := newAuth(t)
	_, err := auth.Register(RegisterRequest{Name: "A", Email: "a@example.com", Password: "abcd", PasswordConfirmation: "abcd"})
	require.NoError(t, err)

	_, err = auth.Login(LoginRequest{Email: "a@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(LoginRequest{Email: "nobody@example.com", Password: "abcd"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateRejectsExpiredRow(t *testing.T) {
	auth, tokens := newAuth(t)
	_, err := auth.Register(RegisterRequest{Name: "A", Email: "a@example.com", Password: "abcd", PasswordConfirmation: "abcd"})
	require.NoError(t, err)
	result, err := auth.Login(LoginRequest{Email: "a@example.com", Password: "abcd"})
	require.NoError(t, err)

	principal, err := auth.Authenticate(result.Token)
	require.NoError(t, err)

	// Expire the row while the JWT itself is still valid.
	purged, err := tokens.PurgeExpired(time.Now().Add(2 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = auth.Authenticate(result.Token)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	_, err = tokens.FindByID(principal.TokenID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = auth.Authenticate("garbage")
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	assert.NoError(t, auth.Logout(uuid.New()))
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	auth, _ := newAuth(t)

	created, err := auth.SeedAdmin("Administrator", "admin@example.com", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = auth.SeedAdmin("Administrator", "admin@example.com", "admin123")
	require.NoError(t, err)
	assert.False(t, created)

	result, err := auth.Login(LoginRequest{Email: "admin@example.com", Password: "admin123"})
	require.NoError(t, err)
	principal, err := auth.Authenticate(result.Token)
	require.NoError(t, err)
	assert.True(t, principal.User.IsAdmin())
}
