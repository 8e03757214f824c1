package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/formation-app/centre-server/model"
)

func newTestAuther(t *testing.T) (*Auther, *mockUserStore, *mockStudentStore, *mockTrainerStore, *TokenServiceImpl) {
	t.Helper()

	resolver, users, etudiants, formateurs := newTestResolver()
	tokens := NewTokenService([]byte("test-signing-key"), time.Hour, nil)
	return NewAuthenticator(resolver, tokens), users, etudiants, formateurs, tokens
}

func seededUser(t *testing.T, login, password string, role model.UserRole) *model.User {
	t.Helper()

	hash, err := HashPassword(password)
	require.NoError(t, err)

	return &model.User{
		ID:           uuid.New(),
		Login:        login,
		PasswordHash: hash,
		Role:         role,
	}
}

func TestAutherLoginSuccess(t *testing.T) {
	auther, users, _, _, tokens := newTestAuther(t)

	account := seededUser(t, "admin", "admin", model.RoleAdmin)
	users.On("GetByLogin", mock.Anything, "admin").Return(account, nil)

	result, err := auther.Login(context.Background(), "admin", "admin")
	require.NoError(t, err)
	require.NotNil(t, result)

	subject, err := tokens.ExtractSubject(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", subject)
	assert.Equal(t, account, result.User)
}

func TestAutherLoginFailuresCollapse(t *testing.T) {
	auther, users, etudiants, formateurs, _ := newTestAuther(t)

	account := seededUser(t, "admin", "admin", model.RoleAdmin)
	orphan := &model.Etudiant{ID: uuid.New(), Email: "orphan@formation.com"}

	users.On("GetByLogin", mock.Anything, "admin").Return(account, nil)
	users.On("GetByLogin", mock.Anything, mock.Anything).Return(nil, sql.ErrNoRows)
	etudiants.On("GetByEmail", mock.Anything, "orphan@formation.com").Return(orphan, nil)
	etudiants.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, sql.ErrNoRows)
	formateurs.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, sql.ErrNoRows)

	cases := []struct {
		name       string
		identifier string
		password   string
	}{
		{"wrong password", "admin", "wrong"},
		{"unknown identifier", "nobody", "whatever"},
		{"orphan profile", "orphan@formation.com", "whatever"},
	}

	// wrong password, unknown identifier and orphan profile are
	// indistinguishable from outside
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := auther.Login(context.Background(), tc.identifier, tc.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

// Rejecting an unknown identifier still costs a bcrypt compare, so the
// two failure paths cannot be told apart by response time.
func TestAutherLoginUnknownIdentifierBurnsACompare(t *testing.T) {
	auther, users, etudiants, formateurs, _ := newTestAuther(t)

	users.On("GetByLogin", mock.Anything, mock.Anything).Return(nil, sql.ErrNoRows)
	etudiants.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, sql.ErrNoRows)
	formateurs.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, sql.ErrNoRows)

	start := time.Now()
	_, err := auther.Login(context.Background(), "nobody", "whatever")
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	// a compare at bcrypt.DefaultCost takes tens of milliseconds, the
	// resolver miss alone returns in microseconds
	assert.Greater(t, elapsed, 5*time.Millisecond)
}

func TestAutherCurrentUser(t *testing.T) {
	auther, users, _, _, _ := newTestAuther(t)

	account := seededUser(t, "admin", "admin", model.RoleAdmin)
	users.On("GetByLogin", mock.Anything, "admin").Return(account, nil)

	result, err := auther.Login(context.Background(), "admin", "admin")
	require.NoError(t, err)

	res, err := auther.CurrentUser(context.Background(), result.Token)
	require.NoError(t, err)

	assert.Equal(t, "admin", res.User.Login)
	assert.Equal(t, ResolvedByLogin, res.Source)
}

// The role carried back by CurrentUser is whatever the store holds now,
// not what it held when the token was issued.
func TestAutherCurrentUserSeesLiveRole(t *testing.T) {
	auther, users, _, _, _ := newTestAuther(t)

	account := seededUser(t, "bruno", "secret123", model.RoleEtudiant)
	users.On("GetByLogin", mock.Anything, "bruno").Return(account, nil)

	result, err := auther.Login(context.Background(), "bruno", "secret123")
	require.NoError(t, err)

	account.Role = model.RoleFormateur

	res, err := auther.CurrentUser(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, model.RoleFormateur, res.User.Role)
}

func TestAutherCurrentUserRejectsBadTokens(t *testing.T) {
	auther, users, _, _, _ := newTestAuther(t)

	users.On("GetByLogin", mock.Anything, mock.Anything).Return(nil, sql.ErrNoRows)

	t.Run("garbage token", func(t *testing.T) {
		_, err := auther.CurrentUser(context.Background(), "garbage")
		assert.ErrorIs(t, err, ErrTokenMalformed)
	})

	t.Run("subject no longer exists", func(t *testing.T) {
		tokens := auther.TokenService()
		token, err := tokens.Issue("deleted-user")
		require.NoError(t, err)

		_, err = auther.CurrentUser(context.Background(), token)
		assert.ErrorIs(t, err, ErrIdentityNotFound)
	})
}
