package auth

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/formation-app/centre-server/model"
)

func newTestResolver() (*Resolver, *mockUserStore, *mockStudentStore, *mockTrainerStore) {
	users := &mockUserStore{}
	etudiants := &mockStudentStore{}
	formateurs := &mockTrainerStore{}
	return NewResolver(users, etudiants, formateurs), users, etudiants, formateurs
}

func TestResolverLoginStrategy(t *testing.T) {
	resolver, users, etudiants, _ := newTestResolver()

	account := &model.User{ID: uuid.New(), Login: "admin", Role: model.RoleAdmin}
	users.On("GetByLogin", mock.Anything, "admin").Return(account, nil)

	res, err := resolver.Resolve(context.Background(), "admin")
	require.NoError(t, err)

	assert.Equal(t, ResolvedByLogin, res.Source)
	assert.Equal(t, account, res.User)
	assert.False(t, res.HasProfile())

	// the login strategy short-circuits, the email stores are never hit
	etudiants.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestResolverStudentEmailFallback(t *testing.T) {
	resolver, users, etudiants, _ := newTestResolver()

	account := &model.User{ID: uuid.New(), Login: "etu-1a2b3c4d", Role: model.RoleEtudiant}
	profile := &model.Etudiant{
		ID:     uuid.New(),
		Email:  "alice.petit@formation.com",
		UserID: &account.ID,
		User:   account,
	}

	users.On("GetByLogin", mock.Anything, "alice.petit@formation.com").Return(nil, sql.ErrNoRows)
	etudiants.On("GetByEmail", mock.Anything, "alice.petit@formation.com").Return(profile, nil)

	res, err := resolver.Resolve(context.Background(), "alice.petit@formation.com")
	require.NoError(t, err)

	assert.Equal(t, ResolvedByStudentEmail, res.Source)
	assert.Equal(t, account, res.User)
	assert.True(t, res.HasProfile())
	assert.Equal(t, profile.ID, res.ProfileID)
}

func TestResolverTrainerEmailFallback(t *testing.T) {
	resolver, users, etudiants, formateurs := newTestResolver()

	account := &model.User{ID: uuid.New(), Login: "form-9f8e7d6c", Role: model.RoleFormateur}
	profile := &model.Formateur{
		ID:     uuid.New(),
		Email:  "dupont@formation.com",
		UserID: &account.ID,
		User:   account,
	}

	users.On("GetByLogin", mock.Anything, "dupont@formation.com").Return(nil, sql.ErrNoRows)
	etudiants.On("GetByEmail", mock.Anything, "dupont@formation.com").Return(nil, sql.ErrNoRows)
	formateurs.On("GetByEmail", mock.Anything, "dupont@formation.com").Return(profile, nil)

	res, err := resolver.Resolve(context.Background(), "dupont@formation.com")
	require.NoError(t, err)

	assert.Equal(t, ResolvedByTrainerEmail, res.Source)
	assert.Equal(t, profile.ID, res.ProfileID)
}

// The same human reaches the same account whether they type their login
// or their profile email.
func TestResolverSamePrincipalByLoginAndEmail(t *testing.T) {
	resolver, users, etudiants, _ := newTestResolver()

	account := &model.User{ID: uuid.New(), Login: "etu-1a2b3c4d", Role: model.RoleEtudiant}
	profile := &model.Etudiant{
		ID:     uuid.New(),
		Email:  "alice.petit@formation.com",
		UserID: &account.ID,
		User:   account,
	}

	users.On("GetByLogin", mock.Anything, "etu-1a2b3c4d").Return(account, nil)
	users.On("GetByLogin", mock.Anything, "alice.petit@formation.com").Return(nil, sql.ErrNoRows)
	etudiants.On("GetByEmail", mock.Anything, "alice.petit@formation.com").Return(profile, nil)

	byLogin, err := resolver.Resolve(context.Background(), "etu-1a2b3c4d")
	require.NoError(t, err)

	byEmail, err := resolver.Resolve(context.Background(), "alice.petit@formation.com")
	require.NoError(t, err)

	assert.Equal(t, byLogin.User.ID, byEmail.User.ID)
}

func TestResolverOrphanProfileDistinctFromNotFound(t *testing.T) {
	resolver, users, etudiants, formateurs := newTestResolver()

	orphan := &model.Etudiant{
		ID:    uuid.New(),
		Email: "orphan@formation.com",
	}

	users.On("GetByLogin", mock.Anything, mock.Anything).Return(nil, sql.ErrNoRows)
	etudiants.On("GetByEmail", mock.Anything, "orphan@formation.com").Return(orphan, nil)
	etudiants.On("GetByEmail", mock.Anything, "nobody@formation.com").Return(nil, sql.ErrNoRows)
	formateurs.On("GetByEmail", mock.Anything, "nobody@formation.com").Return(nil, sql.ErrNoRows)

	t.Run("orphan profile", func(t *testing.T) {
		_, err := resolver.Resolve(context.Background(), "orphan@formation.com")
		assert.ErrorIs(t, err, ErrOrphanProfile)
	})

	t.Run("unknown identifier", func(t *testing.T) {
		_, err := resolver.Resolve(context.Background(), "nobody@formation.com")
		assert.ErrorIs(t, err, ErrIdentityNotFound)
	})
}

func TestResolverEmptyIdentifier(t *testing.T) {
	resolver, _, _, _ := newTestResolver()

	_, err := resolver.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrIdentityNotFound)
}

// ResolveLogin never consults the email stores, a token subject that
// happens to look like an email must not fall through the profiles.
func TestResolveLoginSkipsEmailStrategies(t *testing.T) {
	resolver, users, etudiants, formateurs := newTestResolver()

	users.On("GetByLogin", mock.Anything, "alice.petit@formation.com").Return(nil, sql.ErrNoRows)

	_, err := resolver.ResolveLogin(context.Background(), "alice.petit@formation.com")
	assert.ErrorIs(t, err, ErrIdentityNotFound)

	etudiants.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	formateurs.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}
