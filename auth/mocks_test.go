package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/formation-app/centre-server/model"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type mockStudentStore struct {
	mock.Mock
}

func (m *mockStudentStore) GetByEmail(ctx context.Context, email string) (*model.Etudiant, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Etudiant), args.Error(1)
}

func (m *mockStudentStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Etudiant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Etudiant), args.Error(1)
}

type mockTrainerStore struct {
	mock.Mock
}

func (m *mockTrainerStore) GetByEmail(ctx context.Context, email string) (*model.Formateur, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Formateur), args.Error(1)
}

func (m *mockTrainerStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Formateur, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Formateur), args.Error(1)
}

var _ UserStore = (*mockUserStore)(nil)
var _ StudentStore = (*mockStudentStore)(nil)
var _ TrainerStore = (*mockTrainerStore)(nil)
