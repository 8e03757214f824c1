package service

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/formation-app/centre-server/auth"
	"github.com/formation-app/centre-server/repository"
)

// Accounts covers self service operations on user accounts.
type Accounts struct {
	repos  repository.Manager
	logger auth.Logger
}

func NewAccounts(repos repository.Manager) *Accounts {
	return &Accounts{
		repos:  repos,
		logger: auth.DefaultLogger(),
	}
}

func (a *Accounts) WithLogger(logger auth.Logger) *Accounts {
	a.logger = logger
	return a
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (i ChangePasswordInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.CurrentPassword, validation.Required),
		validation.Field(&i.NewPassword, validation.Required, validation.Length(6, 100)),
	)
}

// ChangePassword replaces the account password after verifying the
// current one.
func (a *Accounts) ChangePassword(ctx context.Context, login string, input ChangePasswordInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	user, err := a.repos.Users().GetByLogin(ctx, login)
	if err != nil {
		return fmt.Errorf("load account %s: %w", login, err)
	}

	if err := auth.ComparePasswordAndHash(input.CurrentPassword, user.PasswordHash); err != nil {
		return ErrWrongPassword
	}

	hash, err := auth.HashPassword(input.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := a.repos.Users().ResetPassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	a.logger.Info("password changed", "login", login)

	return nil
}
