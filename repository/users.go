package repository

import (
	"context"

	"github.com/formation-app/centre-server/model"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var resetUserPasswordSQL = `UPDATE "users" AS "usr"
SET
	"password_hash" = ?,
	"updated_at" = CURRENT_TIMESTAMP
WHERE
	"usr"."id" = ?
RETURNING *;`

// Users exposes the user account store.
type Users interface {
	repository.Repository[*model.User]

	GetByLogin(ctx context.Context, login string) (*model.User, error)
	GetByLoginTx(ctx context.Context, tx bun.IDB, login string) (*model.User, error)
	ExistsByLogin(ctx context.Context, login string) (bool, error)
	ListByRole(ctx context.Context, role model.UserRole) ([]*model.User, error)
	ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error
}

type users struct {
	repository.Repository[*model.User]
	db *bun.DB
}

var _ Users = (*users)(nil)

// NewUsersRepository builds the Users repository.
func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*model.User](db, repository.ModelHandlers[*model.User]{
		NewRecord: func() *model.User { return &model.User{} },
		GetID: func(u *model.User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *model.User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "login"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	return a.GetByLoginTx(ctx, a.db, login)
}

func (a *users) GetByLoginTx(ctx context.Context, tx bun.IDB, login string) (*model.User, error) {
	record := &model.User{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.login = ?", login).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (a *users) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	return a.db.NewSelect().
		Model((*model.User)(nil)).
		Where("?TableAlias.login = ?", login).
		Exists(ctx)
}

func (a *users) ListByRole(ctx context.Context, role model.UserRole) ([]*model.User, error) {
	var records []*model.User
	err := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_role = ?", role).
		Order("login ASC").
		Scan(ctx)
	return records, err
}

func (a *users) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return a.ResetPasswordTx(ctx, a.db, id, passwordHash)
}

func (a *users) ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	res, err := a.Repository.RawTx(ctx, tx, resetUserPasswordSQL, passwordHash, id.String())
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return nil
}
