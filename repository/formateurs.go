package repository

import (
	"context"

	"github.com/formation-app/centre-server/model"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Formateurs is the trainer profile store.
type Formateurs struct {
	db *bun.DB
}

// NewFormateursRepository creates a new repository.
func NewFormateursRepository(db *bun.DB) *Formateurs {
	return &Formateurs{db: db}
}

func (r *Formateurs) List(ctx context.Context) ([]*model.Formateur, error) {
	var records []*model.Formateur
	err := r.db.NewSelect().
		Model(&records).
		Relation("User").
		Order("nom ASC").
		Scan(ctx)
	return records, err
}

func (r *Formateurs) GetByID(ctx context.Context, id uuid.UUID) (*model.Formateur, error) {
	record := &model.Formateur{}
	err := r.db.NewSelect().
		Model(record).
		Relation("User").
		Where("?TableAlias.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Formateurs) GetByEmail(ctx context.Context, email string) (*model.Formateur, error) {
	record := &model.Formateur{}
	err := r.db.NewSelect().
		Model(record).
		Relation("User").
		Where("?TableAlias.email = ?", email).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Formateurs) GetByMatricule(ctx context.Context, matricule string) (*model.Formateur, error) {
	record := &model.Formateur{}
	err := r.db.NewSelect().
		Model(record).
		Relation("User").
		Where("?TableAlias.matricule = ?", matricule).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Formateurs) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Formateur, error) {
	record := &model.Formateur{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Formateurs) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.db.NewSelect().
		Model((*model.Formateur)(nil)).
		Where("?TableAlias.email = ?", email).
		Exists(ctx)
}

func (r *Formateurs) ExistsByMatricule(ctx context.Context, matricule string) (bool, error) {
	return r.db.NewSelect().
		Model((*model.Formateur)(nil)).
		Where("?TableAlias.matricule = ?", matricule).
		Exists(ctx)
}

func (r *Formateurs) Create(ctx context.Context, record *model.Formateur) (*model.Formateur, error) {
	return r.CreateTx(ctx, r.db, record)
}

func (r *Formateurs) CreateTx(ctx context.Context, tx bun.IDB, record *model.Formateur) (*model.Formateur, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	_, err := tx.NewInsert().Model(record).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Formateurs) Update(ctx context.Context, record *model.Formateur) (*model.Formateur, error) {
	_, err := r.db.NewUpdate().
		Model(record).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// DeleteWithUser removes the profile and cascades to the owned user account.
func (r *Formateurs) DeleteWithUser(ctx context.Context, tx bun.IDB, record *model.Formateur) error {
	if _, err := tx.NewUpdate().
		Model((*model.Cours)(nil)).
		Set("formateur_id = NULL").
		Where("formateur_id = ?", record.ID).
		Exec(ctx); err != nil {
		return err
	}
	if _, err := tx.NewUpdate().
		Model((*model.Seance)(nil)).
		Set("formateur_id = NULL").
		Where("formateur_id = ?", record.ID).
		Exec(ctx); err != nil {
		return err
	}
	if _, err := tx.NewDelete().
		Model((*model.Formateur)(nil)).
		Where("id = ?", record.ID).
		Exec(ctx); err != nil {
		return err
	}
	if record.UserID != nil {
		if _, err := tx.NewDelete().
			Model((*model.User)(nil)).
			Where("id = ?", *record.UserID).
			Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
