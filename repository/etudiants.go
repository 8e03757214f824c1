package repository

import (
	"context"

	"github.com/formation-app/centre-server/model"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Etudiants is the student profile store.
type Etudiants struct {
	db *bun.DB
}

// NewEtudiantsRepository creates a new repository.
func NewEtudiantsRepository(db *bun.DB) *Etudiants {
	return &Etudiants{db: db}
}

// List returns every student, user account included.
func (r *Etudiants) List(ctx context.Context) ([]*model.Etudiant, error) {
	var records []*model.Etudiant
	err := r.db.NewSelect().
		Model(&records).
		Relation("User").
		Order("nom ASC", "prenom ASC").
		Scan(ctx)
	return records, err
}

func (r *Etudiants) GetByID(ctx context.Context, id uuid.UUID) (*model.Etudiant, error) {
	record := &model.Etudiant{}
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

// GetByEmail loads the profile for email based identity resolution. The
// linked user account rides along so the resolver can tell an orphan
// profile apart from a provisioned one.
func (r *Etudiants) GetByEmail(ctx context.Context, email string) (*model.Etudiant, error) {
	record := &model.Etudiant{}
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

func (r *Etudiants) GetByMatricule(ctx context.Context, matricule string) (*model.Etudiant, error) {
	record := &model.Etudiant{}
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

func (r *Etudiants) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Etudiant, error) {
	record := &model.Etudiant{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Etudiants) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.db.NewSelect().
		Model((*model.Etudiant)(nil)).
		Where("?TableAlias.email = ?", email).
		Exists(ctx)
}

func (r *Etudiants) ExistsByMatricule(ctx context.Context, matricule string) (bool, error) {
	return r.db.NewSelect().
		Model((*model.Etudiant)(nil)).
		Where("?TableAlias.matricule = ?", matricule).
		Exists(ctx)
}

func (r *Etudiants) Create(ctx context.Context, record *model.Etudiant) (*model.Etudiant, error) {
	return r.CreateTx(ctx, r.db, record)
}

func (r *Etudiants) CreateTx(ctx context.Context, tx bun.IDB, record *model.Etudiant) (*model.Etudiant, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	_, err := tx.NewInsert().Model(record).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Etudiants) Update(ctx context.Context, record *model.Etudiant) (*model.Etudiant, error) {
	_, err := r.db.NewUpdate().
		Model(record).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// DeleteWithUser removes the profile and cascades to the owned user
// account, the only path by which a user account is ever deleted.
func (r *Etudiants) DeleteWithUser(ctx context.Context, tx bun.IDB, record *model.Etudiant) error {
	if _, err := tx.NewDelete().
		Model((*model.Note)(nil)).
		Where("etudiant_id = ?", record.ID).
		Exec(ctx); err != nil {
		return err
	}
	if _, err := tx.NewDelete().
		Model((*model.Inscription)(nil)).
		Where("etudiant_id = ?", record.ID).
		Exec(ctx); err != nil {
		return err
	}
	if _, err := tx.NewDelete().
		Model((*model.Etudiant)(nil)).
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
