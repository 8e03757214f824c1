package repository

import (
	"context"

	"github.com/formation-app/centre-server/model"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Cours is the course store.
type Cours struct {
	db *bun.DB
}

// NewCoursRepository creates a new repository.
func NewCoursRepository(db *bun.DB) *Cours {
	return &Cours{db: db}
}

func (r *Cours) List(ctx context.Context) ([]*model.Cours, error) {
	var records []*model.Cours
	err := r.db.NewSelect().
		Model(&records).
		Relation("Formateur").
		Relation("Session").
		Order("code ASC").
		Scan(ctx)
	return records, err
}

func (r *Cours) GetByID(ctx context.Context, id uuid.UUID) (*model.Cours, error) {
	record := &model.Cours{}
	err := r.db.NewSelect().
		Model(record).
		Relation("Formateur").
		Relation("Session").
		Where("?TableAlias.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Cours) GetByCode(ctx context.Context, code string) (*model.Cours, error) {
	record := &model.Cours{}
	err := r.db.NewSelect().
		Model(record).
		Relation("Formateur").
		Relation("Session").
		Where("?TableAlias.code = ?", code).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Cours) ListByFormateur(ctx context.Context, formateurID uuid.UUID) ([]*model.Cours, error) {
	var records []*model.Cours
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.formateur_id = ?", formateurID).
		Order("code ASC").
		Scan(ctx)
	return records, err
}

func (r *Cours) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return r.db.NewSelect().
		Model((*model.Cours)(nil)).
		Where("?TableAlias.code = ?", code).
		Exists(ctx)
}

func (r *Cours) Create(ctx context.Context, record *model.Cours) (*model.Cours, error) {
	return r.CreateTx(ctx, r.db, record)
}

func (r *Cours) CreateTx(ctx context.Context, tx bun.IDB, record *model.Cours) (*model.Cours, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	_, err := tx.NewInsert().Model(record).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Cours) Update(ctx context.Context, record *model.Cours) (*model.Cours, error) {
	_, err := r.db.NewUpdate().
		Model(record).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Cours) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*model.Cours)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
