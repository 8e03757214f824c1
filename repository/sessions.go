package repository

import (
	"context"

	"github.com/formation-app/centre-server/model"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Sessions is the academic session store.
type Sessions struct {
	db *bun.DB
}

// NewSessionsRepository creates a new repository.
func NewSessionsRepository(db *bun.DB) *Sessions {
	return &Sessions{db: db}
}

func (r *Sessions) List(ctx context.Context) ([]*model.SessionFormation, error) {
	var records []*model.SessionFormation
	err := r.db.NewSelect().
		Model(&records).
		Order("annee_scolaire DESC", "semestre ASC").
		Scan(ctx)
	return records, err
}

func (r *Sessions) GetByID(ctx context.Context, id uuid.UUID) (*model.SessionFormation, error) {
	record := &model.SessionFormation{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Sessions) Create(ctx context.Context, record *model.SessionFormation) (*model.SessionFormation, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	_, err := r.db.NewInsert().Model(record).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Sessions) Update(ctx context.Context, record *model.SessionFormation) (*model.SessionFormation, error) {
	_, err := r.db.NewUpdate().
		Model(record).
		Column("semestre", "annee_scolaire").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Sessions) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*model.SessionFormation)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
