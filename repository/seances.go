package repository

import (
	"context"
	"time"

	"github.com/formation-app/centre-server/model"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Seances is the class meeting store.
type Seances struct {
	db *bun.DB
}

// NewSeancesRepository creates a new repository.
func NewSeancesRepository(db *bun.DB) *Seances {
	return &Seances{db: db}
}

func (r *Seances) List(ctx context.Context) ([]*model.Seance, error) {
	var records []*model.Seance
	err := r.db.NewSelect().
		Model(&records).
		Relation("Cours").
		Relation("Formateur").
		Order("date ASC", "heure ASC").
		Scan(ctx)
	return records, err
}

func (r *Seances) GetByID(ctx context.Context, id uuid.UUID) (*model.Seance, error) {
	record := &model.Seance{}
	err := r.db.NewSelect().
		Model(record).
		Relation("Cours").
		Relation("Formateur").
		Where("?TableAlias.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Seances) ListByCours(ctx context.Context, coursID uuid.UUID) ([]*model.Seance, error) {
	var records []*model.Seance
	err := r.db.NewSelect().
		Model(&records).
		Relation("Formateur").
		Where("?TableAlias.cours_id = ?", coursID).
		Order("date ASC", "heure ASC").
		Scan(ctx)
	return records, err
}

func (r *Seances) ListByFormateur(ctx context.Context, formateurID uuid.UUID) ([]*model.Seance, error) {
	var records []*model.Seance
	err := r.db.NewSelect().
		Model(&records).
		Relation("Cours").
		Where("?TableAlias.formateur_id = ?", formateurID).
		Order("date ASC", "heure ASC").
		Scan(ctx)
	return records, err
}

func (r *Seances) ListBetween(ctx context.Context, from, to time.Time) ([]*model.Seance, error) {
	var records []*model.Seance
	err := r.db.NewSelect().
		Model(&records).
		Relation("Cours").
		Relation("Formateur").
		Where("?TableAlias.date >= ?", from).
		Where("?TableAlias.date < ?", to).
		Order("date ASC", "heure ASC").
		Scan(ctx)
	return records, err
}

func (r *Seances) Create(ctx context.Context, record *model.Seance) (*model.Seance, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	_, err := r.db.NewInsert().Model(record).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Seances) Update(ctx context.Context, record *model.Seance) (*model.Seance, error) {
	_, err := r.db.NewUpdate().
		Model(record).
		Column("date", "heure", "salle", "cours_id", "formateur_id").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Seances) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*model.Seance)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
