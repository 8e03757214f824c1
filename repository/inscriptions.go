package repository

import (
	"context"

	"github.com/formation-app/centre-server/model"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Inscriptions is the enrollment store.
type Inscriptions struct {
	db *bun.DB
}

// NewInscriptionsRepository creates a new repository.
func NewInscriptionsRepository(db *bun.DB) *Inscriptions {
	return &Inscriptions{db: db}
}

func (r *Inscriptions) List(ctx context.Context) ([]*model.Inscription, error) {
	var records []*model.Inscription
	err := r.db.NewSelect().
		Model(&records).
		Relation("Etudiant").
		Relation("Cours").
		Order("date_inscription DESC").
		Scan(ctx)
	return records, err
}

func (r *Inscriptions) GetByID(ctx context.Context, id uuid.UUID) (*model.Inscription, error) {
	record := &model.Inscription{}
	err := r.db.NewSelect().
		Model(record).
		Relation("Etudiant").
		Relation("Cours").
		Where("?TableAlias.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Inscriptions) ListByEtudiant(ctx context.Context, etudiantID uuid.UUID) ([]*model.Inscription, error) {
	var records []*model.Inscription
	err := r.db.NewSelect().
		Model(&records).
		Relation("Cours").
		Where("?TableAlias.etudiant_id = ?", etudiantID).
		Scan(ctx)
	return records, err
}

func (r *Inscriptions) ListByCours(ctx context.Context, coursID uuid.UUID) ([]*model.Inscription, error) {
	var records []*model.Inscription
	err := r.db.NewSelect().
		Model(&records).
		Relation("Etudiant").
		Where("?TableAlias.cours_id = ?", coursID).
		Scan(ctx)
	return records, err
}

// Exists reports whether the student already holds an enrollment in the course.
func (r *Inscriptions) Exists(ctx context.Context, etudiantID, coursID uuid.UUID) (bool, error) {
	return r.db.NewSelect().
		Model((*model.Inscription)(nil)).
		Where("?TableAlias.etudiant_id = ?", etudiantID).
		Where("?TableAlias.cours_id = ?", coursID).
		Exists(ctx)
}

func (r *Inscriptions) Create(ctx context.Context, record *model.Inscription) (*model.Inscription, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Status == "" {
		record.Status = model.InscriptionActive
	}
	_, err := r.db.NewInsert().Model(record).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Inscriptions) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Inscription, error) {
	record := &model.Inscription{ID: id, Status: status}
	_, err := r.db.NewUpdate().
		Model(record).
		Column("status").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *Inscriptions) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*model.Inscription)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
