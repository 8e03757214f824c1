package repository

import (
	"context"

	"github.com/formation-app/centre-server/model"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CoursAverage is an aggregate row of grade statistics for one course.
type CoursAverage struct {
	CoursID uuid.UUID `bun:"cours_id"`
	Code    string    `bun:"code"`
	Titre   string    `bun:"titre"`
	Moyenne float64   `bun:"moyenne"`
	Minimum float64   `bun:"minimum"`
	Maximum float64   `bun:"maximum"`
	Count   int       `bun:"count"`
}

// Notes is the grade store.
type Notes struct {
	db *bun.DB
}

// NewNotesRepository creates a new repository.
func NewNotesRepository(db *bun.DB) *Notes {
	return &Notes{db: db}
}

func (r *Notes) List(ctx context.Context) ([]*model.Note, error) {
	var records []*model.Note
	err := r.db.NewSelect().
		Model(&records).
		Relation("Etudiant").
		Relation("Cours").
		Order("date_saisie DESC").
		Scan(ctx)
	return records, err
}

func (r *Notes) GetByID(ctx context.Context, id uuid.UUID) (*model.Note, error) {
	record := &model.Note{}
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

// ListByEtudiant returns the student's grades with the related course loaded,
// ordered by course code for stable transcript output.
func (r *Notes) ListByEtudiant(ctx context.Context, etudiantID uuid.UUID) ([]*model.Note, error) {
	var records []*model.Note
	err := r.db.NewSelect().
		Model(&records).
		Relation("Cours").
		Where("?TableAlias.etudiant_id = ?", etudiantID).
		Order("date_saisie ASC").
		Scan(ctx)
	return records, err
}

func (r *Notes) ListByCours(ctx context.Context, coursID uuid.UUID) ([]*model.Note, error) {
	var records []*model.Note
	err := r.db.NewSelect().
		Model(&records).
		Relation("Etudiant").
		Where("?TableAlias.cours_id = ?", coursID).
		Scan(ctx)
	return records, err
}

// AverageByEtudiant computes the student's overall grade average. The ok
// result is false when the student has no grades yet.
func (r *Notes) AverageByEtudiant(ctx context.Context, etudiantID uuid.UUID) (float64, bool, error) {
	var count int
	var avg float64
	err := r.db.NewSelect().
		Model((*model.Note)(nil)).
		ColumnExpr("COUNT(*)").
		ColumnExpr("COALESCE(AVG(valeur), 0)").
		Where("?TableAlias.etudiant_id = ?", etudiantID).
		Scan(ctx, &count, &avg)
	if err != nil {
		return 0, false, err
	}
	return avg, count > 0, nil
}

// AveragesByCours aggregates grade statistics per course across the center.
func (r *Notes) AveragesByCours(ctx context.Context) ([]*CoursAverage, error) {
	var rows []*CoursAverage
	err := r.db.NewSelect().
		Model((*model.Note)(nil)).
		ColumnExpr("?TableAlias.cours_id AS cours_id").
		ColumnExpr("crs.code AS code").
		ColumnExpr("crs.titre AS titre").
		ColumnExpr("AVG(?TableAlias.valeur) AS moyenne").
		ColumnExpr("MIN(?TableAlias.valeur) AS minimum").
		ColumnExpr("MAX(?TableAlias.valeur) AS maximum").
		ColumnExpr("COUNT(*) AS count").
		Join("JOIN cours AS crs ON crs.id = ?TableAlias.cours_id").
		Group("cours_id", "code", "titre").
		Order("code ASC").
		Scan(ctx, &rows)
	return rows, err
}

func (r *Notes) Create(ctx context.Context, record *model.Note) (*model.Note, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	_, err := r.db.NewInsert().Model(record).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Notes) Update(ctx context.Context, record *model.Note) (*model.Note, error) {
	_, err := r.db.NewUpdate().
		Model(record).
		Column("valeur", "date_saisie").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Notes) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*model.Note)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
