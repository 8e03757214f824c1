package repository

import (
	"context"

	"github.com/formation-app/centre-server/model"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Groupes is the student group store, including the course links.
type Groupes struct {
	db *bun.DB
}

// NewGroupesRepository creates a new repository.
func NewGroupesRepository(db *bun.DB) *Groupes {
	return &Groupes{db: db}
}

func (r *Groupes) List(ctx context.Context) ([]*model.Groupe, error) {
	var records []*model.Groupe
	err := r.db.NewSelect().
		Model(&records).
		Relation("CoursGroupes").
		Relation("CoursGroupes.Cours").
		Order("nom ASC").
		Scan(ctx)
	return records, err
}

func (r *Groupes) GetByID(ctx context.Context, id uuid.UUID) (*model.Groupe, error) {
	record := &model.Groupe{}
	err := r.db.NewSelect().
		Model(record).
		Relation("CoursGroupes").
		Relation("CoursGroupes.Cours").
		Where("?TableAlias.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Groupes) SearchByNom(ctx context.Context, nom string) ([]*model.Groupe, error) {
	var records []*model.Groupe
	err := r.db.NewSelect().
		Model(&records).
		Where("lower(?TableAlias.nom) LIKE lower(?)", "%"+nom+"%").
		Order("nom ASC").
		Scan(ctx)
	return records, err
}

func (r *Groupes) ExistsByNom(ctx context.Context, nom string) (bool, error) {
	return r.db.NewSelect().
		Model((*model.Groupe)(nil)).
		Where("?TableAlias.nom = ?", nom).
		Exists(ctx)
}

func (r *Groupes) Create(ctx context.Context, record *model.Groupe) (*model.Groupe, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	_, err := r.db.NewInsert().Model(record).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Groupes) Update(ctx context.Context, record *model.Groupe) (*model.Groupe, error) {
	_, err := r.db.NewUpdate().
		Model(record).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Groupes) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.NewDelete().
		Model((*model.CoursGroupe)(nil)).
		Where("groupe_id = ?", id).
		Exec(ctx); err != nil {
		return err
	}

	_, err := r.db.NewDelete().
		Model((*model.Groupe)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// ListCours returns the courses linked to a group, ordered by code.
func (r *Groupes) ListCours(ctx context.Context, groupeID uuid.UUID) ([]*model.Cours, error) {
	var links []*model.CoursGroupe
	err := r.db.NewSelect().
		Model(&links).
		Relation("Cours").
		Where("?TableAlias.groupe_id = ?", groupeID).
		Order("cgr.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]*model.Cours, 0, len(links))
	for _, link := range links {
		if link.Cours != nil {
			records = append(records, link.Cours)
		}
	}
	return records, nil
}

// LinkCours attaches a course to a group. Linking twice is a no-op.
func (r *Groupes) LinkCours(ctx context.Context, groupeID, coursID uuid.UUID) error {
	exists, err := r.db.NewSelect().
		Model((*model.CoursGroupe)(nil)).
		Where("?TableAlias.groupe_id = ? AND ?TableAlias.cours_id = ?", groupeID, coursID).
		Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = r.db.NewInsert().Model(&model.CoursGroupe{
		ID:       uuid.New(),
		GroupeID: groupeID,
		CoursID:  coursID,
	}).Exec(ctx)
	return err
}

// UnlinkCours detaches a course from a group.
func (r *Groupes) UnlinkCours(ctx context.Context, groupeID, coursID uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*model.CoursGroupe)(nil)).
		Where("groupe_id = ? AND cours_id = ?", groupeID, coursID).
		Exec(ctx)
	return err
}
