// Package seed bootstraps the database schema and the initial data set:
// the admin account and, when the database is empty, a small demo
// population used for local development.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/formation-app/centre-server/auth"
	"github.com/formation-app/centre-server/model"
	"github.com/formation-app/centre-server/repository"
	"github.com/formation-app/centre-server/service"
)

// Seeder creates schema and initial records.
type Seeder struct {
	db          *bun.DB
	repos       repository.Manager
	provisioner *service.Provisioner
	logger      auth.Logger
}

func New(db *bun.DB, repos repository.Manager, logger auth.Logger) *Seeder {
	if logger == nil {
		logger = auth.DefaultLogger()
	}
	return &Seeder{
		db:          db,
		repos:       repos,
		provisioner: service.NewProvisioner(repos).WithLogger(logger),
		logger:      logger,
	}
}

// Run creates missing tables, ensures the admin account and loads the
// demo data on first start. Safe to call on every boot.
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.createSchema(ctx); err != nil {
		return fmt.Errorf("seed schema: %w", err)
	}

	if err := s.ensureAdmin(ctx); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	empty, err := s.isEmpty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}

	if err := s.loadDemoData(ctx); err != nil {
		return fmt.Errorf("seed demo data: %w", err)
	}

	return nil
}

func (s *Seeder) createSchema(ctx context.Context) error {
	models := []any{
		(*model.User)(nil),
		(*model.Etudiant)(nil),
		(*model.Formateur)(nil),
		(*model.SessionFormation)(nil),
		(*model.Cours)(nil),
		(*model.Inscription)(nil),
		(*model.Seance)(nil),
		(*model.Note)(nil),
		(*model.Groupe)(nil),
		(*model.CoursGroupe)(nil),
	}

	for _, m := range models {
		if _, err := s.db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}

	return nil
}

// ensureAdmin creates the admin/admin account once. The initial
// password is meant to be changed right after the first login.
func (s *Seeder) ensureAdmin(ctx context.Context) error {
	exists, err := s.repos.Users().ExistsByLogin(ctx, "admin")
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := auth.HashPassword("admin")
	if err != nil {
		return err
	}

	_, err = s.repos.Users().Create(ctx, &model.User{
		Login:        "admin",
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	})
	if err != nil {
		return err
	}

	s.logger.Info("seeded admin account", "login", "admin")

	return nil
}

func (s *Seeder) isEmpty(ctx context.Context) (bool, error) {
	formateurs, err := s.repos.Formateurs().List(ctx)
	if err != nil {
		return false, err
	}
	return len(formateurs) == 0, nil
}

func (s *Seeder) loadDemoData(ctx context.Context) error {
	formateurs := []service.CreateFormateurInput{
		{Nom: "Dupont", Specialite: "Informatique", Email: "dupont@formation.com"},
		{Nom: "Martin", Specialite: "Mathematiques", Email: "martin@formation.com"},
		{Nom: "Bernard", Specialite: "Gestion", Email: "bernard@formation.com"},
	}

	var trainers []*model.Formateur
	for _, input := range formateurs {
		created, err := s.provisioner.CreateFormateur(ctx, input)
		if err != nil {
			return err
		}
		trainers = append(trainers, created.Formateur)
	}

	session, err := s.repos.Sessions().Create(ctx, &model.SessionFormation{
		Semestre:      "S1",
		AnneeScolaire: "2025-2026",
	})
	if err != nil {
		return err
	}

	coursSpecs := []struct {
		code      string
		titre     string
		formateur *model.Formateur
	}{
		{"INFO-101", "Introduction a la programmation", trainers[0]},
		{"MATH-201", "Algebre lineaire", trainers[1]},
		{"GEST-110", "Comptabilite generale", trainers[2]},
	}

	var cours []*model.Cours
	for _, spec := range coursSpecs {
		record, err := s.repos.Cours().Create(ctx, &model.Cours{
			Code:        spec.code,
			Titre:       spec.titre,
			FormateurID: &spec.formateur.ID,
			SessionID:   &session.ID,
		})
		if err != nil {
			return err
		}
		cours = append(cours, record)
	}

	etudiants := []service.CreateEtudiantInput{
		{Nom: "Petit", Prenom: "Alice", Email: "alice.petit@formation.com"},
		{Nom: "Moreau", Prenom: "Bruno", Email: "bruno.moreau@formation.com"},
	}

	var students []*model.Etudiant
	for _, input := range etudiants {
		created, err := s.provisioner.CreateEtudiant(ctx, input)
		if err != nil {
			return err
		}
		students = append(students, created.Etudiant)
	}

	for _, student := range students {
		for _, course := range cours[:2] {
			if _, err := s.repos.Inscriptions().Create(ctx, &model.Inscription{
				EtudiantID: student.ID,
				CoursID:    course.ID,
			}); err != nil {
				return err
			}
		}
	}

	groupe, err := s.repos.Groupes().Create(ctx, &model.Groupe{Nom: "Promotion A"})
	if err != nil {
		return err
	}
	for _, course := range cours[:2] {
		if err := s.repos.Groupes().LinkCours(ctx, groupe.ID, course.ID); err != nil {
			return err
		}
	}

	now := time.Now()
	firstMeeting := now.AddDate(0, 0, 7)
	if _, err := s.repos.Seances().Create(ctx, &model.Seance{
		Date:        firstMeeting,
		Heure:       "09:00",
		Salle:       "B204",
		CoursID:     cours[0].ID,
		FormateurID: cours[0].FormateurID,
	}); err != nil {
		return err
	}

	grades := []float64{14.5, 11, 16.25, 9.75}
	i := 0
	for _, student := range students {
		for _, course := range cours[:2] {
			saisie := now
			if _, err := s.repos.Notes().Create(ctx, &model.Note{
				Valeur:     grades[i%len(grades)],
				DateSaisie: &saisie,
				EtudiantID: student.ID,
				CoursID:    course.ID,
			}); err != nil {
				return err
			}
			i++
		}
	}

	s.logger.Info("seeded demo data",
		"formateurs", len(formateurs),
		"etudiants", len(students),
		"cours", len(cours),
	)

	return nil
}
