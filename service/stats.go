package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/formation-app/centre-server/repository"
)

// Overview is the headline counter block for the admin dashboard.
type Overview struct {
	Etudiants    int `json:"etudiants"`
	Formateurs   int `json:"formateurs"`
	Cours        int `json:"cours"`
	Inscriptions int `json:"inscriptions"`
}

// RapportLigne is one graded course on a student transcript.
type RapportLigne struct {
	CoursCode  string     `json:"coursCode"`
	CoursTitre string     `json:"coursTitre"`
	Valeur     float64    `json:"valeur"`
	DateSaisie *time.Time `json:"dateSaisie"`
}

// RapportNotes is a student grade transcript.
type RapportNotes struct {
	EtudiantID  uuid.UUID      `json:"etudiantId"`
	Matricule   string         `json:"matricule"`
	Nom         string         `json:"nom"`
	Prenom      string         `json:"prenom"`
	Lignes      []RapportLigne `json:"lignes"`
	Moyenne     float64        `json:"moyenne"`
	HasNotes    bool           `json:"hasNotes"`
	GeneratedAt time.Time      `json:"generatedAt"`
}

// Statistics aggregates grade and enrollment figures.
type Statistics struct {
	repos repository.Manager
}

func NewStatistics(repos repository.Manager) *Statistics {
	return &Statistics{repos: repos}
}

// Overview counts the main entities of the center.
func (s *Statistics) Overview(ctx context.Context) (*Overview, error) {
	out := &Overview{}

	var err error
	if out.Etudiants, err = s.countEtudiants(ctx); err != nil {
		return nil, err
	}
	if out.Formateurs, err = s.countFormateurs(ctx); err != nil {
		return nil, err
	}
	if out.Cours, err = s.countCours(ctx); err != nil {
		return nil, err
	}
	if out.Inscriptions, err = s.countInscriptions(ctx); err != nil {
		return nil, err
	}

	return out, nil
}

// MoyennesParCours returns the per course grade aggregates.
func (s *Statistics) MoyennesParCours(ctx context.Context) ([]*repository.CoursAverage, error) {
	return s.repos.Notes().AveragesByCours(ctx)
}

// RapportNotes builds the transcript for one student.
func (s *Statistics) RapportNotes(ctx context.Context, etudiantID uuid.UUID) (*RapportNotes, error) {
	etudiant, err := s.repos.Etudiants().GetByID(ctx, etudiantID)
	if err != nil {
		return nil, fmt.Errorf("load etudiant %s: %w", etudiantID, err)
	}

	notes, err := s.repos.Notes().ListByEtudiant(ctx, etudiantID)
	if err != nil {
		return nil, fmt.Errorf("load notes for %s: %w", etudiantID, err)
	}

	report := &RapportNotes{
		EtudiantID:  etudiant.ID,
		Matricule:   etudiant.Matricule,
		Nom:         etudiant.Nom,
		Prenom:      etudiant.Prenom,
		Lignes:      make([]RapportLigne, 0, len(notes)),
		GeneratedAt: time.Now(),
	}

	var total float64
	for _, note := range notes {
		ligne := RapportLigne{
			Valeur:     note.Valeur,
			DateSaisie: note.DateSaisie,
		}
		if note.Cours != nil {
			ligne.CoursCode = note.Cours.Code
			ligne.CoursTitre = note.Cours.Titre
		}
		report.Lignes = append(report.Lignes, ligne)
		total += note.Valeur
	}

	if len(notes) > 0 {
		report.HasNotes = true
		report.Moyenne = total / float64(len(notes))
	}

	return report, nil
}

func (s *Statistics) countEtudiants(ctx context.Context) (int, error) {
	records, err := s.repos.Etudiants().List(ctx)
	return len(records), err
}

func (s *Statistics) countFormateurs(ctx context.Context) (int, error) {
	records, err := s.repos.Formateurs().List(ctx)
	return len(records), err
}

func (s *Statistics) countCours(ctx context.Context) (int, error) {
	records, err := s.repos.Cours().List(ctx)
	return len(records), err
}

func (s *Statistics) countInscriptions(ctx context.Context) (int, error) {
	records, err := s.repos.Inscriptions().List(ctx)
	return len(records), err
}
