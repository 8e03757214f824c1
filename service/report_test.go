package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextRendererRender(t *testing.T) {
	generated := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	report := &RapportNotes{
		Matricule: "ETU-A1B2C3D4",
		Nom:       "Petit",
		Prenom:    "Alice",
		Lignes: []RapportLigne{
			{CoursCode: "INFO-101", CoursTitre: "Introduction a la programmation", Valeur: 14.5},
			{CoursCode: "MATH-201", CoursTitre: "Analyse", Valeur: 11},
		},
		Moyenne:     12.75,
		HasNotes:    true,
		GeneratedAt: generated,
	}

	out, err := NewTextRenderer().Render(report)
	require.NoError(t, err)

	assert.Contains(t, out, "RELEVE DE NOTES")
	assert.Contains(t, out, "Etudiant:  Alice Petit")
	assert.Contains(t, out, "Matricule: ETU-A1B2C3D4")
	assert.Contains(t, out, "Genere le: 2026-03-15")
	assert.Contains(t, out, "INFO-101")
	assert.Contains(t, out, " 14.50")
	assert.Contains(t, out, "Moyenne generale: 12.75")
	assert.NotContains(t, out, "Aucune note")
}

func TestTextRendererEmptyTranscript(t *testing.T) {
	report := &RapportNotes{
		Matricule:   "ETU-A1B2C3D4",
		Nom:         "Moreau",
		Prenom:      "Bruno",
		GeneratedAt: time.Now(),
	}

	out, err := NewTextRenderer().Render(report)
	require.NoError(t, err)

	assert.Contains(t, out, "Aucune note enregistree.")
	assert.NotContains(t, out, "Moyenne generale")
	assert.NotContains(t, out, "CODE")
}

func TestTextRendererNilReport(t *testing.T) {
	_, err := NewTextRenderer().Render(nil)
	assert.Error(t, err)
}

func TestTextRendererTruncatesLongTitles(t *testing.T) {
	long := strings.Repeat("x", 60)

	report := &RapportNotes{
		Matricule:   "ETU-A1B2C3D4",
		HasNotes:    true,
		Lignes:      []RapportLigne{{CoursCode: "GEST-110", CoursTitre: long, Valeur: 9.75}},
		GeneratedAt: time.Now(),
	}

	out, err := NewTextRenderer().Render(report)
	require.NoError(t, err)

	assert.Contains(t, out, strings.Repeat("x", 37)+"...")
	assert.NotContains(t, out, strings.Repeat("x", 41))
}

func TestTextRendererContentType(t *testing.T) {
	assert.Equal(t, "text/plain; charset=utf-8", NewTextRenderer().ContentType())
}
