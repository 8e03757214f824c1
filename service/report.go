package service

import (
	"fmt"
	"strings"
)

// ReportRenderer turns a transcript into a downloadable document.
type ReportRenderer interface {
	Render(report *RapportNotes) (string, error)
	ContentType() string
}

// TextRenderer renders a plain text transcript.
type TextRenderer struct{}

func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

func (r *TextRenderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

func (r *TextRenderer) Render(report *RapportNotes) (string, error) {
	if report == nil {
		return "", fmt.Errorf("render: nil report")
	}

	var b strings.Builder

	fmt.Fprintf(&b, "RELEVE DE NOTES\n")
	fmt.Fprintf(&b, "===============\n\n")
	fmt.Fprintf(&b, "Etudiant:  %s %s\n", report.Prenom, report.Nom)
	fmt.Fprintf(&b, "Matricule: %s\n", report.Matricule)
	fmt.Fprintf(&b, "Genere le: %s\n\n", report.GeneratedAt.Format("2006-01-02"))

	if !report.HasNotes {
		fmt.Fprintf(&b, "Aucune note enregistree.\n")
		return b.String(), nil
	}

	fmt.Fprintf(&b, "%-12s %-40s %6s\n", "CODE", "COURS", "NOTE")
	fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 60))

	for _, ligne := range report.Lignes {
		fmt.Fprintf(&b, "%-12s %-40s %6.2f\n", ligne.CoursCode, truncate(ligne.CoursTitre, 40), ligne.Valeur)
	}

	fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 60))
	fmt.Fprintf(&b, "Moyenne generale: %.2f\n", report.Moyenne)

	return b.String(), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
