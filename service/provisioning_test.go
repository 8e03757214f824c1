package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateEtudiantInputValidate(t *testing.T) {
	valid := CreateEtudiantInput{
		Nom:    "Petit",
		Prenom: "Alice",
		Email:  "alice.petit@formation.com",
	}
	assert.NoError(t, valid.Validate())

	cases := []struct {
		name  string
		input CreateEtudiantInput
	}{
		{"missing nom", CreateEtudiantInput{Prenom: "Alice", Email: "a@b.fr"}},
		{"missing prenom", CreateEtudiantInput{Nom: "Petit", Email: "a@b.fr"}},
		{"missing email", CreateEtudiantInput{Nom: "Petit", Prenom: "Alice"}},
		{"malformed email", CreateEtudiantInput{Nom: "Petit", Prenom: "Alice", Email: "not-an-email"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.input.Validate())
		})
	}
}

func TestCreateFormateurInputValidate(t *testing.T) {
	valid := CreateFormateurInput{
		Nom:        "Dupont",
		Specialite: "Informatique",
		Email:      "dupont@formation.com",
	}
	assert.NoError(t, valid.Validate())

	assert.Error(t, CreateFormateurInput{Nom: "Dupont", Email: "d@f.fr"}.Validate())
	assert.Error(t, CreateFormateurInput{Nom: "Dupont", Specialite: "Gestion", Email: "bad"}.Validate())
}

func TestLoginFromEmail(t *testing.T) {
	cases := []struct {
		email string
		want  string
	}{
		{"alice.petit@formation.com", "alice.petit"},
		{"Jean.MARTIN@Formation.com", "jean.martin"},
		{"nodomain", "nodomain"},
		{"@formation.com", "@formation.com"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, loginFromEmail(tc.email), tc.email)
	}
}

func TestChangePasswordInputValidate(t *testing.T) {
	valid := ChangePasswordInput{CurrentPassword: "ancien", NewPassword: "nouveau"}
	assert.NoError(t, valid.Validate())

	assert.Error(t, ChangePasswordInput{NewPassword: "nouveau"}.Validate())
	assert.Error(t, ChangePasswordInput{CurrentPassword: "ancien"}.Validate())
	assert.Error(t, ChangePasswordInput{CurrentPassword: "ancien", NewPassword: "short"}.Validate())
}
