package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole(RoleAdmin))
	assert.True(t, IsValidRole(RoleFormateur))
	assert.True(t, IsValidRole(RoleEtudiant))

	assert.False(t, IsValidRole("SUPERADMIN"))
	assert.False(t, IsValidRole("admin"))
	assert.False(t, IsValidRole(""))
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole("FORMATEUR")
	assert.True(t, ok)
	assert.Equal(t, RoleFormateur, role)

	_, ok = ParseRole("formateur")
	assert.False(t, ok)
}

func TestAllRoles(t *testing.T) {
	assert.Equal(t, []UserRole{RoleAdmin, RoleFormateur, RoleEtudiant}, AllRoles())
}
