package model

// IsValid checks if the role is one of the predefined valid roles
func IsValidRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleFormateur, RoleEtudiant:
		return true
	default:
		return false
	}
}

// ParseRole safely parses a string into a UserRole
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, IsValidRole(role)
}

// AllRoles returns the predefined roles
func AllRoles() []UserRole {
	return []UserRole{RoleAdmin, RoleFormateur, RoleEtudiant}
}
