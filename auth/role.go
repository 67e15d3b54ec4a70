package auth

import "fmt"

// Role is the closed set of account kinds.
type Role string

const (
	RoleUtilisateur Role = "utilisateur"
	RoleCoach       Role = "coach"
	RoleEntreprise  Role = "entreprise"
	RoleAdmin       Role = "admin"
)

// Roles lists every role in a stable order.
func Roles() []Role {
	return []Role{RoleUtilisateur, RoleCoach, RoleEntreprise, RoleAdmin}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUtilisateur, RoleCoach, RoleEntreprise, RoleAdmin:
		return true
	}
	return false
}

// ParseRole converts a raw value into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// RequiresGender reports whether accounts of this role carry a gender.
func (r Role) RequiresGender() bool {
	switch r {
	case RoleUtilisateur, RoleCoach:
		return true
	case RoleEntreprise, RoleAdmin:
		return false
	}
	return false
}

// IsCandidate reports whether the role applies to offers and interviews.
func (r Role) IsCandidate() bool {
	switch r {
	case RoleUtilisateur, RoleCoach:
		return true
	case RoleEntreprise, RoleAdmin:
		return false
	}
	return false
}

// RoleStrings returns the role values as strings, for enum validation.
func RoleStrings(roles ...Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
