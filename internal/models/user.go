package models

import (
	"strings"
)

// UserRole represents the role stored in usuarios.rol.
type UserRole string

const (
	RolePrefect     UserRole = "prefecto"
	RoleOrientation UserRole = "orientacion"
	RoleStudent     UserRole = "alumno"
	RoleAdmin       UserRole = "admin"
)

// NormalizeRole lower-cases a stored role, folds the accented spelling of orientación and
// defaults empty values to prefecto.
func NormalizeRole(raw string) UserRole {
	role := strings.ToLower(strings.TrimSpace(raw))
	role = strings.ReplaceAll(role, "ó", "o")
	if role == "" {
		return RolePrefect
	}
	return UserRole(role)
}

// IsStaff reports whether the role belongs to school personnel rather than a student.
func (r UserRole) IsStaff() bool {
	return r != RoleStudent
}

// StaffUser is a row of usuarios.
type StaffUser struct {
	ID        int64   `db:"id" json:"id"`
	Username  string  `db:"nombre" json:"nombre"`
	Password  string  `db:"password" json:"-"`
	RawRole   *string `db:"rol" json:"-"`
	Active    *bool   `db:"activo" json:"-"`
	StudentID *int64  `db:"alumno_id" json:"alumno_id,omitempty"`
}

// Role returns the normalised role.
func (u StaffUser) Role() UserRole {
	if u.RawRole == nil {
		return RolePrefect
	}
	return NormalizeRole(*u.RawRole)
}

// IsActive treats a missing flag as active.
func (u StaffUser) IsActive() bool {
	return u.Active == nil || *u.Active
}

// IdentityKind tags the table an identity was resolved from.
type IdentityKind string

const (
	IdentityStaff   IdentityKind = "staff"
	IdentityStudent IdentityKind = "student"
)

// IdentityMatch is the outcome of resolving a login key.
type IdentityMatch struct {
	Kind    IdentityKind
	Staff   *StaffUser
	Student *Student
}

// Actor is the authenticated user performing a mutation.
type Actor struct {
	ID   int64
	Name string
}
