package models

import "time"

// Role names used as the discriminant between the two person variants.
// Members and gym employees live in disjoint username namespaces.
const (
	RoleMember      = "Member"
	RoleGymEmployee = "GymEmployee"
)

// Person holds the fields shared by both person variants.
type Person struct {
	PersonID       int64  `json:"person_id" db:"person_id"`
	FirstName      string `json:"first_name" db:"first_name"`
	LastName       string `json:"last_name" db:"last_name"`
	ContactDetails string `json:"contact_details" db:"contact_details"`
	Username       string `json:"username" db:"username"`
	PasswordHash   string `json:"-" db:"password_hash"` // never serialized
}

// Member is a gym member.
type Member struct {
	Person
	DateOfBirth time.Time `json:"date_of_birth" db:"date_of_birth"`
}

// GymEmployee is a staff member; instructors are gym employees.
type GymEmployee struct {
	Person
	Speciality    *string `json:"speciality,omitempty" db:"speciality"`
	Certification *string `json:"certification,omitempty" db:"certification"`
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	PersonID int64  `json:"person_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// IsMember reports whether the principal is a gym member.
func (p Principal) IsMember() bool {
	return p.Role == RoleMember
}
