package domain

import "time"

// User represents a registered identity: patient, doctor or lab staff.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	DocumentID   string    `json:"documentID"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Roles recognised by the platform.
const (
	RolePatient        = "patient"
	RoleDoctor         = "doctor"
	RoleBacteriologist = "bacteriologist"
	RoleAdmin          = "admin"
)

// FullName returns the display name used in message feeds and reports.
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	return u.FirstName + " " + u.LastName
}
