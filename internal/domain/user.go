package domain

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:64"`
	Name         string    `json:"name"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone,omitempty"`
	Role         UserRole  `json:"role" gorm:"size:16"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the read-only view of the authenticated caller handed to the core.
type Identity struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
