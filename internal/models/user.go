package models

import "time"

// User is a directory record for the people involved in handovers.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"` // employee, successor, manager, admin
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"created_at"`
}

// User role constants
const (
	RoleEmployee  = "employee"
	RoleSuccessor = "successor"
	RoleManager   = "manager"
	RoleAdmin     = "admin"
)
