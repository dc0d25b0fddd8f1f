package entity

import "time"

// Roles del back-office.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// AdminUser es un usuario del back-office.
type AdminUser struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt
	Role         string // "admin" | "editor"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
