package auth

import (
	"strings"
	"time"
)

// Role is the access level attached to a user and carried in tokens.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	// RoleGuest is never stored; it marks unauthenticated callers.
	RoleGuest Role = "guest"
)

// Valid reports whether r may be assigned to a stored user.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is a domain entity representing a system user.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string `json:"-"`
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser carries the fields a store needs to insert a user.
type NewUser struct {
	Name         string
	Email        string
	PasswordHash string
	Role         Role
}

// NormalizeEmail trims and lower-cases an address the same way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// public strips the credential hash before a user leaves the service.
func (u User) public() User {
	u.PasswordHash = ""
	return u
}
