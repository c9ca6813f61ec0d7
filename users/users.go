// Package users holds the identity records returned by the admin backend.
package users

import "time"

// RoleType represents a user role as reported by the backend.
type RoleType string

const (
	RoleAdmin RoleType = "ADMIN" // Full access to the admin panel
	RoleUser  RoleType = "USER"  // Storefront customer, never allowed a session here
)

// User is an immutable identity snapshot from the backend. The session
// manager replaces whole records, it never mutates fields.
type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Role      RoleType  `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsAdmin reports whether this identity passes the admin role gate.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
