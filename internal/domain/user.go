package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the authorization level attached to a user.
type Role string

const (
	RoleClient Role = "Client"
	RoleAdmin  Role = "Admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleAdmin
}

// User represents a registered account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserSignup represents account registration data.
type UserSignup struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UserLogin represents login credentials.
type UserLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Principal is the authenticated actor performing a request, resolved from
// the session credential by the auth middleware.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}

// IsAdmin reports whether the principal holds the Admin role.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// CanActOn reports whether the principal may modify a resource owned by
// ownerID. Admins may act on anything; clients only on their own resources.
func (p Principal) CanActOn(ownerID uuid.UUID) bool {
	return p.IsAdmin() || p.UserID == ownerID
}

// CanManageCatalog reports whether the principal may mutate floors and rooms.
func (p Principal) CanManageCatalog() bool { return p.IsAdmin() }
