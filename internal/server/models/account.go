// Package models defines server-side data models persisted in the database
// or exchanged over the REST API.
package models

import "time"

// Role is the closed set of roles a caller may hold.
type Role string

const (
	RoleNone  Role = ""
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole maps a claim value onto Role. Unknown values yield RoleNone.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleUser:
		return RoleUser
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleNone
	}
}

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Account is the registration payload and the profile view returned to
// callers. Password is write-only: it is accepted on input and never
// serialized back.
type Account struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password,omitempty"`
	Role             Role   `json:"role"`
	Location         string `json:"location"`
	VerifiedReporter bool   `json:"verifiedReporter"`
}

// Sanitized returns a copy without the password.
func (a Account) Sanitized() Account {
	a.Password = ""
	return a
}

// Profile is the stored mirror of an Account, keyed by the identity uid.
type Profile struct {
	UID       string
	Account   Account
	UpdatedAt time.Time
}

// Identity is an identity-provider record.
type Identity struct {
	UID          string
	Email        string
	PasswordHash string
	CustomClaims map[string]any
	CreatedAt    time.Time
}

// RoleClaim returns the role stored in the identity's custom claims.
func (i *Identity) RoleClaim() Role {
	if i == nil || i.CustomClaims == nil {
		return RoleNone
	}
	s, _ := i.CustomClaims["role"].(string)
	return ParseRole(s)
}
