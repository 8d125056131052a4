// Package models contains the persistent entity shapes shared by
// repositories, services and the HTTP layer.
package models

import (
	"time"

	"github.com/voteguard/voteguard/internal/common"
)

// Role is the closed set of authorization roles a user can hold.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole validates a raw role string against the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", common.ErrInvalidRole
	}
}

func (r Role) String() string {
	return string(r)
}

// User is an identity record. PasswordHash never leaves the service layer;
// the HTTP layer maps users to a hash-free representation.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
