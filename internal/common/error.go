// Package common defines shared sentinel errors used across VoteGuard layers.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")

	// Auth errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")

	// Domain errors.
	ErrEmailTaken   = errors.New("user already exists")
	ErrAlreadyVoted = errors.New("user has already voted")
	ErrInvalidRole  = errors.New("invalid role")
)
