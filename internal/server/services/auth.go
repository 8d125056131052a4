// Package services contains the orchestration layer between the HTTP
// boundary and the repositories. Services raise the typed errors from
// internal/common; the boundary maps them to statuses.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/voteguard/voteguard/internal/common"
	"github.com/voteguard/voteguard/internal/server/auth"
	"github.com/voteguard/voteguard/internal/server/config"
	"github.com/voteguard/voteguard/internal/server/models"
	"github.com/voteguard/voteguard/internal/server/repositories/users"
)

// AuthService orchestrates registration and login over the credential store.
type AuthService struct {
	users         users.Repository
	jwtSecret     []byte
	tokenValidity time.Duration
}

func NewAuthService(repo users.Repository, cfg *config.Config) *AuthService {
	return &AuthService{
		users:         repo,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
	}
}

// Register creates a new user with role "user". The email pre-check gives a
// friendly fast path; the store's unique index on email is the authoritative
// guard, so a concurrent duplicate surfaces as ErrEmailTaken too.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrEmailTaken
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("error checking email: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}

	user, err = s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateKey) {
			return nil, common.ErrEmailTaken
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and issues a token. A missing user and a
// wrong password both yield ErrInvalidCredentials so callers cannot probe
// which emails are registered.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", nil, common.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("error loading user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", nil, common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", nil, fmt.Errorf("error generating token: %w", err)
	}

	return token, user, nil
}
