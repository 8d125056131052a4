package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/voteguard/voteguard/internal/common"
	"github.com/voteguard/voteguard/internal/server/auth"
	"github.com/voteguard/voteguard/internal/server/models"
	"github.com/voteguard/voteguard/internal/server/repositories/users"
)

// UserService implements the administrative user operations.
type UserService struct {
	users users.Repository
}

func NewUserService(repo users.Repository) *UserService {
	return &UserService{users: repo}
}

// UserUpdate carries the optional fields of an administrative update. Nil
// fields are left unchanged.
type UserUpdate struct {
	Email    *string
	Password *string
	Role     *models.Role
}

// List returns all users. Stripping the password hash from external
// responses is the boundary's job.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx)
}

// Update applies an administrative update to the user. A token issued before
// a role change keeps the old role until it expires.
func (s *UserService) Update(ctx context.Context, id string, upd UserUpdate) (*models.User, error) {

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if upd.Email != nil {
		user.Email = *upd.Email
	}
	if upd.Password != nil {
		hash, err := auth.HashPassword(*upd.Password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		user.PasswordHash = hash
	}
	if upd.Role != nil {
		user.Role = *upd.Role
	}

	user, err = s.users.Update(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateKey) {
			return nil, common.ErrEmailTaken
		}
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	return user, nil
}

// Delete removes the user permanently. Their vote, if any, is left in place.
func (s *UserService) Delete(ctx context.Context, id string) error {
	err := s.users.Delete(ctx, id)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("error deleting user: %w", err)
	}
	return err
}
