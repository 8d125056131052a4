// Package users persists user records. Email uniqueness is enforced by the
// store itself; application-level pre-checks are a fast path only.
package users

import (
	"context"

	"github.com/voteguard/voteguard/internal/server/models"
)

// Repository is the capability contract for the credential store.
// Create and Update return common.ErrDuplicateKey on an email collision;
// lookups, Update and Delete return common.ErrNotFound when no record
// matches.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id string) error
}
