package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/voteguard/voteguard/internal/common"
	"github.com/voteguard/voteguard/internal/dbx"
	"github.com/voteguard/voteguard/internal/logging"
	"github.com/voteguard/voteguard/internal/server/auth"
	"github.com/voteguard/voteguard/internal/server/config"
	"github.com/voteguard/voteguard/internal/server/models"
	"github.com/voteguard/voteguard/internal/server/repositories/repomanager"
)

// ensureAdmin seeds the administrator account configured via AdminEmail and
// AdminPassword. The check and the insert run in one transaction so two
// concurrently starting instances cannot both insert. If the account already
// exists it is left untouched, including its password.
func ensureAdmin(ctx context.Context, db *sql.DB, rm repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) error {

	if cfg.AdminEmail == "" {
		return nil
	}

	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := rm.Users(tx)

		_, err := repo.GetByEmail(ctx, cfg.AdminEmail)
		if err == nil {
			return nil
		}
		if !errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("error checking admin account: %w", err)
		}

		hash, err := auth.HashPassword(cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("error hashing admin password: %w", err)
		}

		_, err = repo.Create(ctx, &models.User{
			Email:        cfg.AdminEmail,
			PasswordHash: hash,
			Role:         models.RoleAdmin,
		})
		if err != nil {
			return fmt.Errorf("error creating admin account: %w", err)
		}

		logger.Info(ctx, "seeded admin account", "email", cfg.AdminEmail)
		return nil
	})
}
