package repomanager

import (
	"context"
	"database/sql"

	"github.com/voteguard/voteguard/internal/dbx"
	"github.com/voteguard/voteguard/internal/server/repositories/users"
	"github.com/voteguard/voteguard/internal/server/repositories/votes"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Votes(db dbx.DBTX) votes.Repository
}
