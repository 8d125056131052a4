package server

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voteguard/voteguard/internal/logging"
	"github.com/voteguard/voteguard/internal/server/auth"
	"github.com/voteguard/voteguard/internal/server/config"
	"github.com/voteguard/voteguard/internal/server/repositories/repomanager"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestEnsureAdmin_Disabled(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	cfg := &config.Config{}
	err = ensureAdmin(context.Background(), db, repomanager.NewPostgresRepositoryManager(), cfg, discardLogger())
	require.NoError(t, err)

	// no AdminEmail, no database traffic at all
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureAdmin_SeedsMissingAccount(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT\s+id,\s+email,\s+password_hash,\s+role,\s+created_at\s+FROM\s+users`).
		WithArgs("root@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "created_at"}))
	mock.ExpectExec(`INSERT\s+INTO\s+users`).
		WithArgs(sqlmock.AnyArg(), "root@x.com", sqlmock.AnyArg(), "admin", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	cfg := &config.Config{AdminEmail: "root@x.com", AdminPassword: "root-pass"}
	err = ensureAdmin(context.Background(), db, repomanager.NewPostgresRepositoryManager(), cfg, discardLogger())
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureAdmin_ExistingAccountUntouched(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	hash, err := auth.HashPassword("old-pass")
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT\s+id,\s+email,\s+password_hash,\s+role,\s+created_at\s+FROM\s+users`).
		WithArgs("root@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "created_at"}).
			AddRow("u-1", "root@x.com", hash, "admin", time.Now()))
	mock.ExpectCommit()

	cfg := &config.Config{AdminEmail: "root@x.com", AdminPassword: "new-pass"}
	err = ensureAdmin(context.Background(), db, repomanager.NewPostgresRepositoryManager(), cfg, discardLogger())
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
