package votes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/voteguard/voteguard/internal/common"
	"github.com/voteguard/voteguard/internal/dbx"
	"github.com/voteguard/voteguard/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, vote *models.Vote) (*models.Vote, error) {

	if vote.ID == "" {
		vote.ID = uuid.NewString()
	}
	if vote.CastAt.IsZero() {
		vote.CastAt = time.Now().UTC()
	}

	query :=
		`INSERT INTO votes (id, user_id, name, cast_at)
		 VALUES ($1, $2, $3, $4)
		 `

	_, err := r.db.ExecContext(ctx, query, vote.ID, vote.UserID, vote.Name, vote.CastAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrDuplicateKey
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return vote, nil
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.Vote, error) {
	query :=
		`SELECT id, user_id, name, cast_at FROM votes
		 WHERE user_id = $1
		 `

	vote := &models.Vote{}
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&vote.ID, &vote.UserID, &vote.Name, &vote.CastAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return vote, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Vote, error) {
	query :=
		`SELECT id, user_id, name, cast_at FROM votes
		 ORDER BY cast_at, id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Vote{}
	for rows.Next() {
		vote := &models.Vote{}
		if err := rows.Scan(&vote.ID, &vote.UserID, &vote.Name, &vote.CastAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, vote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) ListWithVoters(ctx context.Context) ([]*models.VoteWithVoter, error) {
	// Left join: a deleted voter leaves the ballot in place with no email.
	query :=
		`SELECT v.id, v.user_id, v.name, v.cast_at, COALESCE(u.email, '')
		 FROM votes v
		 LEFT JOIN users u ON u.id = v.user_id
		 ORDER BY v.cast_at DESC, v.id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.VoteWithVoter{}
	for rows.Next() {
		vote := &models.VoteWithVoter{}
		if err := rows.Scan(&vote.ID, &vote.UserID, &vote.Name, &vote.CastAt, &vote.VoterEmail); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, vote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Results(ctx context.Context) ([]*models.VoteCount, error) {
	// Ties break by name so the tally is deterministic for a given data set.
	query :=
		`SELECT name, COUNT(*) FROM votes
		 GROUP BY name
		 ORDER BY COUNT(*) DESC, name
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.VoteCount{}
	for rows.Next() {
		count := &models.VoteCount{}
		if err := rows.Scan(&count.Name, &count.Count); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, count)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Names(ctx context.Context) ([]string, error) {
	query :=
		`SELECT DISTINCT name FROM votes
		 ORDER BY name
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return names, nil
}
