// Package votes persists ballots. The at-most-one-vote-per-user rule is
// enforced by the store's unique constraint on the voter id; the service
// pre-check is only a fast path for the common case.
package votes

import (
	"context"

	"github.com/voteguard/voteguard/internal/server/models"
)

// Repository is the capability contract for the vote store. Create returns
// common.ErrDuplicateKey when the voter already has a ballot; GetByUserID
// returns common.ErrNotFound when the voter has not voted.
type Repository interface {
	Create(ctx context.Context, vote *models.Vote) (*models.Vote, error)
	GetByUserID(ctx context.Context, userID string) (*models.Vote, error)
	List(ctx context.Context) ([]*models.Vote, error)
	ListWithVoters(ctx context.Context) ([]*models.VoteWithVoter, error)
	Results(ctx context.Context) ([]*models.VoteCount, error)
	Names(ctx context.Context) ([]string, error)
}
