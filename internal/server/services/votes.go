package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/voteguard/voteguard/internal/common"
	"github.com/voteguard/voteguard/internal/server/models"
	"github.com/voteguard/voteguard/internal/server/repositories/votes"
)

// TallyCache caches computed tallies. Implementations are best-effort: a
// miss or a failed write must never fail the request. A nil TallyCache
// disables caching.
type TallyCache interface {
	GetResults(ctx context.Context) ([]*models.VoteCount, bool)
	SetResults(ctx context.Context, results []*models.VoteCount)
	GetNames(ctx context.Context) ([]string, bool)
	SetNames(ctx context.Context, names []string)
	Invalidate(ctx context.Context)
}

// VoteService orchestrates ballot casting and the read operations over the
// vote store.
type VoteService struct {
	votes votes.Repository
	cache TallyCache
}

func NewVoteService(repo votes.Repository, cache TallyCache) *VoteService {
	return &VoteService{votes: repo, cache: cache}
}

// Cast records the user's single ballot. The existence pre-check serves the
// common case; a concurrent cast that slips past it is rejected by the
// store's unique constraint and reported as the same ErrAlreadyVoted.
func (s *VoteService) Cast(ctx context.Context, userID, name string) (*models.Vote, error) {

	_, err := s.votes.GetByUserID(ctx, userID)
	if err == nil {
		return nil, common.ErrAlreadyVoted
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("error checking existing vote: %w", err)
	}

	vote := &models.Vote{
		UserID: userID,
		Name:   name,
		CastAt: time.Now().UTC(),
	}

	vote, err = s.votes.Create(ctx, vote)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateKey) {
			return nil, common.ErrAlreadyVoted
		}
		return nil, fmt.Errorf("error creating vote: %w", err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	return vote, nil
}

// Votes returns all ballots in insertion order.
func (s *VoteService) Votes(ctx context.Context) ([]*models.Vote, error) {
	return s.votes.List(ctx)
}

// UserVote returns the user's ballot, or nil if they have not voted.
// Not having voted is not an error condition.
func (s *VoteService) UserVote(ctx context.Context, userID string) (*models.Vote, error) {
	vote, err := s.votes.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return vote, nil
}

// DetailedVotes returns all ballots joined with voter emails, most recent
// first.
func (s *VoteService) DetailedVotes(ctx context.Context) ([]*models.VoteWithVoter, error) {
	return s.votes.ListWithVoters(ctx)
}

// Results returns the tally grouped by candidate name, count descending with
// name as the tiebreak. Served from the cache when one is configured.
func (s *VoteService) Results(ctx context.Context) ([]*models.VoteCount, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetResults(ctx); ok {
			return cached, nil
		}
	}

	results, err := s.votes.Results(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetResults(ctx, results)
	}
	return results, nil
}

// Names returns the distinct candidate names that have received at least
// one vote.
func (s *VoteService) Names(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetNames(ctx); ok {
			return cached, nil
		}
	}

	names, err := s.votes.Names(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetNames(ctx, names)
	}
	return names, nil
}
