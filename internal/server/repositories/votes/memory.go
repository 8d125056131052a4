package votes

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/voteguard/voteguard/internal/common"
	"github.com/voteguard/voteguard/internal/server/models"
)

// VoterLookup resolves a voter id to an email for the detailed listing.
// The users repository satisfies it.
type VoterLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// MemoryRepository is an in-memory Repository used by tests and local runs.
// Like the database, it rejects a second ballot for the same voter under its
// own lock, so concurrent casts race against a real uniqueness guard.
type MemoryRepository struct {
	mu     sync.Mutex
	byUser map[string]*models.Vote
	order  []string // voter ids in insertion order
	voters VoterLookup
}

func NewMemoryRepository(voters VoterLookup) *MemoryRepository {
	return &MemoryRepository{byUser: map[string]*models.Vote{}, voters: voters}
}

func (r *MemoryRepository) Create(ctx context.Context, vote *models.Vote) (*models.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUser[vote.UserID]; ok {
		return nil, common.ErrDuplicateKey
	}

	if vote.ID == "" {
		vote.ID = uuid.NewString()
	}
	if vote.CastAt.IsZero() {
		vote.CastAt = time.Now().UTC()
	}

	stored := *vote
	r.byUser[stored.UserID] = &stored
	r.order = append(r.order, stored.UserID)
	return vote, nil
}

func (r *MemoryRepository) GetByUserID(ctx context.Context, userID string) (*models.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.byUser[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *v
	return &copied, nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*models.Vote, 0, len(r.order))
	for _, userID := range r.order {
		copied := *r.byUser[userID]
		result = append(result, &copied)
	}
	return result, nil
}

func (r *MemoryRepository) ListWithVoters(ctx context.Context) ([]*models.VoteWithVoter, error) {
	votes, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*models.VoteWithVoter, 0, len(votes))
	for _, v := range votes {
		detailed := &models.VoteWithVoter{Vote: *v}
		if r.voters != nil {
			if u, err := r.voters.GetByID(ctx, v.UserID); err == nil {
				detailed.VoterEmail = u.Email
			}
		}
		result = append(result, detailed)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CastAt.After(result[j].CastAt)
	})
	return result, nil
}

func (r *MemoryRepository) Results(ctx context.Context) ([]*models.VoteCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := map[string]int64{}
	for _, v := range r.byUser {
		counts[v.Name]++
	}

	result := make([]*models.VoteCount, 0, len(counts))
	for name, count := range counts {
		result = append(result, &models.VoteCount{Name: name, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count == result[j].Count {
			return result[i].Name < result[j].Name
		}
		return result[i].Count > result[j].Count
	})
	return result, nil
}

func (r *MemoryRepository) Names(ctx context.Context) ([]string, error) {
	results, err := r.Results(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(results))
	for _, c := range results {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names, nil
}
