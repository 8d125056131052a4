package httpapi

import (
	"time"

	"github.com/voteguard/voteguard/internal/server/models"
)

// userResponse is the external user shape. The password hash never crosses
// this boundary.
type userResponse struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Role: u.Role}
}

func toUserResponses(users []*models.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

type voteResponse struct {
	ID     string    `json:"id"`
	UserID string    `json:"userId"`
	Name   string    `json:"name"`
	CastAt time.Time `json:"castAt"`
}

func toVoteResponse(v *models.Vote) voteResponse {
	return voteResponse{ID: v.ID, UserID: v.UserID, Name: v.Name, CastAt: v.CastAt}
}

func toVoteResponses(votes []*models.Vote) []voteResponse {
	out := make([]voteResponse, 0, len(votes))
	for _, v := range votes {
		out = append(out, toVoteResponse(v))
	}
	return out
}

type detailedVoteResponse struct {
	voteResponse
	VoterEmail string `json:"voterEmail"`
}

func toDetailedVoteResponses(votes []*models.VoteWithVoter) []detailedVoteResponse {
	out := make([]detailedVoteResponse, 0, len(votes))
	for _, v := range votes {
		out = append(out, detailedVoteResponse{
			voteResponse: toVoteResponse(&v.Vote),
			VoterEmail:   v.VoterEmail,
		})
	}
	return out
}

type voteCountResponse struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

func toVoteCountResponses(counts []*models.VoteCount) []voteCountResponse {
	out := make([]voteCountResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, voteCountResponse{Name: c.Name, Count: c.Count})
	}
	return out
}
