package models

import "time"

// Vote is a single ballot. A user may hold at most one; the votes table
// enforces this with a unique constraint on UserID. Votes reference the
// voter by id without a cascade, so deleting a user orphans the vote.
type Vote struct {
	ID     string
	UserID string
	Name   string
	CastAt time.Time
}

// VoteWithVoter is a vote joined with the voter's email for the admin
// listing. VoterEmail is empty when the voter has since been deleted.
type VoteWithVoter struct {
	Vote
	VoterEmail string
}

// VoteCount is one row of the grouped tally.
type VoteCount struct {
	Name  string
	Count int64
}
