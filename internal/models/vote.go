package models

import "time"

// Vote is one ballot. The unique index on (voter_id, election_id) is the
// single source of truth for one vote per voter per election.
type Vote struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	VoterID     uint      `gorm:"not null;uniqueIndex:idx_vote_voter_election,priority:1" json:"voter_id"`
	ElectionID  uint      `gorm:"not null;uniqueIndex:idx_vote_voter_election,priority:2;index" json:"election_id"`
	CandidateID uint      `gorm:"not null;index" json:"candidate_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for Vote
func (Vote) TableName() string {
	return "votes"
}

type CastVoteRequest struct {
	CandidateID uint `json:"candidate_id" binding:"required"`
}

/** -------------------- Results -------------------- */
// CandidateTally is one row of the aggregation query
type CandidateTally struct {
	CandidateID uint   `json:"candidate_id"`
	Name        string `json:"name"`
	Party       string `json:"party"`
	Votes       int64  `json:"votes"`
}

// VoterRecord is one row of the admin voter list
type VoterRecord struct {
	VoterName      string    `json:"voter_name" csv:"voter_name"`
	VoterEmail     string    `json:"voter_email" csv:"voter_email"`
	CandidateName  string    `json:"candidate_name" csv:"candidate_name"`
	CandidateParty string    `json:"candidate_party" csv:"candidate_party"`
	VotedAt        time.Time `json:"voted_at" csv:"voted_at"`
}

type PublicResults struct {
	Election         ElectionSummary  `json:"election"`
	Results          []CandidateTally `json:"results"`
	LeadingCandidate *CandidateTally  `json:"leading_candidate"`
	Tie              bool             `json:"tie"`
	TotalVotes       int64            `json:"total_votes"`
}

type AdminResults struct {
	PublicResults
	ResultsDeclared bool          `json:"results_declared"`
	Voters          []VoterRecord `json:"voters"`
}

// VoteDetails describes the caller's own ballot in an election
type VoteDetails struct {
	CandidateID    uint      `json:"candidate_id"`
	CandidateName  string    `json:"candidate_name"`
	CandidateParty string    `json:"candidate_party"`
	VotedAt        time.Time `json:"voted_at"`
}

// VoteCastEvent is published after a ballot commits
type VoteCastEvent struct {
	VoteID      uint      `json:"vote_id"`
	VoterID     uint      `json:"voter_id"`
	ElectionID  uint      `json:"election_id"`
	CandidateID uint      `json:"candidate_id"`
	CastAt      time.Time `json:"cast_at"`
}
