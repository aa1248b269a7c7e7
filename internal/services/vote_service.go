package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"election-service/internal/models"
	"election-service/internal/repositories/sqlstore"
)

type VoteService struct {
	elections *sqlstore.ElectionRepository
	votes     *sqlstore.VoteRepository
	cache     ResultsCache
	events    EventPublisher
	feed      LiveFeed
	cacheTTL  time.Duration
	now       func() time.Time
}

type VoteServiceOption func(*VoteService)

func WithResultsCache(cache ResultsCache, ttl time.Duration) VoteServiceOption {
	return func(s *VoteService) {
		if cache != nil {
			s.cache = cache
			s.cacheTTL = ttl
		}
	}
}

func WithEventPublisher(p EventPublisher) VoteServiceOption {
	return func(s *VoteService) {
		if p != nil {
			s.events = p
		}
	}
}

func WithLiveFeed(feed LiveFeed) VoteServiceOption {
	return func(s *VoteService) {
		if feed != nil {
			s.feed = feed
		}
	}
}

// WithClock replaces time.Now for the open-window check.
func WithClock(now func() time.Time) VoteServiceOption {
	return func(s *VoteService) {
		s.now = now
	}
}

func NewVoteService(elections *sqlstore.ElectionRepository, votes *sqlstore.VoteRepository, opts ...VoteServiceOption) *VoteService {
	s := &VoteService{
		elections: elections,
		votes:     votes,
		cache:     nopCache{},
		events:    nopPublisher{},
		feed:      nopFeed{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CastVote records one ballot. Checks run in a fixed order and the first
// failing one decides the error. The unique index on (voter, election)
// catches a concurrent duplicate that slipped past HasVoted.
func (s *VoteService) CastVote(ctx context.Context, electionID, candidateID, voterID uint, role models.Role) (*models.Vote, error) {
	if !role.CanVote() {
		return nil, ErrRoleCannotVote
	}

	election, err := s.elections.FindByID(ctx, electionID)
	if err != nil {
		if errors.Is(err, sqlstore.ErrNotFound) {
			return nil, ErrElectionNotFound
		}
		return nil, fmt.Errorf("failed to load election: %w", err)
	}

	if !election.IsOpenAt(s.now()) {
		return nil, ErrElectionNotActive
	}
	if election.ResultsDeclared {
		return nil, ErrVotingClosed
	}

	voted, err := s.votes.HasVoted(ctx, voterID, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing vote: %w", err)
	}
	if voted {
		return nil, ErrAlreadyVoted
	}

	if !election.HasCandidate(candidateID) {
		return nil, ErrCandidateNotInElection
	}

	vote := &models.Vote{
		VoterID:     voterID,
		ElectionID:  electionID,
		CandidateID: candidateID,
	}
	if err := s.votes.Create(ctx, vote); err != nil {
		if errors.Is(err, sqlstore.ErrDuplicate) {
			return nil, ErrAlreadyVoted
		}
		return nil, err
	}

	slog.Info("Vote cast", "electionID", electionID, "voterID", voterID)

	s.afterVote(ctx, election, vote)
	return vote, nil
}

func (s *VoteService) afterVote(ctx context.Context, election *models.Election, vote *models.Vote) {
	event := models.VoteCastEvent{
		VoteID:      vote.ID,
		VoterID:     vote.VoterID,
		ElectionID:  vote.ElectionID,
		CandidateID: vote.CandidateID,
		CastAt:      vote.CreatedAt,
	}
	if err := s.events.Publish(ctx, EventVoteCast, strconv.FormatUint(uint64(vote.ElectionID), 10), event); err != nil {
		slog.Warn("Failed to publish vote event", "electionID", vote.ElectionID, "error", err)
	}

	if s.feed.Subscribers(election.ID) == 0 {
		return
	}
	results, err := s.tally(ctx, election)
	if err != nil {
		slog.Warn("Failed to compute live tally", "electionID", election.ID, "error", err)
		return
	}
	s.feed.Broadcast(election.ID, results)
}

// rankTally orders rows by votes descending, then by candidate id so the
// earlier-registered candidate wins a tie. The leader is nil when no
// votes were cast.
func rankTally(rows []models.CandidateTally) (ranked []models.CandidateTally, leader *models.CandidateTally, tie bool, total int64) {
	ranked = make([]models.CandidateTally, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Votes != ranked[j].Votes {
			return ranked[i].Votes > ranked[j].Votes
		}
		return ranked[i].CandidateID < ranked[j].CandidateID
	})

	for _, r := range ranked {
		total += r.Votes
	}
	if total == 0 {
		return ranked, nil, false, 0
	}

	top := ranked[0]
	leader = &top
	tie = len(ranked) > 1 && ranked[1].Votes == top.Votes
	return ranked, leader, tie, total
}

func (s *VoteService) tally(ctx context.Context, election *models.Election) (*models.PublicResults, error) {
	rows, err := s.votes.Tally(ctx, election.ID)
	if err != nil {
		return nil, err
	}
	ranked, leader, tie, total := rankTally(rows)
	return &models.PublicResults{
		Election:         models.NewElectionSummary(election),
		Results:          ranked,
		LeadingCandidate: leader,
		Tie:              tie,
		TotalVotes:       total,
	}, nil
}

func (s *VoteService) loadElection(ctx context.Context, electionID uint) (*models.Election, error) {
	election, err := s.elections.FindByID(ctx, electionID)
	if err != nil {
		if errors.Is(err, sqlstore.ErrNotFound) {
			return nil, ErrElectionNotFound
		}
		return nil, fmt.Errorf("failed to load election: %w", err)
	}
	return election, nil
}

// PublicResults returns counts without voter identities, only once the
// results have been declared.
func (s *VoteService) PublicResults(ctx context.Context, electionID uint) (*models.PublicResults, error) {
	election, err := s.loadElection(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if !election.ResultsDeclared {
		return nil, ErrResultsNotDeclared
	}

	if cached, ok := s.cache.GetResults(ctx, electionID); ok {
		return cached, nil
	}

	results, err := s.tally(ctx, election)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetResults(ctx, electionID, results, s.cacheTTL); err != nil {
		slog.Warn("Failed to cache results", "electionID", electionID, "error", err)
	}
	return results, nil
}

// AdminResults is available at any time and includes who voted for whom.
func (s *VoteService) AdminResults(ctx context.Context, electionID uint) (*models.AdminResults, error) {
	election, err := s.loadElection(ctx, electionID)
	if err != nil {
		return nil, err
	}

	results, err := s.tally(ctx, election)
	if err != nil {
		return nil, err
	}
	voters, err := s.votes.Voters(ctx, electionID)
	if err != nil {
		return nil, err
	}

	return &models.AdminResults{
		PublicResults:   *results,
		ResultsDeclared: election.ResultsDeclared,
		Voters:          voters,
	}, nil
}

// LiveResults is the snapshot sent to a newly connected live observer.
func (s *VoteService) LiveResults(ctx context.Context, electionID uint) (*models.PublicResults, error) {
	election, err := s.loadElection(ctx, electionID)
	if err != nil {
		return nil, err
	}
	return s.tally(ctx, election)
}

func (s *VoteService) VotedElections(ctx context.Context, voterID uint) ([]uint, error) {
	return s.votes.ElectionIDsForVoter(ctx, voterID)
}

func (s *VoteService) VoteDetails(ctx context.Context, voterID, electionID uint) (*models.VoteDetails, error) {
	details, err := s.votes.FindDetails(ctx, voterID, electionID)
	if err != nil {
		if errors.Is(err, sqlstore.ErrNotFound) {
			return nil, ErrVoteNotFound
		}
		return nil, err
	}
	return details, nil
}
