package services

import "errors"

// Custom errors
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUserAlreadyExists     = errors.New("user already exists")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrInvalidRequest        = errors.New("invalid request")
	ErrInvalidDate           = errors.New("invalid date")
	ErrAdminSelfRegistration = errors.New("admin accounts cannot be self-registered")

	ErrElectionNotFound       = errors.New("election not found")
	ErrInvalidElectionDates   = errors.New("end date must be after start date")
	ErrElectionNotActive      = errors.New("election is not active")
	ErrVotingClosed           = errors.New("voting has ended for this election")
	ErrAlreadyVoted           = errors.New("you have already voted in this election")
	ErrCandidateNotInElection = errors.New("candidate is not part of this election")
	ErrRoleCannotVote         = errors.New("this account role cannot vote")
	ErrResultsNotDeclared     = errors.New("results have not been declared")
	ErrVoteNotFound           = errors.New("no vote found for this election")

	ErrCandidateNotFound = errors.New("candidate not found")
	ErrPartyNotFound     = errors.New("party not found")
	ErrPartyExists       = errors.New("a party with this name already exists")
)
