package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"election-service/internal/models"
	"election-service/internal/repositories/sqlstore"
)

type CandidateService struct {
	repo      *sqlstore.CandidateRepository
	elections *sqlstore.ElectionRepository
	parties   *sqlstore.PartyRepository
	cache     ResultsCache
}

func NewCandidateService(
	repo *sqlstore.CandidateRepository,
	elections *sqlstore.ElectionRepository,
	parties *sqlstore.PartyRepository,
	cache ResultsCache,
) *CandidateService {
	if cache == nil {
		cache = nopCache{}
	}
	return &CandidateService{repo: repo, elections: elections, parties: parties, cache: cache}
}

// Add appends a candidate to the end of the election's list.
func (s *CandidateService) Add(ctx context.Context, req *models.CreateCandidateRequest) (*models.Candidate, error) {
	if _, err := s.elections.FindByID(ctx, req.ElectionID); err != nil {
		if errors.Is(err, sqlstore.ErrNotFound) {
			return nil, ErrElectionNotFound
		}
		return nil, err
	}
	party, err := s.parties.FindByID(ctx, req.PartyID)
	if err != nil {
		if errors.Is(err, sqlstore.ErrNotFound) {
			return nil, ErrPartyNotFound
		}
		return nil, err
	}

	candidate := &models.Candidate{
		Name:       strings.TrimSpace(req.Name),
		PartyID:    party.ID,
		ElectionID: req.ElectionID,
	}
	if err := s.repo.Create(ctx, candidate); err != nil {
		return nil, err
	}
	candidate.Party = party

	s.invalidate(ctx, req.ElectionID)
	slog.Info("Candidate added", "candidateID", candidate.ID, "electionID", req.ElectionID)
	return candidate, nil
}

// Remove deletes the candidate and the votes cast for it.
func (s *CandidateService) Remove(ctx context.Context, id uint) error {
	candidate, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sqlstore.ErrNotFound) {
			return ErrCandidateNotFound
		}
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sqlstore.ErrNotFound) {
			return ErrCandidateNotFound
		}
		return err
	}

	s.invalidate(ctx, candidate.ElectionID)
	slog.Info("Candidate removed", "candidateID", id, "electionID", candidate.ElectionID)
	return nil
}

func (s *CandidateService) invalidate(ctx context.Context, electionID uint) {
	if err := s.cache.InvalidateResults(ctx, electionID); err != nil {
		slog.Warn("Failed to invalidate results cache", "electionID", electionID, "error", err)
	}
}
