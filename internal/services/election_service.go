package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"election-service/internal/models"
	"election-service/internal/repositories/sqlstore"
)

type ElectionService struct {
	repo   *sqlstore.ElectionRepository
	cache  ResultsCache
	events EventPublisher
	now    func() time.Time
}

func NewElectionService(repo *sqlstore.ElectionRepository, cache ResultsCache, events EventPublisher) *ElectionService {
	if cache == nil {
		cache = nopCache{}
	}
	if events == nil {
		events = nopPublisher{}
	}
	return &ElectionService{repo: repo, cache: cache, events: events, now: time.Now}
}

// ResultsEvent is published when an election's results are declared or revoked.
type ResultsEvent struct {
	ElectionID uint      `json:"election_id"`
	Title      string    `json:"title"`
	Declared   bool      `json:"declared"`
	At         time.Time `json:"at"`
}

func (s *ElectionService) List(ctx context.Context) ([]models.Election, error) {
	elections, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list elections: %w", err)
	}
	return elections, nil
}

func (s *ElectionService) Get(ctx context.Context, id uint) (*models.Election, error) {
	election, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sqlstore.ErrNotFound) {
			return nil, ErrElectionNotFound
		}
		return nil, err
	}
	return election, nil
}

func (s *ElectionService) Create(ctx context.Context, req *models.CreateElectionRequest) (*models.Election, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, ErrInvalidElectionDates
	}

	election := &models.Election{
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		ElectionLevel: req.ElectionLevel,
		ElectionType:  req.ElectionType,
		State:         req.State,
		City:          req.City,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
	}
	if err := s.repo.Create(ctx, election); err != nil {
		return nil, err
	}

	slog.Info("Election created", "electionID", election.ID, "title", election.Title)
	return election, nil
}

func (s *ElectionService) Update(ctx context.Context, id uint, req *models.UpdateElectionRequest) (*models.Election, error) {
	election, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		election.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		election.Description = *req.Description
	}
	if req.ElectionLevel != nil {
		election.ElectionLevel = *req.ElectionLevel
	}
	if req.ElectionType != nil {
		election.ElectionType = *req.ElectionType
	}
	if req.State != nil {
		election.State = *req.State
	}
	if req.City != nil {
		election.City = *req.City
	}
	if req.StartDate != nil {
		election.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		election.EndDate = *req.EndDate
	}
	if !election.EndDate.After(election.StartDate) {
		return nil, ErrInvalidElectionDates
	}
	if election.Title == "" {
		return nil, ErrInvalidRequest
	}

	if err := s.repo.Update(ctx, election); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return election, nil
}

// Delete removes the election with its candidates and votes.
func (s *ElectionService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sqlstore.ErrNotFound) {
			return ErrElectionNotFound
		}
		return err
	}
	s.invalidate(ctx, id)
	slog.Info("Election deleted", "electionID", id)
	return nil
}

// DeclareResults publishes counts and closes voting.
func (s *ElectionService) DeclareResults(ctx context.Context, id uint) (*models.Election, error) {
	return s.setDeclared(ctx, id, true)
}

// RevokeResults hides counts again and reopens voting if still in window.
func (s *ElectionService) RevokeResults(ctx context.Context, id uint) (*models.Election, error) {
	return s.setDeclared(ctx, id, false)
}

func (s *ElectionService) setDeclared(ctx context.Context, id uint, declared bool) (*models.Election, error) {
	if err := s.repo.SetResultsDeclared(ctx, id, declared); err != nil {
		if errors.Is(err, sqlstore.ErrNotFound) {
			return nil, ErrElectionNotFound
		}
		return nil, err
	}
	s.invalidate(ctx, id)

	election, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	eventType := EventResultsDeclared
	if !declared {
		eventType = EventResultsRevoked
	}
	event := ResultsEvent{ElectionID: id, Title: election.Title, Declared: declared, At: s.now()}
	if err := s.events.Publish(ctx, eventType, strconv.FormatUint(uint64(id), 10), event); err != nil {
		slog.Warn("Failed to publish results event", "electionID", id, "error", err)
	}

	slog.Info("Election results flag changed", "electionID", id, "declared", declared)
	return election, nil
}

func (s *ElectionService) invalidate(ctx context.Context, id uint) {
	if err := s.cache.InvalidateResults(ctx, id); err != nil {
		slog.Warn("Failed to invalidate results cache", "electionID", id, "error", err)
	}
}
