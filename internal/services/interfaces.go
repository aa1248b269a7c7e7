package services

import (
	"context"
	"mime/multipart"
	"time"

	"election-service/internal/models"
)

// FileStorage stores uploaded images and returns their public URL.
type FileStorage interface {
	Upload(ctx context.Context, file *multipart.FileHeader, folder string) (string, error)
	Delete(ctx context.Context, url string) error
}

// EventPublisher emits domain events after a change commits.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, key string, payload any) error
}

// ResultsCache holds computed public results of declared elections.
type ResultsCache interface {
	GetResults(ctx context.Context, electionID uint) (*models.PublicResults, bool)
	SetResults(ctx context.Context, electionID uint, results *models.PublicResults, ttl time.Duration) error
	InvalidateResults(ctx context.Context, electionID uint) error
}

// LiveFeed pushes tally snapshots to connected observers of an election.
type LiveFeed interface {
	Subscribers(electionID uint) int
	Broadcast(electionID uint, payload any)
}

const (
	EventVoteCast        = "vote.cast"
	EventResultsDeclared = "election.results_declared"
	EventResultsRevoked  = "election.results_revoked"
)

type nopCache struct{}

func (nopCache) GetResults(context.Context, uint) (*models.PublicResults, bool) {
	return nil, false
}

func (nopCache) SetResults(context.Context, uint, *models.PublicResults, time.Duration) error {
	return nil
}

func (nopCache) InvalidateResults(context.Context, uint) error {
	return nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, string, any) error {
	return nil
}

type nopFeed struct{}

func (nopFeed) Subscribers(uint) int {
	return 0
}

func (nopFeed) Broadcast(uint, any) {}
