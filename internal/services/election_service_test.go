package services

import (
	"context"
	"testing"
	"time"

	"election-service/internal/models"
	"election-service/internal/repositories/sqlstore"
	"election-service/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElectionServiceCreateValidatesDates(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewElectionService(sqlstore.NewElectionRepository(db), nil, nil)
	start := time.Date(2026, 11, 3, 8, 0, 0, 0, time.UTC)

	_, err := svc.Create(context.Background(), &models.CreateElectionRequest{
		Title: "Bad", ElectionLevel: "State", ElectionType: "General",
		StartDate: start, EndDate: start,
	})
	assert.ErrorIs(t, err, ErrInvalidElectionDates)

	e, err := svc.Create(context.Background(), &models.CreateElectionRequest{
		Title: " Good ", ElectionLevel: "State", ElectionType: "General",
		StartDate: start, EndDate: start.Add(12 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "Good", e.Title)
	assert.False(t, e.ResultsDeclared)
}

func TestElectionServiceUpdate(t *testing.T) {
	db := testutil.NewTestDB(t)
	cache := newMemCache()
	svc := NewElectionService(sqlstore.NewElectionRepository(db), cache, nil)
	ctx := context.Background()
	now := time.Now().UTC()
	e := testutil.CreateElection(t, db, "Old", now, now.Add(time.Hour))
	cache.entries[e.ID] = &models.PublicResults{}

	title := "New"
	updated, err := svc.Update(ctx, e.ID, &models.UpdateElectionRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.False(t, cache.has(e.ID))

	early := now.Add(-time.Hour)
	_, err = svc.Update(ctx, e.ID, &models.UpdateElectionRequest{EndDate: &early})
	assert.ErrorIs(t, err, ErrInvalidElectionDates)

	_, err = svc.Update(ctx, e.ID+10, &models.UpdateElectionRequest{Title: &title})
	assert.ErrorIs(t, err, ErrElectionNotFound)
}

func TestElectionServiceDeclareAndRevoke(t *testing.T) {
	db := testutil.NewTestDB(t)
	events := &recordingPublisher{}
	cache := newMemCache()
	svc := NewElectionService(sqlstore.NewElectionRepository(db), cache, events)
	ctx := context.Background()
	now := time.Now().UTC()
	e := testutil.CreateElection(t, db, "Vote", now, now.Add(time.Hour))

	declared, err := svc.DeclareResults(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, declared.ResultsDeclared)

	cache.entries[e.ID] = &models.PublicResults{}
	revoked, err := svc.RevokeResults(ctx, e.ID)
	require.NoError(t, err)
	assert.False(t, revoked.ResultsDeclared)
	assert.False(t, cache.has(e.ID))

	got := events.Events()
	require.Len(t, got, 2)
	assert.Equal(t, EventResultsDeclared, got[0].Type)
	assert.Equal(t, EventResultsRevoked, got[1].Type)

	_, err = svc.DeclareResults(ctx, e.ID+5)
	assert.ErrorIs(t, err, ErrElectionNotFound)
}

func TestElectionServiceDeleteCascadesThroughTally(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewElectionService(sqlstore.NewElectionRepository(db), nil, nil)
	votes := sqlstore.NewVoteRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	e := testutil.CreateElection(t, db, "Gone", now, now.Add(time.Hour))
	p := testutil.CreateParty(t, db, "P")
	c := testutil.CreateCandidate(t, db, "C", p.ID, e.ID)
	testutil.CreateVote(t, db, testutil.CreateUser(t, db, "v", models.RoleVoter).ID, e.ID, c.ID)

	require.NoError(t, svc.Delete(ctx, e.ID))

	rows, err := votes.Tally(ctx, e.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.ErrorIs(t, svc.Delete(ctx, e.ID), ErrElectionNotFound)
}

func TestElectionServiceListNewestFirst(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewElectionService(sqlstore.NewElectionRepository(db), nil, nil)
	now := time.Now().UTC()

	testutil.CreateElection(t, db, "Earlier", now.Add(-48*time.Hour), now.Add(-24*time.Hour))
	testutil.CreateElection(t, db, "Later", now, now.Add(time.Hour))

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Later", list[0].Title)
}
