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

func TestCandidateServiceAddAndRemove(t *testing.T) {
	db := testutil.NewTestDB(t)
	cache := newMemCache()
	elections := sqlstore.NewElectionRepository(db)
	svc := NewCandidateService(sqlstore.NewCandidateRepository(db), elections, sqlstore.NewPartyRepository(db), cache)
	ctx := context.Background()
	now := time.Now().UTC()

	e := testutil.CreateElection(t, db, "E", now, now.Add(time.Hour))
	p := testutil.CreateParty(t, db, "P")

	_, err := svc.Add(ctx, &models.CreateCandidateRequest{Name: "X", PartyID: p.ID, ElectionID: e.ID + 1})
	assert.ErrorIs(t, err, ErrElectionNotFound)
	_, err = svc.Add(ctx, &models.CreateCandidateRequest{Name: "X", PartyID: p.ID + 1, ElectionID: e.ID})
	assert.ErrorIs(t, err, ErrPartyNotFound)

	first, err := svc.Add(ctx, &models.CreateCandidateRequest{Name: "First", PartyID: p.ID, ElectionID: e.ID})
	require.NoError(t, err)
	second, err := svc.Add(ctx, &models.CreateCandidateRequest{Name: "Second", PartyID: p.ID, ElectionID: e.ID})
	require.NoError(t, err)
	assert.Equal(t, "P", second.Party.Name)

	loaded, err := elections.FindByID(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Candidates, 2)
	assert.Equal(t, first.ID, loaded.Candidates[0].ID)
	assert.Equal(t, second.ID, loaded.Candidates[1].ID)

	cache.entries[e.ID] = &models.PublicResults{}
	require.NoError(t, svc.Remove(ctx, first.ID))
	assert.False(t, cache.has(e.ID))
	assert.ErrorIs(t, svc.Remove(ctx, first.ID), ErrCandidateNotFound)

	loaded, err = elections.FindByID(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Candidates, 1)
	assert.False(t, loaded.HasCandidate(first.ID))
}
