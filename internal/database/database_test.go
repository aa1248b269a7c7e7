package database

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"election-service/internal/config"
	"election-service/internal/models"

	"github.com/google/uuid"
	"github.com/matryer/try"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNewConnectionRejectsUnknownDriver(t *testing.T) {
	_, err := NewConnection(config.DatabaseConfig{Driver: "oracle"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestNewConnectionRetriesPastLibraryLimit(t *testing.T) {
	delay := retryDelay
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = delay })

	// the parent directory does not exist, so every ping fails
	uri := filepath.Join(t.TempDir(), "missing", "votes.db")
	_, err := NewConnection(config.DatabaseConfig{
		Driver:     "sqlite",
		URI:        uri,
		MaxRetries: 12,
	})
	require.Error(t, err)
	assert.False(t, try.IsMaxRetries(errors.Unwrap(err)))
	assert.Contains(t, err.Error(), "after 12 attempts")
	assert.Contains(t, err.Error(), "unable to open database file")
}

func TestMigrateEnforcesOneVotePerElection(t *testing.T) {
	db, err := NewConnection(config.DatabaseConfig{
		Driver:     "sqlite",
		URI:        fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxRetries: 1,
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	// second run must be a no-op
	require.NoError(t, Migrate(db))

	require.NoError(t, db.Create(&models.Vote{VoterID: 1, ElectionID: 1, CandidateID: 1}).Error)
	require.NoError(t, db.Create(&models.Vote{VoterID: 1, ElectionID: 2, CandidateID: 3}).Error)

	err = db.Create(&models.Vote{VoterID: 1, ElectionID: 1, CandidateID: 2}).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, IsUniqueViolation(errors.New(`pq: duplicate key value violates unique constraint "idx_vote_voter_election"`)))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
}
