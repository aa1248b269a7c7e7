// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"election-service/internal/config"
	"election-service/internal/database"
	"election-service/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewTestDB returns a migrated in-memory sqlite database private to t.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewConnection(config.DatabaseConfig{
		Driver:     "sqlite",
		URI:        fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString()),
		MaxRetries: 1,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, name string, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	u := &models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		Password: string(hash),
		Role:     role,
		DOB:      time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateParty(t *testing.T, db *gorm.DB, name string) *models.Party {
	t.Helper()

	p := &models.Party{Name: name, Level: models.PartyLevelNational}
	require.NoError(t, db.Create(p).Error)
	return p
}

// CreateElection stores an election open from start to end.
func CreateElection(t *testing.T, db *gorm.DB, title string, start, end time.Time) *models.Election {
	t.Helper()

	e := &models.Election{
		Title:         title,
		ElectionLevel: "National",
		ElectionType:  "General",
		StartDate:     start,
		EndDate:       end,
	}
	require.NoError(t, db.Create(e).Error)
	return e
}

func CreateCandidate(t *testing.T, db *gorm.DB, name string, partyID, electionID uint) *models.Candidate {
	t.Helper()

	c := &models.Candidate{Name: name, PartyID: partyID, ElectionID: electionID}
	require.NoError(t, db.Create(c).Error)
	return c
}

func CreateVote(t *testing.T, db *gorm.DB, voterID, electionID, candidateID uint) *models.Vote {
	t.Helper()

	v := &models.Vote{VoterID: voterID, ElectionID: electionID, CandidateID: candidateID}
	require.NoError(t, db.Create(v).Error)
	return v
}
