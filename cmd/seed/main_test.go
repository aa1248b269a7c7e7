package main

import (
	"context"
	"testing"
	"time"

	"election-service/internal/models"
	"election-service/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedIsIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, seed(context.Background(), db, "admin-pass", now))
	require.NoError(t, seed(context.Background(), db, "admin-pass", now))

	var admin models.User
	require.NoError(t, db.Where("email = ?", adminEmail).First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	var users, parties, elections, candidates int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Party{}).Count(&parties)
	db.Model(&models.Election{}).Count(&elections)
	db.Model(&models.Candidate{}).Count(&candidates)

	assert.Equal(t, int64(4), users)
	assert.Equal(t, int64(2), parties)
	assert.Equal(t, int64(1), elections)
	assert.Equal(t, int64(2), candidates)
}
