package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"election-service/internal/database"
	"election-service/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*RedisService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisService(database.NewRedisClient(rdb)), mr
}

func TestCheckRateLimit(t *testing.T) {
	svc, mr := newTestRedis(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := svc.CheckRateLimit(ctx, "rate_limit:7:/api/elections", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "hit %d", i+1)
	}

	allowed, err := svc.CheckRateLimit(ctx, "rate_limit:7:/api/elections", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	// other keys have their own window
	allowed, err = svc.CheckRateLimit(ctx, "rate_limit:8:/api/elections", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	assert.True(t, mr.Exists("rate_limit:7:/api/elections"))
	assert.Greater(t, mr.TTL("rate_limit:7:/api/elections"), time.Duration(0))
}

func TestCheckRateLimitCountsEveryHit(t *testing.T) {
	svc, mr := newTestRedis(t)
	ctx := context.Background()

	const hits = 20
	var wg sync.WaitGroup
	for i := 0; i < hits; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CheckRateLimit(ctx, "rate_limit_ip:10.0.0.1:/api/users/login", 1000, time.Minute)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	members, err := mr.ZMembers("rate_limit_ip:10.0.0.1:/api/users/login")
	require.NoError(t, err)
	assert.Len(t, members, hits)
}

func TestCheckRateLimitWindowSlides(t *testing.T) {
	svc, _ := newTestRedis(t)
	ctx := context.Background()
	window := 50 * time.Millisecond

	allowed, err := svc.CheckRateLimit(ctx, "k", 1, window)
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = svc.CheckRateLimit(ctx, "k", 1, window)
	require.NoError(t, err)
	require.False(t, allowed)

	time.Sleep(2 * window)

	allowed, err = svc.CheckRateLimit(ctx, "k", 1, window)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestResultsCacheRoundTrip(t *testing.T) {
	svc, mr := newTestRedis(t)
	ctx := context.Background()

	_, ok := svc.GetResults(ctx, 3)
	assert.False(t, ok)

	leader := models.CandidateTally{CandidateID: 1, Name: "Alice", Party: "Unity", Votes: 2}
	stored := &models.PublicResults{
		Election: models.ElectionSummary{
			ID:        3,
			Title:     "City Council",
			StartDate: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC),
		},
		Results: []models.CandidateTally{
			leader,
			{CandidateID: 2, Name: "Bob", Party: "Unity", Votes: 1},
		},
		LeadingCandidate: &leader,
		TotalVotes:       3,
	}
	require.NoError(t, svc.SetResults(ctx, 3, stored, time.Minute))
	assert.Equal(t, time.Minute, mr.TTL(resultsKey(3)))

	cached, ok := svc.GetResults(ctx, 3)
	require.True(t, ok)
	assert.Equal(t, stored, cached)
	require.NotNil(t, cached.LeadingCandidate)
	assert.Equal(t, "Alice", cached.LeadingCandidate.Name)

	require.NoError(t, svc.InvalidateResults(ctx, 3))
	_, ok = svc.GetResults(ctx, 3)
	assert.False(t, ok)
	assert.False(t, mr.Exists(resultsKey(3)))
}

func TestGetResultsIgnoresCorruptEntry(t *testing.T) {
	svc, mr := newTestRedis(t)

	require.NoError(t, mr.Set(resultsKey(4), "not json"))
	_, ok := svc.GetResults(context.Background(), 4)
	assert.False(t, ok)
}

func TestRedisServicePing(t *testing.T) {
	svc, _ := newTestRedis(t)

	assert.NoError(t, svc.Ping(context.Background()))
}
