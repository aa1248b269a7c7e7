package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"election-service/internal/models"
	"election-service/internal/repositories/sqlstore"
	"election-service/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type voteFixture struct {
	db       *gorm.DB
	svc      *VoteService
	election *models.Election
	a, b     *models.Candidate
	now      time.Time
	events   *recordingPublisher
	cache    *memCache
	feed     *fakeFeed
}

func newVoteFixture(t *testing.T) *voteFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	election := testutil.CreateElection(t, db, "General", now.Add(-time.Hour), now.Add(time.Hour))
	party := testutil.CreateParty(t, db, "Unity")
	a := testutil.CreateCandidate(t, db, "A", party.ID, election.ID)
	b := testutil.CreateCandidate(t, db, "B", party.ID, election.ID)

	f := &voteFixture{
		db:       db,
		election: election,
		a:        a,
		b:        b,
		now:      now,
		events:   &recordingPublisher{},
		cache:    newMemCache(),
		feed:     newFakeFeed(),
	}
	f.svc = NewVoteService(
		sqlstore.NewElectionRepository(db),
		sqlstore.NewVoteRepository(db),
		WithClock(func() time.Time { return f.now }),
		WithEventPublisher(f.events),
		WithResultsCache(f.cache, time.Minute),
		WithLiveFeed(f.feed),
	)
	return f
}

func TestCastVoteSuccess(t *testing.T) {
	f := newVoteFixture(t)
	voter := testutil.CreateUser(t, f.db, "v", models.RoleVoter)

	vote, err := f.svc.CastVote(context.Background(), f.election.ID, f.a.ID, voter.ID, models.RoleVoter)
	require.NoError(t, err)
	assert.NotZero(t, vote.ID)

	events := f.events.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventVoteCast, events[0].Type)
	payload := events[0].Payload.(models.VoteCastEvent)
	assert.Equal(t, f.a.ID, payload.CandidateID)
}

func TestCastVoteCandidateRoleMayVote(t *testing.T) {
	f := newVoteFixture(t)
	user := testutil.CreateUser(t, f.db, "c", models.RoleCandidate)

	_, err := f.svc.CastVote(context.Background(), f.election.ID, f.b.ID, user.ID, models.RoleCandidate)
	assert.NoError(t, err)
}

func TestCastVoteAdminRejected(t *testing.T) {
	f := newVoteFixture(t)
	admin := testutil.CreateUser(t, f.db, "admin", models.RoleAdmin)

	_, err := f.svc.CastVote(context.Background(), f.election.ID, f.a.ID, admin.ID, models.RoleAdmin)
	assert.ErrorIs(t, err, ErrRoleCannotVote)
}

func TestCastVoteValidationOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("missing election", func(t *testing.T) {
		f := newVoteFixture(t)
		_, err := f.svc.CastVote(ctx, f.election.ID+99, f.a.ID, 1, models.RoleVoter)
		assert.ErrorIs(t, err, ErrElectionNotFound)
	})

	t.Run("before start", func(t *testing.T) {
		f := newVoteFixture(t)
		f.now = f.election.StartDate.Add(-time.Second)
		_, err := f.svc.CastVote(ctx, f.election.ID, f.a.ID, 1, models.RoleVoter)
		assert.ErrorIs(t, err, ErrElectionNotActive)
	})

	t.Run("after end wins over declared", func(t *testing.T) {
		f := newVoteFixture(t)
		require.NoError(t, f.db.Model(f.election).Update("results_declared", true).Error)
		f.now = f.election.EndDate.Add(time.Second)
		_, err := f.svc.CastVote(ctx, f.election.ID, f.a.ID, 1, models.RoleVoter)
		assert.ErrorIs(t, err, ErrElectionNotActive)
	})

	t.Run("declared inside window", func(t *testing.T) {
		f := newVoteFixture(t)
		require.NoError(t, f.db.Model(f.election).Update("results_declared", true).Error)
		_, err := f.svc.CastVote(ctx, f.election.ID, f.a.ID, 1, models.RoleVoter)
		assert.ErrorIs(t, err, ErrVotingClosed)
	})

	t.Run("already voted wins over foreign candidate", func(t *testing.T) {
		f := newVoteFixture(t)
		voter := testutil.CreateUser(t, f.db, "v", models.RoleVoter)
		_, err := f.svc.CastVote(ctx, f.election.ID, f.a.ID, voter.ID, models.RoleVoter)
		require.NoError(t, err)

		_, err = f.svc.CastVote(ctx, f.election.ID, 12345, voter.ID, models.RoleVoter)
		assert.ErrorIs(t, err, ErrAlreadyVoted)
	})

	t.Run("candidate from another election", func(t *testing.T) {
		f := newVoteFixture(t)
		other := testutil.CreateElection(t, f.db, "Other", f.now.Add(-time.Hour), f.now.Add(time.Hour))
		foreign := testutil.CreateCandidate(t, f.db, "X", f.a.PartyID, other.ID)

		_, err := f.svc.CastVote(ctx, f.election.ID, foreign.ID, 1, models.RoleVoter)
		assert.ErrorIs(t, err, ErrCandidateNotInElection)
	})
}

func TestCastVoteBoundariesInclusive(t *testing.T) {
	f := newVoteFixture(t)
	ctx := context.Background()
	first := testutil.CreateUser(t, f.db, "first", models.RoleVoter)
	last := testutil.CreateUser(t, f.db, "last", models.RoleVoter)

	f.now = f.election.StartDate
	_, err := f.svc.CastVote(ctx, f.election.ID, f.a.ID, first.ID, models.RoleVoter)
	require.NoError(t, err)

	f.now = f.election.EndDate
	_, err = f.svc.CastVote(ctx, f.election.ID, f.a.ID, last.ID, models.RoleVoter)
	require.NoError(t, err)
}

func TestCastVoteConcurrentDuplicates(t *testing.T) {
	f := newVoteFixture(t)
	voter := testutil.CreateUser(t, f.db, "racer", models.RoleVoter)

	const attempts = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		dupes     int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			candidate := f.a.ID
			if i%2 == 1 {
				candidate = f.b.ID
			}
			_, err := f.svc.CastVote(context.Background(), f.election.ID, candidate, voter.ID, models.RoleVoter)
			mu.Lock()
			defer mu.Unlock()
			switch err {
			case nil:
				successes++
			case ErrAlreadyVoted:
				dupes++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, dupes)

	var count int64
	f.db.Model(&models.Vote{}).Where("voter_id = ? AND election_id = ?", voter.ID, f.election.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRankTally(t *testing.T) {
	rows := []models.CandidateTally{
		{CandidateID: 1, Name: "A", Votes: 2},
		{CandidateID: 2, Name: "B", Votes: 3},
		{CandidateID: 3, Name: "C", Votes: 0},
	}

	ranked, leader, tie, total := rankTally(rows)
	assert.Equal(t, []uint{2, 1, 3}, []uint{ranked[0].CandidateID, ranked[1].CandidateID, ranked[2].CandidateID})
	require.NotNil(t, leader)
	assert.Equal(t, uint(2), leader.CandidateID)
	assert.False(t, tie)
	assert.Equal(t, int64(5), total)
	// input is left untouched
	assert.Equal(t, uint(1), rows[0].CandidateID)
}

func TestRankTallyTieAndEmpty(t *testing.T) {
	ranked, leader, tie, total := rankTally([]models.CandidateTally{
		{CandidateID: 7, Votes: 4},
		{CandidateID: 3, Votes: 4},
	})
	require.NotNil(t, leader)
	assert.Equal(t, uint(3), leader.CandidateID)
	assert.Equal(t, uint(7), ranked[1].CandidateID)
	assert.True(t, tie)
	assert.Equal(t, int64(8), total)

	_, leader, tie, total = rankTally([]models.CandidateTally{{CandidateID: 1}, {CandidateID: 2}})
	assert.Nil(t, leader)
	assert.False(t, tie)
	assert.Zero(t, total)

	ranked, leader, _, _ = rankTally(nil)
	assert.Empty(t, ranked)
	assert.Nil(t, leader)
}

func TestAdminResultsTally(t *testing.T) {
	f := newVoteFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		u := testutil.CreateUser(t, f.db, "fa", models.RoleVoter)
		_, err := f.svc.CastVote(ctx, f.election.ID, f.a.ID, u.ID, models.RoleVoter)
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		u := testutil.CreateUser(t, f.db, "fb", models.RoleVoter)
		_, err := f.svc.CastVote(ctx, f.election.ID, f.b.ID, u.ID, models.RoleVoter)
		require.NoError(t, err)
	}

	res, err := f.svc.AdminResults(ctx, f.election.ID)
	require.NoError(t, err)
	require.Len(t, res.Results, 2)
	assert.Equal(t, "A", res.Results[0].Name)
	assert.Equal(t, int64(3), res.Results[0].Votes)
	assert.Equal(t, "B", res.Results[1].Name)
	assert.Equal(t, int64(2), res.Results[1].Votes)
	require.NotNil(t, res.LeadingCandidate)
	assert.Equal(t, f.a.ID, res.LeadingCandidate.CandidateID)
	assert.Equal(t, int64(5), res.TotalVotes)
	assert.Len(t, res.Voters, 5)
	assert.False(t, res.ResultsDeclared)
}

func TestAdminResultsWithoutVotes(t *testing.T) {
	f := newVoteFixture(t)

	res, err := f.svc.AdminResults(context.Background(), f.election.ID)
	require.NoError(t, err)
	assert.Len(t, res.Results, 2)
	assert.Nil(t, res.LeadingCandidate)
	assert.Zero(t, res.TotalVotes)
	assert.Empty(t, res.Voters)
}

func TestPublicResultsRequireDeclaration(t *testing.T) {
	f := newVoteFixture(t)
	ctx := context.Background()
	voter := testutil.CreateUser(t, f.db, "v", models.RoleVoter)
	_, err := f.svc.CastVote(ctx, f.election.ID, f.b.ID, voter.ID, models.RoleVoter)
	require.NoError(t, err)

	_, err = f.svc.PublicResults(ctx, f.election.ID)
	assert.ErrorIs(t, err, ErrResultsNotDeclared)

	require.NoError(t, f.db.Model(f.election).Update("results_declared", true).Error)

	res, err := f.svc.PublicResults(ctx, f.election.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.TotalVotes)
	assert.Equal(t, f.b.ID, res.LeadingCandidate.CandidateID)
	assert.True(t, f.cache.has(f.election.ID))

	_, err = f.svc.PublicResults(ctx, f.election.ID+50)
	assert.ErrorIs(t, err, ErrElectionNotFound)
}

func TestCastVoteBroadcastsToLiveObservers(t *testing.T) {
	f := newVoteFixture(t)
	f.feed.subscribers[f.election.ID] = 1
	voter := testutil.CreateUser(t, f.db, "v", models.RoleVoter)

	_, err := f.svc.CastVote(context.Background(), f.election.ID, f.a.ID, voter.ID, models.RoleVoter)
	require.NoError(t, err)

	require.Len(t, f.feed.sent[f.election.ID], 1)
	snapshot := f.feed.sent[f.election.ID][0].(*models.PublicResults)
	assert.Equal(t, int64(1), snapshot.TotalVotes)
}

func TestVotedElectionsAndDetails(t *testing.T) {
	f := newVoteFixture(t)
	ctx := context.Background()
	voter := testutil.CreateUser(t, f.db, "v", models.RoleVoter)

	_, err := f.svc.VoteDetails(ctx, voter.ID, f.election.ID)
	assert.ErrorIs(t, err, ErrVoteNotFound)

	_, err = f.svc.CastVote(ctx, f.election.ID, f.b.ID, voter.ID, models.RoleVoter)
	require.NoError(t, err)

	ids, err := f.svc.VotedElections(ctx, voter.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{f.election.ID}, ids)

	details, err := f.svc.VoteDetails(ctx, voter.ID, f.election.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", details.CandidateName)
	assert.Equal(t, "Unity", details.CandidateParty)
}
