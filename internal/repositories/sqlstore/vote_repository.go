package sqlstore

import (
	"context"
	"fmt"

	"election-service/internal/database"
	"election-service/internal/models"

	"gorm.io/gorm"
)

type VoteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

func (r *VoteRepository) HasVoted(ctx context.Context, voterID, electionID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Where("voter_id = ? AND election_id = ?", voterID, electionID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the ballot. A second ballot for the same voter and
// election fails on idx_vote_voter_election and yields ErrDuplicate.
func (r *VoteRepository) Create(ctx context.Context, vote *models.Vote) error {
	if err := r.db.WithContext(ctx).Create(vote).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create vote: %w", err)
	}
	return nil
}

const tallyQuery = `
SELECT c.id AS candidate_id,
       c.name AS name,
       COALESCE(p.name, '') AS party,
       COUNT(v.id) AS votes
FROM candidates c
LEFT JOIN parties p ON p.id = c.party_id
LEFT JOIN votes v ON v.candidate_id = c.id AND v.election_id = c.election_id
WHERE c.election_id = ?
GROUP BY c.id, c.name, p.name
ORDER BY c.id`

// Tally counts votes per candidate, including candidates with none.
// Rows come back in candidate registration order.
func (r *VoteRepository) Tally(ctx context.Context, electionID uint) ([]models.CandidateTally, error) {
	rows := make([]models.CandidateTally, 0)
	if err := r.db.WithContext(ctx).Raw(tallyQuery, electionID).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to tally votes: %w", err)
	}
	return rows, nil
}

const votersQuery = `
SELECT COALESCE(u.name, '') AS voter_name,
       COALESCE(u.email, '') AS voter_email,
       COALESCE(c.name, '') AS candidate_name,
       COALESCE(p.name, '') AS candidate_party,
       v.created_at AS voted_at
FROM votes v
LEFT JOIN users u ON u.id = v.voter_id
LEFT JOIN candidates c ON c.id = v.candidate_id
LEFT JOIN parties p ON p.id = c.party_id
WHERE v.election_id = ?
ORDER BY v.created_at DESC, v.id DESC`

// Voters lists who voted for whom, newest ballot first.
func (r *VoteRepository) Voters(ctx context.Context, electionID uint) ([]models.VoterRecord, error) {
	rows := make([]models.VoterRecord, 0)
	if err := r.db.WithContext(ctx).Raw(votersQuery, electionID).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list voters: %w", err)
	}
	return rows, nil
}

func (r *VoteRepository) ElectionIDsForVoter(ctx context.Context, voterID uint) ([]uint, error) {
	ids := make([]uint, 0)
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Where("voter_id = ?", voterID).
		Order("created_at").
		Pluck("election_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

const detailsQuery = `
SELECT v.candidate_id AS candidate_id,
       COALESCE(c.name, '') AS candidate_name,
       COALESCE(p.name, '') AS candidate_party,
       v.created_at AS voted_at
FROM votes v
LEFT JOIN candidates c ON c.id = v.candidate_id
LEFT JOIN parties p ON p.id = c.party_id
WHERE v.voter_id = ? AND v.election_id = ?`

func (r *VoteRepository) FindDetails(ctx context.Context, voterID, electionID uint) (*models.VoteDetails, error) {
	var details models.VoteDetails
	res := r.db.WithContext(ctx).Raw(detailsQuery, voterID, electionID).Scan(&details)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &details, nil
}
