package sqlstore

import (
	"context"
	"fmt"

	"election-service/internal/models"

	"gorm.io/gorm"
)

type ElectionRepository struct {
	db *gorm.DB
}

func NewElectionRepository(db *gorm.DB) *ElectionRepository {
	return &ElectionRepository{db: db}
}

func withCandidates(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Candidates", func(tx *gorm.DB) *gorm.DB { return tx.Order("candidates.id") }).
		Preload("Candidates.Party")
}

func (r *ElectionRepository) Create(ctx context.Context, election *models.Election) error {
	if err := r.db.WithContext(ctx).Create(election).Error; err != nil {
		return fmt.Errorf("failed to create election: %w", err)
	}
	return nil
}

// FindByID loads the election with its candidates in registration order.
func (r *ElectionRepository) FindByID(ctx context.Context, id uint) (*models.Election, error) {
	var election models.Election
	if err := withCandidates(r.db.WithContext(ctx)).First(&election, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &election, nil
}

func (r *ElectionRepository) List(ctx context.Context) ([]models.Election, error) {
	var elections []models.Election
	err := withCandidates(r.db.WithContext(ctx)).
		Order("start_date DESC").
		Order("id DESC").
		Find(&elections).Error
	if err != nil {
		return nil, err
	}
	return elections, nil
}

func (r *ElectionRepository) Update(ctx context.Context, election *models.Election) error {
	err := r.db.WithContext(ctx).Omit("Candidates").Save(election).Error
	if err != nil {
		return fmt.Errorf("failed to update election: %w", err)
	}
	return nil
}

func (r *ElectionRepository) SetResultsDeclared(ctx context.Context, id uint, declared bool) error {
	res := r.db.WithContext(ctx).Model(&models.Election{}).
		Where("id = ?", id).
		Update("results_declared", declared)
	if res.Error != nil {
		return fmt.Errorf("failed to update results flag: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the election together with its candidates and votes.
func (r *ElectionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Election{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete election: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("election_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return fmt.Errorf("failed to delete votes: %w", err)
		}
		if err := tx.Where("election_id = ?", id).Delete(&models.Candidate{}).Error; err != nil {
			return fmt.Errorf("failed to delete candidates: %w", err)
		}
		return nil
	})
}
