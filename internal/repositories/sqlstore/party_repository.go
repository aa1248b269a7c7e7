package sqlstore

import (
	"context"
	"fmt"

	"election-service/internal/database"
	"election-service/internal/models"

	"gorm.io/gorm"
)

type PartyRepository struct {
	db *gorm.DB
}

func NewPartyRepository(db *gorm.DB) *PartyRepository {
	return &PartyRepository{db: db}
}

func (r *PartyRepository) Create(ctx context.Context, party *models.Party) error {
	if err := r.db.WithContext(ctx).Create(party).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create party: %w", err)
	}
	return nil
}

func (r *PartyRepository) FindByID(ctx context.Context, id uint) (*models.Party, error) {
	var party models.Party
	if err := r.db.WithContext(ctx).First(&party, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &party, nil
}

func (r *PartyRepository) List(ctx context.Context) ([]models.Party, error) {
	var parties []models.Party
	if err := r.db.WithContext(ctx).Order("name").Find(&parties).Error; err != nil {
		return nil, err
	}
	return parties, nil
}

func (r *PartyRepository) Update(ctx context.Context, party *models.Party) error {
	if err := r.db.WithContext(ctx).Save(party).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update party: %w", err)
	}
	return nil
}

// Delete removes the party. Candidates keep their party_id and show an
// empty party name in results.
func (r *PartyRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Party{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete party: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
