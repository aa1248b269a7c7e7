package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"

	"election-service/internal/models"
	"election-service/internal/repositories/sqlstore"
)

type PartyService struct {
	repo    *sqlstore.PartyRepository
	storage FileStorage
}

func NewPartyService(repo *sqlstore.PartyRepository, storage FileStorage) *PartyService {
	return &PartyService{repo: repo, storage: storage}
}

func (s *PartyService) List(ctx context.Context) ([]models.Party, error) {
	return s.repo.List(ctx)
}

// Create stores a party and its optional logo.
func (s *PartyService) Create(ctx context.Context, form *models.PartyForm, logo *multipart.FileHeader) (*models.Party, error) {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return nil, ErrInvalidRequest
	}
	level, err := models.ParsePartyLevel(form.Level)
	if err != nil {
		return nil, err
	}

	party := &models.Party{Name: name, Level: level}
	if logo != nil {
		url, err := s.storage.Upload(ctx, logo, "parties")
		if err != nil {
			return nil, fmt.Errorf("failed to store logo: %w", err)
		}
		party.LogoURL = url
	}

	if err := s.repo.Create(ctx, party); err != nil {
		if party.LogoURL != "" {
			s.removeFile(ctx, party.LogoURL)
		}
		if errors.Is(err, sqlstore.ErrDuplicate) {
			return nil, ErrPartyExists
		}
		return nil, err
	}

	slog.Info("Party created", "partyID", party.ID, "name", party.Name)
	return party, nil
}

// Update changes the provided fields. A new logo replaces the stored one.
func (s *PartyService) Update(ctx context.Context, id uint, form *models.PartyForm, logo *multipart.FileHeader) (*models.Party, error) {
	party, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(form.Name); name != "" {
		party.Name = name
	}
	if form.Level != "" {
		level, err := models.ParsePartyLevel(form.Level)
		if err != nil {
			return nil, err
		}
		party.Level = level
	}

	oldLogo := party.LogoURL
	if logo != nil {
		url, err := s.storage.Upload(ctx, logo, "parties")
		if err != nil {
			return nil, fmt.Errorf("failed to store logo: %w", err)
		}
		party.LogoURL = url
	}

	if err := s.repo.Update(ctx, party); err != nil {
		if logo != nil {
			s.removeFile(ctx, party.LogoURL)
		}
		if errors.Is(err, sqlstore.ErrDuplicate) {
			return nil, ErrPartyExists
		}
		return nil, err
	}

	if logo != nil && oldLogo != "" {
		s.removeFile(ctx, oldLogo)
	}
	return party, nil
}

func (s *PartyService) Delete(ctx context.Context, id uint) error {
	party, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sqlstore.ErrNotFound) {
			return ErrPartyNotFound
		}
		return err
	}
	if party.LogoURL != "" {
		s.removeFile(ctx, party.LogoURL)
	}
	slog.Info("Party deleted", "partyID", id)
	return nil
}

func (s *PartyService) find(ctx context.Context, id uint) (*models.Party, error) {
	party, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sqlstore.ErrNotFound) {
			return nil, ErrPartyNotFound
		}
		return nil, err
	}
	return party, nil
}

func (s *PartyService) removeFile(ctx context.Context, url string) {
	if err := s.storage.Delete(ctx, url); err != nil {
		slog.Warn("Failed to remove stored file", "url", url, "error", err)
	}
}
