package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"election-service/internal/models"
	"election-service/internal/repositories/sqlstore"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo      *sqlstore.UserRepository
	parties   *sqlstore.PartyRepository
	storage   FileStorage
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewUserService(
	repo *sqlstore.UserRepository,
	parties *sqlstore.PartyRepository,
	storage FileStorage,
	jwtSecret string,
	tokenTTL time.Duration,
) *UserService {
	return &UserService{
		repo:      repo,
		parties:   parties,
		storage:   storage,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// generateJWT creates a new JWT token for the user
func (s *UserService) generateJWT(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"exp":     now.Add(s.tokenTTL).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func parseDOB(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidDate
}

// Register creates a voter or candidate account. image may be nil.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest, image *multipart.FileHeader) (*models.AuthResponse, error) {
	role, err := models.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	if role == models.RoleAdmin {
		return nil, ErrAdminSelfRegistration
	}

	dob, err := parseDOB(req.DOB)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: string(hashedPassword),
		Role:     role,
		State:    req.State,
		City:     req.City,
		Mobile:   req.Mobile,
		Aadhar:   req.Aadhar,
		Address:  req.Address,
		DOB:      dob,
	}

	if image != nil {
		url, err := s.storage.Upload(ctx, image, "users")
		if err != nil {
			return nil, fmt.Errorf("failed to store profile image: %w", err)
		}
		user.Image = url
	}

	if err := s.repo.Create(ctx, &user); err != nil {
		if user.Image != "" {
			s.removeFile(ctx, user.Image)
		}
		if errors.Is(err, sqlstore.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("User registered", "userID", user.ID, "role", user.Role)

	return s.authResponse(&user)
}

func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.authResponse(user)
}

func (s *UserService) authResponse(user *models.User) (*models.AuthResponse, error) {
	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &models.AuthResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
		Token: token,
	}, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	resp := models.NewUserResponse(user)
	return &resp, nil
}

// ListUsers returns every account with its current age.
func (s *UserService) ListUsers(ctx context.Context) ([]models.AdminUserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	now := s.now()
	out := make([]models.AdminUserResponse, len(users))
	for i := range users {
		out[i] = models.AdminUserResponse{
			UserResponse: models.NewUserResponse(&users[i]),
			Age:          models.AgeAt(users[i].DOB, now),
		}
	}
	return out, nil
}

// UpdateProfile updates the user's profile information
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req *models.UpdateProfileRequest) (*models.AuthResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, s.mapNotFound(err)
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash new password: %w", err)
		}
		user.Password = string(hashedPassword)
	}
	if req.PartyID != nil {
		if _, err := s.parties.FindByID(ctx, *req.PartyID); err != nil {
			if errors.Is(err, sqlstore.ErrNotFound) {
				return nil, ErrPartyNotFound
			}
			return nil, err
		}
		user.PartyID = req.PartyID
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, sqlstore.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return s.authResponse(user)
}

// DeleteProfile removes the caller's account. Votes already cast still count.
func (s *UserService) DeleteProfile(ctx context.Context, userID uint) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return s.mapNotFound(err)
	}
	if err := s.repo.Delete(ctx, userID); err != nil {
		return s.mapNotFound(err)
	}
	if user.Image != "" {
		s.removeFile(ctx, user.Image)
	}
	slog.Info("User deleted", "userID", userID)
	return nil
}

func (s *UserService) removeFile(ctx context.Context, url string) {
	if err := s.storage.Delete(ctx, url); err != nil {
		slog.Warn("Failed to remove stored file", "url", url, "error", err)
	}
}

func (s *UserService) mapNotFound(err error) error {
	if errors.Is(err, sqlstore.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
